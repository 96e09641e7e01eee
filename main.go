package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/config"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/database"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/push"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/realtime"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/router"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/services"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// The hide capability is probed once at startup; a schema without the
	// hidden_at column degrades clear-all to mark-all-read.
	hide := services.ProbeHideSupport(db)
	utils.InfoLogger.Printf("Clear-all strategy: %s", hide.Name())

	store := services.NewNotificationStore(db, hide)
	reads := services.NewReadStateTracker(db, hide)
	gate := services.NewPreferenceGate(db)

	// Real provider senders are wired by deployment config; the log sender
	// stands in everywhere else.
	dispatcher := services.NewPushDispatcher(db, gate,
		push.NewMobileChannel(&push.LogSender{Logger: utils.InfoLogger, Platform: models.PlatformMobilePush}),
		push.NewWebChannel(&push.LogSender{Logger: utils.InfoLogger, Platform: models.PlatformWebPush}),
	)

	hub := realtime.NewHub()

	monitor := services.NewChangeMonitor(db, hub)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	sweeper := services.NewDispatchSweeper(db, dispatcher)
	if err := sweeper.Start(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start dispatch sweeper: %v", err)
	}
	defer sweeper.Stop()

	r := router.SetupRouter(router.Deps{
		DB:         db,
		Hub:        hub,
		Store:      store,
		Reads:      reads,
		Gate:       gate,
		Dispatcher: dispatcher,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.NotificationRead{},
		&models.DevicePushTarget{},
		&models.NotificationPreferences{},
		&models.PushDeliveryLog{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}
}
