package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/controllers"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/middlewares"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/realtime"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/services"
)

// Deps are the shared components the route handlers need.
type Deps struct {
	DB         *gorm.DB
	Hub        *realtime.Hub
	Store      *services.NotificationStore
	Reads      *services.ReadStateTracker
	Gate       *services.PreferenceGate
	Dispatcher *services.PushDispatcher
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	userCtrl := controllers.NewUserController(deps.DB)
	notifCtrl := controllers.NewNotificationController(deps.Store, deps.Reads, deps.Dispatcher)
	deviceCtrl := controllers.NewDeviceController(deps.DB)
	prefCtrl := controllers.NewPreferenceController(deps.DB, deps.Gate)
	realtimeCtrl := controllers.NewRealtimeController(deps.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Login/register behind the strict limiter
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// NOTIFICATIONS (badge + notifications screen + event producers)
	auth.GET("/notifications", notifCtrl.GetNotifications)
	auth.GET("/notifications/unread-count", notifCtrl.GetUnreadCount)
	auth.POST("/notifications", notifCtrl.CreateNotification)
	auth.POST("/notifications/:notif_id/read", notifCtrl.MarkRead)
	auth.POST("/notifications/clear", notifCtrl.ClearAll)

	// DEVICES (app startup)
	auth.POST("/devices", deviceCtrl.RegisterDevice)
	auth.DELETE("/devices/:device_id", deviceCtrl.DeleteDevice)

	// PREFERENCES (settings screen)
	auth.GET("/preferences", prefCtrl.GetPreferences)
	auth.PATCH("/preferences", prefCtrl.UpdatePreferences)

	// Realtime feed; browsers pass the token as a query param
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/notifications", realtimeCtrl.NotificationStream)
	}

	return r
}
