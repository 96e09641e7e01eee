package database

import (
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

// ExecuteTriggers installs the db_changes feed triggers. The SQL file uses
// DELIMITER blocks for the mysql client, which the driver does not understand,
// so the statements are split here.
func ExecuteTriggers(db *gorm.DB) error {
	triggerSQL, err := os.ReadFile("database/migrations/triggers.sql")
	if err != nil {
		return err
	}

	statements := strings.Split(string(triggerSQL), "DELIMITER")

	for _, block := range statements {
		if strings.TrimSpace(block) == "" {
			continue
		}

		for _, stmt := range strings.Split(block, "//") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || stmt == ";" {
				continue
			}

			if err := db.Exec(stmt).Error; err != nil {
				utils.ErrorLogger.Printf("Error executing trigger: %v\nStatement: %s", err, stmt)
				continue
			}
		}
	}

	utils.InfoLogger.Println("Change feed triggers installed")
	return nil
}
