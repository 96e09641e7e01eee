package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/services"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

type PreferenceController struct {
	DB   *gorm.DB
	Gate *services.PreferenceGate
}

func NewPreferenceController(db *gorm.DB, gate *services.PreferenceGate) *PreferenceController {
	return &PreferenceController{DB: db, Gate: gate}
}

// GetPreferences -> the caller's push preferences, created lazily
func (pc *PreferenceController) GetPreferences(c *gin.Context) {
	userID := c.GetUint("user_id")
	prefs, err := pc.Gate.GetOrCreateDefault(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification preferences", prefs)
}

// UpdatePreferences -> partial update from the settings screen
func (pc *PreferenceController) UpdatePreferences(c *gin.Context) {
	userID := c.GetUint("user_id")

	type reqBody struct {
		PushEnabled       *bool `json:"push_enabled"`
		InventoryEnabled  *bool `json:"inventory_enabled"`
		WorkOrdersEnabled *bool `json:"work_orders_enabled"`
		ProductionEnabled *bool `json:"production_enabled"`
		EventsEnabled     *bool `json:"events_enabled"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	prefs, err := pc.Gate.GetOrCreateDefault(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	updates := map[string]interface{}{}
	if body.PushEnabled != nil {
		updates["push_enabled"] = *body.PushEnabled
	}
	if body.InventoryEnabled != nil {
		updates["inventory_enabled"] = *body.InventoryEnabled
	}
	if body.WorkOrdersEnabled != nil {
		updates["work_orders_enabled"] = *body.WorkOrdersEnabled
	}
	if body.ProductionEnabled != nil {
		updates["production_enabled"] = *body.ProductionEnabled
	}
	if body.EventsEnabled != nil {
		updates["events_enabled"] = *body.EventsEnabled
	}

	if len(updates) > 0 {
		if err := pc.DB.Model(prefs).Updates(updates).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Preferences updated", prefs)
}
