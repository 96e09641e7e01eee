package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/models"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

type DeviceController struct {
	DB *gorm.DB
}

func NewDeviceController(db *gorm.DB) *DeviceController {
	return &DeviceController{DB: db}
}

// RegisterDevice -> called on app startup. Re-registering a token reactivates
// it and reassigns it to the calling user.
func (dc *DeviceController) RegisterDevice(c *gin.Context) {
	userID := c.GetUint("user_id")

	type reqBody struct {
		Platform string `json:"platform" binding:"required"`
		Token    string `json:"token" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Platform != models.PlatformMobilePush && body.Platform != models.PlatformWebPush {
		utils.RespondError(c, http.StatusBadRequest, errors.New("unknown platform"))
		return
	}

	target := models.DevicePushTarget{
		UserID:   userID,
		Platform: body.Platform,
		Token:    body.Token,
		IsActive: true,
	}
	err := dc.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"user_id": userID, "platform": body.Platform, "is_active": true}),
	}).Create(&target).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Device registered: user=%d platform=%s", userID, body.Platform)
	utils.RespondJSON(c, http.StatusCreated, "Device registered", gin.H{"device_id": target.ID})
}

// DeleteDevice -> removes one of the caller's registered devices
func (dc *DeviceController) DeleteDevice(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.Atoi(c.Param("device_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid device id"))
		return
	}

	res := dc.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.DevicePushTarget{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("device not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Device deleted", gin.H{"device_id": id})
}
