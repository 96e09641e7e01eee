package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/services"
	"github.com/HigorVibeCode/NewCreaGlass-sub001/utils"
)

type NotificationController struct {
	Store      *services.NotificationStore
	Reads      *services.ReadStateTracker
	Dispatcher *services.PushDispatcher
}

func NewNotificationController(store *services.NotificationStore, reads *services.ReadStateTracker, dispatcher *services.PushDispatcher) *NotificationController {
	return &NotificationController{Store: store, Reads: reads, Dispatcher: dispatcher}
}

// GetNotifications -> the caller's visible notifications, newest first
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	userID := c.GetUint("user_id")
	notifs, err := nc.Store.ListVisibleFor(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Visible notifications", notifs)
}

// GetUnreadCount -> badge counter
func (nc *NotificationController) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint("user_id")
	count, err := nc.Reads.UnreadCount(userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread count", gin.H{"unread": count})
}

// CreateNotification -> entry point for the business event producers.
// Creation is the durable step; push fan-out runs afterwards on its own
// goroutine and can never fail the request.
func (nc *NotificationController) CreateNotification(c *gin.Context) {
	type reqBody struct {
		Type         string                 `json:"type" binding:"required"`
		Payload      map[string]interface{} `json:"payload"`
		TargetUserID *uint                  `json:"target_user_id"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	notif, err := nc.Store.Create(body.Type, body.Payload, body.TargetUserID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Notification created: id=%d type=%s", notif.ID, notif.Type)

	if nc.Dispatcher != nil {
		go nc.Dispatcher.Dispatch(notif.ID)
	}

	utils.RespondJSON(c, http.StatusCreated, "Notification created", notif)
}

// MarkRead -> stamps the caller's read state for one notification
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, err := strconv.Atoi(c.Param("notif_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid notification id"))
		return
	}

	if err := nc.Reads.MarkRead(uint(id), userID); err != nil {
		if errors.Is(err, services.ErrNotFoundOrForbidden) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", gin.H{"notif_id": id})
}

// ClearAll -> hides everything currently visible to the caller
func (nc *NotificationController) ClearAll(c *gin.Context) {
	userID := c.GetUint("user_id")
	if err := nc.Reads.ClearAll(userID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications cleared", nil)
}
