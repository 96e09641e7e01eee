package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/HigorVibeCode/NewCreaGlass-sub001/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type RealtimeController struct {
	Hub *realtime.Hub
}

func NewRealtimeController(hub *realtime.Hub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

// NotificationStream -> websocket endpoint for the session's realtime feed.
// The subscription lives exactly as long as the connection: no buffering of
// missed events, the client re-fetches on reconnect.
func (rc *RealtimeController) NotificationStream(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := realtime.NewClient(ws, userID)
	rc.Hub.Register(client)
	go client.WritePump()

	// Inbound messages are ignored; the read loop only detects disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	rc.Hub.Unregister(client)
}
