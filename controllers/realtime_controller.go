package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/jkong61/health-backend-app/middlewares"
	"github.com/jkong61/health-backend-app/services"
)

// RealtimeController upgrades authenticated requests into websocket
// subscriptions on the event hub.
type RealtimeController struct {
	hub *services.RealtimeHub
}

func NewRealtimeController(hub *services.RealtimeHub) *RealtimeController {
	return &RealtimeController{hub: hub}
}

var wsUpgrader = websocket.Upgrader{
	// TODO: restrict origins once the client domains are fixed
	CheckOrigin: func(*http.Request) bool { return true },
}

// AssignmentsWS streams assignment responses to the authenticated user until
// the client disconnects.
func (ctl *RealtimeController) AssignmentsWS(c *gin.Context) {
	user := middlewares.CurrentUser(c)

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	session := &services.RealtimeSession{UserID: user.ID, Conn: conn}
	ctl.hub.Subscribe(session)

	done := make(chan struct{})
	// Pings keep the connection alive through intermediate proxies.
	go func() {
		ticker := time.NewTicker(25 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					ctl.hub.Unsubscribe(session)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			close(done)
			ctl.hub.Unsubscribe(session)
			return
		}
	}
}
