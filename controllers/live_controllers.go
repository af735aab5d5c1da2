package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/seatserve/seatserve-backend/live"
	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/services"
	"github.com/seatserve/seatserve-backend/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type LiveController struct {
	Plans *services.PlanService
}

func NewLiveController(plans *services.PlanService) *LiveController {
	return &LiveController{Plans: plans}
}

// Dashboard -> upgrade to a websocket feed of order and payment events.
// Available only on plans carrying the live_dashboard feature.
func (lc *LiveController) Dashboard(c *gin.Context) {
	restaurant := middlewares.CurrentRestaurant(c)

	if !lc.Plans.HasFeature(restaurant.ID, "live_dashboard") {
		utils.RespondError(c, http.StatusForbidden, errors.New("live dashboard is not included in your plan"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}

	live.RegisterClient(conn, restaurant.ID)
	utils.InfoLogger.Printf("Dashboard client connected (restaurant=%d)", restaurant.ID)

	// Drain reads until the client goes away; writes happen via the hub.
	go func() {
		defer live.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
