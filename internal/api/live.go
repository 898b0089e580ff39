package api

import (
	"context"
	"net/http"
	"time"

	"stars_raffle_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

const statsFeedInterval = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type statsMessage struct {
	Type           string `json:"type"`
	TotalUsers     int64  `json:"total_users"`
	PaidUsers      int64  `json:"paid_users"`
	TotalWishes    int64  `json:"total_wishes"`
	TotalCompleted int64  `json:"total_completed"`
	TotalStars     int64  `json:"total_stars"`
	TotalTickets   int64  `json:"total_tickets"`
}

// StatsFeed upgrades the connection and pushes the aggregate snapshot every
// few seconds until the client goes away.
func (r *raffleRoutes) StatsFeed(c *gin.Context) {
	log := logger.Logger()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	go r.statsFeedLoop(conn)
}

func (r *raffleRoutes) statsFeedLoop(conn *websocket.Conn) {
	log := logger.Logger()
	defer conn.Close()

	ticker := time.NewTicker(statsFeedInterval)
	defer ticker.Stop()

	for {
		stats, err := r.ledger.GetStats(context.Background())
		if err != nil {
			log.Error("failed to get stats for feed", zap.Error(err))
			return
		}

		out, err := json.Marshal(statsMessage{
			Type:           "STATS_SNAPSHOT",
			TotalUsers:     stats.TotalUsers,
			PaidUsers:      stats.PaidUsers,
			TotalWishes:    stats.TotalWishes,
			TotalCompleted: stats.TotalCompleted,
			TotalStars:     stats.TotalStars,
			TotalTickets:   stats.TotalTickets,
		})
		if err != nil {
			log.Error("failed to marshal stats message", zap.Error(err))
			return
		}

		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			log.Info("stats feed client disconnected", zap.Error(err))
			return
		}

		<-ticker.C
	}
}
