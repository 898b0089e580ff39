package api

import (
	"errors"
	"net/http"
	"strconv"

	"stars_raffle_bot/internal/middleware"
	"stars_raffle_bot/internal/service"
	"stars_raffle_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

const defaultDrawHistoryLimit = 20

type raffleRoutes struct {
	ledger service.LedgerServiceI
	raffle service.RaffleServiceI
}

func NewRaffleRoutes(handler *gin.RouterGroup, ledger service.LedgerServiceI, raffle service.RaffleServiceI, a *middleware.Authorization) {
	r := &raffleRoutes{ledger: ledger, raffle: raffle}

	h := handler.Group("/raffle")
	h.Use(a.AdminOnly())
	{
		h.GET("/stats", r.GetStats)
		h.POST("/draw", r.DrawWinner)
		h.GET("/draws", r.ListDraws)
		h.GET("/ws", r.StatsFeed)
	}
}

func (r *raffleRoutes) GetStats(c *gin.Context) {
	log := logger.Logger()

	stats, err := r.ledger.GetStats(c.Request.Context())
	if err != nil {
		log.Error("failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_users":     stats.TotalUsers,
		"paid_users":      stats.PaidUsers,
		"total_wishes":    stats.TotalWishes,
		"total_completed": stats.TotalCompleted,
		"total_stars":     stats.TotalStars,
		"total_tickets":   stats.TotalTickets,
	})
}

func (r *raffleRoutes) DrawWinner(c *gin.Context) {
	log := logger.Logger()

	result, err := r.raffle.DrawWinner(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoParticipants) {
			c.JSON(http.StatusConflict, gin.H{"error": "no eligible participants"})
			return
		}
		log.Error("failed to draw winner", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to draw winner"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draw_id":       result.ID,
		"winner_id":     result.WinnerID,
		"username":      result.Username,
		"tickets":       result.Tickets,
		"total_tickets": result.TotalTickets,
		"participants":  result.Participants,
		"created_at":    result.CreatedAt,
	})
}

func (r *raffleRoutes) ListDraws(c *gin.Context) {
	log := logger.Logger()

	limit := defaultDrawHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	draws, err := r.raffle.ListDraws(c.Request.Context(), limit)
	if err != nil {
		log.Error("failed to list draws", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list draws"})
		return
	}

	out := make([]gin.H, len(draws))
	for i, draw := range draws {
		out[i] = gin.H{
			"draw_id":       draw.ID,
			"winner_id":     draw.WinnerID,
			"username":      draw.Username,
			"total_tickets": draw.TotalTickets,
			"participants":  draw.Participants,
			"created_at":    draw.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}
