package handlers

import (
	"net/http"

	"digit-recall/internal/game"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rankingSize matches the original game's top-10 leaderboard modal.
const rankingSize = 10

type RankingHandler struct {
	log   *zap.Logger
	store game.StatsStore
}

func NewRankingHandler(log *zap.Logger, store game.StatsStore) *RankingHandler {
	return &RankingHandler{log: log, store: store}
}

// Show returns the top accumulated scores, descending.
func (h *RankingHandler) Show(c *gin.Context) {
	entries, err := h.store.TopN(c.Request.Context(), rankingSize)
	if err != nil {
		h.log.Error("Failed to load ranking", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ranking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": entries})
}
