package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"digit-recall/internal/game"
	"digit-recall/internal/models"
	"digit-recall/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GameHandler struct {
	log      *zap.Logger
	registry *game.Registry
}

func NewGameHandler(log *zap.Logger, registry *game.Registry) *GameHandler {
	return &GameHandler{log: log, registry: registry}
}

// gameAccountID maps a user row onto the opaque account id the game core
// keys sessions and stats by.
func gameAccountID(user *models.User) string {
	return fmt.Sprint(user.ID)
}

// attachSession resolves the caller's game session from the authenticated
// user. AuthRequired guarantees the user is present; the registry
// re-attaches when the janitor reaped the session in between requests.
func attachSession(c *gin.Context, log *zap.Logger, registry *game.Registry) (*game.Session, bool) {
	user := c.MustGet("user").(*models.User)
	identity := game.Identity{AccountID: gameAccountID(user), DisplayName: user.DisplayName}
	sess, err := registry.Attach(c.Request.Context(), identity)
	if err != nil {
		log.Error("Failed to attach game session", zap.Error(err), zap.Uint("userID", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game data"})
		return nil, false
	}
	return sess, true
}

func (h *GameHandler) session(c *gin.Context) (*game.Session, bool) {
	return attachSession(c, h.log, h.registry)
}

// Start begins a round: POST /game/start with difficulty=easy|medium|hard|hell.
// The response carries the target for the presentation layer to display
// during the memorize phase.
func (h *GameHandler) Start(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	tier, err := game.ParseTier(c.PostForm("difficulty"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ev, err := sess.Start(tier)
	if err != nil {
		respondRoundError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

// Submit scores a guess: POST /game/submit with guess=<digits>.
func (h *GameHandler) Submit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	res, stats, err := sess.Submit(c.Request.Context(), c.PostForm("guess"))
	if err != nil && !errors.Is(err, game.ErrPersistenceFailed) {
		respondRoundError(c, err)
		return
	}

	// The round stands even when the stats write failed; the session cache
	// carries the score forward and the next write resends the snapshot.
	if errors.Is(err, game.ErrPersistenceFailed) {
		h.log.Warn("Round completed but stats write failed",
			zap.String("accountId", sess.Identity().AccountID),
			zap.Error(err),
		)
	} else if err := repository.SaveRoundRecord(c.Request.Context(), sess.StatsRecordID(), res.Target, res.Guess, res.Outcome); err != nil {
		h.log.Warn("Failed to save round record", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome": res.Outcome,
		"stats":   stats,
	})
}

// Difficulty changes the tier between rounds: POST /game/difficulty.
// Mid-round changes are rejected so the client can warn and restore the
// previous selection.
func (h *GameHandler) Difficulty(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	tier, err := game.ParseTier(c.PostForm("difficulty"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sess.SetTier(tier); err != nil {
		respondRoundError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"difficulty": string(tier),
		"digits":     tier.Length(),
	})
}

// Stats returns the session's cumulative stats for the header display.
func (h *GameHandler) Stats(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Stats())
}

// respondRoundError maps the round lifecycle errors onto HTTP statuses.
// All of them are recoverable on the client.
func respondRoundError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrInvalidGuessFormat):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrRoundAlreadyActive),
		errors.Is(err, game.ErrRoundInProgress),
		errors.Is(err, game.ErrNotYetRevealed),
		errors.Is(err, game.ErrNoActiveRound):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
