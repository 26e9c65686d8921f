package handlers

import (
	"fmt"
	"net/http"

	"digit-recall/internal/game"
	"digit-recall/internal/repository"
	"digit-recall/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	log      *zap.Logger
	registry *game.Registry
}

func NewAuthHandler(log *zap.Logger, registry *game.Registry) *AuthHandler {
	return &AuthHandler{log: log, registry: registry}
}

func (h *AuthHandler) Register(c *gin.Context) {
	account := c.PostForm("account")
	displayName := c.PostForm("display_name")
	password := c.PostForm("password")

	if !utils.IsValidAccount(account) || !utils.IsValidAccount(displayName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account and display name must not be empty"})
		return
	}
	if !utils.IsValidPassword(password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	// Both names are checked up front so the player gets a specific
	// message instead of a bare constraint violation.
	if taken, err := repository.DisplayNameExists(c.Request.Context(), displayName); err != nil {
		h.log.Error("Failed to check display name", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "That display name is already registered"})
		return
	}
	if taken, err := repository.AccountExists(c.Request.Context(), account); err != nil {
		h.log.Error("Failed to check account", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	} else if taken {
		c.JSON(http.StatusConflict, gin.H{"error": "That account is already registered"})
		return
	}

	user, err := repository.CreateUser(c.Request.Context(), account, displayName, password)
	if err != nil {
		h.log.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	// Registration signs the player in, like the original game.
	h.openSession(c, user.ID, user.DisplayName)
}

func (h *AuthHandler) Login(c *gin.Context) {
	account := c.PostForm("account")
	password := c.PostForm("password")

	user, err := repository.GetUserByAccount(c.Request.Context(), account)
	if err != nil || !user.CheckPassword(password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid account or password"})
		return
	}

	h.openSession(c, user.ID, user.DisplayName)
}

// openSession stores the user id in the cookie session and attaches a
// hydrated game session, so the stats on screen are the durable ones and
// never a stale default.
func (h *AuthHandler) openSession(c *gin.Context, userID uint, displayName string) {
	session := sessions.Default(c)
	session.Set("userID", userID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	identity := game.Identity{AccountID: fmt.Sprint(userID), DisplayName: displayName}
	sess, err := h.registry.Attach(c.Request.Context(), identity)
	if err != nil {
		h.log.Error("Failed to hydrate game session", zap.Error(err), zap.Uint("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load game data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"displayName": displayName,
		"stats":       sess.Stats(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if userID, ok := session.Get("userID").(uint); ok {
		h.registry.Detach(fmt.Sprint(userID))
	}

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}
	c.Status(http.StatusOK)
}
