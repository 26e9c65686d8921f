package router

import (
	"net/http"
	"time"

	"digit-recall/internal/config"
	"digit-recall/internal/game"
	"digit-recall/internal/handlers"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.JSON(429, gin.H{"error": "Too many requests. Try again later."})
}

func Setup(log *zap.Logger, registry *game.Registry, store game.StatsStore) *gin.Engine {
	// Set up a new Gin router, add recovery middleware and request logging.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	sessionStore := cookie.NewStore([]byte(config.Conf.Session.Secret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * config.Conf.Session.MaxAgeDays,
	})
	router.Use(sessions.Sessions("gamesession", sessionStore))

	// --- Now that sessions are initialized, other middleware can use them ---
	router.Use(CSRFProtection())
	router.Use(UserLoaderMiddleware(log))

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' https://cdn.jsdelivr.net",
	})
	router.Use(func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			c.Abort()
			return
		}
	})

	// The browser shell is plain static files; all game state lives behind
	// the JSON endpoints below.
	router.Static("/assets", config.Conf.Server.AssetsDir)
	router.StaticFile("/", config.Conf.Server.AssetsDir+"/index.html")

	// Handlers and routes
	authHandler := handlers.NewAuthHandler(log, registry)
	gameHandler := handlers.NewGameHandler(log, registry)
	rankingHandler := handlers.NewRankingHandler(log, store)
	resultsHandler := handlers.NewResultsHandler(log, registry)

	rateLimitStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 5,
	})
	limiter := ratelimit.RateLimiter(rateLimitStore, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      keyFunc,
	})

	router.GET("/csrf", CSRFToken)
	router.POST("/register", limiter, authHandler.Register)
	router.POST("/login", limiter, authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	authorized := router.Group("/")
	authorized.Use(AuthRequired())
	{
		gameRoutes := authorized.Group("/game")
		{
			gameRoutes.POST("/start", gameHandler.Start)
			gameRoutes.POST("/submit", gameHandler.Submit)
			gameRoutes.POST("/difficulty", gameHandler.Difficulty)
			gameRoutes.GET("/stats", gameHandler.Stats)
		}

		authorized.GET("/ranking", rankingHandler.Show)
		authorized.GET("/results/chart", resultsHandler.Chart)
	}

	return router
}
