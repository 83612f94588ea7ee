package router

import (
	"edubot-backend/internal/config"
	"edubot-backend/internal/database"
	"edubot-backend/internal/handler"
	"edubot-backend/internal/llm"
	"edubot-backend/internal/middleware"
	"edubot-backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter assembles the gin engine: CORS for all routes, request logging,
// the three API endpoints and the health probe. Auth on /chat is an explicit
// per-endpoint policy from config, not an accident of which handler variant
// got copied.
func SetupRouter(cfg *config.Config, db *database.Mongo, llmClient *llm.Client) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog())
	r.Use(cors.Default())

	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit))
	}

	users := store.NewUserStore(db.DB)
	chats := store.NewChatStore(db.DB)

	authHandler := handler.NewAuthHandler(users, cfg.JWT.Secret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	chatHandler := handler.NewChatHandler(chats, llmClient)
	if cfg.Chat.RequireAuth {
		r.POST("/chat", middleware.AuthRequired(cfg.JWT.Secret), chatHandler.Chat)
	} else {
		r.POST("/chat", chatHandler.Chat)
	}

	r.GET("/healthz", handler.Health(db))

	return r
}
