package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/randyf333/SylliAI/internal/ai"
	appsvc "github.com/randyf333/SylliAI/internal/app"
	"github.com/randyf333/SylliAI/internal/bootstrap"
	"github.com/randyf333/SylliAI/internal/platform/rabbitmq"
	"github.com/randyf333/SylliAI/internal/repository"
	"github.com/randyf333/SylliAI/internal/transport/http/handler"
	"github.com/randyf333/SylliAI/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.MaxMultipartMemory = int64(app.Config.Upload.MaxSizeMB) << 20

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.StaticFile("/login", "web/login.html")
	router.StaticFile("/signup", "web/signup.html")
	router.StaticFile("/dashboard", "web/dashboard.html")
	router.StaticFile("/upload", "web/upload.html")
	router.StaticFile("/chat", "web/chat.html")
	router.StaticFile("/settings", "web/settings.html")
	router.StaticFile("/style.css", "web/style.css")
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.Postgres)
	syllabusRepo := repository.NewSyllabusRepository(app.Postgres)
	documentRepo := repository.NewDocumentRepository(app.Postgres)
	chatLogRepo := repository.NewChatLogRepository(app.Postgres)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Sessions,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.AccessExpireMinute)*time.Minute,
		time.Duration(app.Config.Auth.RefreshExpireHour)*time.Hour,
	)
	syllabusService := appsvc.NewSyllabusService(syllabusRepo, documentRepo, app.Uploads)

	generator := ai.NewClient(ai.ChatConfig{
		BaseURL:        app.Config.LLM.BaseURL,
		APIKey:         app.Config.LLM.APIKey,
		Model:          app.Config.LLM.Model,
		RequestTimeout: time.Duration(app.Config.LLM.RequestTimeoutSeconds) * time.Second,
	})
	publisher := rabbitmq.NewChatLogPublisher(app.MQConn, app.Config.RabbitMQ.ChatLogQueue)
	chatService := appsvc.NewChatService(syllabusRepo, chatLogRepo, generator, publisher, app.Config.LLM.MaxContextChars)

	sessionTTL := time.Duration(app.Config.Auth.SessionTTLHour) * time.Hour
	authHandler := handler.NewAuthHandler(authService, int(sessionTTL.Seconds()), app.Config.Auth.SessionCookieSecure)
	syllabusHandler := handler.NewSyllabusHandler(syllabusService)
	documentHandler := handler.NewDocumentHandler(syllabusService)
	chatHandler := handler.NewChatHandler(chatService)

	guard := middleware.SessionGuard(app.Sessions, app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.LogIn)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", guard, authHandler.LogOut)
	authGroup.GET("/me", guard, authHandler.Me)
	authGroup.POST("/me", guard, authHandler.UpdateProfile)

	syllabi := v1.Group("/syllabi", guard)
	syllabi.GET("", syllabusHandler.List)
	syllabi.POST("", syllabusHandler.Create)
	syllabi.GET("/:id", syllabusHandler.Get)
	syllabi.DELETE("/:id", syllabusHandler.Delete)
	syllabi.GET("/:id/file", syllabusHandler.File)
	syllabi.POST("/:id/question", syllabusHandler.Question)
	syllabi.POST("/:id/chat", chatHandler.AskSyllabus)
	syllabi.POST("/:id/documents", documentHandler.Create)

	documents := v1.Group("/documents", guard)
	documents.GET("/:id", documentHandler.Get)
	documents.DELETE("/:id", documentHandler.Delete)

	chatGroup := v1.Group("/chat", guard)
	chatGroup.POST("", chatHandler.Ask)
	chatGroup.POST("/stream", chatHandler.Stream)
	chatGroup.GET("/logs", chatHandler.Logs)

	return router
}
