package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/jobnest/backend/config"
	"github.com/jobnest/backend/internal/api/handlers"
	"github.com/jobnest/backend/internal/api/middleware"
	"github.com/jobnest/backend/internal/api/routes"
	"github.com/jobnest/backend/internal/cache"
	"github.com/jobnest/backend/internal/chat"
	"github.com/jobnest/backend/internal/logger"
	"github.com/jobnest/backend/internal/mailer"
	pgrepo "github.com/jobnest/backend/internal/repositories/postgres"
	"github.com/jobnest/backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")

	// Init Redis
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	db := config.PostgresDB
	rdb := config.RedisClient

	// Repositories
	userRepo := pgrepo.NewUserRepo(db)
	jobRepo := pgrepo.NewJobRepo(db)
	cvRepo := pgrepo.NewCVRepo(db)
	resumeRepo := pgrepo.NewResumeRepo(db)
	appRepo := pgrepo.NewApplicationRepo(db)
	interviewRepo := pgrepo.NewInterviewRepo(db)
	convoRepo := pgrepo.NewConversationRepo(db)
	notifRepo := pgrepo.NewNotificationRepo(db)

	// Services
	notifSvc := services.NewNotificationService(notifRepo, cache.NewRedisCache(rdb))
	userSvc := services.NewUserService(userRepo)
	jobSvc := services.NewJobService(jobRepo)
	resumeSvc := services.NewResumeService(resumeRepo, cvRepo)
	appSvc := services.NewApplicationService(appRepo, jobRepo, cvRepo, userRepo, notifSvc)
	interviewSvc := services.NewInterviewService(interviewRepo, appRepo, jobRepo, cvRepo, userRepo, meetBaseURL())
	convoSvc := services.NewConversationService(convoRepo, userRepo)

	hub := chat.NewHub(convoSvc, notifSvc, log)
	mail := mailer.New(log)

	// Handlers
	d := routes.Deps{
		Job:          handlers.NewJobHandler(jobSvc),
		Resume:       handlers.NewResumeHandler(resumeSvc),
		Application:  handlers.NewApplicationHandler(appSvc),
		Interview:    handlers.NewInterviewHandler(interviewSvc, mail, log),
		Conversation: handlers.NewConversationHandler(convoSvc, notifSvc, userSvc, log),
		Notification: handlers.NewNotificationHandler(notifSvc),
		WS:           handlers.NewWSHandler(hub, log),
	}

	// Start Gin server
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())
	routes.RegisterRoutes(r, d)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func meetBaseURL() string {
	if v := os.Getenv("MEET_BASE_URL"); v != "" {
		return v
	}
	return "https://meet.jit.si"
}
