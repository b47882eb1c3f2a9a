package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/jobnest/backend/internal/api/handlers"
	"github.com/jobnest/backend/internal/api/middleware"
)

type Deps struct {
	Job          *handlers.JobHandler
	Resume       *handlers.ResumeHandler
	Application  *handlers.ApplicationHandler
	Interview    *handlers.InterviewHandler
	Conversation *handlers.ConversationHandler
	Notification *handlers.NotificationHandler
	WS           *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Public job board
	r.GET("/jobs", d.Job.List)
	r.GET("/jobs/:job_id", d.Job.Get)

	// Protected routes (JWT)
	auth := r.Group("/")
	auth.Use(middleware.JWTAuth())

	auth.GET("/resume/me", d.Resume.Me)
	auth.PUT("/resume/update", d.Resume.Update)
	auth.GET("/resume/cvs", d.Resume.ListCVs)

	auth.POST("/jobs/:job_id/apply", d.Application.Apply)
	auth.GET("/applications", d.Application.List)
	auth.DELETE("/applications/:application_id", d.Application.Withdraw)

	recruiter := auth.Group("/")
	recruiter.Use(middleware.RequireRole("recruiter"))
	recruiter.PUT("/applications/:application_id/verify", d.Application.Verify)
	recruiter.POST("/applications/:application_id/interview", d.Interview.CreateLink)
	recruiter.GET("/interviews", d.Interview.ListForCompany)

	auth.POST("/conversations", d.Conversation.Start)
	auth.GET("/conversations", d.Conversation.List)
	auth.GET("/conversations/:conversation_id/messages", d.Conversation.History)

	auth.GET("/notifications", d.Notification.List)
	auth.GET("/notifications/unread-count", d.Notification.UnreadCount)
	auth.PUT("/notifications/:notification_id/read", d.Notification.MarkRead)
	auth.PUT("/notifications/read-all", d.Notification.MarkAllRead)
	auth.DELETE("/notifications/:notification_id", d.Notification.Delete)
	auth.DELETE("/notifications", d.Notification.DeleteAll)

	// WebSocket
	auth.GET("/ws/conversations/:conversation_id", d.WS.ConversationWS)
}
