package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/services"
	"github.com/jobnest/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

type ConversationHandler struct {
	svc    services.ConversationService
	notifs services.NotificationService
	users  services.UserService
	log    *logrus.Logger
}

func NewConversationHandler(svc services.ConversationService, notifs services.NotificationService, users services.UserService, log *logrus.Logger) *ConversationHandler {
	return &ConversationHandler{svc: svc, notifs: notifs, users: users, log: log}
}

type StartConversationRequest struct {
	PeerID string `json:"peer_id" binding:"required"`
}

// Start opens (or returns) the conversation between the caller and peer.
// When a recruiter initiates a brand-new conversation, the peer gets a
// best-effort notification.
func (h *ConversationHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ConversationHandler.Start", "peer_id is required", err))
		return
	}

	conv, created, err := h.svc.GetOrCreate(c.Request.Context(), userID, req.PeerID)
	if err != nil {
		writeError(c, err)
		return
	}

	if created && ctxString(c, "role") == string(models.RoleRecruiter) {
		content := fmt.Sprintf("Recruiter '%s' has started a conversation with you.", ctxString(c, "username"))
		if company, cerr := h.users.CompanyOf(c.Request.Context(), userID); cerr == nil {
			content = fmt.Sprintf("Recruiter '%s' from '%s' has started a conversation with you.", ctxString(c, "username"), company.CompanyName)
		}
		if _, nerr := h.notifs.Notify(c.Request.Context(), req.PeerID, content); nerr != nil {
			h.log.WithError(nerr).WithField("user_id", req.PeerID).Warn("conversation: failed to notify peer")
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, conv)
}

func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": rows})
}

func (h *ConversationHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit := 100
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := h.svc.History(c.Request.Context(), userID, c.Param("conversation_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": c.Param("conversation_id"),
		"messages":        rows,
	})
}
