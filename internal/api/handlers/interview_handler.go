package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/backend/internal/mailer"
	"github.com/jobnest/backend/internal/services"
	"github.com/jobnest/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

type InterviewHandler struct {
	svc  services.InterviewService
	mail mailer.Mailer
	log  *logrus.Logger
}

func NewInterviewHandler(svc services.InterviewService, mail mailer.Mailer, log *logrus.Logger) *InterviewHandler {
	return &InterviewHandler{svc: svc, mail: mail, log: log}
}

type CreateLinkRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// CreateLink issues (or returns) the one interview link for an
// application. On first creation the candidate is emailed the invitation;
// the email is fire-and-forget.
func (h *InterviewHandler) CreateLink(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.CreateLink", "scheduled_at is required", err))
		return
	}

	applicationID := c.Param("application_id")
	iv, created, err := h.svc.GetOrCreateLink(c.Request.Context(), userID, applicationID, req.ScheduledAt)
	if err != nil {
		writeError(c, err)
		return
	}

	if created {
		if candidate, cerr := h.svc.Candidate(c.Request.Context(), applicationID); cerr != nil {
			h.log.WithError(cerr).WithField("application_id", applicationID).Warn("interview: could not resolve candidate for email")
		} else {
			body := fmt.Sprintf(
				"Congratulations %s, your application has been moved to the interview stage.\n"+
					"Time: %s\n"+
					"Online interview link: %s",
				candidate.Username, iv.ScheduledAt.Format(time.RFC1123), iv.URL)
			if merr := h.mail.Send(c.Request.Context(), candidate.Email, "Interview invitation", body); merr != nil {
				h.log.WithError(merr).WithField("to", candidate.Email).Warn("interview: failed to send invitation email")
			}
		}
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"link": iv.URL, "scheduled_at": iv.ScheduledAt})
}

func (h *InterviewHandler) ListForCompany(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListForCompany(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"interviews": rows})
}
