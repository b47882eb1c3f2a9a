package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/services"
	"github.com/jobnest/backend/internal/utils"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

type ApplyRequest struct {
	CVID        string `json:"cv_id" binding:"required"`
	CoverLetter string `json:"cover_letter" binding:"required"`
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Apply", "cv_id and cover_letter are required", err))
		return
	}

	app, err := h.svc.Submit(c.Request.Context(), userID, c.Param("job_id"), req.CVID, req.CoverLetter)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

type VerifyRequest struct {
	Action   string `json:"action" binding:"required"` // Confirm | Reject | Accept
	Feedback string `json:"feedback"`
}

func (h *ApplicationHandler) Verify(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Verify", "action is required", err))
		return
	}

	action, ok := models.ParseApplicationAction(req.Action)
	if !ok {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Verify", "action must be Confirm, Reject, or Accept", nil))
		return
	}

	app, err := h.svc.Transition(c.Request.Context(), userID, c.Param("application_id"), action, req.Feedback)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Withdraw(c.Request.Context(), userID, c.Param("application_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "application withdrawn"})
}

func (h *ApplicationHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var status models.ApplicationStatus
	if s := c.Query("status"); s != "" && s != "All" {
		status = models.ApplicationStatus(s)
	}
	page, perPage := pageParams(c, 10)

	var (
		rows  []models.Application
		total int64
		err   error
	)
	if ctxString(c, "role") == string(models.RoleRecruiter) {
		rows, total, err = h.svc.ListForCompany(c.Request.Context(), userID, status, page, perPage)
	} else {
		rows, total, err = h.svc.ListForCandidate(c.Request.Context(), userID, status, page, perPage)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": rows,
		"total":        total,
		"page":         page,
		"per_page":     perPage,
	})
}
