package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/services"
	"github.com/jobnest/backend/internal/utils"
	"gorm.io/datatypes"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	r, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

type UpdateResumeRequest struct {
	Skills      *[]string        `json:"skills,omitempty"`
	LinkedinURL *string          `json:"linkedin_url,omitempty"`
	Experience  *json.RawMessage `json:"experience,omitempty"`
	Education   *json.RawMessage `json:"education,omitempty"`
	Preferences *json.RawMessage `json:"preferences,omitempty"`
}

func (h *ResumeHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req UpdateResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Update", "invalid request body", err))
		return
	}

	// Load existing (if not found => create new)
	existing, err := h.svc.GetMe(c.Request.Context(), userID)
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			existing = &models.Resume{ID: uuid.NewString(), UserID: userID}
		} else {
			writeError(c, err)
			return
		}
	}

	if req.Skills != nil {
		existing.Skills = *req.Skills
	}
	if req.LinkedinURL != nil {
		existing.LinkedinURL = *req.LinkedinURL
	}
	if req.Experience != nil {
		existing.Experience = datatypes.JSON(*req.Experience)
	}
	if req.Education != nil {
		existing.Education = datatypes.JSON(*req.Education)
	}
	if req.Preferences != nil {
		existing.Preferences = datatypes.JSON(*req.Preferences)
	}

	existing.UpdatedAt = time.Now().UTC()

	if err := h.svc.Upsert(c.Request.Context(), existing); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, existing)
}

func (h *ResumeHandler) ListCVs(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.svc.ListCVs(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cvs": rows})
}
