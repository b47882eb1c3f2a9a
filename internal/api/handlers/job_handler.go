package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobnest/backend/internal/models"
	"github.com/jobnest/backend/internal/services"
	"github.com/jobnest/backend/internal/utils"
)

type JobHandler struct {
	svc services.JobService
}

func NewJobHandler(svc services.JobService) *JobHandler {
	return &JobHandler{svc: svc}
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.svc.Get(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// List serves the public job board. Only POSTED jobs are returned; an
// unknown employment_type filter is a 400, not a silently dropped filter.
func (h *JobHandler) List(c *gin.Context) {
	f := models.JobFilter{
		Keyword:      c.Query("keyword"),
		Location:     c.Query("location"),
		Category:     c.Query("category"),
		CompanyID:    c.Query("company_id"),
		ExcludeJobID: c.Query("exclude_job"),
		Status:       models.JobPosted,
	}

	if s := c.Query("employment_type"); s != "" {
		et, ok := models.ParseEmploymentType(s)
		if !ok {
			writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.List", "employment_type must be FULLTIME or PARTTIME", nil))
			return
		}
		f.EmploymentType = et
	}

	if s := c.Query("min_salary"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.MinSalary = &v
		}
	}
	if s := c.Query("max_salary"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.MaxSalary = &v
		}
	}

	f.Page, f.PerPage = pageParams(c, 10)

	rows, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":     rows,
		"total":    total,
		"page":     f.Page,
		"per_page": f.PerPage,
	})
}
