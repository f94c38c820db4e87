package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"applytrack/internal/app"
	"applytrack/internal/filter"
	"applytrack/internal/transport/http/middleware"
	"applytrack/internal/transport/http/response"
)

type JobHandler struct {
	jobService *app.JobService
}

type CreateJobRequest struct {
	JobTitle    string `json:"job_title" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	URL         string `json:"url"`
	Location    string `json:"location"`
	DateApplied string `json:"date_applied"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
}

// UpdateJobRequest mirrors CreateJobRequest with every field optional.
// Omitted fields keep their stored value; optional fields sent as "" are
// cleared to null.
type UpdateJobRequest struct {
	JobTitle    *string `json:"job_title"`
	CompanyName *string `json:"company_name"`
	URL         *string `json:"url"`
	Location    *string `json:"location"`
	DateApplied *string `json:"date_applied"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

func NewJobHandler(jobService *app.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

func (h *JobHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	criteria := filter.Criteria{
		Query:   c.Query("search"),
		Status:  c.Query("status"),
		Recency: c.Query("applied_within"),
	}

	jobs, err := h.jobService.List(c.Request.Context(), userID, criteria)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list job applications failed")
		return
	}
	response.OK(c, jobs)
}

func (h *JobHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "job_title and company_name are required")
		return
	}

	job, err := h.jobService.Create(c.Request.Context(), app.CreateJobInput{
		UserID:      userID,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
		URL:         req.URL,
		Location:    req.Location,
		DateApplied: req.DateApplied,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeJobError(c, err, "create job application failed")
		return
	}
	response.OK(c, job)
}

func (h *JobHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	jobID, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "job application not found")
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), app.UpdateJobInput{
		UserID:      userID,
		JobID:       jobID,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
		URL:         req.URL,
		Location:    req.Location,
		DateApplied: req.DateApplied,
		Status:      req.Status,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeJobError(c, err, "update job application failed")
		return
	}
	response.OK(c, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	jobID, err := parseIDParam(c)
	if err != nil {
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "job application not found")
		return
	}

	if err := h.jobService.Delete(c.Request.Context(), userID, jobID); err != nil {
		h.writeJobError(c, err, "delete job application failed")
		return
	}
	response.OK(c, gin.H{"deleted": true})
}

func (h *JobHandler) Activity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "user not found in token")
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.jobService.Activity(userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list activity failed")
		return
	}
	response.OK(c, events)
}

func (h *JobHandler) writeJobError(c *gin.Context, err error, internalMessage string) {
	switch {
	case errors.Is(err, app.ErrJobNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, app.ErrStatusUnknown),
		errors.Is(err, app.ErrDateFormat):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, internalMessage)
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
