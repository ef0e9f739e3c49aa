package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/logger"
	"github.com/stationops/airtime/internal/models"
	"github.com/stationops/airtime/internal/schedule"
)

// genericEditFailure is the only message edit submissions ever see on
// failure; the cause is logged, not disclosed.
const genericEditFailure = "there was an error"

// Request/Response DTOs

// CreateScheduleRequest represents a request to create a new schedule
type CreateScheduleRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// GenerateRequest represents a request to generate a candidate grid.
// An omitted increment falls back to the configured default.
type GenerateRequest struct {
	IncrementSeconds int   `json:"increment_seconds" binding:"omitempty,gt=0"`
	DefaultDJPK      int64 `json:"default_dj_pk,omitempty"`
	DefaultShowPK    int64 `json:"default_show_pk,omitempty"`
}

// CopyRequest represents a request to clone another schedule's spots
type CopyRequest struct {
	SourceSchedulePK int64 `json:"source_schedule_pk" binding:"required"`
}

// ScheduleResponse represents a schedule in API responses
type ScheduleResponse struct {
	ID        int64  `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SpotRecordView is a spot record plus its display label,
// e.g. "03:00PM / Weekly / Mon"
type SpotRecordView struct {
	schedule.SpotRecord
	Label string `json:"label"`
}

// SessionResponse carries a freshly filled editing session
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	Spots     []SpotRecordView `json:"spots"`
}

// toSpotViews labels each record relative to the current week
func toSpotViews(records []schedule.SpotRecord) []SpotRecordView {
	now := time.Now()
	views := make([]SpotRecordView, len(records))
	for i, record := range records {
		views[i] = SpotRecordView{SpotRecord: record, Label: schedule.Describe(record, now)}
	}
	return views
}

// PreviewResponse lists a schedule's expanded airtimes
type PreviewResponse struct {
	Airtimes []schedule.Airtime `json:"airtimes"`
}

// ScheduleHandler handles schedule-related API requests
type ScheduleHandler struct {
	service          *schedule.Service
	repos            *db.Repositories
	defaultIncrement int
}

// NewScheduleHandler creates a new schedule handler instance
func NewScheduleHandler(service *schedule.Service, repos *db.Repositories, defaultIncrement int) *ScheduleHandler {
	return &ScheduleHandler{service: service, repos: repos, defaultIncrement: defaultIncrement}
}

// toScheduleResponse converts a schedule model to API response format
func toScheduleResponse(s *models.Schedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:        s.ID,
		StartDate: s.StartDate.Format("2006-01-02"),
		EndDate:   s.EndDate.Format("2006-01-02"),
	}
}

// CreateSchedule handles POST /api/schedules
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "start_date must be YYYY-MM-DD",
		})
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "end_date must be YYYY-MM-DD",
		})
		return
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_range",
			Message: "end_date must not precede start_date",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sched := models.NewSchedule(startDate, endDate)
	if err := h.repos.Schedules.Create(ctx, sched); err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to create schedule")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create schedule",
		})
		return
	}

	logger.Log.Info().
		Int64("schedule_id", sched.ID).
		Str("range", sched.String()).
		Msg("Schedule created")

	c.JSON(http.StatusCreated, toScheduleResponse(sched))
}

// ListSchedules handles GET /api/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	schedules, err := h.repos.Schedules.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list schedules")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve schedule list",
		})
		return
	}

	responses := make([]*ScheduleResponse, len(schedules))
	for i, s := range schedules {
		responses[i] = toScheduleResponse(s)
	}

	c.JSON(http.StatusOK, gin.H{"schedules": responses})
}

// GetSchedule handles GET /api/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id, ok := h.scheduleID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sched, err := h.service.GetSchedule(ctx, id)
	if err != nil {
		h.scheduleError(c, id, err, "Failed to get schedule")
		return
	}

	c.JSON(http.StatusOK, toScheduleResponse(sched))
}

// Generate handles POST /api/schedules/:id/generate
func (h *ScheduleHandler) Generate(c *gin.Context) {
	id, ok := h.scheduleID(c)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	increment := req.IncrementSeconds
	if increment == 0 {
		increment = h.defaultIncrement
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sessionID, records, err := h.service.GenerateIntoSession(ctx, id, increment, req.DefaultDJPK, req.DefaultShowPK)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidIncrement) {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_increment",
				Message: "Increment must be within (0, 86400] seconds",
			})
			return
		}
		h.scheduleError(c, id, err, "Failed to generate schedule grid")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{SessionID: sessionID, Spots: toSpotViews(records)})
}

// Copy handles POST /api/schedules/:id/copy
func (h *ScheduleHandler) Copy(c *gin.Context) {
	id, ok := h.scheduleID(c)
	if !ok {
		return
	}

	var req CopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sessionID, records, err := h.service.CopyIntoSession(ctx, id, req.SourceSchedulePK)
	if err != nil {
		h.scheduleError(c, id, err, "Failed to copy schedule spots")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{SessionID: sessionID, Spots: toSpotViews(records)})
}

// EditExisting handles POST /api/schedules/:id/edit-existing
func (h *ScheduleHandler) EditExisting(c *gin.Context) {
	id, ok := h.scheduleID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	sessionID, records, err := h.service.EditExistingIntoSession(ctx, id)
	if err != nil {
		h.scheduleError(c, id, err, "Failed to load spots for editing")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{SessionID: sessionID, Spots: toSpotViews(records)})
}

// GetSpots handles GET /api/schedules/:id/spots?session=<key>
func (h *ScheduleHandler) GetSpots(c *gin.Context) {
	if _, ok := h.scheduleID(c); !ok {
		return
	}

	sessionKey := c.Query("session")
	if sessionKey == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_session",
			Message: "session query parameter is required",
		})
		return
	}

	records, found := h.service.BufferedRecords(sessionKey)
	if !found {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "session_not_found",
			Message: "Editing session not found or expired",
		})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{SessionID: sessionKey, Spots: toSpotViews(records)})
}

// ApplyBatch handles POST /api/schedules/:id/spots. The body is the
// form-encoded edit contract: num, offset{i}, dj_pk{i}, show_pk{i}, pk{i},
// repeat_every{i}, day_of_week{i}, deleted_spots. Whatever goes wrong, the
// caller only learns that the edit failed.
func (h *ScheduleHandler) ApplyBatch(c *gin.Context) {
	id, ok := h.scheduleID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, StatusResponse{Status: "error", Message: genericEditFailure})
		return
	}

	batch, err := schedule.ParseBatch(c.Request.PostForm)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Int64("schedule_id", id).
			Msg("Rejected malformed edit submission")
		c.JSON(http.StatusBadRequest, StatusResponse{Status: "error", Message: genericEditFailure})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	sessionKey := c.Request.PostForm.Get("session")
	if err := h.service.ApplyBatch(ctx, id, sessionKey, batch); err != nil {
		logger.Log.Warn().
			Err(err).
			Int64("schedule_id", id).
			Int("record_count", len(batch.Records)).
			Msg("Edit submission failed")
		c.JSON(http.StatusOK, StatusResponse{Status: "error", Message: genericEditFailure})
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Status:   "ok",
		Redirect: fmt.Sprintf("/api/schedules/%d/spots", id),
	})
}

// Preview handles GET /api/schedules/:id/preview?limit=N
func (h *ScheduleHandler) Preview(c *gin.Context) {
	id, ok := h.scheduleID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_limit",
				Message: "limit must be a non-negative integer",
			})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	airtimes, err := h.service.Preview(ctx, id, limit)
	if err != nil {
		h.scheduleError(c, id, err, "Failed to expand schedule preview")
		return
	}

	c.JSON(http.StatusOK, PreviewResponse{Airtimes: airtimes})
}

// scheduleID parses and validates the :id path parameter
func (h *ScheduleHandler) scheduleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid schedule ID format",
		})
		return 0, false
	}
	return id, true
}

// scheduleError maps service errors onto HTTP responses
func (h *ScheduleHandler) scheduleError(c *gin.Context, id int64, err error, msg string) {
	if errors.Is(err, schedule.ErrScheduleNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Schedule not found",
		})
		return
	}
	if schedule.IsReferenceNotFound(err) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "reference_not_found",
			Message: "Referenced DJ or show not found",
		})
		return
	}

	logger.Log.Error().
		Err(err).
		Int64("schedule_id", id).
		Msg(msg)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "query_failed",
		Message: msg,
	})
}

// SetupScheduleRoutes registers schedule-related routes
func SetupScheduleRoutes(apiGroup *gin.RouterGroup, service *schedule.Service, repos *db.Repositories, defaultIncrement int) {
	handler := NewScheduleHandler(service, repos, defaultIncrement)

	apiGroup.POST("/schedules", handler.CreateSchedule)
	apiGroup.GET("/schedules", handler.ListSchedules)
	apiGroup.GET("/schedules/:id", handler.GetSchedule)

	// Editing session endpoints
	apiGroup.POST("/schedules/:id/generate", handler.Generate)
	apiGroup.POST("/schedules/:id/copy", handler.Copy)
	apiGroup.POST("/schedules/:id/edit-existing", handler.EditExisting)
	apiGroup.GET("/schedules/:id/spots", handler.GetSpots)
	apiGroup.POST("/schedules/:id/spots", handler.ApplyBatch)

	apiGroup.GET("/schedules/:id/preview", handler.Preview)
}
