package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/logger"
	"github.com/stationops/airtime/internal/models"
	"github.com/stationops/airtime/internal/schedule"
)

// EntityChoice is a pk/label pair for DJ and show selection lists. A pk of
// -1 with an empty-ish label is the blank entry.
type EntityChoice struct {
	PK    int64  `json:"pk"`
	Label string `json:"label"`
}

// ChoicesResponse bundles everything the schedule editing UI needs to render
// its forms: grid increments, offset/day/repeat labels, and entity lists.
// Offsets are enumerated at the configured default increment.
type ChoicesResponse struct {
	Hours   []schedule.Choice `json:"hours"`
	Offsets []schedule.Choice `json:"offsets"`
	Days    []schedule.Choice `json:"days"`
	Repeats []schedule.Choice `json:"repeats"`
	DJs     []EntityChoice    `json:"djs"`
	Shows   []EntityChoice    `json:"shows"`
}

// CatalogHandler handles DJ/show catalog requests
type CatalogHandler struct {
	repos            *db.Repositories
	defaultIncrement int
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(repos *db.Repositories, defaultIncrement int) *CatalogHandler {
	return &CatalogHandler{repos: repos, defaultIncrement: defaultIncrement}
}

// ListDJs handles GET /api/djs
func (h *CatalogHandler) ListDJs(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	djs, err := h.repos.DJs.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list djs")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve DJ list",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"djs": djs})
}

// ListShows handles GET /api/shows?active=true
func (h *CatalogHandler) ListShows(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	activeOnly := c.Query("active") == "true"
	shows, err := h.repos.Shows.List(ctx, activeOnly)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list shows")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to retrieve show list",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"shows": shows})
}

// Choices handles GET /api/choices
func (h *CatalogHandler) Choices(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	djs, err := h.repos.DJs.List(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list djs for choices")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to build choice lists",
		})
		return
	}

	shows, err := h.repos.Shows.List(ctx, true)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to list shows for choices")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "query_failed",
			Message: "Failed to build choice lists",
		})
		return
	}

	c.JSON(http.StatusOK, ChoicesResponse{
		Hours:   schedule.HourChoices(),
		Offsets: schedule.OffsetChoices(h.defaultIncrement),
		Days:    dayChoices(),
		Repeats: repeatChoices(),
		DJs:     djChoices(djs),
		Shows:   showChoices(shows),
	})
}

func dayChoices() []schedule.Choice {
	choices := make([]schedule.Choice, 0, 7)
	for day := models.Monday; day <= models.Sunday; day++ {
		choices = append(choices, schedule.Choice{Value: day, Label: models.DayLabel(day)})
	}
	return choices
}

func repeatChoices() []schedule.Choice {
	choices := make([]schedule.Choice, 0, 8)
	for r := models.RepeatWeekly; r <= models.RepeatNever; r++ {
		choices = append(choices, schedule.Choice{Value: int(r), Label: r.Label()})
	}
	return choices
}

func djChoices(djs []*models.DJ) []EntityChoice {
	choices := make([]EntityChoice, 0, len(djs)+1)
	choices = append(choices, EntityChoice{PK: schedule.NewSpotPK, Label: "---"})
	for _, dj := range djs {
		choices = append(choices, EntityChoice{PK: dj.ID, Label: dj.Name()})
	}
	return choices
}

func showChoices(shows []*models.Show) []EntityChoice {
	choices := make([]EntityChoice, 0, len(shows)+1)
	choices = append(choices, EntityChoice{PK: schedule.NewSpotPK, Label: "---"})
	for _, show := range shows {
		choices = append(choices, EntityChoice{PK: show.ID, Label: show.Name})
	}
	return choices
}

// SetupCatalogRoutes registers DJ/show catalog routes
func SetupCatalogRoutes(apiGroup *gin.RouterGroup, repos *db.Repositories, defaultIncrement int) {
	handler := NewCatalogHandler(repos, defaultIncrement)

	apiGroup.GET("/djs", handler.ListDJs)
	apiGroup.GET("/shows", handler.ListShows)
	apiGroup.GET("/choices", handler.Choices)
}
