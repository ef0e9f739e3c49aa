package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/models"
	"github.com/stationops/airtime/internal/schedule"
)

// setupTestDB creates a temp sqlite database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	err = db.RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

// memoryBuffer is an in-memory schedule.SessionBuffer for handler tests
type memoryBuffer struct {
	entries map[string][]schedule.SpotRecord
	nextKey int
}

func newMemoryBuffer() *memoryBuffer {
	return &memoryBuffer{entries: make(map[string][]schedule.SpotRecord)}
}

func (b *memoryBuffer) NewKey() string {
	b.nextKey++
	return fmt.Sprintf("session-%d", b.nextKey)
}

func (b *memoryBuffer) Put(key string, records []schedule.SpotRecord) {
	b.entries[key] = records
}

func (b *memoryBuffer) Get(key string) ([]schedule.SpotRecord, bool) {
	records, ok := b.entries[key]
	return records, ok
}

func (b *memoryBuffer) Delete(key string) {
	delete(b.entries, key)
}

// testDefaultIncrement matches the 30-minute production default
const testDefaultIncrement = 1800

// setupTestRouter creates a test Gin router with schedule and catalog routes
func setupTestRouter(service *schedule.Service, repos *db.Repositories) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	apiGroup := router.Group("/api")
	SetupScheduleRoutes(apiGroup, service, repos, testDefaultIncrement)
	SetupCatalogRoutes(apiGroup, repos, testDefaultIncrement)
	return router
}

func createTestDJ(t *testing.T, database *db.DB, slug string) *models.DJ {
	t.Helper()

	user := &models.User{Username: slug + "-user"}
	require.NoError(t, database.Create(user).Error)

	dj := &models.DJ{DisplayName: "DJ " + slug, UserID: user.ID, Slug: slug}
	require.NoError(t, database.Create(dj).Error)
	return dj
}

func createTestShow(t *testing.T, database *db.DB, slug string) *models.Show {
	t.Helper()

	show := models.NewShow("Show "+slug, slug)
	require.NoError(t, database.Create(show).Error)
	return show
}

func createTestSchedule(t *testing.T, database *db.DB, start, end string) *models.Schedule {
	t.Helper()

	startDate, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	endDate, err := time.Parse("2006-01-02", end)
	require.NoError(t, err)

	sched := models.NewSchedule(startDate, endDate)
	require.NoError(t, database.Create(sched).Error)
	return sched
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateSchedule(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service := schedule.NewService(database, repos, newMemoryBuffer())
	router := setupTestRouter(service, repos)

	t.Run("Valid range creates schedule", func(t *testing.T) {
		w := postJSON(router, "/api/schedules", CreateScheduleRequest{
			StartDate: "2026-01-05",
			EndDate:   "2026-01-11",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp ScheduleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "2026-01-05", resp.StartDate)
		assert.Equal(t, "2026-01-11", resp.EndDate)
	})

	t.Run("Malformed date returns error", func(t *testing.T) {
		w := postJSON(router, "/api/schedules", CreateScheduleRequest{
			StartDate: "05/01/2026",
			EndDate:   "2026-01-11",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Inverted range returns error", func(t *testing.T) {
		w := postJSON(router, "/api/schedules", CreateScheduleRequest{
			StartDate: "2026-01-11",
			EndDate:   "2026-01-05",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing fields return error", func(t *testing.T) {
		w := postJSON(router, "/api/schedules", gin.H{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetSchedule(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service := schedule.NewService(database, repos, newMemoryBuffer())
	router := setupTestRouter(service, repos)

	sched := createTestSchedule(t, database, "2026-02-02", "2026-02-08")

	t.Run("Existing schedule is returned", func(t *testing.T) {
		w := getPath(router, fmt.Sprintf("/api/schedules/%d", sched.ID))

		require.Equal(t, http.StatusOK, w.Code)

		var resp ScheduleResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, sched.ID, resp.ID)
	})

	t.Run("Unknown id returns 404", func(t *testing.T) {
		w := getPath(router, "/api/schedules/9999")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Non-numeric id returns 400", func(t *testing.T) {
		w := getPath(router, "/api/schedules/abc")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGenerate(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service := schedule.NewService(database, repos, newMemoryBuffer())
	router := setupTestRouter(service, repos)

	sched := createTestSchedule(t, database, "2026-03-02", "2026-03-08")

	t.Run("Valid increment fills a session", func(t *testing.T) {
		w := postJSON(router, fmt.Sprintf("/api/schedules/%d/generate", sched.ID), GenerateRequest{
			IncrementSeconds: 6 * 3600,
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.SessionID)
		assert.Len(t, resp.Spots, 7*4)
		assert.Equal(t, "12:00AM / Weekly / Mon", resp.Spots[0].Label)
	})

	t.Run("Omitted increment uses configured default", func(t *testing.T) {
		w := postJSON(router, fmt.Sprintf("/api/schedules/%d/generate", sched.ID), gin.H{})

		require.Equal(t, http.StatusOK, w.Code)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Spots, 7*(86400/testDefaultIncrement))
	})

	t.Run("Oversized increment is rejected", func(t *testing.T) {
		w := postJSON(router, fmt.Sprintf("/api/schedules/%d/generate", sched.ID), GenerateRequest{
			IncrementSeconds: 90000,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown default dj returns 404", func(t *testing.T) {
		w := postJSON(router, fmt.Sprintf("/api/schedules/%d/generate", sched.ID), GenerateRequest{
			IncrementSeconds: 3600,
			DefaultDJPK:      9999,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unknown schedule returns 404", func(t *testing.T) {
		w := postJSON(router, "/api/schedules/9999/generate", GenerateRequest{
			IncrementSeconds: 3600,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetSpots(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	buffer := newMemoryBuffer()
	service := schedule.NewService(database, repos, buffer)
	router := setupTestRouter(service, repos)

	sched := createTestSchedule(t, database, "2026-04-06", "2026-04-12")

	w := postJSON(router, fmt.Sprintf("/api/schedules/%d/generate", sched.ID), GenerateRequest{
		IncrementSeconds: 12 * 3600,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var generated SessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &generated))

	t.Run("Buffered records are returned", func(t *testing.T) {
		w := getPath(router, fmt.Sprintf("/api/schedules/%d/spots?session=%s", sched.ID, generated.SessionID))

		require.Equal(t, http.StatusOK, w.Code)

		var resp SessionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, generated.SessionID, resp.SessionID)
		assert.Len(t, resp.Spots, 14)
	})

	t.Run("Missing session parameter returns 400", func(t *testing.T) {
		w := getPath(router, fmt.Sprintf("/api/schedules/%d/spots", sched.ID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown session returns 404", func(t *testing.T) {
		w := getPath(router, fmt.Sprintf("/api/schedules/%d/spots?session=nope", sched.ID))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestApplyBatch(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service := schedule.NewService(database, repos, newMemoryBuffer())
	router := setupTestRouter(service, repos)

	dj := createTestDJ(t, database, "apply-dj")
	show := createTestShow(t, database, "apply-show")
	sched := createTestSchedule(t, database, "2026-05-04", "2026-05-10")

	spotForm := func(records []schedule.SpotRecord, deleted ...int64) url.Values {
		form := url.Values{}
		form.Set("num", strconv.Itoa(len(records)))
		for i, r := range records {
			idx := strconv.Itoa(i)
			form.Set("offset"+idx, strconv.Itoa(r.Offset))
			form.Set("dj_pk"+idx, strconv.FormatInt(r.DJPK, 10))
			form.Set("show_pk"+idx, strconv.FormatInt(r.ShowPK, 10))
			form.Set("pk"+idx, strconv.FormatInt(r.PK, 10))
			form.Set("repeat_every"+idx, strconv.Itoa(r.RepeatEvery))
			form.Set("day_of_week"+idx, strconv.Itoa(r.DayOfWeek))
		}
		for _, pk := range deleted {
			form.Add("deleted_spots", strconv.FormatInt(pk, 10))
		}
		return form
	}

	t.Run("Valid submission persists spots", func(t *testing.T) {
		form := spotForm([]schedule.SpotRecord{
			{PK: schedule.NewSpotPK, Offset: 0, DJPK: dj.ID, ShowPK: show.ID, DayOfWeek: models.Monday},
			{PK: schedule.NewSpotPK, Offset: 3600, DJPK: dj.ID, ShowPK: show.ID, DayOfWeek: models.Friday},
		})

		w := postForm(router, fmt.Sprintf("/api/schedules/%d/spots", sched.ID), form)

		require.Equal(t, http.StatusOK, w.Code)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, fmt.Sprintf("/api/schedules/%d/spots", sched.ID), resp.Redirect)

		spots, err := repos.Spots.ListBySchedule(context.Background(), sched.ID)
		require.NoError(t, err)
		assert.Len(t, spots, 2)
	})

	t.Run("Malformed form returns generic error", func(t *testing.T) {
		form := url.Values{}
		form.Set("num", "two")

		w := postForm(router, fmt.Sprintf("/api/schedules/%d/spots", sched.ID), form)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "there was an error", resp.Message)
	})

	t.Run("Dangling reference returns generic error", func(t *testing.T) {
		form := spotForm([]schedule.SpotRecord{
			{PK: schedule.NewSpotPK, DJPK: dj.ID, ShowPK: 9999, DayOfWeek: models.Monday},
		})

		w := postForm(router, fmt.Sprintf("/api/schedules/%d/spots", sched.ID), form)

		require.Equal(t, http.StatusOK, w.Code)

		var resp StatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp.Status)
		assert.Equal(t, "there was an error", resp.Message)
	})

	t.Run("Deletions are applied", func(t *testing.T) {
		spots, err := repos.Spots.ListBySchedule(context.Background(), sched.ID)
		require.NoError(t, err)
		require.NotEmpty(t, spots)

		form := spotForm(nil, spots[0].ID)
		w := postForm(router, fmt.Sprintf("/api/schedules/%d/spots", sched.ID), form)

		require.Equal(t, http.StatusOK, w.Code)

		remaining, err := repos.Spots.ListBySchedule(context.Background(), sched.ID)
		require.NoError(t, err)
		assert.Len(t, remaining, len(spots)-1)
	})
}

func TestPreview(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	service := schedule.NewService(database, repos, newMemoryBuffer())
	router := setupTestRouter(service, repos)

	dj := createTestDJ(t, database, "preview-dj")
	show := createTestShow(t, database, "preview-show")
	sched := createTestSchedule(t, database, "2026-06-01", "2026-06-14")

	spot := &models.Spot{
		DayOfWeek:   models.Wednesday,
		RepeatEvery: models.RepeatWeekly,
		Offset:      3600,
		DJID:        dj.ID,
		ShowID:      show.ID,
		ScheduleID:  sched.ID,
	}
	require.NoError(t, repos.Spots.Save(context.Background(), spot))

	t.Run("Weekly spot expands across the range", func(t *testing.T) {
		w := getPath(router, fmt.Sprintf("/api/schedules/%d/preview", sched.ID))

		require.Equal(t, http.StatusOK, w.Code)

		var resp PreviewResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Airtimes, 2)
		assert.Equal(t, spot.ID, resp.Airtimes[0].SpotID)
		assert.Equal(t, "Show preview-show", resp.Airtimes[0].ShowName)
	})

	t.Run("Limit caps the expansion", func(t *testing.T) {
		w := getPath(router, fmt.Sprintf("/api/schedules/%d/preview?limit=1", sched.ID))

		require.Equal(t, http.StatusOK, w.Code)

		var resp PreviewResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Airtimes, 1)
	})

	t.Run("Bad limit returns 400", func(t *testing.T) {
		w := getPath(router, fmt.Sprintf("/api/schedules/%d/preview?limit=-1", sched.ID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
