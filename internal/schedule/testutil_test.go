package schedule

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/models"
)

// setupTestDB creates a temp sqlite database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	migrationsPath := "file://../../migrations"
	err = db.RunMigrations(sqlDB, migrationsPath)
	require.NoError(t, err)

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

func createTestDJ(t *testing.T, database *db.DB, slug string) *models.DJ {
	t.Helper()

	user := &models.User{Username: slug + "-user"}
	require.NoError(t, database.Create(user).Error)

	dj := &models.DJ{
		DisplayName: "DJ " + slug,
		UserID:      user.ID,
		Slug:        slug,
	}
	require.NoError(t, database.Create(dj).Error)
	return dj
}

func createTestShow(t *testing.T, database *db.DB, slug string) *models.Show {
	t.Helper()

	show := models.NewShow("Show "+slug, slug)
	require.NoError(t, database.Create(show).Error)
	return show
}

func createTestSchedule(t *testing.T, database *db.DB, start, end time.Time) *models.Schedule {
	t.Helper()

	sched := models.NewSchedule(start, end)
	require.NoError(t, database.Create(sched).Error)
	return sched
}

func createTestSpot(t *testing.T, repos *db.Repositories, sched *models.Schedule, dj *models.DJ, show *models.Show, day, offset int, repeat models.RepeatRule) *models.Spot {
	t.Helper()

	spot := &models.Spot{
		DayOfWeek:   day,
		RepeatEvery: repeat,
		Offset:      offset,
		DJID:        dj.ID,
		ShowID:      show.ID,
		ScheduleID:  sched.ID,
	}
	require.NoError(t, repos.Spots.Save(context.Background(), spot))
	return spot
}

// fakeBuffer is an in-memory SessionBuffer for service tests
type fakeBuffer struct {
	entries map[string][]SpotRecord
	nextKey int
}

func newFakeBuffer() *fakeBuffer {
	return &fakeBuffer{entries: make(map[string][]SpotRecord)}
}

func (b *fakeBuffer) NewKey() string {
	b.nextKey++
	return fmt.Sprintf("session-%d", b.nextKey)
}

func (b *fakeBuffer) Put(key string, records []SpotRecord) {
	b.entries[key] = records
}

func (b *fakeBuffer) Get(key string) ([]SpotRecord, bool) {
	records, ok := b.entries[key]
	return records, ok
}

func (b *fakeBuffer) Delete(key string) {
	delete(b.entries, key)
}
