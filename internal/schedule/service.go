package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/stationops/airtime/internal/db"
	"github.com/stationops/airtime/internal/logger"
	"github.com/stationops/airtime/internal/metrics"
	"github.com/stationops/airtime/internal/models"
)

// SessionBuffer is the per-editing-session store holding in-flight spot
// records between generation and reconciliation. One buffer entry belongs to
// exactly one editing session and is dropped on commit or abandonment.
type SessionBuffer interface {
	NewKey() string
	Put(key string, records []SpotRecord)
	Get(key string) ([]SpotRecord, bool)
	Delete(key string)
}

// Service wires the schedule engine together: generation and serialization
// into session buffers, and batch reconciliation out of them.
type Service struct {
	repos      *db.Repositories
	reconciler *Reconciler
	sessions   SessionBuffer
}

// NewService creates a new schedule service instance
func NewService(database *db.DB, repos *db.Repositories, sessions SessionBuffer) *Service {
	return &Service{
		repos:      repos,
		reconciler: NewReconciler(database, repos),
		sessions:   sessions,
	}
}

// GetSchedule retrieves a schedule by id
func (s *Service) GetSchedule(ctx context.Context, id int64) (*models.Schedule, error) {
	sched, err := s.repos.Schedules.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrScheduleNotFound
		}
		logger.Log.Error().
			Err(err).
			Int64("schedule_id", id).
			Msg("Failed to get schedule by id")
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return sched, nil
}

// CurrentSchedule retrieves the schedule covering today. Zero or multiple
// matches both come back as ErrScheduleNotFound.
func (s *Service) CurrentSchedule(ctx context.Context) (*models.Schedule, error) {
	sched, err := s.repos.Schedules.Current(ctx, time.Now())
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get current schedule: %w", err)
	}
	return sched, nil
}

// GenerateIntoSession runs the grid generator and parks the result in a new
// session buffer. Default DJ and show pks of 0 mean unassigned.
func (s *Service) GenerateIntoSession(ctx context.Context, scheduleID int64, incrementSeconds int, defaultDJPK, defaultShowPK int64) (string, []SpotRecord, error) {
	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return "", nil, err
	}

	var defaultDJ *models.DJ
	if defaultDJPK > 0 {
		dj, err := s.repos.DJs.GetByID(ctx, defaultDJPK)
		if err != nil {
			if db.IsNotFound(err) {
				return "", nil, fmt.Errorf("dj %d: %w", defaultDJPK, ErrReferenceNotFound)
			}
			return "", nil, fmt.Errorf("failed to resolve default dj: %w", err)
		}
		defaultDJ = dj
	}

	var defaultShow *models.Show
	if defaultShowPK > 0 {
		show, err := s.repos.Shows.GetByID(ctx, defaultShowPK)
		if err != nil {
			if db.IsNotFound(err) {
				return "", nil, fmt.Errorf("show %d: %w", defaultShowPK, ErrReferenceNotFound)
			}
			return "", nil, fmt.Errorf("failed to resolve default show: %w", err)
		}
		defaultShow = show
	}

	records, err := Generate(incrementSeconds, defaultDJ, defaultShow)
	if err != nil {
		return "", nil, err
	}

	key := s.stash(records)
	metrics.ScheduleGenerates.Inc()

	logger.Log.Info().
		Int64("schedule_id", scheduleID).
		Str("session_id", key).
		Int("increment_seconds", incrementSeconds).
		Int("record_count", len(records)).
		Msg("Generated schedule grid into session")

	return key, records, nil
}

// CopyIntoSession clones an existing schedule's spots into a new session
// buffer, with pks reset so they reconcile as new spots.
func (s *Service) CopyIntoSession(ctx context.Context, scheduleID, sourceSchedulePK int64) (string, []SpotRecord, error) {
	if _, err := s.GetSchedule(ctx, scheduleID); err != nil {
		return "", nil, err
	}
	source, err := s.GetSchedule(ctx, sourceSchedulePK)
	if err != nil {
		return "", nil, err
	}

	records, err := CopyFromSchedule(ctx, s.repos, source, NewSpotPK)
	if err != nil {
		return "", nil, err
	}

	key := s.stash(records)
	metrics.ScheduleGenerates.Inc()

	logger.Log.Info().
		Int64("schedule_id", scheduleID).
		Int64("source_schedule_id", sourceSchedulePK).
		Str("session_id", key).
		Int("record_count", len(records)).
		Msg("Copied schedule spots into session")

	return key, records, nil
}

// EditExistingIntoSession serializes the schedule's persisted spots into a
// new session buffer for editing.
func (s *Service) EditExistingIntoSession(ctx context.Context, scheduleID int64) (string, []SpotRecord, error) {
	sched, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return "", nil, err
	}

	records, err := RecordsFromSchedule(ctx, s.repos, sched)
	if err != nil {
		return "", nil, err
	}

	key := s.stash(records)

	logger.Log.Info().
		Int64("schedule_id", scheduleID).
		Str("session_id", key).
		Int("record_count", len(records)).
		Msg("Loaded existing spots into session")

	return key, records, nil
}

// BufferedRecords returns the records held for an editing session
func (s *Service) BufferedRecords(sessionKey string) ([]SpotRecord, bool) {
	return s.sessions.Get(sessionKey)
}

// ApplyBatch reconciles an edit submission against the schedule and, on
// success, tears down the session buffer. Detailed causes are logged; the
// caller only needs success or failure, matching the generic response the
// editing UI expects.
func (s *Service) ApplyBatch(ctx context.Context, scheduleID int64, sessionKey string, batch *Batch) error {
	start := time.Now()

	sched, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		metrics.ScheduleApplies.WithLabelValues("error").Inc()
		return err
	}

	if err := s.reconciler.Apply(ctx, sched, batch.Records, batch.DeletedPKs); err != nil {
		metrics.ScheduleApplies.WithLabelValues("error").Inc()
		return err
	}

	if sessionKey != "" {
		s.sessions.Delete(sessionKey)
	}

	metrics.ScheduleApplies.WithLabelValues("ok").Inc()
	metrics.SpotsDeleted.Add(float64(len(batch.DeletedPKs)))
	metrics.ScheduleApplyDuration.Observe(time.Since(start).Seconds())

	return nil
}

// Preview expands the schedule's spots into concrete airtimes
func (s *Service) Preview(ctx context.Context, scheduleID int64, limit int) ([]Airtime, error) {
	sched, err := s.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	return ExpandAirtimes(ctx, s.repos, sched, limit)
}

func (s *Service) stash(records []SpotRecord) string {
	key := s.sessions.NewKey()
	s.sessions.Put(key, records)
	return key
}
