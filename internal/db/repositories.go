package db

// Repositories provides access to all database repositories
type Repositories struct {
	Schedules *ScheduleRepository
	Spots     *SpotRepository
	Shows     *ShowRepository
	DJs       *DJRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		Schedules: NewScheduleRepository(db),
		Spots:     NewSpotRepository(db),
		Shows:     NewShowRepository(db),
		DJs:       NewDJRepository(db),
	}
}
