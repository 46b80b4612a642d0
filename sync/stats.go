package sync

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Stats accumulates counters for one sync execution. Property batches run
// concurrently, so all mutation goes through the mutex.
type Stats struct {
	mu sync.Mutex

	startedAt  time.Time
	finishedAt time.Time

	developersCreated int
	developersUpdated int
	developersErrors  int
	citiesCreated     int
	citiesUpdated     int
	citiesErrors      int
	districtsCreated  int
	districtsUpdated  int
	districtsErrors   int

	propertiesCreated int
	propertiesUpdated int
	propertiesSkipped int
	propertiesErrors  int

	errors []string
}

// StatsSnapshot is the exported view of Stats, safe to serialize.
type StatsSnapshot struct {
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at,omitzero"`
	DurationSeconds   float64   `json:"duration_seconds"`
	DevelopersCreated int       `json:"developers_created"`
	DevelopersUpdated int       `json:"developers_updated"`
	DevelopersErrors  int       `json:"developers_errors"`
	CitiesCreated     int       `json:"cities_created"`
	CitiesUpdated     int       `json:"cities_updated"`
	CitiesErrors      int       `json:"cities_errors"`
	DistrictsCreated  int       `json:"districts_created"`
	DistrictsUpdated  int       `json:"districts_updated"`
	DistrictsErrors   int       `json:"districts_errors"`
	PropertiesCreated int       `json:"properties_created"`
	PropertiesUpdated int       `json:"properties_updated"`
	PropertiesSkipped int       `json:"properties_skipped"`
	PropertiesErrors  int       `json:"properties_errors"`
	ErrorsCount       int       `json:"errors_count"`
	Errors            []string  `json:"errors,omitempty"`
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishedAt = time.Now()
}

func (s *Stats) RecordDeveloper(created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if created {
		s.developersCreated++
	} else {
		s.developersUpdated++
	}
}

func (s *Stats) RecordCity(created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if created {
		s.citiesCreated++
	} else {
		s.citiesUpdated++
	}
}

func (s *Stats) RecordDistrict(created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if created {
		s.districtsCreated++
	} else {
		s.districtsUpdated++
	}
}

func (s *Stats) RecordProperty(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch outcome {
	case OutcomeCreated:
		s.propertiesCreated++
	case OutcomeUpdated:
		s.propertiesUpdated++
	case OutcomeSkipped:
		s.propertiesSkipped++
	}
}

// RecordError appends an uncategorized error string. Entity-specific
// failures go through the Record*Error variants so the per-entity
// counters stay accurate.
func (s *Stats) RecordError(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *Stats) RecordDeveloperError(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.developersErrors++
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *Stats) RecordCityError(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.citiesErrors++
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *Stats) RecordDistrictError(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.districtsErrors++
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *Stats) RecordPropertyError(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.propertiesErrors++
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	end := s.finishedAt
	if end.IsZero() {
		end = time.Now()
	}
	return StatsSnapshot{
		StartedAt:         s.startedAt,
		FinishedAt:        s.finishedAt,
		DurationSeconds:   end.Sub(s.startedAt).Seconds(),
		DevelopersCreated: s.developersCreated,
		DevelopersUpdated: s.developersUpdated,
		DevelopersErrors:  s.developersErrors,
		CitiesCreated:     s.citiesCreated,
		CitiesUpdated:     s.citiesUpdated,
		CitiesErrors:      s.citiesErrors,
		DistrictsCreated:  s.districtsCreated,
		DistrictsUpdated:  s.districtsUpdated,
		DistrictsErrors:   s.districtsErrors,
		PropertiesCreated: s.propertiesCreated,
		PropertiesUpdated: s.propertiesUpdated,
		PropertiesSkipped: s.propertiesSkipped,
		PropertiesErrors:  s.propertiesErrors,
		ErrorsCount:       len(s.errors),
		Errors:            append([]string(nil), s.errors...),
	}
}

func (s *Stats) ToJSON() string {
	b, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
