package domain

import "time"

// SyncOutcome is the result of reconciling one record.
type SyncOutcome string

const (
	OutcomeCreated SyncOutcome = "created"
	OutcomeUpdated SyncOutcome = "updated"
	OutcomeSkipped SyncOutcome = "skipped"
	OutcomeError   SyncOutcome = "error"
)

// RunReport accumulates per-record outcomes over one batch run and is
// reported at completion.
type RunReport struct {
	Entity     string    `bson:"entity" json:"entity"`
	Created    int       `bson:"created" json:"created"`
	Updated    int       `bson:"updated" json:"updated"`
	Skipped    int       `bson:"skipped" json:"skipped"`
	Errors     int       `bson:"errors" json:"errors"`
	StartedAt  time.Time `bson:"started_at" json:"started_at"`
	FinishedAt time.Time `bson:"finished_at" json:"finished_at"`
}

// Add records one outcome.
func (r *RunReport) Add(o SyncOutcome) {
	switch o {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeError:
		r.Errors++
	}
}

// Total returns the number of records processed.
func (r *RunReport) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Errors
}
