// ABOUTME: POC lifecycle classification as of a reference date
// ABOUTME: Derives open, in review or closed from dates and use case completions
package analytics

import (
	"time"

	"github.com/sabixx/poc-portal-sub001/models"
)

// State is the derived lifecycle state of a POC.
type State string

const (
	StateOpen     State = "open"
	StateInReview State = "in_review"
	StateClosed   State = "closed"
)

// Label returns the human-readable name of the state.
func (s State) Label() string {
	switch s {
	case StateOpen:
		return "Open"
	case StateInReview:
		return "In Review"
	case StateClosed:
		return "Closed"
	}
	return string(s)
}

type Lifecycle struct {
	State State  `json:"state"`
	Label string `json:"label"`
}

func (l Lifecycle) IsOpen() bool { return l.State == StateOpen }
func (l Lifecycle) IsClosed() bool { return l.State == StateClosed }

func lifecycleOf(s State) Lifecycle {
	return Lifecycle{State: s, Label: s.Label()}
}

// Classify derives the lifecycle of a POC as of asOf. Every input maps to
// exactly one state, and a POC closed as of some date stays closed for every
// later date.
func Classify(poc models.POC, completions []models.UseCaseCompletion, asOf time.Time) Lifecycle {
	closedAt := poc.ClosedAt()
	if closedAt != nil && !closedAt.After(asOf) {
		return lifecycleOf(StateClosed)
	}
	if closedAt == nil && poc.IsCompleted {
		return lifecycleOf(StateClosed)
	}

	if allUseCasesDone(completions, asOf) {
		return lifecycleOf(StateInReview)
	}
	if poc.EndDatePlan != nil && poc.EndDatePlan.Before(asOf) {
		return lifecycleOf(StateInReview)
	}

	return lifecycleOf(StateOpen)
}

// allUseCasesDone reports whether there is at least one active use case and
// every active one was completed by asOf. Undated completions count.
func allUseCasesDone(completions []models.UseCaseCompletion, asOf time.Time) bool {
	active := 0
	for _, c := range completions {
		if !c.IsActive {
			continue
		}
		active++
		if c.State != models.UseCaseCompleted {
			return false
		}
		if c.CompletedAt != nil && c.CompletedAt.After(asOf) {
			return false
		}
	}
	return active > 0
}
