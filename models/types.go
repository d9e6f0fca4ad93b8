// ABOUTME: Data models for POC portal entities
// ABOUTME: Defines POC, User, UseCaseCompletion, FeatureRequest and FeatureRequestLink structs
package models

import (
	"time"
)

type POC struct {
	ID                 string     `json:"id"`
	UID                string     `json:"poc_uid,omitempty"`
	Name               string     `json:"name,omitempty"`
	CustomerName       string     `json:"customer_name"`
	Product            string     `json:"product,omitempty"`
	SEID               string     `json:"se,omitempty"`
	Partner            string     `json:"partner,omitempty"`
	AEB                string     `json:"aeb,omitempty"` // raw currency-like string, e.g. "$120,000"
	PrepStartDate      *time.Time `json:"prep_start_date,omitempty"`
	StartDate          *time.Time `json:"poc_start_date,omitempty"`
	EndDatePlan        *time.Time `json:"poc_end_date_plan,omitempty"`
	EndDateActual      *time.Time `json:"poc_end_date_actual,omitempty"`
	CompletionDateAuto *time.Time `json:"completion_date_auto,omitempty"`
	DeregisteredAt     *time.Time `json:"deregistered_at,omitempty"`
	RiskStatus         string     `json:"risk_status,omitempty"`
	TechnicalResult    string     `json:"technical_result,omitempty"`
	CommercialResult   string     `json:"commercial_result,omitempty"`
	IsActive           bool       `json:"is_active"`
	IsCompleted        bool       `json:"is_completed"`
}

// ClosedAt returns the first recorded timestamp at which the POC ended, if any.
func (p *POC) ClosedAt() *time.Time {
	switch {
	case p.EndDateActual != nil:
		return p.EndDateActual
	case p.CompletionDateAuto != nil:
		return p.CompletionDateAuto
	case p.DeregisteredAt != nil:
		return p.DeregisteredAt
	}
	return nil
}

// Outcome returns the commercial result, defaulting to unknown.
func (p *POC) Outcome() string {
	if p.CommercialResult == "" {
		return OutcomeUnknown
	}
	return p.CommercialResult
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role,omitempty"`
	Region      string `json:"region,omitempty"`
}

// Name returns the display name, falling back to the email address.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// ManagerSEMap assigns an SE to a manager's team.
type ManagerSEMap struct {
	ManagerID string `json:"manager"`
	SEID      string `json:"se"`
}

type UseCaseCompletion struct {
	ID          string     `json:"id"`
	POCID       string     `json:"poc"`
	UseCaseID   string     `json:"use_case,omitempty"`
	State       string     `json:"state"`
	IsActive    bool       `json:"is_active"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Rating      int        `json:"rating,omitempty"`
}

type FeatureRequest struct {
	ID         string `json:"id"`
	Source     string `json:"source,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	Title      string `json:"title"`
	Product    string `json:"product,omitempty"`
	Status     string `json:"status,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

// FeatureRequestLink ties one POC to one feature request. FeatureRequest is
// the resolved expansion; a nil expansion means the link cannot be aggregated.
type FeatureRequestLink struct {
	ID               string          `json:"id"`
	POCID            string          `json:"poc"`
	FeatureRequestID string          `json:"feature_request"`
	Importance       string          `json:"importance,omitempty"`
	IsDealBreaker    bool            `json:"is_deal_breaker"`
	CustomerImpact   string          `json:"customer_impact,omitempty"`
	FeatureRequest   *FeatureRequest `json:"expand,omitempty"`
}

// User roles.
const (
	RoleSE      = "se"
	RoleAE      = "ae"
	RoleManager = "manager"
	RolePM      = "pm"
	RoleAdmin   = "admin"
)

// Use case completion states.
const (
	UseCaseOpen      = "open"
	UseCaseCompleted = "completed"
)

// Commercial results. OutcomeCustomer is the only outcome counted as won.
const (
	OutcomeUnknown             = "unknown"
	OutcomeCustomer            = "now_customer"
	OutcomeLost                = "lost"
	OutcomeNoDecision          = "no_decision"
	OutcomeNotCorrectQualified = "not_correct_qualified"
	OutcomeOther               = "other"
)

// Risk statuses.
const (
	RiskOnTrack = "on_track"
	RiskAtRisk  = "at_risk"
	RiskOverdue = "overdue"
)

// Feature request link importance, strongest first.
const (
	ImportanceCritical     = "critical"
	ImportanceImportant    = "important"
	ImportanceNiceToHave   = "nice_to_have"
	ImportanceNotImportant = "not_important"
	ImportanceUnknown      = "unknown"
)

// ImportanceRank orders importance values; lower is stronger.
func ImportanceRank(importance string) int {
	switch importance {
	case ImportanceCritical:
		return 0
	case ImportanceImportant:
		return 1
	case ImportanceNiceToHave:
		return 2
	case ImportanceNotImportant:
		return 3
	}
	return 4
}

// NormalizeImportance maps free-form importance text onto the known values.
func NormalizeImportance(importance string) string {
	switch importance {
	case ImportanceCritical, ImportanceImportant, ImportanceNiceToHave, ImportanceNotImportant:
		return importance
	}
	return ImportanceUnknown
}
