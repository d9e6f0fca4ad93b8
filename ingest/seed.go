// ABOUTME: Demo data generator for the executive dashboard
// ABOUTME: Produces a reproducible export with varied POC date and outcome patterns
package ingest

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// SeedOptions controls demo data generation. The same Seed and Now always
// produce the same export.
type SeedOptions struct {
	Seed int64
	Now  time.Time
}

type seedSE struct {
	email  string
	region string
}

var (
	seedSEs = []seedSE{
		{"leo.schmidt@example.com", "EMEA"},
		{"andrea.meyer@example.com", "EMEA"},
		{"lisa.mueller@example.com", "EMEA"},
		{"thomas.becker@example.com", "AMER"},
		{"nina.schneider@example.com", "AMER"},
		{"felix.wagner@example.com", "APAC"},
		{"maria.rodriguez@example.com", "AMER"},
		{"daniel.hoffmann@example.com", ""},
	}

	seedManagers = []struct {
		email string
		team  []int
	}{
		{"sarah.weber@example.com", []int{0, 1, 2, 5}},
		{"sven.fischer@example.com", []int{3, 4, 6}},
	}

	seedCustomers = []string{
		"Sample Company A", "Sample Company B", "Sample Company C",
		"Sample Company D", "Sample Company E", "Sample Company F",
	}

	seedPartners = []string{"", "Accenture", "Deloitte", "T-Systems", "PwC", "KPMG", "Computacenter"}

	seedProducts = []string{
		"Certificate Manager SaaS",
		"Secrets Manager SaaS",
		"Privileged Access Manager SaaS",
	}

	seedFeatures = []struct {
		source, title, product, priority string
	}{
		{"productboard", "ServiceNow CMDB sync", "Certificate Manager SaaS", "high"},
		{"productboard", "Agentless internal discovery", "Certificate Manager SaaS", "critical"},
		{"jira", "Kubernetes secrets injection", "Secrets Manager SaaS", "high"},
		{"jira", "Terraform provider", "Secrets Manager SaaS", "medium"},
		{"productboard", "Just-in-time access approvals", "Privileged Access Manager SaaS", "high"},
		{"custom", "Splunk audit export", "", "low"},
		{"productboard", "Private CA integration", "Certificate Manager SaaS", "medium"},
		{"other", "Multi-region data residency", "", "critical"},
	}

	seedImportance = []string{"critical", "important", "nice_to_have", "not_important", ""}

	// seedScenarios mirrors the date and outcome patterns the portal sees in
	// practice.
	seedScenarios = []string{
		"overdue_incomplete",
		"green_future",
		"green_past",
		"prep_future",
		"stale_incomplete",
		"no_prep",
		"closed_won",
		"closed_lost",
		"deregistered",
	}
)

type seeder struct {
	rng *rand.Rand
	now time.Time
}

func (s *seeder) id() string {
	id, err := uuid.NewRandomFromReader(s.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *seeder) days(lo, hi int) time.Duration {
	return time.Duration(lo+s.rng.Intn(hi-lo+1)) * 24 * time.Hour
}

// aeb returns deal values in the encodings found in real data.
func (s *seeder) aeb() any {
	dollars := (20 + s.rng.Intn(480)) * 1000
	switch s.rng.Intn(6) {
	case 0:
		return float64(dollars)
	case 1:
		return fmt.Sprintf("%dk", dollars/1000)
	case 2:
		return nil
	case 3:
		return fmt.Sprintf("USD %d", dollars)
	}
	return "$" + humanize.Comma(int64(dollars))
}

// dealBreaker returns the flag as a bool, a string or not at all.
func (s *seeder) dealBreaker() any {
	set := s.rng.Intn(4) == 0
	switch s.rng.Intn(3) {
	case 0:
		return set
	case 1:
		return formatBool(set)
	}
	if set {
		return true
	}
	return nil
}

// Seed generates a demo export: every SE runs one POC per scenario.
func Seed(opts SeedOptions) *Export {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	s := &seeder{rng: rand.New(rand.NewSource(opts.Seed)), now: now.UTC().Truncate(24 * time.Hour)}
	exp := &Export{}

	seIDs := make([]string, len(seedSEs))
	for i, se := range seedSEs {
		seIDs[i] = s.id()
		exp.Users = append(exp.Users, UserRecord{
			ID: seIDs[i], Email: se.email, DisplayName: displayName(se.email), Role: "se", Region: se.region,
		})
	}
	for _, m := range seedManagers {
		id := s.id()
		exp.Users = append(exp.Users, UserRecord{ID: id, Email: m.email, DisplayName: displayName(m.email), Role: "manager"})
		for _, i := range m.team {
			exp.Teams = append(exp.Teams, TeamRecord{Manager: id, SE: seIDs[i]})
		}
	}

	for _, f := range seedFeatures {
		exp.FeatureRequests = append(exp.FeatureRequests, FeatureRequestRecord{
			ID: s.id(), Source: f.source, ExternalID: fmt.Sprintf("FR-%d", 100+s.rng.Intn(900)),
			Title: f.title, Product: f.product, Status: "under_consideration", Priority: f.priority,
		})
	}

	for i, seID := range seIDs {
		for _, scenario := range seedScenarios {
			poc := s.poc(seID, scenario, i)
			exp.POCs = append(exp.POCs, poc)
			exp.UseCases = append(exp.UseCases, s.useCases(poc, scenario)...)
			exp.Links = append(exp.Links, s.links(poc, exp.FeatureRequests)...)
		}
	}
	return exp
}

func (s *seeder) poc(seID, scenario string, seIndex int) POCRecord {
	start := s.now.Add(-s.days(5, 20))
	end := start.Add(s.days(7, 20))
	p := POCRecord{
		ID:           s.id(),
		CustomerName: seedCustomers[s.rng.Intn(len(seedCustomers))],
		Product:      seedProducts[(seIndex+s.rng.Intn(len(seedProducts)))%len(seedProducts)],
		SE:           seID,
		Partner:      seedPartners[s.rng.Intn(len(seedPartners))],
		AEB:          s.aeb(),
		IsActive:     true,
	}
	p.UID = "poc-" + p.ID[:8]
	p.Name = p.CustomerName + " / " + p.Product

	switch scenario {
	case "overdue_incomplete", "green_past":
		end = s.now.Add(-s.days(1, 10))
	case "green_future":
		end = s.now.Add(s.days(3, 30))
	case "prep_future":
		start = s.now.Add(s.days(1, 14))
		end = start.Add(s.days(7, 20))
		p.PrepStartDate = formatDate(s.now.Add(-s.days(1, 5)))
	case "stale_incomplete":
		start = s.now.Add(-s.days(30, 180))
		end = start.Add(s.days(7, 30))
	case "closed_won", "closed_lost":
		start = s.now.Add(-s.days(60, 120))
		end = start.Add(s.days(14, 30))
		p.EndDateActual = formatDate(end)
		p.IsActive = false
		p.IsCompleted = true
		p.TechnicalResult = "win"
		p.CommercialResult = "now_customer"
		if scenario == "closed_lost" {
			p.TechnicalResult = "loss"
			p.CommercialResult = []string{"lost", "no_decision", "not_correct_qualified"}[s.rng.Intn(3)]
		}
	case "deregistered":
		p.DeregisteredAt = formatDate(s.now.Add(-s.days(1, 4)))
		p.IsActive = false
	}

	p.StartDate = formatDate(start)
	p.EndDatePlan = formatDate(end)
	if p.CommercialResult == "" {
		p.CommercialResult = "unknown"
	}
	if end.Before(s.now) && p.EndDateActual == "" {
		p.RiskStatus = "overdue"
	} else {
		p.RiskStatus = "on_track"
	}
	return p
}

func (s *seeder) useCases(p POCRecord, scenario string) []UseCaseRecord {
	n := 4 + s.rng.Intn(6)
	out := make([]UseCaseRecord, 0, n)
	open := 0
	for i := 0; i < n; i++ {
		var done bool
		switch scenario {
		case "green_future", "green_past", "closed_won", "closed_lost":
			done = true
		case "prep_future":
			done = false
		default:
			done = s.rng.Intn(2) == 0
		}
		uc := UseCaseRecord{
			ID:          s.id(),
			POC:         p.ID,
			UseCase:     fmt.Sprintf("machine-identity/use-case-%02d", i+1),
			IsActive:    true,
			IsCompleted: done,
		}
		if done {
			uc.CompletedAt = formatDate(s.now.Add(-s.days(1, 5)))
			uc.Rating = 2 + s.rng.Intn(4)
		} else {
			open++
		}
		out = append(out, uc)
	}
	// incomplete scenarios keep at least one open use case
	if (scenario == "overdue_incomplete" || scenario == "stale_incomplete") && open == 0 {
		out[0].IsCompleted, out[0].CompletedAt, out[0].Rating = false, "", 0
	}
	return out
}

func (s *seeder) links(p POCRecord, features []FeatureRequestRecord) []LinkRecord {
	n := s.rng.Intn(4)
	picked := s.rng.Perm(len(features))[:n]
	out := make([]LinkRecord, 0, n)
	for _, i := range picked {
		l := LinkRecord{
			ID:             s.id(),
			POC:            p.ID,
			FeatureRequest: features[i].ID,
			Importance:     seedImportance[s.rng.Intn(len(seedImportance))],
			IsDealBreaker:  s.dealBreaker(),
			CustomerImpact: []string{"blocker", "high", "medium", "low"}[s.rng.Intn(4)],
		}
		// about half the links arrive with their expansion inlined
		if s.rng.Intn(2) == 0 {
			fr := features[i]
			l.Expand.FeatureRequest = &fr
		}
		out = append(out, l)
	}
	return out
}

func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.Split(local, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
