package compliance

import (
	"fmt"
	"time"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/rules"
)

// Matcher reconciles extracted compliance statements against the rule store's
// requirements. It is a pure transform: same facts, same rules and same
// reference time always produce the same items in the same order.
type Matcher struct{}

// NewMatcher creates a matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match produces one compliance item per requirement, in the rule store's
// enumeration order. A requirement is met when a statement covers it and the
// coverage has not outlived the requirement's renewal period relative to the
// reference time; expired when coverage exists but is stale; missing
// otherwise. Matching is by regulation ID: the extractor already made the
// semantic coverage judgment, the matcher never inspects document text.
func (m *Matcher) Match(facts *model.RawFacts, reqs []rules.Requirement, ref time.Time) []model.ComplianceItem {
	statements := map[string]model.ComplianceStatement{}
	if facts != nil {
		for _, st := range facts.ComplianceStatements {
			// First satisfied statement per regulation wins
			if existing, ok := statements[st.RegulationID]; ok && existing.Satisfied {
				continue
			}
			statements[st.RegulationID] = st
		}
	}

	items := make([]model.ComplianceItem, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, m.reconcile(req, statements, ref))
	}
	return items
}

func (m *Matcher) reconcile(req rules.Requirement, statements map[string]model.ComplianceStatement, ref time.Time) model.ComplianceItem {
	item := model.ComplianceItem{
		RegulationID: req.RegulationID,
		Requirement:  req.Description,
		Severity:     req.PenaltySeverity,
	}

	st, ok := statements[req.RegulationID]
	if !ok || !st.Satisfied {
		item.Status = model.ComplianceMissing
		item.Gap = fmt.Sprintf("no coverage found for %s", req.Description)
		return item
	}

	if req.RenewalPeriodDays > 0 && st.SatisfiedAt != nil {
		age := ref.Sub(*st.SatisfiedAt)
		if age > time.Duration(req.RenewalPeriodDays)*24*time.Hour {
			item.Status = model.ComplianceExpired
			item.Gap = fmt.Sprintf("%s last satisfied %s, past its %d-day renewal period",
				req.Description, st.SatisfiedAt.Format("2006-01-02"), req.RenewalPeriodDays)
			return item
		}
	}

	item.Status = model.ComplianceMet
	return item
}

// DeadlineItems synthesizes compliance items for renewal deadlines that are
// overdue or closing in, appended after the regulatory items so reports show
// deadline pressure alongside the rule gaps. The scorer recognizes these by
// regulation ID and keeps them out of the regulatory-consequence bucket; the
// time-criticality bucket already prices them in.
func (m *Matcher) DeadlineItems(renewals []model.RenewalDate) []model.ComplianceItem {
	var items []model.ComplianceItem
	for _, r := range renewals {
		switch {
		case r.DaysUntil < 0:
			items = append(items, model.ComplianceItem{
				RegulationID: rules.DeadlineRegulationID,
				Requirement:  fmt.Sprintf("Meet deadline: %s", r.Description),
				Status:       model.ComplianceExpired,
				Gap:          fmt.Sprintf("deadline overdue by %d days", -r.DaysUntil),
				Severity:     model.SeverityCritical,
			})
		case r.DaysUntil <= 7:
			items = append(items, model.ComplianceItem{
				RegulationID: rules.DeadlineRegulationID,
				Requirement:  fmt.Sprintf("Meet deadline: %s", r.Description),
				Status:       model.ComplianceMissing,
				Gap:          fmt.Sprintf("deadline in %d days, immediate action required", r.DaysUntil),
				Severity:     model.SeverityCritical,
			})
		case r.DaysUntil <= 30:
			items = append(items, model.ComplianceItem{
				RegulationID: rules.DeadlineRegulationID,
				Requirement:  fmt.Sprintf("Meet deadline: %s", r.Description),
				Status:       model.ComplianceMissing,
				Gap:          fmt.Sprintf("deadline approaching in %d days", r.DaysUntil),
				Severity:     model.SeverityHigh,
			})
		}
	}
	return items
}
