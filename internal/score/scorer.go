package score

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/rules"
)

// Scorer collapses compliance gaps, deadline proximity and unmet obligations
// into one bounded score plus the risk entries that explain it.
type Scorer struct {
	cfg model.ScoringConfig
}

// NewScorer creates a scorer with the given weights and thresholds
func NewScorer(cfg model.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Assessment is the scorer's output: the bounded score, its derived level,
// and one risk entry per materialized finding. Each term is split across its
// entries by ContributionScore, weighted by how much each finding drove it.
type Assessment struct {
	OverallScore float64
	Level        model.RiskLevel
	Risks        []model.Risk
}

// severityFactor maps a finding severity onto a 0-1 scale
func severityFactor(s model.Severity) float64 {
	switch s {
	case model.SeverityCritical:
		return 1.0
	case model.SeverityHigh:
		return 0.8
	case model.SeverityMedium:
		return 0.5
	case model.SeverityLow:
		return 0.25
	default:
		return 0.5
	}
}

// obligationFactor maps an unmet obligation status onto a 0-1 impact scale.
// Met obligations contribute nothing.
func obligationFactor(s model.ObligationStatus) float64 {
	switch s {
	case model.ObligationOverdue:
		return 1.0
	case model.ObligationUnclear:
		return 0.5
	case model.ObligationPending:
		return 0.4
	default:
		return 0
	}
}

// Calculate computes the overall score from the record's findings:
//
//	score = clamp(urgencyWeight * timeCriticality, 0, urgencyWeight)
//	      + clamp(severityWeight * obligationImpact, 0, severityWeight)
//	      + clamp(penaltyWeight * regulatoryConsequence, 0, penaltyWeight)
//
// clamped to [0,100] after summation. Each factor is itself clamped to [0,1]
// before weighting.
func (s *Scorer) Calculate(renewals []model.RenewalDate, obligations []model.Obligation, items []model.ComplianceItem) Assessment {
	urgencyTerm := clamp(s.cfg.UrgencyWeight*s.timeCriticality(renewals), 0, s.cfg.UrgencyWeight)
	severityTerm := clamp(s.cfg.SeverityWeight*s.obligationImpact(obligations), 0, s.cfg.SeverityWeight)
	penaltyTerm := clamp(s.cfg.PenaltyWeight*s.regulatoryConsequence(items), 0, s.cfg.PenaltyWeight)

	total := clamp(urgencyTerm+severityTerm+penaltyTerm, 0, 100)

	risks := s.deadlineRisks(renewals, urgencyTerm)
	risks = append(risks, s.obligationRisks(obligations, severityTerm)...)
	risks = append(risks, s.complianceRisks(items, penaltyTerm)...)

	return Assessment{
		OverallScore: total,
		Level:        model.RiskLevelForScore(total),
		Risks:        risks,
	}
}

// timeCriticality derives from the most urgent unresolved renewal entry
func (s *Scorer) timeCriticality(renewals []model.RenewalDate) float64 {
	max := 0.0
	for _, r := range renewals {
		f := urgencyFactor(r.UrgencyLevel)
		if f > max {
			max = f
		}
	}
	return max
}

func urgencyFactor(u model.Severity) float64 {
	switch u {
	case model.SeverityCritical:
		return 1.0
	case model.SeverityHigh:
		return 0.75
	case model.SeverityMedium:
		return 0.5
	case model.SeverityLow:
		return 0.25
	default:
		return 0
	}
}

// obligationImpact aggregates unmet obligations: the worst one sets the
// baseline, each additional one raises it a notch, capped at 1
func (s *Scorer) obligationImpact(obligations []model.Obligation) float64 {
	return aggregate(factors(obligations, func(o model.Obligation) float64 {
		return obligationFactor(o.Status)
	}))
}

// regulatoryConsequence aggregates missing and expired compliance items
// weighted by penalty severity. Deadline-derived items are excluded: the
// time-criticality term already prices deadline pressure, and counting them
// here would leak urgency into the compliance bucket for documents with no
// rules at all.
func (s *Scorer) regulatoryConsequence(items []model.ComplianceItem) float64 {
	return aggregate(factors(items, func(it model.ComplianceItem) float64 {
		if it.RegulationID == rules.DeadlineRegulationID {
			return 0
		}
		switch it.Status {
		case model.ComplianceMissing:
			return severityFactor(it.Severity)
		case model.ComplianceExpired:
			return 0.75 * severityFactor(it.Severity)
		default:
			return 0
		}
	}))
}

// factors collects the nonzero per-finding factors
func factors[T any](xs []T, f func(T) float64) []float64 {
	var out []float64
	for _, x := range xs {
		if v := f(x); v > 0 {
			out = append(out, v)
		}
	}
	return out
}

// aggregate combines per-finding factors: max baseline plus 0.15 for each
// additional finding, capped at 1. A single severe gap dominates; a pile of
// smaller ones still escalates.
func aggregate(fs []float64) float64 {
	if len(fs) == 0 {
		return 0
	}
	max := 0.0
	for _, f := range fs {
		if f > max {
			max = f
		}
	}
	return clamp(max+0.15*float64(len(fs)-1), 0, 1)
}

// deadlineRisks materializes one risk per renewal that is overdue or within
// 30 days, splitting the urgency term across them by each entry's own weight
func (s *Scorer) deadlineRisks(renewals []model.RenewalDate, term float64) []model.Risk {
	type hit struct {
		r model.RenewalDate
		w float64
	}
	var hits []hit
	var totalW float64
	for _, r := range renewals {
		if r.DaysUntil > s.cfg.HighDays {
			continue
		}
		w := urgencyFactor(r.UrgencyLevel)
		hits = append(hits, hit{r, w})
		totalW += w
	}

	risks := make([]model.Risk, 0, len(hits))
	for _, h := range hits {
		desc := fmt.Sprintf("Deadline approaching: %s in %d days", h.r.Description, h.r.DaysUntil)
		if h.r.DaysUntil < 0 {
			desc = fmt.Sprintf("Deadline overdue: %s, %d days past", h.r.Description, -h.r.DaysUntil)
		}
		risks = append(risks, model.Risk{
			ID:                uuid.NewString(),
			Category:          model.RiskCategoryDeadline,
			Severity:          h.r.UrgencyLevel,
			Description:       desc,
			Mitigation:        deadlineMitigation(h.r),
			ContributionScore: share(term, h.w, totalW),
		})
	}
	return risks
}

// obligationRisks materializes one risk per unmet obligation
func (s *Scorer) obligationRisks(obligations []model.Obligation, term float64) []model.Risk {
	var totalW float64
	for _, o := range obligations {
		totalW += obligationFactor(o.Status)
	}

	var risks []model.Risk
	for _, o := range obligations {
		w := obligationFactor(o.Status)
		if w == 0 {
			continue
		}

		severity := model.SeverityMedium
		if o.Status == model.ObligationOverdue {
			severity = model.SeverityHigh
		}

		risks = append(risks, model.Risk{
			ID:                uuid.NewString(),
			Category:          model.RiskCategoryContractual,
			Severity:          severity,
			Description:       fmt.Sprintf("Obligation %s: %s (%s)", o.Status, o.Requirement, o.ResponsibleParty),
			Mitigation:        obligationMitigation(o),
			ContributionScore: share(term, w, totalW),
		})
	}
	return risks
}

// complianceRisks materializes one risk per missing or expired regulatory
// item. A missing requirement escalates one severity notch above its penalty
// severity: absent coverage is a sharper exposure than lapsed coverage.
func (s *Scorer) complianceRisks(items []model.ComplianceItem, term float64) []model.Risk {
	weight := func(it model.ComplianceItem) float64 {
		if it.RegulationID == rules.DeadlineRegulationID {
			return 0
		}
		switch it.Status {
		case model.ComplianceMissing:
			return severityFactor(it.Severity)
		case model.ComplianceExpired:
			return 0.75 * severityFactor(it.Severity)
		default:
			return 0
		}
	}

	var totalW float64
	for _, it := range items {
		totalW += weight(it)
	}

	var risks []model.Risk
	for _, it := range items {
		w := weight(it)
		if w == 0 {
			continue
		}

		severity := it.Severity
		if it.Status == model.ComplianceMissing {
			severity = escalate(severity)
		}

		risks = append(risks, model.Risk{
			ID:                uuid.NewString(),
			Category:          model.RiskCategoryCompliance,
			Severity:          severity,
			Description:       fmt.Sprintf("%s: %s", it.Requirement, it.Gap),
			Mitigation:        complianceMitigation(it),
			ContributionScore: share(term, w, totalW),
		})
	}
	return risks
}

// escalate bumps a severity one level, saturating at critical
func escalate(s model.Severity) model.Severity {
	switch s {
	case model.SeverityLow:
		return model.SeverityMedium
	case model.SeverityMedium:
		return model.SeverityHigh
	default:
		return model.SeverityCritical
	}
}

func share(term, w, totalW float64) float64 {
	if totalW == 0 {
		return 0
	}
	return term * w / totalW
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
