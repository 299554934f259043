package rules

import (
	"sort"

	"github.com/verilex/verilex/internal/model"
)

// DeadlineRegulationID tags compliance items synthesized from renewal
// deadlines rather than from a regulatory requirement. The scorer uses it to
// keep deadline pressure out of the regulatory-consequence bucket.
const DeadlineRegulationID = "deadline-compliance"

// Requirement is one rule a document of a given type must satisfy
type Requirement struct {
	RegulationID      string         `yaml:"regulation_id" json:"regulationId"`
	Description       string         `yaml:"description" json:"description"`
	RenewalPeriodDays int            `yaml:"renewal_period_days" json:"renewalPeriodDays"` // 0 means no expiry
	PenaltySeverity   model.Severity `yaml:"penalty_severity" json:"penaltySeverity"`
}

// Store maps a document type to the requirements it must satisfy. Stores are
// read-only at pipeline runtime and safe to share across concurrent runs.
// An unknown document type yields an empty set, never an error: absence of
// rules is a valid low-risk state.
type Store interface {
	RulesFor(docType model.DocumentType) []Requirement
}

// StaticStore is an immutable in-memory rule store
type StaticStore struct {
	sets map[model.DocumentType][]Requirement
}

// NewStaticStore builds a store from explicit rule sets. Each set is sorted
// once by regulation ID so enumeration order is deterministic across runs.
func NewStaticStore(sets map[model.DocumentType][]Requirement) *StaticStore {
	normalized := make(map[model.DocumentType][]Requirement, len(sets))
	for docType, reqs := range sets {
		rs := make([]Requirement, len(reqs))
		copy(rs, reqs)
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].RegulationID < rs[j].RegulationID })
		normalized[docType] = rs
	}
	return &StaticStore{sets: normalized}
}

// RulesFor returns the requirements for a document type in stable order.
// Callers get a copy; the store itself never changes after construction.
func (s *StaticStore) RulesFor(docType model.DocumentType) []Requirement {
	reqs, ok := s.sets[docType]
	if !ok {
		return []Requirement{}
	}
	out := make([]Requirement, len(reqs))
	copy(out, reqs)
	return out
}

// NewDefaultStore returns the built-in rule sets for the supported document
// types. These mirror the standard clause and certification checklists for
// each category; deployments override them with a YAML rule file.
func NewDefaultStore() *StaticStore {
	return NewStaticStore(map[model.DocumentType][]Requirement{
		model.DocTypeContract: {
			{RegulationID: "clause-termination", Description: "Termination clause", PenaltySeverity: model.SeverityHigh},
			{RegulationID: "clause-confidentiality", Description: "Confidentiality agreement", PenaltySeverity: model.SeverityHigh},
			{RegulationID: "clause-indemnification", Description: "Indemnification clause", PenaltySeverity: model.SeverityMedium},
			{RegulationID: "clause-dispute-resolution", Description: "Dispute resolution clause", PenaltySeverity: model.SeverityMedium},
		},
		model.DocTypeLicense: {
			{RegulationID: "clause-license-scope", Description: "License scope", PenaltySeverity: model.SeverityHigh},
			{RegulationID: "clause-usage-restrictions", Description: "Usage restrictions", PenaltySeverity: model.SeverityMedium},
			{RegulationID: "clause-renewal-terms", Description: "Renewal terms", PenaltySeverity: model.SeverityMedium},
			{RegulationID: "cert-business-license", Description: "Business license certification", RenewalPeriodDays: 365, PenaltySeverity: model.SeverityHigh},
			{RegulationID: "reg-state-licensing", Description: "State licensing requirements", RenewalPeriodDays: 365, PenaltySeverity: model.SeverityHigh},
		},
		model.DocTypeServiceAgreement: {
			{RegulationID: "clause-sla", Description: "Service Level Agreement (SLA)", PenaltySeverity: model.SeverityHigh},
			{RegulationID: "clause-data-protection", Description: "Data protection clause", PenaltySeverity: model.SeverityHigh},
			{RegulationID: "clause-liability", Description: "Liability limitations", PenaltySeverity: model.SeverityMedium},
			{RegulationID: "cert-iso27001", Description: "ISO27001 certification", RenewalPeriodDays: 1095, PenaltySeverity: model.SeverityMedium},
			{RegulationID: "cert-soc2", Description: "SOC2 Type II attestation", RenewalPeriodDays: 365, PenaltySeverity: model.SeverityMedium},
			{RegulationID: "reg-gdpr", Description: "GDPR compliance", PenaltySeverity: model.SeverityHigh},
			{RegulationID: "reg-dpa", Description: "Data Processing Agreement", PenaltySeverity: model.SeverityHigh},
		},
	})
}
