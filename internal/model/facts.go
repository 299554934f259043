package model

import "time"

// Classification is the extractor's structural read of a document
type Classification struct {
	DocumentType   DocumentType `json:"documentType"`
	Parties        []string     `json:"parties,omitempty"`
	EffectiveDate  *time.Time   `json:"effectiveDate,omitempty"`
	ExpirationDate *time.Time   `json:"expirationDate,omitempty"`
}

// RawFacts is everything the fact extractor pulled out of a document. The
// pipeline treats it as opaque until the matching and scoring stages consume
// it; a reviewer can replace it wholesale through a revise decision.
type RawFacts struct {
	RenewalCandidates    []RenewalCandidate    `json:"renewalCandidates"`
	ObligationCandidates []ObligationCandidate `json:"obligationCandidates"`
	ComplianceStatements []ComplianceStatement `json:"complianceStatements"`
}

// RenewalCandidate is a dated deadline found in the document text
type RenewalCandidate struct {
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	ClauseReference string    `json:"clauseReference,omitempty"`
}

// ObligationCandidate is a contractual duty found in the document text
type ObligationCandidate struct {
	ClauseID    string     `json:"clauseId,omitempty"`
	Requirement string     `json:"requirement"`
	Party       string     `json:"party,omitempty"`
	Status      string     `json:"status,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Description string     `json:"description,omitempty"`
}

// ComplianceStatement is the extractor's judgment of whether the document
// covers one regulatory requirement. Matching is capability-based: the
// extractor decides semantic coverage and reports it per regulation; the
// matcher only consumes the satisfied flag and the optional satisfaction date.
type ComplianceStatement struct {
	RegulationID string     `json:"regulationId"`
	Statement    string     `json:"statement,omitempty"`
	Satisfied    bool       `json:"satisfied"`
	SatisfiedAt  *time.Time `json:"satisfiedAt,omitempty"`
	Evidence     string     `json:"evidence,omitempty"`
}
