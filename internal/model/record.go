package model

import "time"

// DocumentType classifies the kind of legal document under verification
type DocumentType string

const (
	DocTypeContract         DocumentType = "contract"
	DocTypeLicense          DocumentType = "license"
	DocTypeServiceAgreement DocumentType = "service_agreement"
	DocTypeOther            DocumentType = "other"
)

// Normalize maps unknown or empty document types to DocTypeOther
func (t DocumentType) Normalize() DocumentType {
	switch t {
	case DocTypeContract, DocTypeLicense, DocTypeServiceAgreement:
		return t
	default:
		return DocTypeOther
	}
}

// PipelineStatus is the externally visible lifecycle state of a verification run.
// The spellings are consumed as discriminants by reports and UIs - do not change.
type PipelineStatus string

const (
	StatusProcessing     PipelineStatus = "Processing"
	StatusAwaitingReview PipelineStatus = "AwaitingReview"
	StatusCompleted      PipelineStatus = "Completed"
	StatusFailed         PipelineStatus = "Failed"
)

// Terminal reports whether the status admits no further transitions
func (s PipelineStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// RiskLevel is the severity classification derived from the overall risk score
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// RiskLevelForScore derives the risk level from a 0-100 score. The intervals
// are closed on the right: [0,25] Low, (25,50] Medium, (50,75] High,
// (75,100] Critical. This is the only place the mapping lives; riskLevel is
// never set independently of the score.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 50:
		return RiskMedium
	case score <= 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// Severity grades individual findings (risks, compliance gaps, renewal urgency)
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ComplianceStatus is the per-requirement reconciliation outcome
type ComplianceStatus string

const (
	ComplianceMet     ComplianceStatus = "met"
	ComplianceMissing ComplianceStatus = "missing"
	ComplianceExpired ComplianceStatus = "expired"
)

// ObligationStatus tracks whether a contractual obligation has been fulfilled
type ObligationStatus string

const (
	ObligationPending ObligationStatus = "pending"
	ObligationMet     ObligationStatus = "met"
	ObligationOverdue ObligationStatus = "overdue"
	ObligationUnclear ObligationStatus = "unclear"
)

// ReviewDecision is the action a human reviewer takes at the review checkpoint
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionRevise  ReviewDecision = "revise"
	DecisionReject  ReviewDecision = "reject"
)

// Valid reports whether the decision is one of the accepted spellings
func (d ReviewDecision) Valid() bool {
	return d == DecisionApprove || d == DecisionRevise || d == DecisionReject
}

// RenewalDate is a dated renewal or expiration obligation found in the document.
// DaysUntil is computed against the run's reference time, never re-derived
// per stage, so every stage sees the same urgency.
type RenewalDate struct {
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	DaysUntil       int       `json:"daysUntil"`
	UrgencyLevel    Severity  `json:"urgencyLevel"`
	ClauseReference string    `json:"clauseReference,omitempty"`
}

// Obligation is a contractual duty owed by one of the parties
type Obligation struct {
	ID               string           `json:"id"`
	Requirement      string           `json:"requirement"`
	ResponsibleParty string           `json:"responsibleParty"`
	Status           ObligationStatus `json:"status"`
	Deadline         *time.Time       `json:"deadline,omitempty"`
	Description      string           `json:"description,omitempty"`
}

// ComplianceItem is the reconciliation of one regulatory requirement against
// the statements extracted from the document
type ComplianceItem struct {
	RegulationID string           `json:"regulationId"`
	Requirement  string           `json:"requirement"`
	Status       ComplianceStatus `json:"status"`
	Gap          string           `json:"gap,omitempty"`
	Severity     Severity         `json:"severity"`
}

// RiskCategory classifies the source of an identified risk
type RiskCategory string

const (
	RiskCategoryCompliance  RiskCategory = "compliance"
	RiskCategoryDeadline    RiskCategory = "deadline"
	RiskCategoryContractual RiskCategory = "contractual"
)

// Risk is one distinct contributing factor to the overall score, kept so
// downstream consumers can explain the number
type Risk struct {
	ID                string       `json:"id"`
	Category          RiskCategory `json:"category"`
	Severity          Severity     `json:"severity"`
	Description       string       `json:"description"`
	Mitigation        string       `json:"mitigation"`
	ContributionScore float64      `json:"contributionScore"`
}

// HumanFeedback is the reviewer's decision supplied through the review gate.
// CorrectedFacts is only honored for a revise decision: the pipeline re-enters
// at the extraction stage with these facts instead of calling the extractor.
type HumanFeedback struct {
	Decision       ReviewDecision `json:"decision"`
	Comments       string         `json:"comments,omitempty"`
	ReviewerID     string         `json:"reviewerId,omitempty"`
	CorrectedFacts *RawFacts      `json:"correctedFacts,omitempty"`
	SubmittedAt    time.Time      `json:"submittedAt,omitempty"`
}

// VerificationRecord is the single mutable record a pipeline run operates on.
// Exactly one run owns it between start and suspension or a terminal state;
// once Completed or Failed it is handed to report assembly and never mutated.
type VerificationRecord struct {
	DocumentID   string       `json:"documentId"`
	DocumentType DocumentType `json:"documentType"`

	// Metadata is caller-supplied and carried through untouched
	Metadata map[string]string `json:"metadata,omitempty"`

	// Classification output
	Parties        []string   `json:"parties,omitempty"`
	EffectiveDate  *time.Time `json:"effectiveDate,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`

	RawFacts *RawFacts `json:"rawFacts,omitempty"`

	RenewalDates    []RenewalDate    `json:"renewalDates"`
	Obligations     []Obligation     `json:"obligations"`
	ComplianceItems []ComplianceItem `json:"complianceItems"`

	Risks            []Risk    `json:"risks"`
	OverallRiskScore float64   `json:"overallRiskScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`

	HumanFeedback *HumanFeedback `json:"humanFeedback,omitempty"`

	PipelineStatus PipelineStatus `json:"pipelineStatus"`
	FailureReason  string         `json:"failureReason,omitempty"`

	// Stage is the name of the last pipeline stage that held the record,
	// kept for diagnostics on suspended and failed runs
	Stage string `json:"stage,omitempty"`

	Summary         string   `json:"summary,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`

	// CreatedAt doubles as the run's reference timestamp: every DaysUntil
	// and expiry comparison is made against it, including after a revise
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
