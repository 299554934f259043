package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verilex/verilex/internal/compliance"
	"github.com/verilex/verilex/internal/extract"
	"github.com/verilex/verilex/internal/model"
	"github.com/verilex/verilex/internal/report"
	"github.com/verilex/verilex/internal/rules"
	"github.com/verilex/verilex/internal/score"
	"github.com/verilex/verilex/internal/store"
)

// Stage names, recorded on the record for diagnostics. A suspended or failed
// record shows the last stage that held it.
const (
	StageIngesting         = "Ingesting"
	StageClassified        = "Classified"
	StageExtracted         = "Extracted"
	StageComplianceChecked = "ComplianceChecked"
	StageRiskAssessed      = "RiskAssessed"
	StageReview            = "Review"
	StageReport            = "Report"
)

// Runner drives a verification record through the stage sequence
// Ingesting -> Classified -> Extracted -> ComplianceChecked -> RiskAssessed,
// then either completes the run or suspends it for human review. One run
// owns its record exclusively between start and suspension or a terminal
// state; between suspension and resume the record is inert in the store.
type Runner struct {
	extractor extract.Extractor
	rules     rules.Store
	matcher   *compliance.Matcher
	scorer    *score.Scorer
	store     store.Store
	assembler *report.Assembler
	cfg       model.ScoringConfig
}

// NewRunner wires a pipeline from its collaborators
func NewRunner(cfg model.ScoringConfig, ex extract.Extractor, ruleStore rules.Store, recordStore store.Store) *Runner {
	return &Runner{
		extractor: ex,
		rules:     ruleStore,
		matcher:   compliance.NewMatcher(),
		scorer:    score.NewScorer(cfg),
		store:     recordStore,
		assembler: report.NewAssembler(),
		cfg:       cfg,
	}
}

// StartRequest is the ingestion contract: a document enters the pipeline as
// raw text plus optional caller-supplied identity and type.
type StartRequest struct {
	DocumentID   string             `json:"documentId,omitempty"`
	DocumentType model.DocumentType `json:"documentType,omitempty"`
	RawText      string             `json:"rawText"`
	Metadata     map[string]string  `json:"metadata,omitempty"`
}

// Start runs the pipeline on a new document until it completes, fails, or
// suspends for review. The returned record is always usable: on failure it
// carries the failure reason and whatever partial results were computed
// before the failing stage. The error mirrors the failure for callers that
// branch on error values; a suspended or completed run returns a nil error.
func (r *Runner) Start(ctx context.Context, req StartRequest) (*model.VerificationRecord, error) {
	if req.RawText == "" {
		return nil, &ValidationError{Field: "rawText", Reason: "document text is empty"}
	}

	docID := req.DocumentID
	if docID == "" {
		docID = uuid.NewString()
	}

	now := time.Now().UTC()
	record := &model.VerificationRecord{
		DocumentID:      docID,
		DocumentType:    req.DocumentType,
		Metadata:        req.Metadata,
		RenewalDates:    []model.RenewalDate{},
		Obligations:     []model.Obligation{},
		ComplianceItems: []model.ComplianceItem{},
		Risks:           []model.Risk{},
		PipelineStatus:  model.StatusProcessing,
		Stage:           StageIngesting,
		CreatedAt:       now, // reference time for every date computation in this run
		UpdatedAt:       now,
	}

	if err := r.classify(ctx, record, req.RawText); err != nil {
		if perr := r.fail(ctx, record, StageClassified, err); perr != nil {
			return record, perr
		}
		return record, err
	}

	if err := r.extractFacts(ctx, record, req.RawText); err != nil {
		if perr := r.fail(ctx, record, StageExtracted, err); perr != nil {
			return record, perr
		}
		return record, err
	}

	return r.runFromExtracted(ctx, record)
}

// Resume re-enters a suspended run with the reviewer's decision. It validates
// the suspension barrier first: feedback against anything but an
// AwaitingReview record fails with StaleStateError, so double submissions
// and feedback for finished runs are rejected rather than applied.
func (r *Runner) Resume(ctx context.Context, documentID string, fb model.HumanFeedback) (*model.VerificationRecord, error) {
	record, err := r.store.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if record.PipelineStatus != model.StatusAwaitingReview {
		return nil, &StaleStateError{DocumentID: documentID, Status: record.PipelineStatus}
	}
	if !fb.Decision.Valid() {
		return nil, &ValidationError{Field: "decision", Reason: fmt.Sprintf("unknown decision %q", fb.Decision)}
	}

	if fb.SubmittedAt.IsZero() {
		fb.SubmittedAt = time.Now().UTC()
	}
	record.HumanFeedback = &fb
	record.Stage = StageReview

	switch fb.Decision {
	case model.DecisionApprove:
		// Findings stand exactly as computed before suspension
		return r.complete(ctx, record)

	case model.DecisionReject:
		if perr := r.fail(ctx, record, StageReview, errors.New("rejected by reviewer")); perr != nil {
			return record, perr
		}
		return record, nil

	default: // revise
		if fb.CorrectedFacts != nil {
			record.RawFacts = fb.CorrectedFacts
		}
		record.PipelineStatus = model.StatusProcessing
		// Re-enter at Extracted: compliance and risk are recomputed from
		// the corrected facts against the original reference time, replacing
		// the prior attempt's findings rather than appending to them.
		return r.runFromExtracted(ctx, record)
	}
}

// Cancel aborts a run. A suspended run is cancelled as a reject-equivalent
// transition so the external review task is visibly closed, never silently
// discarded. Terminal runs cannot be cancelled.
func (r *Runner) Cancel(ctx context.Context, documentID string) (*model.VerificationRecord, error) {
	record, err := r.store.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if record.PipelineStatus.Terminal() {
		return nil, &StaleStateError{DocumentID: documentID, Status: record.PipelineStatus}
	}

	reason := errors.New("cancelled")
	if record.PipelineStatus == model.StatusAwaitingReview {
		reason = errors.New("rejected by reviewer: cancelled during review")
	}
	if perr := r.fail(ctx, record, record.Stage, reason); perr != nil {
		return record, perr
	}
	return record, nil
}

// Get returns the current record for a document
func (r *Runner) Get(ctx context.Context, documentID string) (*model.VerificationRecord, error) {
	return r.store.Get(ctx, documentID)
}

// classify fills in document type, parties and key dates. A caller-supplied
// document type wins; classification only fills the gaps.
func (r *Runner) classify(ctx context.Context, record *model.VerificationRecord, rawText string) error {
	cls, err := r.extractor.Classify(ctx, rawText)
	if err != nil {
		return fmt.Errorf("classification: %w", err)
	}

	if record.DocumentType == "" {
		record.DocumentType = cls.DocumentType.Normalize()
	} else {
		record.DocumentType = record.DocumentType.Normalize()
	}
	record.Parties = cls.Parties
	record.EffectiveDate = cls.EffectiveDate
	record.ExpirationDate = cls.ExpirationDate
	record.Stage = StageClassified
	record.UpdatedAt = time.Now().UTC()
	return nil
}

// extractFacts calls the extraction capability and stores the raw facts
func (r *Runner) extractFacts(ctx context.Context, record *model.VerificationRecord, rawText string) error {
	facts, err := r.extractor.ExtractFacts(ctx, rawText, record.DocumentType)
	if err != nil {
		return fmt.Errorf("fact extraction: %w", err)
	}
	record.RawFacts = facts
	return nil
}

// runFromExtracted materializes findings from the raw facts and runs the
// remaining stages. Both the initial pass and a revise re-entry come through
// here, so findings are always rebuilt from scratch.
func (r *Runner) runFromExtracted(ctx context.Context, record *model.VerificationRecord) (*model.VerificationRecord, error) {
	ref := record.CreatedAt

	record.RenewalDates = r.materializeRenewals(record, ref)
	record.Obligations = r.materializeObligations(record, ref)
	record.Risks = []model.Risk{}
	record.Stage = StageExtracted
	record.UpdatedAt = time.Now().UTC()

	// Compliance check
	reqs := r.rules.RulesFor(record.DocumentType.Normalize())
	items := r.matcher.Match(record.RawFacts, reqs, ref)
	items = append(items, r.matcher.DeadlineItems(record.RenewalDates)...)
	record.ComplianceItems = items
	record.Stage = StageComplianceChecked
	record.UpdatedAt = time.Now().UTC()

	// Risk assessment
	assessment := r.scorer.Calculate(record.RenewalDates, record.Obligations, record.ComplianceItems)
	record.OverallRiskScore = assessment.OverallScore
	record.RiskLevel = assessment.Level
	record.Risks = assessment.Risks
	record.Stage = StageRiskAssessed
	record.UpdatedAt = time.Now().UTC()

	if r.requiresReview(record) {
		// A suspended record never carries feedback: AwaitingReview means the
		// gate is waiting on a decision that has not been made yet. A revise
		// whose corrected facts still gate re-suspends with a clean slate.
		record.HumanFeedback = nil
		record.PipelineStatus = model.StatusAwaitingReview
		if err := r.store.Save(ctx, record); err != nil {
			return record, fmt.Errorf("suspend record %s: %w", record.DocumentID, err)
		}
		return record, nil
	}

	return r.complete(ctx, record)
}

// requiresReview is the gate rule at RiskAssessed: high score or any
// critical-severity risk suspends the run for human review
func (r *Runner) requiresReview(record *model.VerificationRecord) bool {
	if record.OverallRiskScore > r.cfg.ReviewThreshold {
		return true
	}
	for _, risk := range record.Risks {
		if risk.Severity == model.SeverityCritical {
			return true
		}
	}
	return false
}

// materializeRenewals turns renewal candidates into dated entries with
// urgency computed against the run's reference time. The classification's
// expiration date joins them unless a candidate already covers that date.
func (r *Runner) materializeRenewals(record *model.VerificationRecord, ref time.Time) []model.RenewalDate {
	renewals := []model.RenewalDate{}
	dates := map[string]bool{}
	seen := map[string]bool{}

	add := func(date time.Time, description, clause string) {
		key := date.Format("2006-01-02") + "|" + description
		if seen[key] {
			return
		}
		seen[key] = true
		dates[date.Format("2006-01-02")] = true
		days := daysUntil(ref, date)
		renewals = append(renewals, model.RenewalDate{
			Date:            date,
			Description:     description,
			DaysUntil:       days,
			UrgencyLevel:    r.urgencyFor(days),
			ClauseReference: clause,
		})
	}

	if record.RawFacts != nil {
		for _, rc := range record.RawFacts.RenewalCandidates {
			add(rc.Date, rc.Description, rc.ClauseReference)
		}
	}
	// The classified expiration date counts as a deadline unless a candidate
	// already covers that date
	if exp := record.ExpirationDate; exp != nil && !dates[exp.Format("2006-01-02")] {
		add(*exp, "Document expiration", "")
	}

	return renewals
}

// materializeObligations turns obligation candidates into tracked
// obligations, marking pending ones with a lapsed deadline as overdue
func (r *Runner) materializeObligations(record *model.VerificationRecord, ref time.Time) []model.Obligation {
	obligations := []model.Obligation{}
	if record.RawFacts == nil {
		return obligations
	}

	for _, oc := range record.RawFacts.ObligationCandidates {
		status := model.ObligationStatus(oc.Status)
		switch status {
		case model.ObligationPending, model.ObligationMet, model.ObligationOverdue, model.ObligationUnclear:
		default:
			status = model.ObligationPending
		}
		if status == model.ObligationPending && oc.Deadline != nil && oc.Deadline.Before(ref) {
			status = model.ObligationOverdue
		}

		id := oc.ClauseID
		if id == "" {
			id = uuid.NewString()
		}

		obligations = append(obligations, model.Obligation{
			ID:               id,
			Requirement:      oc.Requirement,
			ResponsibleParty: oc.Party,
			Status:           status,
			Deadline:         oc.Deadline,
			Description:      oc.Description,
		})
	}
	return obligations
}

// urgencyFor maps days-until-deadline onto the urgency scale: overdue or
// inside the critical window is critical, then high, then medium, else low
func (r *Runner) urgencyFor(days int) model.Severity {
	switch {
	case days <= r.cfg.CriticalDays:
		return model.SeverityCritical
	case days <= r.cfg.HighDays:
		return model.SeverityHigh
	case days <= r.cfg.MediumDays:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// complete assembles the report onto the record and persists the terminal
// state. Everything computed before this point is read-only to assembly.
func (r *Runner) complete(ctx context.Context, record *model.VerificationRecord) (*model.VerificationRecord, error) {
	record.Stage = StageReport
	r.assembler.Assemble(record)
	record.PipelineStatus = model.StatusCompleted
	record.UpdatedAt = time.Now().UTC()

	if err := r.store.Save(ctx, record); err != nil {
		return record, fmt.Errorf("persist completed record %s: %w", record.DocumentID, err)
	}
	return record, nil
}

// fail marks the record Failed with a human-readable reason, keeping partial
// results for diagnostics, and persists it. Extractor timeouts get their own
// reason so callers can tell them from model errors. The return value is the
// persistence error, if any; the cause itself is the caller's to report.
func (r *Runner) fail(ctx context.Context, record *model.VerificationRecord, stage string, cause error) error {
	reason := cause.Error()
	switch {
	case errors.Is(cause, context.DeadlineExceeded):
		reason = fmt.Sprintf("%s: extractor timed out", stage)
	case errors.Is(cause, extract.ErrModelUnavailable):
		reason = fmt.Sprintf("extraction failed: %v", cause)
	case errors.Is(cause, extract.ErrMalformedResponse):
		reason = fmt.Sprintf("extraction returned unusable output: %v", cause)
	}

	record.PipelineStatus = model.StatusFailed
	record.FailureReason = reason
	record.Stage = stage
	record.UpdatedAt = time.Now().UTC()

	if err := r.store.Save(ctx, record); err != nil {
		return fmt.Errorf("persist failed record %s: %w", record.DocumentID, err)
	}
	return nil
}

// daysUntil counts whole days from ref to date, negative when overdue
func daysUntil(ref, date time.Time) int {
	return int(date.Sub(ref).Hours() / 24)
}
