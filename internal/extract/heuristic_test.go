package extract

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/verilex/verilex/internal/model"
)

const serviceAgreementText = `MASTER SERVICE AGREEMENT

This Service Agreement is made between Acme Corp and Beta Logistics LLC.
This agreement is effective as of 2025-01-15.
The agreement expires on 2026-01-15.

Section 3.1: The Vendor shall deliver monthly status reports.
Section 4.2: The license must be renewed by 2025-09-01.
The Contractor shall submit the audit report by 2025-03-01.
The Client must use reasonable efforts to maintain uptime records.

The parties acknowledge GDPR obligations and maintain SOC 2 Type II attestation.
`

func TestHeuristicExtractor_Classify(t *testing.T) {
	cls, err := NewHeuristicExtractor().Classify(context.Background(), serviceAgreementText)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cls.DocumentType != model.DocTypeServiceAgreement {
		t.Errorf("Expected service_agreement, got %s", cls.DocumentType)
	}
	if !reflect.DeepEqual(cls.Parties, []string{"Acme Corp", "Beta Logistics LLC"}) {
		t.Errorf("Unexpected parties: %v", cls.Parties)
	}

	wantEffective := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if cls.EffectiveDate == nil || !cls.EffectiveDate.Equal(wantEffective) {
		t.Errorf("Expected effective date %v, got %v", wantEffective, cls.EffectiveDate)
	}
	wantExpiration := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if cls.ExpirationDate == nil || !cls.ExpirationDate.Equal(wantExpiration) {
		t.Errorf("Expected expiration date %v, got %v", wantExpiration, cls.ExpirationDate)
	}
}

func TestHeuristicExtractor_ClassifyTypes(t *testing.T) {
	tests := []struct {
		text string
		want model.DocumentType
	}{
		{"This Software License Agreement governs use of the product", model.DocTypeLicense},
		{"This Employment Contract is entered into by the parties", model.DocTypeContract},
		{"Master Services Agreement for cloud hosting", model.DocTypeServiceAgreement},
		{"Minutes of the quarterly board meeting", model.DocTypeOther},
	}

	e := NewHeuristicExtractor()
	for _, tt := range tests {
		cls, err := e.Classify(context.Background(), tt.text)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cls.DocumentType != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.text, cls.DocumentType, tt.want)
		}
	}
}

func TestHeuristicExtractor_ExtractFacts(t *testing.T) {
	facts, err := NewHeuristicExtractor().ExtractFacts(context.Background(), serviceAgreementText, model.DocTypeServiceAgreement)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Renewal candidate from the dated renewal sentence
	if len(facts.RenewalCandidates) == 0 {
		t.Fatal("Expected at least one renewal candidate")
	}
	renewal := facts.RenewalCandidates[0]
	wantDate := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	for _, rc := range facts.RenewalCandidates {
		if rc.Date.Equal(wantDate) {
			renewal = rc
		}
	}
	if !renewal.Date.Equal(wantDate) {
		t.Errorf("Expected renewal candidate dated %v, got %v", wantDate, renewal.Date)
	}
	if renewal.ClauseReference != "Section 4.2" {
		t.Errorf("Expected clause reference 'Section 4.2', got %q", renewal.ClauseReference)
	}

	// Obligations from modal verbs
	byParty := map[string]model.ObligationCandidate{}
	for _, oc := range facts.ObligationCandidates {
		byParty[oc.Party] = oc
	}

	vendor, ok := byParty["The Vendor"]
	if !ok {
		t.Fatalf("Expected an obligation bound to The Vendor, got %v", facts.ObligationCandidates)
	}
	if vendor.Status != "pending" {
		t.Errorf("Expected vendor obligation pending, got %s", vendor.Status)
	}
	if vendor.ClauseID != "Section 3.1" {
		t.Errorf("Expected clause ID 'Section 3.1', got %q", vendor.ClauseID)
	}

	client, ok := byParty["The Client"]
	if !ok {
		t.Fatalf("Expected an obligation bound to The Client, got %v", facts.ObligationCandidates)
	}
	if client.Status != "unclear" {
		t.Errorf("Expected 'reasonable efforts' obligation to be unclear, got %s", client.Status)
	}

	contractor, ok := byParty["The Contractor"]
	if !ok {
		t.Fatalf("Expected an obligation bound to The Contractor, got %v", facts.ObligationCandidates)
	}
	wantDeadline := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if contractor.Deadline == nil || !contractor.Deadline.Equal(wantDeadline) {
		t.Errorf("Expected contractor deadline %v, got %v", wantDeadline, contractor.Deadline)
	}

	// Compliance statements from regulation keywords, in stable order
	var regIDs []string
	for _, st := range facts.ComplianceStatements {
		if !st.Satisfied {
			t.Errorf("Expected keyword-matched statement %s to be satisfied", st.RegulationID)
		}
		regIDs = append(regIDs, st.RegulationID)
	}
	wantCovered := map[string]bool{"reg-gdpr": false, "cert-soc2": false, "clause-sla": false}
	for _, id := range regIDs {
		if _, ok := wantCovered[id]; ok {
			wantCovered[id] = true
		}
	}
	for id, covered := range wantCovered {
		if !covered {
			t.Errorf("Expected a compliance statement for %s, got %v", id, regIDs)
		}
	}
	if !sortedStrings(regIDs) {
		t.Errorf("Expected statements sorted by regulation ID, got %v", regIDs)
	}
}

func TestHeuristicExtractor_EmptyDocument(t *testing.T) {
	facts, err := NewHeuristicExtractor().ExtractFacts(context.Background(), "nothing of note here", model.DocTypeOther)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(facts.RenewalCandidates) != 0 || len(facts.ObligationCandidates) != 0 || len(facts.ComplianceStatements) != 0 {
		t.Errorf("Expected empty facts, got %+v", facts)
	}
}

func TestHeuristicExtractor_Deterministic(t *testing.T) {
	e := NewHeuristicExtractor()
	first, err := e.ExtractFacts(context.Background(), serviceAgreementText, model.DocTypeServiceAgreement)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.ExtractFacts(context.Background(), serviceAgreementText, model.DocTypeServiceAgreement)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Expected identical facts on repeat extraction, run %d differed", i)
		}
	}
}

func sortedStrings(xs []string) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i-1] > xs[i] {
			return false
		}
	}
	return true
}
