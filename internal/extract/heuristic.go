package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/verilex/verilex/internal/model"
)

// HeuristicExtractor is a deterministic, offline extractor built on date
// patterns and keyword matching. It is the default provider when no model is
// configured and the reference implementation used throughout the tests. It
// never fails: a document with no recognizable structure just yields empty
// facts.
type HeuristicExtractor struct {
	regulationKeywords map[string][]string
}

// NewHeuristicExtractor creates a heuristic extractor with the built-in
// keyword tables
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{
		regulationKeywords: map[string][]string{
			"clause-termination":        {"terminat"},
			"clause-confidentiality":    {"confidential", "non-disclosure"},
			"clause-indemnification":    {"indemnif", "hold harmless"},
			"clause-dispute-resolution": {"dispute resolution", "arbitration", "mediation"},
			"clause-license-scope":      {"license scope", "scope of the license", "scope of license"},
			"clause-usage-restrictions": {"usage restriction", "restrictions on use", "may not use"},
			"clause-renewal-terms":      {"renewal term", "renew automatically", "automatic renewal"},
			"cert-business-license":     {"business license"},
			"reg-state-licensing":       {"state licensing", "state license"},
			"clause-sla":                {"service level agreement", "service levels", "uptime"},
			"clause-data-protection":    {"data protection clause", "protection of personal data"},
			"clause-liability":          {"limitation of liability", "liability is limited", "liability cap"},
			"cert-iso27001":             {"iso27001", "iso 27001"},
			"cert-soc2":                 {"soc2", "soc 2"},
			"reg-gdpr":                  {"gdpr", "general data protection regulation"},
			"reg-dpa":                   {"data processing agreement", "data processing addendum"},
		},
	}
}

// Name returns the provider name
func (e *HeuristicExtractor) Name() string { return "heuristic" }

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
		regexp.MustCompile(`\b[A-Z][a-z]+ \d{1,2}, \d{4}\b`),
	}

	dateLayouts = []string{"2006-01-02", "01/02/2006", "1/2/2006", "January 2, 2006", "Jan 2, 2006"}

	clauseRefPattern = regexp.MustCompile(`(?i)\b(section|clause|article|exhibit)\s+([0-9]+(?:\.[0-9]+)*|[A-Z])\b`)
	partiesPattern   = regexp.MustCompile(`(?i)\bbetween\s+(.+?)\s+(?:\(|,)?\s*and\s+(.+?)(?:\.|,|\n|$)`)

	obligationVerbs = []string{" shall ", " must ", " agrees to ", " is required to ", " will provide ", " undertakes to "}
	renewalKeywords = []string{"renew", "expir", "deadline", "termination date", "due date", "notice period"}
	unclearMarkers  = []string{"as applicable", "reasonable efforts", "to the extent", "where practicable"}
)

// Classify identifies the document type, parties and key dates from keywords
func (e *HeuristicExtractor) Classify(_ context.Context, rawText string) (*model.Classification, error) {
	lower := strings.ToLower(rawText)

	docType := model.DocTypeOther
	switch {
	case strings.Contains(lower, "service agreement") || strings.Contains(lower, "services agreement") || strings.Contains(lower, "master services"):
		docType = model.DocTypeServiceAgreement
	case strings.Contains(lower, "license agreement") || strings.Contains(lower, "licensing agreement") || strings.Contains(lower, "license"):
		docType = model.DocTypeLicense
	case strings.Contains(lower, "agreement") || strings.Contains(lower, "contract"):
		docType = model.DocTypeContract
	}

	cls := &model.Classification{DocumentType: docType}

	if m := partiesPattern.FindStringSubmatch(rawText); m != nil {
		cls.Parties = []string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}
	}

	for _, sentence := range splitSentences(rawText) {
		sl := strings.ToLower(sentence)
		date, ok := firstDate(sentence)
		if !ok {
			continue
		}
		if cls.EffectiveDate == nil && strings.Contains(sl, "effective") {
			d := date
			cls.EffectiveDate = &d
		}
		if cls.ExpirationDate == nil && (strings.Contains(sl, "expir") || strings.Contains(sl, "terminates on") || strings.Contains(sl, "in effect until")) {
			d := date
			cls.ExpirationDate = &d
		}
	}

	return cls, nil
}

// ExtractFacts pulls renewal candidates, obligations and compliance
// statements out of the text using the keyword tables
func (e *HeuristicExtractor) ExtractFacts(_ context.Context, rawText string, _ model.DocumentType) (*model.RawFacts, error) {
	facts := &model.RawFacts{
		RenewalCandidates:    []model.RenewalCandidate{},
		ObligationCandidates: []model.ObligationCandidate{},
		ComplianceStatements: []model.ComplianceStatement{},
	}

	sentences := splitSentences(rawText)

	for _, sentence := range sentences {
		sl := strings.ToLower(sentence)

		// Renewal candidates: a date plus renewal/expiry context
		if date, ok := firstDate(sentence); ok && containsAny(sl, renewalKeywords) {
			facts.RenewalCandidates = append(facts.RenewalCandidates, model.RenewalCandidate{
				Date:            date,
				Description:     strings.TrimSpace(sentence),
				ClauseReference: clauseRef(sentence),
			})
		}

		// Obligations: modal verbs binding a party
		if verb := firstMatch(sl, obligationVerbs); verb != "" {
			status := "pending"
			if containsAny(sl, unclearMarkers) {
				status = "unclear"
			}
			oc := model.ObligationCandidate{
				ClauseID:    clauseRef(sentence),
				Requirement: strings.TrimSpace(sentence),
				Party:       obligedParty(sentence, verb),
				Status:      status,
			}
			if date, ok := firstDate(sentence); ok && !containsAny(sl, renewalKeywords) {
				d := date
				oc.Deadline = &d
			}
			facts.ObligationCandidates = append(facts.ObligationCandidates, oc)
		}
	}

	// Compliance statements: one per regulation the text shows coverage for
	lower := strings.ToLower(rawText)
	for regID, keywords := range e.regulationKeywords {
		for _, kw := range keywords {
			idx := strings.Index(lower, kw)
			if idx < 0 {
				continue
			}
			facts.ComplianceStatements = append(facts.ComplianceStatements, model.ComplianceStatement{
				RegulationID: regID,
				Statement:    surroundingSentence(rawText, idx),
				Satisfied:    true,
				Evidence:     "keyword:" + kw,
			})
			break
		}
	}
	sort.Slice(facts.ComplianceStatements, func(i, j int) bool {
		return facts.ComplianceStatements[i].RegulationID < facts.ComplianceStatements[j].RegulationID
	})

	return facts, nil
}

// splitSentences splits text into rough sentences on terminators and
// newlines. A period between digits is part of a section number or decimal,
// not a terminator.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		if r == '.' && i > 0 && i+1 < len(runes) && isDigit(runes[i-1]) && isDigit(runes[i+1]) {
			b.WriteRune(r)
			continue
		}
		if r == '.' || r == ';' || r == '\n' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func firstDate(s string) (time.Time, bool) {
	for _, pat := range datePatterns {
		if m := pat.FindString(s); m != "" {
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, m); err == nil {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

func clauseRef(s string) string {
	if m := clauseRefPattern.FindStringSubmatch(s); m != nil {
		kind := strings.ToLower(m[1])
		return strings.ToUpper(kind[:1]) + kind[1:] + " " + m[2]
	}
	return ""
}

func obligedParty(sentence, verb string) string {
	idx := strings.Index(strings.ToLower(sentence), verb)
	if idx <= 0 {
		return ""
	}
	subject := strings.TrimSpace(sentence[:idx])
	// Keep only the tail clause, the likely grammatical subject
	if colon := strings.LastIndex(subject, ":"); colon >= 0 {
		subject = strings.TrimSpace(subject[colon+1:])
	}
	if comma := strings.LastIndex(subject, ","); comma >= 0 {
		subject = strings.TrimSpace(subject[comma+1:])
	}
	words := strings.Fields(subject)
	if len(words) > 4 {
		words = words[len(words)-4:]
	}
	return strings.Join(words, " ")
}

func surroundingSentence(text string, idx int) string {
	start := strings.LastIndexAny(text[:idx], ".;\n") + 1
	end := strings.IndexAny(text[idx:], ".;\n")
	if end < 0 {
		end = len(text) - idx
	}
	return strings.TrimSpace(text[start : idx+end])
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstMatch(s string, subs []string) string {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return sub
		}
	}
	return ""
}
