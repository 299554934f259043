package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/verilex/verilex/internal/model"
)

// OpenAIExtractor implements Extractor on the OpenAI Chat Completions API.
// Both operations ask for a single JSON object and parse it strictly: an
// unreachable API maps to ErrModelUnavailable, unusable output to
// ErrMalformedResponse, so the pipeline can report a distinguishable failure
// reason for each.
type OpenAIExtractor struct {
	client *openai.Client
	config model.ExtractorConfig
}

// NewOpenAIExtractor creates an OpenAI-backed extractor
func NewOpenAIExtractor(cfg model.ExtractorConfig) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai extractor: API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Name returns the provider name
func (e *OpenAIExtractor) Name() string { return "openai" }

const classifySystemPrompt = `You classify legal documents. Respond with a single JSON object:
{"documentType": "contract"|"license"|"service_agreement"|"other",
 "parties": ["..."],
 "effectiveDate": "YYYY-MM-DD" or null,
 "expirationDate": "YYYY-MM-DD" or null}
Use null for anything the document does not state. Output JSON only.`

const extractSystemPrompt = `You extract verification facts from legal documents. Respond with a single JSON object:
{"renewalCandidates": [{"date": "YYYY-MM-DD", "description": "...", "clauseReference": "..."}],
 "obligationCandidates": [{"clauseId": "...", "requirement": "...", "party": "...", "status": "pending"|"met"|"unclear", "deadline": "YYYY-MM-DD" or null, "description": "..."}],
 "complianceStatements": [{"regulationId": "...", "statement": "...", "satisfied": true|false, "satisfiedAt": "YYYY-MM-DD" or null, "evidence": "..."}]}
For complianceStatements, judge semantic coverage of each regulation listed by the user, not literal text matches. Output JSON only.`

// Classify identifies the document type, parties and key dates via the model
func (e *OpenAIExtractor) Classify(ctx context.Context, rawText string) (*model.Classification, error) {
	var wire struct {
		DocumentType   string   `json:"documentType"`
		Parties        []string `json:"parties"`
		EffectiveDate  *string  `json:"effectiveDate"`
		ExpirationDate *string  `json:"expirationDate"`
	}

	if err := e.complete(ctx, classifySystemPrompt, rawText, &wire); err != nil {
		return nil, err
	}

	cls := &model.Classification{
		DocumentType: model.DocumentType(wire.DocumentType).Normalize(),
		Parties:      wire.Parties,
	}

	var err error
	if cls.EffectiveDate, err = parseWireDate(wire.EffectiveDate); err != nil {
		return nil, fmt.Errorf("%w: effectiveDate: %v", ErrMalformedResponse, err)
	}
	if cls.ExpirationDate, err = parseWireDate(wire.ExpirationDate); err != nil {
		return nil, fmt.Errorf("%w: expirationDate: %v", ErrMalformedResponse, err)
	}

	return cls, nil
}

// ExtractFacts pulls renewal dates, obligations and compliance statements
// via the model
func (e *OpenAIExtractor) ExtractFacts(ctx context.Context, rawText string, docType model.DocumentType) (*model.RawFacts, error) {
	var wire struct {
		RenewalCandidates []struct {
			Date            string `json:"date"`
			Description     string `json:"description"`
			ClauseReference string `json:"clauseReference"`
		} `json:"renewalCandidates"`
		ObligationCandidates []struct {
			ClauseID    string  `json:"clauseId"`
			Requirement string  `json:"requirement"`
			Party       string  `json:"party"`
			Status      string  `json:"status"`
			Deadline    *string `json:"deadline"`
			Description string  `json:"description"`
		} `json:"obligationCandidates"`
		ComplianceStatements []struct {
			RegulationID string  `json:"regulationId"`
			Statement    string  `json:"statement"`
			Satisfied    bool    `json:"satisfied"`
			SatisfiedAt  *string `json:"satisfiedAt"`
			Evidence     string  `json:"evidence"`
		} `json:"complianceStatements"`
	}

	user := fmt.Sprintf("Document type: %s\n\n%s", docType.Normalize(), rawText)
	if err := e.complete(ctx, extractSystemPrompt, user, &wire); err != nil {
		return nil, err
	}

	facts := &model.RawFacts{
		RenewalCandidates:    []model.RenewalCandidate{},
		ObligationCandidates: []model.ObligationCandidate{},
		ComplianceStatements: []model.ComplianceStatement{},
	}

	for _, rc := range wire.RenewalCandidates {
		date, err := time.Parse("2006-01-02", rc.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: renewal date %q: %v", ErrMalformedResponse, rc.Date, err)
		}
		facts.RenewalCandidates = append(facts.RenewalCandidates, model.RenewalCandidate{
			Date:            date,
			Description:     rc.Description,
			ClauseReference: rc.ClauseReference,
		})
	}

	for _, oc := range wire.ObligationCandidates {
		deadline, err := parseWireDate(oc.Deadline)
		if err != nil {
			return nil, fmt.Errorf("%w: obligation deadline: %v", ErrMalformedResponse, err)
		}
		facts.ObligationCandidates = append(facts.ObligationCandidates, model.ObligationCandidate{
			ClauseID:    oc.ClauseID,
			Requirement: oc.Requirement,
			Party:       oc.Party,
			Status:      oc.Status,
			Deadline:    deadline,
			Description: oc.Description,
		})
	}

	for _, cs := range wire.ComplianceStatements {
		satisfiedAt, err := parseWireDate(cs.SatisfiedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: satisfiedAt: %v", ErrMalformedResponse, err)
		}
		facts.ComplianceStatements = append(facts.ComplianceStatements, model.ComplianceStatement{
			RegulationID: cs.RegulationID,
			Statement:    cs.Statement,
			Satisfied:    cs.Satisfied,
			SatisfiedAt:  satisfiedAt,
			Evidence:     cs.Evidence,
		})
	}

	return facts, nil
}

// complete sends one chat completion and decodes the JSON response into out
func (e *OpenAIExtractor) complete(ctx context.Context, system, user string, out interface{}) error {
	mdl := e.config.Model
	if mdl == "" {
		mdl = openai.GPT4oMini
	}

	maxTokens := e.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	timeout := e.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			// Both the context cause and ErrModelUnavailable stay matchable,
			// so timeouts keep their own failure reason downstream.
			return fmt.Errorf("%w: %w", ErrModelUnavailable, ctx.Err())
		}
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return fmt.Errorf("%w: empty completion", ErrMalformedResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func parseWireDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" || *s == "null" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
