// Package extraction turns free-form user utterances into validated session
// patches. The model proposes, the schema gate disposes: a patch that fails
// strict decoding or validation is rejected wholesale and replaced by a
// deterministic fallback, so a malformed model response can never corrupt
// session state.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/constraint"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/llm"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

// Patch is the only shape the model may answer with. Every field is additive:
// a patch can introduce facts but carries no instruction to delete or rewrite
// what the session already holds.
type Patch struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Trim         string `json:"trim"`
	Generation   string `json:"generation"`
	YearMin      int    `json:"year_min" validate:"gte=0,lte=2100"`
	YearMax      int    `json:"year_max" validate:"gte=0,lte=2100"`
	Usage        string `json:"usage"`
	Horizon      string `json:"horizon"`
	BudgetMaxUSD int    `json:"budget_max_usd" validate:"gte=0"`

	Tier1 []string `json:"tier1" validate:"dive,max=200"`
	Tier2 []string `json:"tier2" validate:"dive,max=200"`
	Tier3 []string `json:"tier3" validate:"dive,max=200"`

	Rejections []string `json:"rejections" validate:"dive,max=200"`
	Aesthetics []string `json:"aesthetics" validate:"dive,max=200"`
}

// Extractor performs LLM-based patch extraction with a strict schema gate.
type Extractor struct {
	llmProvider llm.LLMProvider
	validate    *validator.Validate
	logger      *log.Logger
}

func NewExtractor(llmProvider llm.LLMProvider, logger *log.Logger) *Extractor {
	return &Extractor{
		llmProvider: llmProvider,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Extract analyzes one utterance against the current session and returns a
// validated patch. It never returns an error for model misbehavior: any
// failure path degrades to the deterministic fallback patch.
func (e *Extractor) Extract(ctx context.Context, utterance string, session *store.Session) *Patch {
	prompt := e.buildPrompt(utterance, session)

	response, err := e.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		e.logger.Printf("[ERROR] Patch extraction failed: %v", err)
		return FallbackPatch(utterance)
	}

	patch, err := e.parsePatch(response)
	if err != nil {
		e.logger.Printf("[WARN] Patch rejected, using fallback: %v", err)
		return FallbackPatch(utterance)
	}

	e.logger.Printf("[EXTRACT] tier1=%d tier2=%d tier3=%d rejections=%d",
		len(patch.Tier1), len(patch.Tier2), len(patch.Tier3), len(patch.Rejections))
	return patch
}

func (e *Extractor) buildPrompt(utterance string, session *store.Session) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a constraint extractor for a vehicle-buying advisor.\n")
	prompt.WriteString("Your ONLY job is to extract NEW facts from the user's message.\n")
	prompt.WriteString("You do NOT answer the user. You do NOT repeat facts already captured.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<session_state>\n")
	if session.Intent.Make != "" {
		prompt.WriteString(fmt.Sprintf("VEHICLE: %s %s %s\n", session.Intent.Make, session.Intent.Model, session.Intent.Trim))
	}
	if len(session.Constraints.Tier1) > 0 {
		prompt.WriteString("NON_NEGOTIABLES:\n")
		for _, r := range session.Constraints.Tier1 {
			prompt.WriteString(fmt.Sprintf("  - %s\n", r))
		}
	}
	if len(session.Constraints.Tier2) > 0 {
		prompt.WriteString("PREFERENCES:\n")
		for _, r := range session.Constraints.Tier2 {
			prompt.WriteString(fmt.Sprintf("  - %s\n", r))
		}
	}
	if session.Intent.Make == "" && len(session.Constraints.Tier1) == 0 {
		prompt.WriteString("INITIAL_STATE: Nothing captured yet.\n")
	}
	prompt.WriteString("</session_state>\n\n")

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(utterance)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<tier_definitions>\n")
	prompt.WriteString("tier1: Non-negotiable requirements. Only when the user signals them as\n")
	prompt.WriteString("  absolute ('must', 'only', 'non-negotiable', 'deal-breaker', 'required').\n")
	prompt.WriteString("tier2: Strong preferences ('ideally', 'prefer', 'would like', 'nice to have').\n")
	prompt.WriteString("tier3: Open questions the user is still deciding.\n")
	prompt.WriteString("Rule: preference wording is NEVER tier1, even when it sounds important.\n")
	prompt.WriteString("rejections: Things the user explicitly rules out ('no salvage titles').\n")
	prompt.WriteString("aesthetics: Pure taste statements with no search consequence.\n")
	prompt.WriteString("</tier_definitions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON. Include ONLY keys you have values for:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"make\": \"Porsche\",\n")
	prompt.WriteString("  \"model\": \"Boxster\",\n")
	prompt.WriteString("  \"trim\": \"S\",\n")
	prompt.WriteString("  \"generation\": \"987.2\",\n")
	prompt.WriteString("  \"year_min\": 2009,\n")
	prompt.WriteString("  \"year_max\": 2012,\n")
	prompt.WriteString("  \"usage\": \"weekend car\",\n")
	prompt.WriteString("  \"horizon\": \"3-6 months\",\n")
	prompt.WriteString("  \"budget_max_usd\": 60000,\n")
	prompt.WriteString("  \"tier1\": [\"Manual transmission\"],\n")
	prompt.WriteString("  \"tier2\": [\"Under 60k miles ideal\"],\n")
	prompt.WriteString("  \"tier3\": [],\n")
	prompt.WriteString("  \"rejections\": [\"No salvage titles\"],\n")
	prompt.WriteString("  \"aesthetics\": [\"Loves the speed yellow look\"]\n")
	prompt.WriteString("}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

// parsePatch applies the schema gate: JSON extraction, strict decoding with
// unknown fields disallowed, then struct validation. Any failure rejects the
// whole patch.
func (e *Extractor) parsePatch(response string) (*Patch, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	dec := json.NewDecoder(strings.NewReader(jsonContent))
	dec.DisallowUnknownFields()

	var patch Patch
	if err := dec.Decode(&patch); err != nil {
		return nil, fmt.Errorf("strict decode failed: %w", err)
	}
	if err := e.validate.Struct(&patch); err != nil {
		return nil, fmt.Errorf("patch validation failed: %w", err)
	}
	if patch.YearMin > 0 && patch.YearMax > 0 && patch.YearMin > patch.YearMax {
		return nil, fmt.Errorf("inverted year range %d-%d", patch.YearMin, patch.YearMax)
	}
	return &patch, nil
}

// FallbackPatch is the deterministic degradation path: every comma- or
// sentence-separated clause of the utterance becomes a tier3 rule, and the
// normalizer's indicator pass decides later whether any deserve promotion.
func FallbackPatch(utterance string) *Patch {
	patch := &Patch{}
	for _, clause := range splitClauses(utterance) {
		patch.Tier3 = append(patch.Tier3, clause)
	}
	return patch
}

// Apply merges a patch into the session. Structured intent fields fill only
// where still unset, constraint additions go through the normalizer, and
// taste lists extend without duplicates.
func Apply(s *store.Session, patch *Patch) {
	if s.Intent.Make == "" {
		s.Intent.Make = patch.Make
	}
	if s.Intent.Model == "" {
		s.Intent.Model = patch.Model
	}
	if s.Intent.Trim == "" {
		s.Intent.Trim = patch.Trim
	}
	if s.Intent.Generation == "" {
		s.Intent.Generation = patch.Generation
	}
	if s.Intent.YearMin == 0 && s.Intent.YearMax == 0 {
		s.Intent.YearMin, s.Intent.YearMax = patch.YearMin, patch.YearMax
	}
	if s.Intent.Usage == "" {
		s.Intent.Usage = patch.Usage
	}
	if s.Intent.Horizon == "" {
		s.Intent.Horizon = patch.Horizon
	}
	if s.Intent.BudgetMaxUSD == 0 {
		s.Intent.BudgetMaxUSD = patch.BudgetMaxUSD
	}

	s.Constraints.Tier1 = append(s.Constraints.Tier1, patch.Tier1...)
	s.Constraints.Tier2 = append(s.Constraints.Tier2, patch.Tier2...)
	s.Constraints.Tier3 = append(s.Constraints.Tier3, patch.Tier3...)
	s.Constraints = constraint.Normalize(s.Constraints)

	s.Taste.Rejections = appendDistinct(s.Taste.Rejections, patch.Rejections)
	s.Taste.Aesthetics = appendDistinct(s.Taste.Aesthetics, patch.Aesthetics)

	s.Intent = constraint.BackfillIntent(s.Intent, s.Constraints)
}

func appendDistinct(existing, additions []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[constraint.NormalizeRule(e)] = true
	}
	for _, a := range additions {
		key := constraint.NormalizeRule(a)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		existing = append(existing, a)
	}
	return existing
}

func splitClauses(utterance string) []string {
	var clauses []string
	for _, part := range strings.FieldsFunc(utterance, func(r rune) bool {
		return r == ',' || r == '.' || r == ';' || r == '\n'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
