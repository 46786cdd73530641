package resumeai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Abraxas-365/recruitdesk/pkg/ai/llm"
	"github.com/Abraxas-365/recruitdesk/pkg/ptrx"
	"github.com/Abraxas-365/recruitdesk/pkg/resume"
)

const systemPrompt = `You extract contact details from resume text.
Reply with a single JSON object with these keys: name, email, mobile, current_job_title,
experience_years (integer), city, state. Use null for anything not present in the text.
Never guess values that do not appear in the text.`

// maxPromptChars limita el texto enviado al modelo
const maxPromptChars = 12000

// LLMEnricher pide al modelo los campos de un CV en modo JSON
type LLMEnricher struct {
	model llm.LLM
	opts  []llm.Option
}

var _ resume.Enricher = (*LLMEnricher)(nil)

func NewLLMEnricher(model llm.LLM, opts ...llm.Option) *LLMEnricher {
	base := []llm.Option{llm.WithJSONMode(), llm.WithTemperature(0), llm.WithMaxCompletionTokens(400)}
	return &LLMEnricher{model: model, opts: append(base, opts...)}
}

// aiFields acepta experience_years como número o texto
type aiFields struct {
	Name            *string          `json:"name"`
	Email           *string          `json:"email"`
	Mobile          *string          `json:"mobile"`
	CurrentJobTitle *string          `json:"current_job_title"`
	ExperienceYears *json.RawMessage `json:"experience_years"`
	City            *string          `json:"city"`
	State           *string          `json:"state"`
}

// Enrich retorna los campos que propone el modelo. Valores vacíos se descartan.
func (e *LLMEnricher) Enrich(ctx context.Context, text string) (resume.ExtractedResumeFields, error) {
	text = resume.Normalize(text)
	if text == "" {
		return resume.ExtractedResumeFields{}, nil
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	resp, err := e.model.Chat(ctx, []llm.Message{
		llm.NewSystemMessage(systemPrompt),
		llm.NewUserMessage(text),
	}, e.opts...)
	if err != nil {
		return resume.ExtractedResumeFields{}, fmt.Errorf("llm enrichment failed: %w", err)
	}

	return parseResponse(resp.Message.Content)
}

func parseResponse(content string) (resume.ExtractedResumeFields, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw aiFields
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return resume.ExtractedResumeFields{}, fmt.Errorf("invalid llm response: %w", err)
	}

	out := resume.ExtractedResumeFields{
		Name:            clean(raw.Name),
		Email:           clean(raw.Email),
		Mobile:          clean(raw.Mobile),
		CurrentJobTitle: clean(raw.CurrentJobTitle),
		ExperienceYears: years(raw.ExperienceYears),
	}

	city, state := clean(raw.City), clean(raw.State)
	if city != nil && state != nil {
		out.City, out.State = city, state
	}
	return out, nil
}

func clean(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") || strings.EqualFold(v, "n/a") {
		return nil
	}
	return ptrx.String(v)
}

func years(raw *json.RawMessage) *int {
	if raw == nil {
		return nil
	}
	var n float64
	if err := json.Unmarshal(*raw, &n); err == nil {
		if n < 0 {
			return nil
		}
		return ptrx.Int(int(n))
	}
	var s string
	if err := json.Unmarshal(*raw, &s); err == nil {
		var v int
		if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &v); err == nil && v >= 0 {
			return ptrx.Int(v)
		}
	}
	return nil
}
