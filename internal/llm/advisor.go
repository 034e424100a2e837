package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/qezhu/medqc/internal/model"
)

// Advice is the optional, clearly separated advice attached to a pipeline
// result. It is generated AFTER scoring and never affects the verdict.
type Advice struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
	Text     string `json:"text"`
}

// Advisor wraps a provider with rate limiting so bulk QC runs stay inside
// the API's request quota.
type Advisor struct {
	provider Provider
	limiter  *rate.Limiter
	config   model.LLMConfig
}

// NewAdvisor creates an advisor from configuration. Returns nil (and no
// error) when no provider is configured.
func NewAdvisor(config model.LLMConfig) (*Advisor, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, nil
	}

	rpm := config.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	return &Advisor{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rpm/60), 1),
		config:   config,
	}, nil
}

// Generate produces remediation advice for a verdict's issues. A verdict
// with no issues needs no advice and returns nil.
func (a *Advisor) Generate(ctx context.Context, docType model.DocumentType, verdict model.QcVerdict) (*Advice, error) {
	if len(verdict.Issues) == 0 {
		return nil, nil
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	resp, err := a.provider.Advise(ctx, AdviceRequest{
		DocumentType: docType,
		Verdict:      verdict,
		Model:        a.config.Model,
		MaxTokens:    a.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%s advice: %w", a.provider.Name(), err)
	}

	return &Advice{
		Provider: a.provider.Name(),
		Model:    resp.Model,
		Text:     resp.Advice,
	}, nil
}
