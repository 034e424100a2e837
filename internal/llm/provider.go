package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/qezhu/medqc/internal/model"
)

// Provider is an LLM backend that can turn a verdict's issues into
// remediation advice for the documenting clinician.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Advise generates remediation advice for the request.
	Advise(ctx context.Context, req AdviceRequest) (*AdviceResponse, error)

	// IsAvailable checks that the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// AdviceRequest is the input for advice generation. The issue list is the
// STRICT grounding set: the provider must only discuss the issues given,
// never invent new findings or clinical judgments.
type AdviceRequest struct {
	DocumentType model.DocumentType
	Verdict      model.QcVerdict

	// Prompt overrides the default prompt when non-empty.
	Prompt string

	// Model is the provider-specific model name.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// AdviceResponse is the provider's output.
type AdviceResponse struct {
	Advice     string
	Model      string
	TokensUsed int
}

// BuildPrompt constructs the default advice prompt. The rules mirror the
// scoring separation: advice explains reported issues, it never re-scores,
// re-diagnoses, or introduces findings of its own.
func BuildPrompt(req AdviceRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `你是病历书写质控助手。以下是一份 %s 的质控结果，总分 %.1f，`,
		req.DocumentType, req.Verdict.TotalScore)
	if req.Verdict.IsQualified {
		b.WriteString("判定为合格。\n")
	} else {
		b.WriteString("判定为不合格。\n")
	}

	b.WriteString(`
规则：
1. 只针对下面列出的问题给出修改建议，不得新增问题。
2. 不做任何诊断或治疗判断，只谈病历书写。
3. 每条建议一句话，按问题顺序编号。

质控问题：
`)
	for i, issue := range req.Verdict.Issues {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, issue.Severity, issue.Message)
	}

	b.WriteString("\n请逐条给出修改建议。")
	return b.String()
}
