package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Renderer writes pipeline results as JSON or Markdown reports.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full result as indented JSON.
func (r *Renderer) RenderJSON(result *Result, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(result *Result, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# 病历质控报告\n\n")
	fmt.Fprintf(&b, "- 文书类型: %s\n", result.DocumentType)
	fmt.Fprintf(&b, "- 质控得分: **%.1f / 100**\n", result.Verdict.TotalScore)
	if result.Verdict.IsQualified {
		fmt.Fprintf(&b, "- 质控结论: **合格** ✓\n")
	} else {
		fmt.Fprintf(&b, "- 质控结论: **不合格** ✗\n")
	}
	fmt.Fprintf(&b, "- 运行编号: %s\n", result.RunID)
	fmt.Fprintf(&b, "- 知识库版本: %d\n", result.SnapshotVersion)
	fmt.Fprintf(&b, "- 评估时间: %s\n\n", result.EvaluatedAt.Format("2006-01-02 15:04:05 MST"))

	if len(result.Verdict.Issues) == 0 {
		b.WriteString("未发现质控问题。\n\n")
	} else {
		fmt.Fprintf(&b, "## 质控问题（%d 项）\n\n", len(result.Verdict.Issues))
		b.WriteString("| # | 严重程度 | 类别 | 规则 | 说明 | 建议 |\n")
		b.WriteString("|---|---------|------|------|------|------|\n")
		for i, issue := range result.Verdict.Issues {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
				i+1, issue.Severity, issue.Code, orDash(issue.RuleID),
				issue.Message, orDash(issue.Suggestion))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## 指标核查\n\n%s（置信度 %.2f）\n\n", result.Report.Summary, result.Report.Confidence)

	if len(result.RuleErrors) > 0 {
		b.WriteString("## 规则配置错误\n\n")
		for _, e := range result.RuleErrors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	if result.Advice != nil {
		fmt.Fprintf(&b, "## 修改建议（%s，不参与评分）\n\n%s\n\n", result.Advice.Provider, result.Advice.Text)
	}

	if r.includeFooter {
		b.WriteString("---\n*Generated by medqc*\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a one-screen summary to stdout.
func (r *Renderer) RenderSummary(result *Result) {
	verdict := "不合格 ✗"
	if result.Verdict.IsQualified {
		verdict = "合格 ✓"
	}
	fmt.Printf("得分: %.1f/100  结论: %s  问题: %d\n",
		result.Verdict.TotalScore, verdict, len(result.Verdict.Issues))
	for _, issue := range result.Verdict.Issues {
		fmt.Printf("  [%s] %s\n", issue.Severity, issue.Message)
	}
	if len(result.RuleErrors) > 0 {
		fmt.Printf("规则配置错误: %d（详见报告）\n", len(result.RuleErrors))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
