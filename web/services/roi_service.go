package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/AnubhawM/roi-calculator/errors"
	"github.com/AnubhawM/roi-calculator/prompts"
	"github.com/AnubhawM/roi-calculator/web/format"
	"github.com/AnubhawM/roi-calculator/web/types"

	"go.uber.org/zap"
)

// Completer abstracts the upstream chat-completion call so services can be
// tested without the hosted AI dependency.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// ROIResult carries everything the frontend renders for one calculation.
type ROIResult struct {
	Response string
	Rendered string
	Chart    format.ChartData
}

type ROIService struct {
	llm       Completer
	formatter *format.CurrencyFormatter
	logger    *zap.Logger
}

func NewROIService(llm Completer, formatter *format.CurrencyFormatter, logger *zap.Logger) *ROIService {
	return &ROIService{
		llm:       llm,
		formatter: formatter,
		logger:    logger,
	}
}

// Calculate runs one ROI analysis: prompt the upstream model, normalize its
// text for Markdown+math rendering, and scrape chart data from it.
func (rs *ROIService) Calculate(ctx context.Context, req types.ROIRequest) (*ROIResult, error) {
	if strings.TrimSpace(req.Budget) == "" ||
		strings.TrimSpace(req.Employees) == "" ||
		strings.TrimSpace(req.Duration) == "" {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, "budget, employees, and duration are required")
	}

	userMessage := prompts.ROIAnalysis(req.Budget, req.Employees, req.Duration, req.Files)
	raw, err := rs.llm.Complete(ctx, prompts.System(), userMessage)
	if err != nil {
		return nil, err
	}

	rs.logger.Debug("ROI analysis received",
		zap.Int("chars", len(raw)))

	display := rs.formatter.Format(format.Normalize(raw))
	chart := format.ExtractChartData(raw, format.ExtractorDefaults{
		Budget:         parseNumber(req.Budget),
		DurationMonths: parseMonths(req.Duration),
	})

	return &ROIResult{
		Response: display,
		Rendered: format.RenderHTML(display),
		Chart:    chart,
	}, nil
}

// Generate handles the legacy prompt passthrough. Prompts carrying the
// embedded calculator parameters are routed through the structured ROI
// path; anything else goes to the model as-is.
func (rs *ROIService) Generate(ctx context.Context, prompt string) (*ROIResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.WrapError(apperrors.ErrInvalidInput, "prompt is required")
	}

	if req, ok := ParseLegacyROIPrompt(prompt); ok {
		return rs.Calculate(ctx, req)
	}

	raw, err := rs.llm.Complete(ctx, prompts.System(), prompt)
	if err != nil {
		return nil, err
	}

	display := rs.formatter.Format(format.Normalize(raw))
	return &ROIResult{
		Response: display,
		Rendered: format.RenderHTML(display),
	}, nil
}

var legacyROIRe = regexp.MustCompile(`Calculate ROI with Budget: (.+?), Employees: (.+?), Duration: ([^,]+?)(?:, Files:(.*))?$`)

// ParseLegacyROIPrompt recovers structured calculator inputs from the
// legacy "Calculate ROI with Budget: ..." prompt format.
func ParseLegacyROIPrompt(prompt string) (types.ROIRequest, bool) {
	m := legacyROIRe.FindStringSubmatch(strings.TrimSpace(prompt))
	if m == nil {
		return types.ROIRequest{}, false
	}

	req := types.ROIRequest{
		Budget:    strings.TrimSpace(m[1]),
		Employees: strings.TrimSpace(m[2]),
		Duration:  strings.TrimSpace(m[3]),
	}
	for _, f := range strings.Split(m[4], ",") {
		if f = strings.TrimSpace(f); f != "" {
			req.Files = append(req.Files, f)
		}
	}
	return req, true
}

// parseNumber pulls a float out of loosely formatted user input ("$50,000").
func parseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, ",", ""), "$", ""))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseMonths reads a duration in months, tolerating a trailing unit.
func parseMonths(s string) int {
	s = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "months"))
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
