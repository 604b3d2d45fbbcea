package format

import (
	"regexp"
	"strings"
)

// SpanKind classifies a region of assistant text.
type SpanKind int

const (
	// SpanText is plain prose, passed through untouched.
	SpanText SpanKind = iota
	// SpanInlineMath renders within running text, single-dollar delimited.
	SpanInlineMath
	// SpanDisplayMath renders centered on its own line, double-dollar delimited.
	SpanDisplayMath
)

// mathSpan is one extracted math region. Spans lifted out of the input keep
// their original order; wrapped spans arrived already delimited and are
// reinserted verbatim so re-normalizing delimited text does not double-wrap.
type mathSpan struct {
	kind    SpanKind
	content string // LaTeX body without delimiters
	raw     string // original text including delimiters, set when wrapped
	wrapped bool
}

// Fixed allow-list of LaTeX commands the upstream model is known to emit.
// Anything outside this list is left as literal text.
var mathTokenRe = regexp.MustCompile(`\\(frac|sqrt|times|div|cdot|pm|sum|prod|sin|cos|tan|log|ln|exp|text|alpha|beta|gamma|delta|theta|lambda|mu|pi|sigma|Delta|Sigma)\b`)

// HasMathToken reports whether text contains any allow-listed LaTeX command.
func HasMathToken(text string) bool {
	return mathTokenRe.MatchString(text)
}

// isDisplaySpan decides whether extracted math renders as a standalone block:
// anything with an equals sign or a fraction reads better centered.
func isDisplaySpan(content string) bool {
	return strings.Contains(content, "=") || strings.Contains(content, `\frac`)
}
