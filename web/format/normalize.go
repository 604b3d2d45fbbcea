package format

import (
	"fmt"
	"strings"

	"regexp"
)

// dollarGuard temporarily stands in for dollar signs that are currency
// rather than math delimiters. Private-use rune, never present in model
// output.
const dollarGuard = "\uE000"

const placeholderPrefix = "{{MATH_"

var (
	bulletRe        = regexp.MustCompile(`(?m)^([ \t]*)-([^\s-])`)
	currencyGuardRe = regexp.MustCompile(`(^|[^$\\])\$(\d[\d,]*(?:\.\d+)?)`)
	newlineRunRe    = regexp.MustCompile(`[ \t]*\n[\n \t]*`)
	displayDelimRe  = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	inlineDelimRe   = regexp.MustCompile(`\$([^$\n]+)\$`)
	eqLabelRe       = regexp.MustCompile(`^[ \t]*(\**[A-Za-z][A-Za-z0-9 %/()-]{0,48}?\**)[ \t]*=[ \t]*(.+?)[ \t]*$`)
	formulaRHSRe    = regexp.MustCompile(`^[0-9A-Za-z \\{}()^_+\-*/.,%]+$`)
	operatorRe      = regexp.MustCompile(`[+\-*/^\\]`)
	interiorGapRe   = regexp.MustCompile(`(\S)[ \t]{2,}`)
	paragraphGapRe  = regexp.MustCompile(`\n{3,}`)
	trailingGapRe   = regexp.MustCompile(`[ \t]+\n`)
	leadingGapRe    = regexp.MustCompile(`\n[ \t]+`)
	// Tokens that may continue a math run once a command anchors it:
	// numbers and operators, single letters, or letters with sub/superscripts.
	connectorTokenRe = regexp.MustCompile(`^[0-9+\-*/^=(){}\\.,:%]+$|^[A-Za-z]$|^[A-Za-z][_^][0-9A-Za-z{}]*$`)
)

// Normalize transforms raw assistant text into a string a Markdown+math
// renderer will display correctly. It never fails: spans it cannot classify
// are left as literal text. Already-delimited math is protected before any
// rewriting, so normalizing twice does not add a second layer of delimiters.
func Normalize(text string) string {
	if text == "" {
		return text
	}

	text = replaceCurlyQuotes(text)
	text = normalizeBullets(text)
	text = guardCurrency(text)
	text = collapseNewlines(text)

	doc := extractMathSpans(text)
	out := doc.reassemble()

	out = strings.ReplaceAll(out, dollarGuard, "$")
	out = interiorGapRe.ReplaceAllString(out, "$1 ")
	return strings.TrimSpace(out)
}

// replaceCurlyQuotes swaps typographic quotes for plain ones.
func replaceCurlyQuotes(text string) string {
	return strings.NewReplacer(
		"\u201c", "\"", // "
		"\u201d", "\"", // "
		"\u2018", "'", // '
		"\u2019", "'", // '
	).Replace(text)
}

// normalizeBullets inserts the missing space after a leading dash so the
// Markdown parser recognizes the line as a list item. Runs of dashes
// (horizontal rules) are left alone.
func normalizeBullets(text string) string {
	return bulletRe.ReplaceAllString(text, "${1}- ${2}")
}

// guardCurrency protects $-prefixed amounts, and amounts a previous turn
// already backslash-escaped, from being read as math delimiters.
func guardCurrency(text string) string {
	text = strings.ReplaceAll(text, `\$`, dollarGuard)
	return currencyGuardRe.ReplaceAllString(text, "${1}"+dollarGuard+"${2}")
}

// collapseNewlines canonicalizes every newline run into a double-newline
// paragraph break. The upstream model routinely omits blank lines between
// paragraphs, which merges them during Markdown rendering.
func collapseNewlines(text string) string {
	return newlineRunRe.ReplaceAllString(text, "\n\n")
}

// spanDoc is the intermediate representation: text with ordered placeholders
// plus the math spans lifted out of it.
type spanDoc struct {
	text  string
	spans []mathSpan
}

func (d *spanDoc) add(s mathSpan) string {
	d.spans = append(d.spans, s)
	return fmt.Sprintf("{{MATH_%d}}", len(d.spans)-1)
}

// extractMathSpans lifts every math region out of the text, replacing each
// with a placeholder so later passes cannot re-match substituted content.
func extractMathSpans(text string) *spanDoc {
	doc := &spanDoc{}

	// Pre-delimited math first: it is reinserted verbatim.
	text = displayDelimRe.ReplaceAllStringFunc(text, func(m string) string {
		return doc.add(mathSpan{kind: SpanDisplayMath, raw: m, wrapped: true})
	})
	text = inlineDelimRe.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[1 : len(m)-1]
		if strings.HasPrefix(inner, " ") || strings.HasSuffix(inner, " ") {
			// Two stray dollars around prose, not a math span.
			return m
		}
		return doc.add(mathSpan{kind: SpanInlineMath, raw: m, wrapped: true})
	})

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, placeholderPrefix) {
			if content, ok := equationLine(line); ok {
				lines[i] = doc.add(mathSpan{kind: SpanDisplayMath, content: content})
				continue
			}
		}
		lines[i] = doc.extractInlineRuns(line)
	}
	doc.text = strings.Join(lines, "\n")
	return doc
}

// equationLine recognizes `<label> = <LaTeX>` lines (ROI formula, payback
// formula and the like) which are always treated as full math spans. The
// right-hand side must carry an allow-listed command or read as a formula.
func equationLine(line string) (string, bool) {
	m := eqLabelRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	rhs := m[2]
	if !mathTokenRe.MatchString(rhs) && !looksLikeFormula(rhs) {
		return "", false
	}
	label := strings.Trim(m[1], "* \t")
	if label == "" {
		return "", false
	}
	// Multi-word labels need \text{} or the renderer runs the words together.
	if strings.ContainsAny(label, " %") {
		label = `\text{` + strings.ReplaceAll(label, "%", `\%`) + `}`
	}
	return label + " = " + rhs, true
}

func looksLikeFormula(rhs string) bool {
	return formulaRHSRe.MatchString(rhs) && operatorRe.MatchString(rhs)
}

// extractInlineRuns finds runs of math tokens within a prose line. A run
// counts as math only when anchored by an allow-listed command; bare
// arithmetic stays literal text.
func (d *spanDoc) extractInlineRuns(line string) string {
	tokens := tokenizeMath(line)
	var out strings.Builder
	last := 0
	i := 0
	for i < len(tokens) {
		if !isMathyToken(tokens[i].text) {
			i++
			continue
		}
		j := i
		anchored := false
		for j < len(tokens) && isMathyToken(tokens[j].text) {
			if mathTokenRe.MatchString(tokens[j].text) {
				anchored = true
			}
			j++
		}
		if anchored {
			start, end := tokens[i].start, tokens[j-1].end
			content := strings.TrimRight(line[start:end], ".,;:!?")
			end = start + len(content)
			if content != "" {
				out.WriteString(line[last:start])
				out.WriteString(d.add(mathSpan{content: content}))
				last = end
			}
		}
		i = j
	}
	if last == 0 {
		return line
	}
	out.WriteString(line[last:])
	return out.String()
}

type lineToken struct {
	text  string
	start int
	end   int
}

// tokenizeMath splits a line on spaces, keeping brace groups such as
// \text{net gain} together as one token.
func tokenizeMath(line string) []lineToken {
	var tokens []lineToken
	depth := 0
	start := -1
	for i, r := range line {
		switch r {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		}
		if (r == ' ' || r == '\t') && depth == 0 {
			if start >= 0 {
				tokens = append(tokens, lineToken{text: line[start:i], start: start, end: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, lineToken{text: line[start:], start: start, end: len(line)})
	}
	return tokens
}

func isMathyToken(tok string) bool {
	if tok == "" {
		return false
	}
	if strings.Contains(tok, dollarGuard) || strings.Contains(tok, placeholderPrefix) {
		return false
	}
	if mathTokenRe.MatchString(tok) {
		return true
	}
	return connectorTokenRe.MatchString(tok)
}

// reassemble substitutes the wrapped spans back in original order. Display
// blocks get a blank line on both sides so the Markdown renderer keeps them
// standalone instead of merging them into adjacent prose.
func (d *spanDoc) reassemble() string {
	out := d.text
	for i, s := range d.spans {
		placeholder := fmt.Sprintf("{{MATH_%d}}", i)
		var repl string
		switch {
		case s.wrapped && s.kind == SpanDisplayMath:
			repl = "\n\n" + s.raw + "\n\n"
		case s.wrapped:
			repl = s.raw
		case isDisplaySpan(s.content):
			repl = "\n\n$$" + s.content + "$$\n\n"
		default:
			repl = "$" + s.content + "$"
		}
		out = strings.Replace(out, placeholder, repl, 1)
	}
	// A display block lifted out of mid-line prose leaves stray spaces at the
	// inserted line breaks; strip them or a second pass sees different input.
	out = trailingGapRe.ReplaceAllString(out, "\n")
	out = leadingGapRe.ReplaceAllString(out, "\n")
	return paragraphGapRe.ReplaceAllString(out, "\n\n")
}
