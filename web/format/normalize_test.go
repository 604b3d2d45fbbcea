package format

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bullet_without_space_gets_one",
			input: "-Assess readiness\n-Engage sponsors",
			want:  "- Assess readiness\n\n- Engage sponsors",
		},
		{
			name:  "spaced_bullet_unchanged",
			input: "- Assess readiness",
			want:  "- Assess readiness",
		},
		{
			name:  "equation_line_becomes_display_block",
			input: `ROI = \frac{100}{50} \times 100`,
			want:  `$$ROI = \frac{100}{50} \times 100$$`,
		},
		{
			name:  "multi_word_label_wrapped_in_text",
			input: "Net Gain = Total Benefit - Total Cost",
			want:  `$$\text{Net Gain} = Total Benefit - Total Cost$$`,
		},
		{
			name:  "currency_is_not_math",
			input: "The total investment is $50,000 over 12 months.",
			want:  "The total investment is $50,000 over 12 months.",
		},
		{
			name:  "escaped_dollar_restored_plain",
			input: `The cost is \$2,500 per seat.`,
			want:  "The cost is $2,500 per seat.",
		},
		{
			name:  "pre_delimited_inline_math_kept",
			input: `The ratio $\frac{a}{b}$ stays put.`,
			want:  `The ratio $\frac{a}{b}$ stays put.`,
		},
		{
			name:  "bare_arithmetic_stays_literal",
			input: "Add 2 + 2 to get 4.",
			want:  "Add 2 + 2 to get 4.",
		},
		{
			name:  "anchored_inline_run_wrapped",
			input: `Apply \times 2 here.`,
			want:  `Apply $\times 2$ here.`,
		},
		{
			name:  "curly_quotes_replaced",
			input: "\u201cROI\u201d is \u2018high\u2019",
			want:  `"ROI" is 'high'`,
		},
		{
			name:  "single_newline_becomes_paragraph_break",
			input: "Paragraph one.\nParagraph two.",
			want:  "Paragraph one.\n\nParagraph two.",
		},
		{
			name:  "display_block_separated_from_prose",
			input: "Formula below\nROI = \\frac{a}{b}\nDone",
			want:  "Formula below\n\n$$ROI = \\frac{a}{b}$$\n\nDone",
		},
		{
			name:  "empty_input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`ROI = \frac{100}{50} \times 100`,
		"-Assess readiness\n-Engage sponsors",
		"The total investment is $50,000 over 12 months.",
		`Apply \times 2 here.`,
		"Net Gain = Total Benefit - Total Cost",
		`$$ROI = \frac{a}{b}$$`,
		"Intro text\nPayback = \\frac{50000}{4166}\nClosing text",
		`Thus ROI = \frac{1200}{600} approximately.`,
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestNormalizeEquationAfterProseOnSameLine(t *testing.T) {
	input := `Thus ROI = \frac{1200}{600} approximately.`
	once := Normalize(input)

	want := "Thus ROI\n\n$$= \\frac{1200}{600}$$\n\napproximately."
	if once != want {
		t.Errorf("Normalize() = %q, want %q", once, want)
	}
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize not idempotent:\n once: %q\ntwice: %q", once, twice)
	}
}

func TestNormalizeNeverDoublesDelimiters(t *testing.T) {
	input := `$$ROI = \frac{100}{50} \times 100$$`
	got := Normalize(input)
	if strings.Contains(got, "$$$") {
		t.Errorf("Normalize() added delimiters to already-wrapped math: %q", got)
	}
	if got != input {
		t.Errorf("Normalize() = %q, want unchanged %q", got, input)
	}
}

func TestHasMathToken(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"frac_command", `\frac{1}{2}`, true},
		{"times_command", `5 \times 3`, true},
		{"unknown_command", `\unknowncmd{x}`, false},
		{"plain_text", "return on investment", false},
		{"command_prefix_not_word", `\fracture`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMathToken(tt.text); got != tt.want {
				t.Errorf("HasMathToken(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
