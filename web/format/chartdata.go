package format

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jdkato/prose/v2"
)

// ChartData holds the numeric fields opportunistically scraped from a ROI
// analysis for chart rendering. Fields whose pattern never matches stay at
// their zero default; extraction never fails.
type ChartData struct {
	ROI           float64        `json:"roi"`
	CostSavings   float64        `json:"costSavings"`
	PaybackPeriod float64        `json:"paybackPeriod"`
	NPV           float64        `json:"npv"`
	TotalCost     float64        `json:"totalCost"`
	TotalBenefit  float64        `json:"totalBenefit"`
	Monthly       []MonthlyPoint `json:"monthly,omitempty"`
}

// MonthlyPoint is one month of the synthesized cost/benefit series.
type MonthlyPoint struct {
	Month             int     `json:"month"`
	Cost              float64 `json:"cost"`
	Benefit           float64 `json:"benefit"`
	CumulativeBenefit float64 `json:"cumulativeBenefit"`
}

// ExtractorDefaults supplies the calculator inputs used as fallbacks when
// the analysis text does not state them.
type ExtractorDefaults struct {
	Budget         float64
	DurationMonths int
}

var (
	roiRe     = regexp.MustCompile(`(?i)(?:\bROI\b|return on investment)(?:\s+(?:of|is|at|around|approximately|about))?[:=]?\s*~?\(?(-?\d+(?:\.\d+)?)\s*%`)
	paybackRe = regexp.MustCompile(`(?i)payback(?:\s+period)?(?:\s+(?:of|is|at|around|approximately|about))?[:=]?\s*~?(\d+(?:\.\d+)?)\s*(month|year)s?`)
	npvRe     = regexp.MustCompile(`(?i)(?:\bNPV\b|net present value)\D{0,40}?(-?[\d,]+(?:\.\d+)?)`)
	costRe    = regexp.MustCompile(`(?i)total\s+(?:cost|costs|investment)[^0-9]{0,40}([\d,]+(?:\.\d+)?)`)
	benefitRe = regexp.MustCompile(`(?i)total\s+(?:benefit|benefits|savings|gains?)[^0-9]{0,40}([\d,]+(?:\.\d+)?)`)
	savingsRe = regexp.MustCompile(`(?i)(?:cost|annual|monthly|estimated)\s+savings[^0-9]{0,40}([\d,]+(?:\.\d+)?)`)
)

// ExtractChartData scans analysis text sentence by sentence for ROI
// percentage, payback period, NPV and cost/benefit totals. Sentence
// segmentation keeps a money amount from being attributed to a marker in a
// different sentence. When both totals are recoverable it synthesizes a
// month-by-month series: cost front-loaded into month one, benefit spread
// evenly across the stated duration.
func ExtractChartData(text string, defaults ExtractorDefaults) ChartData {
	var data ChartData

	for _, sentence := range splitSentences(text) {
		if data.ROI == 0 {
			if m := roiRe.FindStringSubmatch(sentence); m != nil {
				data.ROI = parseAmount(m[1])
			}
		}
		if data.PaybackPeriod == 0 {
			if m := paybackRe.FindStringSubmatch(sentence); m != nil {
				months := parseAmount(m[1])
				if strings.EqualFold(m[2], "year") {
					months *= 12
				}
				data.PaybackPeriod = months
			}
		}
		if data.NPV == 0 {
			if m := npvRe.FindStringSubmatch(sentence); m != nil {
				data.NPV = parseAmount(m[1])
			}
		}
		if data.TotalCost == 0 {
			if m := costRe.FindStringSubmatch(sentence); m != nil {
				data.TotalCost = parseAmount(m[1])
			}
		}
		if data.TotalBenefit == 0 {
			if m := benefitRe.FindStringSubmatch(sentence); m != nil {
				data.TotalBenefit = parseAmount(m[1])
			}
		}
		if data.CostSavings == 0 {
			if m := savingsRe.FindStringSubmatch(sentence); m != nil {
				data.CostSavings = parseAmount(m[1])
			}
		}
	}

	if data.TotalCost == 0 {
		data.TotalCost = defaults.Budget
	}
	if data.TotalCost > 0 && data.TotalBenefit > 0 && defaults.DurationMonths > 0 {
		data.Monthly = buildMonthlySeries(data.TotalCost, data.TotalBenefit, defaults.DurationMonths)
	}
	return data
}

func buildMonthlySeries(totalCost, totalBenefit float64, months int) []MonthlyPoint {
	series := make([]MonthlyPoint, months)
	monthlyBenefit := totalBenefit / float64(months)
	cumulative := 0.0
	for i := range series {
		point := MonthlyPoint{Month: i + 1, Benefit: monthlyBenefit}
		if i == 0 {
			point.Cost = totalCost
		}
		cumulative += monthlyBenefit
		point.CumulativeBenefit = cumulative
		series[i] = point
	}
	return series
}

// splitSentences segments text with prose, falling back to the whole text
// as a single sentence if segmentation fails.
func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return []string{text}
	}
	sentences := doc.Sentences()
	if len(sentences) == 0 {
		return []string{text}
	}
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, s.Text)
	}
	return out
}

func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
