package extract

import (
	"fmt"
	"sort"
	"strings"
)

// Section keys and the literal headings searched for in free-text validation output.
const (
	KeyMarketAnalysis      = "market_analysis"
	KeyTechnicalEvaluation = "technical_evaluation"
	KeyBusinessPlan        = "business_plan"

	MarkerMarketAnalysis      = "Market Analysis"
	MarkerTechnicalEvaluation = "Technical Evaluation"
	MarkerBusinessPlan        = "Business Plan"

	PlaceholderMarketAnalysis      = "Market analysis not available"
	PlaceholderTechnicalEvaluation = "Technical evaluation not available"
	PlaceholderBusinessPlan        = "Business plan not available"
)

// ValidationSections holds the three analyses produced for one idea. All fields are always set.
type ValidationSections struct {
	MarketAnalysis      string `json:"market_analysis"`
	TechnicalEvaluation string `json:"technical_evaluation"`
	BusinessPlan        string `json:"business_plan"`
}

// PlaceholderSections returns sections where every analysis is unavailable.
func PlaceholderSections() ValidationSections {
	return ValidationSections{
		MarketAnalysis:      PlaceholderMarketAnalysis,
		TechnicalEvaluation: PlaceholderTechnicalEvaluation,
		BusinessPlan:        PlaceholderBusinessPlan,
	}
}

// Sections turns an upstream validation result into fully populated sections.
// It never fails: unrecognised shapes yield placeholders.
func Sections(result any) ValidationSections {
	return Classify(result).Sections()
}

// Sections dispatches on the result kind.
func (r Result) Sections() ValidationSections {
	switch r.Kind {
	case KindRecord:
		return sectionsFromRecord(r.Record)
	case KindSequence:
		return sectionsFromSequence(r.Sequence)
	case KindText:
		return sectionsFromText(r.Text)
	default:
		return PlaceholderSections()
	}
}

func sectionsFromRecord(rec map[string]any) ValidationSections {
	out := PlaceholderSections()
	if v, ok := stringField(rec, KeyMarketAnalysis); ok {
		out.MarketAnalysis = v
	}
	if v, ok := stringField(rec, KeyTechnicalEvaluation); ok {
		out.TechnicalEvaluation = v
	}
	if v, ok := stringField(rec, KeyBusinessPlan); ok {
		out.BusinessPlan = v
	}
	return out
}

func stringField(rec map[string]any, key string) (string, bool) {
	v, ok := rec[key]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

func sectionsFromSequence(items []any) ValidationSections {
	if len(items) < 3 {
		return PlaceholderSections()
	}
	return ValidationSections{
		MarketAnalysis:      stringify(items[0]),
		TechnicalEvaluation: stringify(items[1]),
		BusinessPlan:        stringify(items[2]),
	}
}

// sectionsFromText looks each heading up independently. A section runs from the end of its
// heading to the next occurrence of any heading, or to the end of the text. One colon
// directly after the heading is dropped.
func sectionsFromText(text string) ValidationSections {
	out := PlaceholderSections()
	markers := []string{MarkerMarketAnalysis, MarkerTechnicalEvaluation, MarkerBusinessPlan}
	hits := markerPositions(text, markers)

	content := func(marker string) (string, bool) {
		idx := strings.Index(text, marker)
		if idx < 0 {
			return "", false
		}
		from := idx + len(marker)
		to := len(text)
		for _, pos := range hits {
			if pos >= from {
				to = pos
				break
			}
		}
		body := strings.TrimSpace(text[from:to])
		return strings.TrimSpace(strings.TrimPrefix(body, ":")), true
	}

	if v, ok := content(MarkerMarketAnalysis); ok {
		out.MarketAnalysis = v
	}
	if v, ok := content(MarkerTechnicalEvaluation); ok {
		out.TechnicalEvaluation = v
	}
	if v, ok := content(MarkerBusinessPlan); ok {
		out.BusinessPlan = v
	}
	return out
}

// markerPositions lists every occurrence of every marker, ordered by position.
func markerPositions(text string, markers []string) []int {
	var hits []int
	for _, m := range markers {
		offset := 0
		for {
			idx := strings.Index(text[offset:], m)
			if idx < 0 {
				break
			}
			start := offset + idx
			hits = append(hits, start)
			offset = start + len(m)
		}
	}
	sort.Ints(hits)
	return hits
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}
