package insights

import (
	"regexp"
	"strings"
)

// Insights is the structured form of a generated report. Missing
// sections stay empty; the raw text is always retained.
type Insights struct {
	ExecutiveSummary   string   `json:"executive_summary"`
	CriticalPriorities []string `json:"critical_priorities"`
	QuickWins          []string `json:"quick_wins"`
	StrategicMoves     []string `json:"strategic_moves"`
	Wisdom             string   `json:"pmba_wisdom"`
	Roadmap            string   `json:"ninety_day_roadmap"`
	RawResponse        string   `json:"raw_response"`
}

// sectionHeaders are the fixed report headings in document order
var sectionHeaders = []string{
	"EXECUTIVE SUMMARY",
	"CRITICAL PRIORITIES",
	"QUICK WINS",
	"STRATEGIC MOVES",
	"PMBA WISDOM",
	"90-DAY ROADMAP",
}

var (
	listItemPattern  = regexp.MustCompile(`^\s*(?:\d+[.)]|[-•*])\s*(.+)$`)
	headerNumPattern = regexp.MustCompile(`^\d+[.)]\s*`)
)

// ParseInsights splits a generated report into its six sections.
// Parsing is best effort: a section whose heading never appears is
// left empty rather than failing the whole report.
func ParseInsights(raw string) *Insights {
	sections := splitSections(raw)

	return &Insights{
		ExecutiveSummary:   sections["EXECUTIVE SUMMARY"],
		CriticalPriorities: extractListItems(sections["CRITICAL PRIORITIES"]),
		QuickWins:          extractListItems(sections["QUICK WINS"]),
		StrategicMoves:     extractListItems(sections["STRATEGIC MOVES"]),
		Wisdom:             sections["PMBA WISDOM"],
		Roadmap:            sections["90-DAY ROADMAP"],
		RawResponse:        raw,
	}
}

// splitSections walks the text once, assigning lines to the most
// recently seen heading. Headings may carry list numbers or markdown
// markers around them.
func splitSections(raw string) map[string]string {
	sections := make(map[string]string, len(sectionHeaders))
	var current string
	var buf strings.Builder

	flush := func() {
		if current != "" {
			sections[current] = strings.TrimSpace(buf.String())
		}
		buf.Reset()
	}

	for _, line := range strings.Split(raw, "\n") {
		if header := matchHeader(line); header != "" {
			flush()
			current = header
			continue
		}
		if current != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	flush()

	return sections
}

func matchHeader(line string) string {
	cleaned := strings.ToUpper(strings.Trim(strings.TrimSpace(line), "#* \t"))
	cleaned = headerNumPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.Trim(cleaned, ": ")
	for _, header := range sectionHeaders {
		if cleaned == header {
			return header
		}
	}
	return ""
}

// extractListItems pulls numbered or bulleted entries out of a section
func extractListItems(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if m := listItemPattern.FindStringSubmatch(line); m != nil {
			item := strings.TrimSpace(m[1])
			if item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}
