package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `1. EXECUTIVE SUMMARY
The business has a solid offer but leaks revenue at the point of sale.

2. CRITICAL PRIORITIES
1. Publish pricing on the services page
2. Add an email capture form

3. QUICK WINS
- Fix the missing meta descriptions
- Add a money-back guarantee

4. STRATEGIC MOVES
1) Launch a second revenue stream
2) Productize the onboarding service

5. PMBA WISDOM
A sale is an exchange of trust for money.

6. 90-DAY ROADMAP
Weeks 1-4: fix conversion basics.
Weeks 5-12: build the new stream.`

func TestParseInsights(t *testing.T) {
	t.Run("extracts all six sections", func(t *testing.T) {
		insights := ParseInsights(sampleReport)

		assert.Contains(t, insights.ExecutiveSummary, "solid offer")
		require.Len(t, insights.CriticalPriorities, 2)
		assert.Equal(t, "Publish pricing on the services page", insights.CriticalPriorities[0])
		assert.Equal(t, []string{
			"Fix the missing meta descriptions",
			"Add a money-back guarantee",
		}, insights.QuickWins)
		assert.Len(t, insights.StrategicMoves, 2)
		assert.Contains(t, insights.Wisdom, "exchange of trust")
		assert.Contains(t, insights.Roadmap, "Weeks 1-4")
	})

	t.Run("retains the raw response", func(t *testing.T) {
		insights := ParseInsights(sampleReport)
		assert.Equal(t, sampleReport, insights.RawResponse)
	})

	t.Run("tolerates markdown headings", func(t *testing.T) {
		insights := ParseInsights("## EXECUTIVE SUMMARY\nAll good.\n\n### QUICK WINS:\n* One thing\n")
		assert.Equal(t, "All good.", insights.ExecutiveSummary)
		assert.Equal(t, []string{"One thing"}, insights.QuickWins)
	})

	t.Run("missing sections stay empty", func(t *testing.T) {
		insights := ParseInsights("EXECUTIVE SUMMARY\nFine.\n")
		assert.Equal(t, "Fine.", insights.ExecutiveSummary)
		assert.Empty(t, insights.CriticalPriorities)
		assert.Empty(t, insights.Roadmap)
	})

	t.Run("unstructured text yields only the raw response", func(t *testing.T) {
		insights := ParseInsights("Sorry, I cannot help with that.")
		assert.Empty(t, insights.ExecutiveSummary)
		assert.Empty(t, insights.QuickWins)
		assert.Equal(t, "Sorry, I cannot help with that.", insights.RawResponse)
	})
}

func TestExtractListItems(t *testing.T) {
	t.Run("handles numbered and bulleted markers", func(t *testing.T) {
		items := extractListItems("1. first\n2) second\n- third\n• fourth\n* fifth\nplain text\n")
		assert.Equal(t, []string{"first", "second", "third", "fourth", "fifth"}, items)
	})

	t.Run("empty section yields no items", func(t *testing.T) {
		assert.Empty(t, extractListItems(""))
	})
}
