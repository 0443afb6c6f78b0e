package scoring

import "math"

const maxRecommendations = 5

// Aggregate rolls department results up into an overall score, a
// principle alignment score, and the top recommendation list.
func Aggregate(results map[Department]DepartmentResult) (overall int, alignment int, recs []Recommendation) {
	total := 0
	for _, dept := range DepartmentOrder {
		total += results[dept].Score
	}
	overall = int(math.Round(float64(total) / float64(len(DepartmentOrder))))

	principleTotal, principleCount := 0, 0
	for _, dept := range DepartmentOrder {
		for _, ps := range results[dept].PrincipleScores {
			principleTotal += ps.Score
			principleCount++
		}
	}
	if principleCount > 0 {
		alignment = int(math.Round(float64(principleTotal) / float64(principleCount)))
	}

	recs = topRecommendations(results)
	return overall, alignment, recs
}

// topRecommendations surfaces at most five actions: every critical
// issue first, in canonical department order, then high issues until
// the cap. Order within a severity follows department order, so the
// list is stable for identical inputs.
func topRecommendations(results map[Department]DepartmentResult) []Recommendation {
	recs := make([]Recommendation, 0, maxRecommendations)

	for _, severity := range []Severity{SeverityCritical, SeverityHigh} {
		for _, dept := range DepartmentOrder {
			for _, issue := range results[dept].Issues {
				if issue.Severity != severity {
					continue
				}
				if len(recs) >= maxRecommendations {
					return recs
				}
				recs = append(recs, Recommendation{
					Department: dept,
					Severity:   issue.Severity,
					Priority:   issue.Severity.Priority(),
					Title:      issue.Title,
					Action:     issue.Action,
				})
			}
		}
	}
	return recs
}
