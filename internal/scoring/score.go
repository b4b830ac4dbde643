// Package scoring holds the shared score arithmetic used by every
// analyzer: compliance percentages, composite means, and the severity
// escalation rule for mandatory requirements.
package scoring

import (
	"math"

	"github.com/azurelens/backend-go/internal/domain"
)

// Percentage returns round(compliant/total*100, 2). An empty resource set
// scores a full 100: nothing present means nothing non-compliant.
func Percentage(compliant, total int) float64 {
	if total == 0 {
		return 100
	}
	return Clamp(math.Round(float64(compliant)/float64(total)*10000) / 100)
}

// Mean is the unweighted arithmetic mean of sub-scores, used for the
// composite "full" assessment score.
func Mean(scores ...float64) float64 {
	if len(scores) == 0 {
		return 100
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return Clamp(math.Round(sum/float64(len(scores))*100) / 100)
}

// Clamp bounds a score to [0, 100]
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Escalate bumps a severity one level up. Severity only ever escalates
// when a client marks a requirement mandatory; it never de-escalates.
func Escalate(s domain.Severity) domain.Severity {
	switch s {
	case domain.SeverityLow:
		return domain.SeverityMedium
	case domain.SeverityMedium:
		return domain.SeverityHigh
	case domain.SeverityHigh, domain.SeverityCritical:
		return domain.SeverityCritical
	}
	return s
}
