package services

import (
	"fmt"
	"time"

	"github.com/revisionpro/api/model"
)

// Scoring constants for the priority engine. The exact values are
// tunable product knobs; the ordering constraints are not: struggled
// outranks never-started outranks mastered, harder material scores
// higher, and every day past the review interval adds urgency.
const (
	baseWeightStruggled  = 7.0
	baseWeightNotStarted = 5.5
	baseWeightMastered   = 2.0

	difficultyWeight   = 0.75
	overdueBonusPerDay = 0.25

	// Never-revised items count days since creation plus this bias so
	// a freshly created subtopic is not trivially deprioritized
	neverRevisedBiasDays = 30
)

// Review intervals per performance status, in days. A subtopic is
// overdue once its last revision is older than the interval for its
// current status; never-started items are due immediately.
const (
	reviewIntervalMastered   = 14
	reviewIntervalStruggled  = 3
	reviewIntervalNotStarted = 0
)

func baseWeight(status model.PerformanceStatus) float64 {
	switch status {
	case model.StatusStruggled:
		return baseWeightStruggled
	case model.StatusMastered:
		return baseWeightMastered
	default:
		return baseWeightNotStarted
	}
}

// ReviewInterval returns the review interval in days for a status
func ReviewInterval(status model.PerformanceStatus) int {
	switch status {
	case model.StatusMastered:
		return reviewIntervalMastered
	case model.StatusStruggled:
		return reviewIntervalStruggled
	default:
		return reviewIntervalNotStarted
	}
}

// DaysSinceRevision returns the whole days since the subtopic's last
// revision at time now, and whether it has ever been revised. For a
// never-revised subtopic the value is days since creation plus a fixed
// bias, representing "overdue since creation".
func DaysSinceRevision(now time.Time, subtopic model.Subtopic) (int, bool) {
	if subtopic.LastRevised != nil {
		return wholeDays(now.Sub(*subtopic.LastRevised)), true
	}
	return wholeDays(now.Sub(subtopic.CreatedAt)) + neverRevisedBiasDays, false
}

func wholeDays(d time.Duration) int {
	days := int(d.Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue reports whether a subtopic's time since last revision
// exceeds the review interval for its current status
func IsOverdue(now time.Time, subtopic model.Subtopic, status model.PerformanceStatus) bool {
	days, _ := DaysSinceRevision(now, subtopic)
	return days > ReviewInterval(status)
}

// PriorityScore computes the urgency score for a subtopic:
//
//	score = baseWeight[status] + difficultyWeight*difficulty
//	      + overdueBonus * max(0, daysSince - reviewInterval[status])
func PriorityScore(now time.Time, subtopic model.Subtopic, status model.PerformanceStatus) float64 {
	days, _ := DaysSinceRevision(now, subtopic)

	score := baseWeight(status)
	score += difficultyWeight * subtopic.Difficulty.Weight()

	if over := days - ReviewInterval(status); over > 0 {
		score += overdueBonusPerDay * float64(over)
	}
	return score
}

// PriorityReason produces the human-readable justification shown next
// to a recommendation, worded after whichever term dominated the score
func PriorityReason(now time.Time, subtopic model.Subtopic, status model.PerformanceStatus) string {
	days, revised := DaysSinceRevision(now, subtopic)
	overdue := days > ReviewInterval(status)

	switch status {
	case model.StatusStruggled:
		if overdue {
			return fmt.Sprintf("Struggled recently and overdue for review (last revised %d days ago)", days)
		}
		return "Struggled on the last revision"
	case model.StatusMastered:
		if overdue {
			return fmt.Sprintf("Mastered but due for a refresh (last revised %d days ago)", days)
		}
		return "Mastered and on schedule"
	default:
		if !revised && subtopic.Difficulty == model.DifficultyHard {
			return "Never studied and high difficulty"
		}
		return "Never studied before"
	}
}
