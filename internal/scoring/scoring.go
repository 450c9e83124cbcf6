package scoring

import (
	"quiz-backend/internal/models"
)

// BasePoints defines base points for each difficulty tier.
var BasePoints = map[models.Difficulty]int{
	models.Beginner:     5,
	models.Intermediate: 10,
	models.Advanced:     20,
	models.Expert:       30,
}

// FastBonus is awarded when a correct answer arrives in under half the
// question timer.
const FastBonus = 10

// ComputePoints returns the points for one submitted answer. Incorrect
// answers score zero regardless of timing. The half-timer threshold uses
// truncating integer division to match the stored timer semantics.
func ComputePoints(difficulty models.Difficulty, correct bool, timeTakenSecs, timerSecs int64) int {
	if !correct {
		return 0
	}
	base, ok := BasePoints[difficulty]
	if !ok {
		base = BasePoints[models.Beginner]
	}
	if timeTakenSecs < timerSecs/2 {
		return base + FastBonus
	}
	return base
}
