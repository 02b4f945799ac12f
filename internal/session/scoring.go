package session

import (
	"github.com/RishabParuchuri/QuickPicks/internal/models"
)

// Scoring contains the pure wagering arithmetic for prompt resolution.
type Scoring struct{}

// NewScoring creates a new Scoring service.
func NewScoring() *Scoring {
	return &Scoring{}
}

// WagerAmount returns the fixed per-prompt wager for a game, derived from the
// starting stake spread evenly over the prompt count. Integer division; a
// 6-prompt game wagers 33 points per prompt.
func (s *Scoring) WagerAmount(totalPrompts int) int {
	if totalPrompts <= 0 {
		return 0
	}
	return models.StartingScore / totalPrompts
}

// Distribute computes the per-player point delta for a resolved prompt.
// Correct bettors split the whole wagered pool with floored shares; the
// integer-division remainder is forfeited. When nobody wagered or nobody was
// correct, every bettor is refunded exactly their own wager.
func (s *Scoring) Distribute(bets map[string]models.Bet, wagers map[string]int, correctAnswerID int) map[string]int {
	deltas := make(map[string]int, len(bets))

	totalWagered := 0
	var winners []string
	for name, bet := range bets {
		totalWagered += wagers[name]
		if bet.AnswerID == correctAnswerID {
			winners = append(winners, name)
		}
	}

	if totalWagered > 0 && len(winners) > 0 {
		share := totalWagered / len(winners)
		for name := range bets {
			deltas[name] = 0
		}
		for _, name := range winners {
			deltas[name] = share
		}
		return deltas
	}

	for name := range bets {
		deltas[name] = wagers[name]
	}
	return deltas
}
