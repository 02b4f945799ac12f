// Package detect scores whether the next play in a live game is worth
// generating a prediction prompt for. Pure rules over recent play context,
// no state.
package detect

import (
	"strings"

	"github.com/RishabParuchuri/QuickPicks/internal/feed"
)

var (
	scoringKeywords  = []string{"field goal", "extra point", "2-point", "touchdown"}
	turnoverKeywords = []string{"intercepted", "fumble", "challenged", "review"}
	momentumKeywords = []string{"deep pass", "punt", "kickoff"}
)

// InterestingNextPlay decides if the next play is interesting given the most
// recent play context. Empty histories are never interesting.
func InterestingNextPlay(plays []feed.Play) bool {
	if len(plays) == 0 {
		return false
	}
	last := plays[len(plays)-1]

	// Possession-relative score margin, when the feed carries running scores.
	var scoreDiff *int
	if last.HomeScore != nil && last.AwayScore != nil {
		diff := *last.HomeScore - *last.AwayScore
		if last.TeamWithPossession != last.HomeTeam {
			diff = -diff
		}
		scoreDiff = &diff
	}

	distanceToEndzone := 100 - last.PlayStart
	inRedZone := distanceToEndzone <= 20
	criticalDown := last.PlayNumberInDrive == 3 || last.PlayNumberInDrive == 4
	lateGame := last.Quarter == 4
	closeGame := scoreDiff != nil && abs(*scoreDiff) <= 7

	if inRedZone {
		return true
	}
	if lateGame && closeGame && criticalDown {
		return true
	}

	desc := strings.ToLower(last.PlayDescription)
	if containsAny(desc, scoringKeywords) {
		return true
	}
	if containsAny(desc, turnoverKeywords) {
		return true
	}
	if containsAny(desc, momentumKeywords) {
		return true
	}

	return false
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
