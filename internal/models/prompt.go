package models

import (
	"time"
)

// PromptStatus defines the lifecycle status of a prompt.
type PromptStatus string

const (
	PromptStatusPending   PromptStatus = "pending"
	PromptStatusActive    PromptStatus = "active"
	PromptStatusCompleted PromptStatus = "completed"
)

// AnswerChoice is one selectable answer for a prompt. IDs are unique within
// their prompt.
type AnswerChoice struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Prompt is one timed multiple-choice question with a known correct answer.
// Everything except Status and the timestamps is immutable template data
// supplied by the catalog; the orchestrator stamps the rest when the prompt
// becomes current.
type Prompt struct {
	ID                     string         `json:"id"`
	Question               string         `json:"question"`
	AnswerChoices          []AnswerChoice `json:"answer_choices"`
	CorrectAnswerID        int            `json:"correct_answer_id"`
	Probability            float64        `json:"probability"`
	TimerSeconds           int            `json:"timer_seconds"`
	ResolutionDelaySeconds int            `json:"resolution_delay_seconds"`
	Status                 PromptStatus   `json:"status"`
	CreatedAt              *time.Time     `json:"created_at,omitempty"`
	ExpiresAt              *time.Time     `json:"expires_at,omitempty"`
}

// BettingWindow returns the duration bets are accepted for.
func (p *Prompt) BettingWindow() time.Duration {
	return time.Duration(p.TimerSeconds) * time.Second
}

// ResolutionDelay returns the suspense interval between window close and
// revealing the correct answer.
func (p *Prompt) ResolutionDelay() time.Duration {
	return time.Duration(p.ResolutionDelaySeconds) * time.Second
}

// CorrectChoiceText returns the text of the correct answer choice.
func (p *Prompt) CorrectChoiceText() string {
	for _, choice := range p.AnswerChoices {
		if choice.ID == p.CorrectAnswerID {
			return choice.Text
		}
	}
	return "Unknown"
}

// HasChoice reports whether the given answer id exists on this prompt.
func (p *Prompt) HasChoice(answerID int) bool {
	for _, choice := range p.AnswerChoices {
		if choice.ID == answerID {
			return true
		}
	}
	return false
}

// Bet records one player's wagered answer on the current prompt. Bets only
// live for the lifetime of that prompt.
type Bet struct {
	PlayerName  string    `json:"player_name"`
	AnswerID    int       `json:"answer_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}
