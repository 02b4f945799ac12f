package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RishabParuchuri/QuickPicks/internal/models"
)

// GameInfo describes one game in the catalog. Only games with HasPrompts set
// can be hosted.
type GameInfo struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Status     string `yaml:"status" json:"status"`
	HasPrompts bool   `yaml:"has_prompts" json:"has_prompts"`
}

// ScheduleEntry is a prompt's offset from game start. The session engine
// currently advances prompts in sequence and treats these as informational.
type ScheduleEntry struct {
	PromptID     string `yaml:"prompt_id" json:"prompt_id"`
	DelaySeconds int    `yaml:"delay_seconds" json:"delay_seconds"`
}

// PromptSpec is the catalog-file shape of a prompt template.
type PromptSpec struct {
	ID                     string                `yaml:"id"`
	Question               string                `yaml:"question"`
	AnswerChoices          []models.AnswerChoice `yaml:"answer_choices"`
	CorrectAnswerID        int                   `yaml:"correct_answer_id"`
	Probability            float64               `yaml:"probability"`
	TimerSeconds           int                   `yaml:"timer_seconds"`
	ResolutionDelaySeconds int                   `yaml:"resolution_delay_seconds"`
}

// GameScript bundles a game's prompt sequence and schedule.
type GameScript struct {
	Prompts  []PromptSpec    `yaml:"prompts"`
	Schedule []ScheduleEntry `yaml:"schedule"`
}

// Catalog is the document shape of a catalog file.
type Catalog struct {
	Games   []GameInfo            `yaml:"games"`
	Scripts map[string]GameScript `yaml:"scripts"`
}

// Provider defines what the session engine needs from the game catalog.
type Provider interface {
	Games() []GameInfo
	GameByID(id string) (GameInfo, bool)
	PromptsForGame(gameID string) []models.Prompt
	ScheduleForGame(gameID string) []ScheduleEntry
}

// StaticProvider serves an immutable in-memory catalog.
type StaticProvider struct {
	catalog Catalog
}

// NewStaticProvider creates a provider from a catalog document.
func NewStaticProvider(catalog Catalog) *StaticProvider {
	return &StaticProvider{catalog: catalog}
}

// Load reads a YAML catalog file into a provider.
func Load(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	return NewStaticProvider(catalog), nil
}

// Games returns the full game list.
func (p *StaticProvider) Games() []GameInfo {
	games := make([]GameInfo, len(p.catalog.Games))
	copy(games, p.catalog.Games)
	return games
}

// GameByID looks up a game by its identifier.
func (p *StaticProvider) GameByID(id string) (GameInfo, bool) {
	for _, game := range p.catalog.Games {
		if game.ID == id {
			return game, true
		}
	}
	return GameInfo{}, false
}

// PromptsForGame returns fresh prompt copies for a game, in script order.
// Callers own the returned prompts and may stamp status and timestamps.
func (p *StaticProvider) PromptsForGame(gameID string) []models.Prompt {
	script, ok := p.catalog.Scripts[gameID]
	if !ok {
		return nil
	}

	prompts := make([]models.Prompt, 0, len(script.Prompts))
	for _, spec := range script.Prompts {
		choices := make([]models.AnswerChoice, len(spec.AnswerChoices))
		copy(choices, spec.AnswerChoices)
		prompts = append(prompts, models.Prompt{
			ID:                     spec.ID,
			Question:               spec.Question,
			AnswerChoices:          choices,
			CorrectAnswerID:        spec.CorrectAnswerID,
			Probability:            spec.Probability,
			TimerSeconds:           spec.TimerSeconds,
			ResolutionDelaySeconds: spec.ResolutionDelaySeconds,
			Status:                 models.PromptStatusPending,
		})
	}
	return prompts
}

// ScheduleForGame returns the game's prompt offsets from game start.
func (p *StaticProvider) ScheduleForGame(gameID string) []ScheduleEntry {
	script, ok := p.catalog.Scripts[gameID]
	if !ok {
		return nil
	}
	schedule := make([]ScheduleEntry, len(script.Schedule))
	copy(schedule, script.Schedule)
	return schedule
}
