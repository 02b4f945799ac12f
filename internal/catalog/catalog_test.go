package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RishabParuchuri/QuickPicks/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	provider := NewStaticProvider(DefaultCatalog())

	games := provider.Games()
	require.Len(t, games, 5)

	demo, ok := provider.GameByID(DemoGameID)
	require.True(t, ok)
	assert.True(t, demo.HasPrompts)
	assert.Equal(t, "active", demo.Status)

	prompts := provider.PromptsForGame(DemoGameID)
	require.Len(t, prompts, 6)
	assert.Equal(t, "event_1", prompts[0].ID)
	assert.Equal(t, 1, prompts[0].CorrectAnswerID)
	assert.Equal(t, 30, prompts[0].TimerSeconds)
	assert.Equal(t, models.PromptStatusPending, prompts[0].Status)

	schedule := provider.ScheduleForGame(DemoGameID)
	require.Len(t, schedule, 6)
	assert.Equal(t, "event_1", schedule[0].PromptID)
	assert.Equal(t, 10, schedule[0].DelaySeconds)
	assert.Equal(t, 300, schedule[5].DelaySeconds)
}

func TestPromptsForGameReturnsFreshCopies(t *testing.T) {
	provider := NewStaticProvider(DefaultCatalog())

	first := provider.PromptsForGame(DemoGameID)
	first[0].Status = models.PromptStatusCompleted
	first[0].AnswerChoices[0].Text = "mutated"

	second := provider.PromptsForGame(DemoGameID)
	assert.Equal(t, models.PromptStatusPending, second[0].Status)
	assert.Equal(t, "Yes", second[0].AnswerChoices[0].Text)
}

func TestUnknownGame(t *testing.T) {
	provider := NewStaticProvider(DefaultCatalog())

	_, ok := provider.GameByID("nope")
	assert.False(t, ok)
	assert.Nil(t, provider.PromptsForGame("nope"))
	assert.Nil(t, provider.ScheduleForGame("nope"))
}

func TestLoadFromFile(t *testing.T) {
	doc := `
games:
  - id: tigers_sharks
    name: Tigers vs Sharks
    status: active
    has_prompts: true
scripts:
  tigers_sharks:
    prompts:
      - id: q1
        question: Will the Tigers score first?
        answer_choices:
          - id: 1
            text: "Yes"
          - id: 2
            text: "No"
        correct_answer_id: 2
        probability: 0.4
        timer_seconds: 15
        resolution_delay_seconds: 5
    schedule:
      - prompt_id: q1
        delay_seconds: 30
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	provider, err := Load(path)
	require.NoError(t, err)

	game, ok := provider.GameByID("tigers_sharks")
	require.True(t, ok)
	assert.Equal(t, "Tigers vs Sharks", game.Name)

	prompts := provider.PromptsForGame("tigers_sharks")
	require.Len(t, prompts, 1)
	assert.Equal(t, "q1", prompts[0].ID)
	assert.Equal(t, 2, prompts[0].CorrectAnswerID)
	assert.Len(t, prompts[0].AnswerChoices, 2)
	assert.Equal(t, 15, prompts[0].TimerSeconds)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("games: {not: [valid"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
