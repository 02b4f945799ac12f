package catalog

import (
	"github.com/RishabParuchuri/QuickPicks/internal/models"
)

// DemoGameID is the only game in the built-in catalog with a prompt script.
const DemoGameID = "lions_ravens_demo"

// DefaultCatalog returns the built-in demo catalog used when no catalog file
// is configured.
func DefaultCatalog() Catalog {
	return Catalog{
		Games: []GameInfo{
			{ID: DemoGameID, Name: "Lions vs Ravens @ 7pm", Status: "active", HasPrompts: true},
			{ID: "chiefs_bills", Name: "Chiefs vs Bills @ 8:30pm", Status: "inactive"},
			{ID: "cowboys_eagles", Name: "Cowboys vs Eagles @ 1pm", Status: "inactive"},
			{ID: "packers_bears", Name: "Packers vs Bears @ 4:25pm", Status: "inactive"},
			{ID: "patriots_jets", Name: "Patriots vs Jets @ 6pm", Status: "inactive"},
		},
		Scripts: map[string]GameScript{
			DemoGameID: {
				Prompts: []PromptSpec{
					{
						ID:       "event_1",
						Question: "Will the Lions score a touchdown on this drive?",
						AnswerChoices: []models.AnswerChoice{
							{ID: 1, Text: "Yes"},
							{ID: 2, Text: "No"},
						},
						CorrectAnswerID:        1,
						Probability:            0.45,
						TimerSeconds:           30,
						ResolutionDelaySeconds: 10,
					},
					{
						ID:       "event_2",
						Question: "What will happen on the next play?",
						AnswerChoices: []models.AnswerChoice{
							{ID: 1, Text: "Rushing play"},
							{ID: 2, Text: "Passing play"},
							{ID: 3, Text: "Turnover"},
							{ID: 4, Text: "Score"},
						},
						CorrectAnswerID:        2,
						Probability:            0.6,
						TimerSeconds:           20,
						ResolutionDelaySeconds: 8,
					},
					{
						ID:       "event_3",
						Question: "Will Lamar Jackson throw for over 15 yards this play?",
						AnswerChoices: []models.AnswerChoice{
							{ID: 1, Text: "Yes"},
							{ID: 2, Text: "No"},
						},
						CorrectAnswerID:        2,
						Probability:            0.25,
						TimerSeconds:           25,
						ResolutionDelaySeconds: 12,
					},
					{
						ID:       "event_4",
						Question: "Which team will score next?",
						AnswerChoices: []models.AnswerChoice{
							{ID: 1, Text: "Lions"},
							{ID: 2, Text: "Ravens"},
							{ID: 3, Text: "Neither (End of quarter)"},
						},
						CorrectAnswerID:        1,
						Probability:            0.4,
						TimerSeconds:           35,
						ResolutionDelaySeconds: 15,
					},
					{
						ID:       "event_5",
						Question: "Will there be a penalty called on this play?",
						AnswerChoices: []models.AnswerChoice{
							{ID: 1, Text: "Yes"},
							{ID: 2, Text: "No"},
						},
						CorrectAnswerID:        2,
						Probability:            0.8,
						TimerSeconds:           15,
						ResolutionDelaySeconds: 5,
					},
					{
						ID:       "event_6",
						Question: "Final prediction: Who will win the game?",
						AnswerChoices: []models.AnswerChoice{
							{ID: 1, Text: "Lions"},
							{ID: 2, Text: "Ravens"},
							{ID: 3, Text: "Tie (OT)"},
						},
						CorrectAnswerID:        2,
						Probability:            0.35,
						TimerSeconds:           45,
						ResolutionDelaySeconds: 20,
					},
				},
				Schedule: []ScheduleEntry{
					{PromptID: "event_1", DelaySeconds: 10},
					{PromptID: "event_2", DelaySeconds: 60},
					{PromptID: "event_3", DelaySeconds: 120},
					{PromptID: "event_4", DelaySeconds: 180},
					{PromptID: "event_5", DelaySeconds: 240},
					{PromptID: "event_6", DelaySeconds: 300},
				},
			},
		},
	}
}
