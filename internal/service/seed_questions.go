package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

type seedQuestion struct {
	text   string
	qType  models.QuestionType
	config models.TypeConfig
}

func optionList(texts ...string) []models.Option {
	out := make([]models.Option, len(texts))
	for i, t := range texts {
		out[i] = models.Option{OptionText: t, OptionOrder: i}
	}
	return out
}

func matrixItems(contents ...string) []models.MatrixItem {
	out := make([]models.MatrixItem, len(contents))
	for i, c := range contents {
		out[i] = models.MatrixItem{Content: c, ItemOrder: i}
	}
	return out
}

func intRef(n int) *int { return &n }

// defaultQuestions is the starter set given to every new member
func defaultQuestions() []seedQuestion {
	return []seedQuestion{
		{
			text:   "What is your favourite family memory?",
			qType:  models.QuestionOpenEnded,
			config: models.OpenEndedConfig{AnswerFormat: "text", CharacterLimit: intRef(1000)},
		},
		{
			text:   "Which of these activities do you enjoy together?",
			qType:  models.QuestionMultipleChoice,
			config: models.OptionsConfig{Options: optionList("Board games", "Cooking", "Hiking", "Movies")},
		},
		{
			text:   "How would you rate this year's family holiday?",
			qType:  models.QuestionRatingScale,
			config: models.ScaleConfig{MinValue: 1, MaxValue: 5, StepValue: 1},
		},
		{
			text:   "Should we start a weekly family dinner?",
			qType:  models.QuestionDichotomous,
			config: models.OptionsConfig{Options: optionList("Yes", "No")},
		},
		{
			text:   "Rank these weekend plans from favourite to least favourite.",
			qType:  models.QuestionRanking,
			config: models.OptionsConfig{Options: optionList("Beach", "Museum", "Park", "Stay home")},
		},
		{
			text:   "How much screen time feels right on a school day (hours)?",
			qType:  models.QuestionSlider,
			config: models.ScaleConfig{MinValue: 0, MaxValue: 6, StepValue: 0.5},
		},
		{
			text:  "We spend enough time together as a family.",
			qType: models.QuestionLikertScale,
			config: models.OptionsConfig{Options: optionList(
				"Strongly disagree", "Disagree", "Neutral", "Agree", "Strongly agree",
			)},
		},
		{
			text:   "Which season do you like best?",
			qType:  models.QuestionDropdown,
			config: models.OptionsConfig{Options: optionList("Spring", "Summer", "Autumn", "Winter")},
		},
		{
			text:  "How often does each of us do these chores?",
			qType: models.QuestionMatrix,
			config: models.MatrixConfig{
				Rows:    matrixItems("Washing up", "Laundry", "Hoovering"),
				Columns: matrixItems("Never", "Sometimes", "Often"),
			},
		},
		{
			text:  "Which generation are you?",
			qType: models.QuestionDemographic,
			config: models.DemographicConfig{
				FieldLabel: "Generation",
				Options:    optionList("Grandparent", "Parent", "Child"),
			},
		},
	}
}

// SeedDefaultQuestions gives a new member a starter set of questions
func (s *QuestionService) SeedDefaultQuestions(ctx context.Context, userID int64) error {
	seeds := defaultQuestions()

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		questions := s.questionRepo.WithTx(tx)
		configs := s.configRepo.WithTx(tx)

		for _, seed := range seeds {
			q := &models.Question{UserID: userID, Question: seed.text, Type: seed.qType}
			if err := questions.CreateQuestion(ctx, q); err != nil {
				return err
			}
			if err := configs.SaveTypeConfig(ctx, q.ID, q.Type, seed.config); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to seed default questions: %w", err)
	}

	s.logger.Info("default questions seeded", zap.Int64("user_id", userID), zap.Int("count", len(seeds)))
	return nil
}
