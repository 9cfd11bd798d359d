package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"familyhub/internal/models"
	"familyhub/internal/testutil"
)

func TestFetchTypeConfigOptionOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionConfigRepository(db)

	family := testutil.CreateTestFamily(t, db, "Smith")
	user := testutil.CreateTestUser(t, db, family.ID, "Ann", "ann@example.com", models.PersonaParent)

	optionTypes := []models.QuestionType{
		models.QuestionMultipleChoice,
		models.QuestionDropdown,
		models.QuestionLikertScale,
		models.QuestionRanking,
		models.QuestionDichotomous,
	}

	for _, qt := range optionTypes {
		t.Run(string(qt), func(t *testing.T) {
			q := testutil.CreateTestQuestion(t, db, user.ID, qt, "Pick one")
			cfg := models.OptionsConfig{Options: []models.Option{
				{OptionText: "third", OptionOrder: 2},
				{OptionText: "first", OptionOrder: 0},
				{OptionText: "second", OptionOrder: 1},
			}}
			if err := repo.SaveTypeConfig(ctx, q.ID, qt, cfg); err != nil {
				t.Fatalf("SaveTypeConfig() error = %v", err)
			}

			got, err := repo.FetchTypeConfig(ctx, q.ID, qt)
			if err != nil {
				t.Fatalf("FetchTypeConfig() error = %v", err)
			}
			options := got.(models.OptionsConfig).Options

			var orders []int
			var texts []string
			for _, o := range options {
				orders = append(orders, o.OptionOrder)
				texts = append(texts, o.OptionText)
			}
			if !reflect.DeepEqual(orders, []int{0, 1, 2}) {
				t.Errorf("orders = %v, want [0 1 2]", orders)
			}
			if !reflect.DeepEqual(texts, []string{"first", "second", "third"}) {
				t.Errorf("texts = %v, want [first second third]", texts)
			}
		})
	}
}

func TestFetchTypeConfigShapes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionConfigRepository(db)

	family := testutil.CreateTestFamily(t, db, "Smith")
	user := testutil.CreateTestUser(t, db, family.ID, "Ann", "ann@example.com", models.PersonaParent)

	defaultValue := 5.0
	limit := 140

	tests := []struct {
		name string
		qt   models.QuestionType
		save models.TypeConfig
		want models.TypeConfig
	}{
		{
			name: "image choice",
			qt:   models.QuestionImageChoice,
			save: models.ImageChoiceConfig{Options: []models.ImageOption{
				{OptionText: "dog", OptionOrder: 1, ImageURL: "dog.png"},
				{OptionText: "cat", OptionOrder: 0, ImageURL: "cat.png"},
			}},
			want: models.ImageChoiceConfig{Options: []models.ImageOption{
				{OptionText: "cat", OptionOrder: 0, ImageURL: "cat.png"},
				{OptionText: "dog", OptionOrder: 1, ImageURL: "dog.png"},
			}},
		},
		{
			name: "rating scale",
			qt:   models.QuestionRatingScale,
			save: models.ScaleConfig{MinValue: 1, MaxValue: 5, StepValue: 1, DefaultValue: &defaultValue},
			want: models.ScaleConfig{MinValue: 1, MaxValue: 5, StepValue: 1, DefaultValue: &defaultValue},
		},
		{
			name: "slider without settings uses defaults",
			qt:   models.QuestionSlider,
			want: models.ScaleConfig{MinValue: 0, MaxValue: 10, StepValue: 1},
		},
		{
			name: "matrix partitions rows and columns",
			qt:   models.QuestionMatrix,
			save: models.MatrixConfig{
				Rows:    []models.MatrixItem{{Content: "Tea", ItemOrder: 1}, {Content: "Coffee", ItemOrder: 0}},
				Columns: []models.MatrixItem{{Content: "Love", ItemOrder: 0}, {Content: "Hate", ItemOrder: 1}},
			},
			want: models.MatrixConfig{
				Rows:    []models.MatrixItem{{Content: "Coffee", ItemOrder: 0}, {Content: "Tea", ItemOrder: 1}},
				Columns: []models.MatrixItem{{Content: "Love", ItemOrder: 0}, {Content: "Hate", ItemOrder: 1}},
			},
		},
		{
			name: "open ended",
			qt:   models.QuestionOpenEnded,
			save: models.OpenEndedConfig{AnswerFormat: "text", CharacterLimit: &limit},
			want: models.OpenEndedConfig{AnswerFormat: "text", CharacterLimit: &limit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := testutil.CreateTestQuestion(t, db, user.ID, tt.qt, tt.name)
			if err := repo.SaveTypeConfig(ctx, q.ID, tt.qt, tt.save); err != nil {
				t.Fatalf("SaveTypeConfig() error = %v", err)
			}

			got, err := repo.FetchTypeConfig(ctx, q.ID, tt.qt)
			if err != nil {
				t.Fatalf("FetchTypeConfig() error = %v", err)
			}
			if !reflect.DeepEqual(clearIDs(got), tt.want) {
				t.Errorf("FetchTypeConfig() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFetchTypeConfigDemographic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionConfigRepository(db)

	family := testutil.CreateTestFamily(t, db, "Smith")
	user := testutil.CreateTestUser(t, db, family.ID, "Ann", "ann@example.com", models.PersonaParent)

	// Burn a settings row so demographic ids and question ids diverge.
	other := testutil.CreateTestQuestion(t, db, user.ID, models.QuestionDemographic, "Other")
	if err := repo.SaveTypeConfig(ctx, other.ID, models.QuestionDemographic, models.DemographicConfig{
		FieldLabel: "Other",
		Options:    []models.Option{{OptionText: "x", OptionOrder: 0}},
	}); err != nil {
		t.Fatalf("SaveTypeConfig() error = %v", err)
	}
	testutil.CreateTestQuestion(t, db, user.ID, models.QuestionOpenEnded, "Filler")

	q := testutil.CreateTestQuestion(t, db, user.ID, models.QuestionDemographic, "Age range")
	err := repo.SaveTypeConfig(ctx, q.ID, models.QuestionDemographic, models.DemographicConfig{
		FieldLabel: "Age",
		Options: []models.Option{
			{OptionText: "30+", OptionOrder: 2},
			{OptionText: "<18", OptionOrder: 0},
			{OptionText: "18-30", OptionOrder: 1},
		},
	})
	if err != nil {
		t.Fatalf("SaveTypeConfig() error = %v", err)
	}

	got, err := repo.FetchTypeConfig(ctx, q.ID, models.QuestionDemographic)
	if err != nil {
		t.Fatalf("FetchTypeConfig() error = %v", err)
	}
	cfg := got.(models.DemographicConfig)

	if cfg.ID == q.ID {
		t.Fatalf("settings row id %d should differ from question id", cfg.ID)
	}
	if cfg.FieldLabel != "Age" {
		t.Errorf("FieldLabel = %q, want Age", cfg.FieldLabel)
	}
	if len(cfg.Options) != 3 {
		t.Fatalf("got %d options, want 3", len(cfg.Options))
	}
	for i, want := range []string{"<18", "18-30", "30+"} {
		if cfg.Options[i].OptionText != want || cfg.Options[i].OptionOrder != i {
			t.Errorf("option %d = %+v, want %q at order %d", i, cfg.Options[i], want, i)
		}
	}

	owned := testutil.Count(t, db, "question_demographic_options", "demographic_id = ?", cfg.ID)
	if owned != 3 {
		t.Errorf("options owned by settings row = %d, want 3", owned)
	}
}

func TestFetchTypeConfigUnknownType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewQuestionConfigRepository(db)

	cfg, err := repo.FetchTypeConfig(context.Background(), 1, models.QuestionType("essay"))
	if err != nil || cfg != nil {
		t.Errorf("FetchTypeConfig(essay) = %#v, %v; want nil, nil", cfg, err)
	}
}

func TestSaveTypeConfigMismatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionConfigRepository(db)

	family := testutil.CreateTestFamily(t, db, "Smith")
	user := testutil.CreateTestUser(t, db, family.ID, "Ann", "ann@example.com", models.PersonaParent)
	q := testutil.CreateTestQuestion(t, db, user.ID, models.QuestionSlider, "How much?")

	err := repo.SaveTypeConfig(ctx, q.ID, models.QuestionSlider, models.OptionsConfig{})
	if !errors.Is(err, models.ErrConfigMismatch) {
		t.Errorf("SaveTypeConfig() error = %v, want ErrConfigMismatch", err)
	}
}

// clearIDs zeroes generated ids so fetched configs compare against literals
func clearIDs(cfg models.TypeConfig) models.TypeConfig {
	switch c := cfg.(type) {
	case models.ImageChoiceConfig:
		for i := range c.Options {
			c.Options[i].ID = 0
		}
		return c
	case models.MatrixConfig:
		for i := range c.Rows {
			c.Rows[i].ID = 0
		}
		for i := range c.Columns {
			c.Columns[i].ID = 0
		}
		return c
	default:
		return cfg
	}
}
