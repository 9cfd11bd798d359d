package repository

import (
	"context"
	"encoding/json"
	"testing"

	"familyhub/internal/models"
	"familyhub/internal/testutil"
)

func TestQuestionRepositoryFamilyScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepository(db)

	smiths := testutil.CreateTestFamily(t, db, "Smith")
	jones := testutil.CreateTestFamily(t, db, "Jones")
	ann := testutil.CreateTestUser(t, db, smiths.ID, "Ann", "ann@example.com", models.PersonaParent)
	bob := testutil.CreateTestUser(t, db, smiths.ID, "Bob", "bob@example.com", models.PersonaChildren)
	cat := testutil.CreateTestUser(t, db, jones.ID, "Cat", "cat@example.com", models.PersonaParent)

	image := models.MediaImage
	questions := []*models.Question{
		{UserID: ann.ID, Question: "Favourite food?", Type: models.QuestionOpenEnded},
		{UserID: bob.ID, Question: "Best holiday?", Type: models.QuestionDropdown, MediaType: &image, FileURL: "https://cdn/x.png"},
		{UserID: cat.ID, Question: "Pets?", Type: models.QuestionDichotomous},
	}
	for _, q := range questions {
		if err := repo.CreateQuestion(ctx, q); err != nil {
			t.Fatalf("CreateQuestion() error = %v", err)
		}
	}

	list, err := repo.ListQuestionsByFamily(ctx, smiths.ID)
	if err != nil {
		t.Fatalf("ListQuestionsByFamily() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListQuestionsByFamily() returned %d questions, want 2", len(list))
	}
	if list[0].ID != questions[1].ID {
		t.Errorf("expected newest question first, got %d", list[0].ID)
	}
	if list[0].MediaType == nil || *list[0].MediaType != models.MediaImage {
		t.Errorf("MediaType = %v, want image", list[0].MediaType)
	}
	if list[1].MediaType != nil {
		t.Errorf("MediaType = %v, want nil", *list[1].MediaType)
	}

	got, err := repo.GetQuestionByID(ctx, questions[2].ID)
	if err != nil {
		t.Fatalf("GetQuestionByID() error = %v", err)
	}
	if got.FamilyID == nil || *got.FamilyID != jones.ID || got.AuthorName != "Cat Tester" {
		t.Errorf("GetQuestionByID() = %+v", got)
	}
}

func TestQuestionRepositoryUpdateKeepsType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewQuestionRepository(db)

	family := testutil.CreateTestFamily(t, db, "Smith")
	user := testutil.CreateTestUser(t, db, family.ID, "Ann", "ann@example.com", models.PersonaParent)
	q := testutil.CreateTestQuestion(t, db, user.ID, models.QuestionSlider, "How tall?")

	q.Question = "How tall are you?"
	q.Type = models.QuestionDropdown
	if err := repo.UpdateQuestion(ctx, q); err != nil {
		t.Fatalf("UpdateQuestion() error = %v", err)
	}

	got, err := repo.GetQuestionByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuestionByID() error = %v", err)
	}
	if got.Question != "How tall are you?" {
		t.Errorf("Question = %q", got.Question)
	}
	if got.Type != models.QuestionSlider {
		t.Errorf("Type = %q, want slider", got.Type)
	}
}

func TestQuestionRepositoryDeleteCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	questions := NewQuestionRepository(db)
	configs := NewQuestionConfigRepository(db)
	answers := NewAnswerRepository(db)
	engagement := NewEngagementRepository(db)

	family := testutil.CreateTestFamily(t, db, "Smith")
	user := testutil.CreateTestUser(t, db, family.ID, "Ann", "ann@example.com", models.PersonaParent)
	q := testutil.CreateTestQuestion(t, db, user.ID, models.QuestionDemographic, "Age?")

	if err := configs.SaveTypeConfig(ctx, q.ID, q.Type, models.DemographicConfig{
		FieldLabel: "Age",
		Options:    []models.Option{{OptionText: "young", OptionOrder: 0}},
	}); err != nil {
		t.Fatalf("SaveTypeConfig() error = %v", err)
	}
	if err := answers.CreateAnswer(ctx, &models.Answer{
		QuestionID: q.ID, UserID: user.ID, AnswerFormat: models.FormatText,
		AnswerData: json.RawMessage(`"young"`), QuestionType: q.Type,
	}); err != nil {
		t.Fatalf("CreateAnswer() error = %v", err)
	}
	if _, err := engagement.AddLike(ctx, q.ID, user.ID); err != nil {
		t.Fatalf("AddLike() error = %v", err)
	}
	if err := engagement.CreateComment(ctx, &models.QuestionComment{QuestionID: q.ID, UserID: user.ID, Body: "hi"}); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}

	if err := questions.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("DeleteQuestion() error = %v", err)
	}

	for _, table := range []string{"question_demographic", "question_demographic_options", "answers", "question_likes", "question_comments"} {
		if n := testutil.Count(t, db, table, ""); n != 0 {
			t.Errorf("%s has %d rows after delete, want 0", table, n)
		}
	}
}

func TestEngagementRepositoryLikes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewEngagementRepository(db)

	family := testutil.CreateTestFamily(t, db, "Smith")
	user := testutil.CreateTestUser(t, db, family.ID, "Ann", "ann@example.com", models.PersonaParent)
	q := testutil.CreateTestQuestion(t, db, user.ID, models.QuestionOpenEnded, "Hi?")

	tests := []struct {
		name   string
		action func() (bool, error)
		want   bool
	}{
		{"first like", func() (bool, error) { return repo.AddLike(ctx, q.ID, user.ID) }, true},
		{"duplicate like", func() (bool, error) { return repo.AddLike(ctx, q.ID, user.ID) }, false},
		{"has liked", func() (bool, error) { return repo.HasLiked(ctx, q.ID, user.ID) }, true},
		{"unlike", func() (bool, error) { return repo.RemoveLike(ctx, q.ID, user.ID) }, true},
		{"unlike again", func() (bool, error) { return repo.RemoveLike(ctx, q.ID, user.ID) }, false},
	}

	for _, tt := range tests {
		got, err := tt.action()
		if err != nil {
			t.Fatalf("%s: error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}
