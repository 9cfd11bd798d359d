package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"familyhub/internal/models"
	"familyhub/internal/testutil"
)

func TestExportToWriter(t *testing.T) {
	s := newTestServices(t, 0)
	ctx := context.Background()
	family := testutil.CreateTestFamily(t, s.db, "Archive")
	user := testutil.CreateTestUser(t, s.db, family.ID, "Ada", "ada@x.com", models.PersonaParent)

	if _, err := s.invites.CreateInvite(ctx, family.ID, &user.ID); err != nil {
		t.Fatalf("CreateInvite() error = %v", err)
	}
	q, err := s.questions.CreateQuestion(ctx, user.Identity(), CreateQuestionInput{
		Question: "Pick",
		Type:     models.QuestionLikertScale,
		Config:   models.OptionsConfig{Options: optionList("Low", "High")},
	})
	if err != nil {
		t.Fatalf("CreateQuestion() error = %v", err)
	}
	if _, err := s.answers.SubmitAnswer(ctx, user.Identity(), SubmitAnswerInput{QuestionID: q.ID, Answer: 2}); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	var buf bytes.Buffer
	backup, err := s.backup.ExportToWriter(ctx, &buf)
	if err != nil {
		t.Fatalf("ExportToWriter() error = %v", err)
	}

	if len(backup.Families) != 1 || len(backup.Users) != 1 || len(backup.Invites) != 1 ||
		len(backup.Questions) != 1 || len(backup.Answers) != 1 {
		t.Errorf("ExportToWriter() counts = %d/%d/%d/%d/%d, want one of each",
			len(backup.Families), len(backup.Users), len(backup.Invites), len(backup.Questions), len(backup.Answers))
	}
	if strings.Contains(buf.String(), "not-a-real-hash") {
		t.Error("export contains a password hash")
	}

	var decoded struct {
		Version   string `json:"version"`
		Questions []struct {
			Config struct {
				Options []models.Option `json:"options"`
			} `json:"config"`
		} `json:"questions"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Version != BackupVersion {
		t.Errorf("version = %q, want %q", decoded.Version, BackupVersion)
	}
	if len(decoded.Questions) != 1 || len(decoded.Questions[0].Config.Options) != 2 {
		t.Errorf("exported question configuration = %+v", decoded.Questions)
	}
}
