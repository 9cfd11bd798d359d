package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestFamilyInviteIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt *time.Time
		used      bool
		wantExp   bool
		wantLive  bool
	}{
		{
			name:     "no expiry",
			wantExp:  false,
			wantLive: true,
		},
		{
			name:      "future expiration",
			expiresAt: ptrTime(time.Now().Add(1 * time.Hour)),
			wantExp:   false,
			wantLive:  true,
		},
		{
			name:      "just expired",
			expiresAt: ptrTime(time.Now().Add(-1 * time.Second)),
			wantExp:   true,
			wantLive:  false,
		},
		{
			name:     "used without expiry",
			used:     true,
			wantExp:  false,
			wantLive: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invite := FamilyInvite{
				ID:          1,
				FamilyID:    1,
				InviteToken: "abc",
				Used:        tt.used,
				ExpiresAt:   tt.expiresAt,
			}
			if got := invite.IsExpired(); got != tt.wantExp {
				t.Errorf("FamilyInvite.IsExpired() = %v, want %v", got, tt.wantExp)
			}
			if got := invite.IsLive(); got != tt.wantLive {
				t.Errorf("FamilyInvite.IsLive() = %v, want %v", got, tt.wantLive)
			}
		})
	}
}

func TestQuestionTypeConfigTable(t *testing.T) {
	tests := []struct {
		qt    QuestionType
		table string
		shape ConfigShape
	}{
		{QuestionMultipleChoice, "question_multiple_choice", ShapeOptions},
		{QuestionDropdown, "question_dropdown", ShapeOptions},
		{QuestionLikertScale, "question_likert_scale", ShapeOptions},
		{QuestionRanking, "question_ranking", ShapeOptions},
		{QuestionDichotomous, "question_dichotomous", ShapeOptions},
		{QuestionImageChoice, "question_image_choice", ShapeImageOptions},
		{QuestionRatingScale, "question_rating_scale", ShapeScale},
		{QuestionSlider, "question_slider", ShapeScale},
		{QuestionMatrix, "question_matrix", ShapeMatrix},
		{QuestionOpenEnded, "question_open_ended", ShapeOpenEnded},
		{QuestionDemographic, "question_demographic", ShapeDemographic},
		{QuestionType("essay"), "", ShapeNone},
		{QuestionType(""), "", ShapeNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.qt), func(t *testing.T) {
			if got := tt.qt.ConfigTable(); got != tt.table {
				t.Errorf("ConfigTable() = %q, want %q", got, tt.table)
			}
			if got := tt.qt.Shape(); got != tt.shape {
				t.Errorf("Shape() = %v, want %v", got, tt.shape)
			}
			if got := tt.qt.Valid(); got != (tt.table != "") {
				t.Errorf("Valid() = %v", got)
			}
		})
	}
}

func TestQuestionTypesAreDistinctTables(t *testing.T) {
	seen := make(map[string]QuestionType)
	for _, qt := range QuestionTypes {
		table := qt.ConfigTable()
		if table == "" {
			t.Errorf("%s has no config table", qt)
		}
		if other, ok := seen[table]; ok {
			t.Errorf("%s and %s share table %s", qt, other, table)
		}
		seen[table] = qt
	}
}

func TestPersonaValid(t *testing.T) {
	tests := []struct {
		persona Persona
		want    bool
	}{
		{PersonaParent, true},
		{PersonaChildren, true},
		{Persona("parent"), false},
		{Persona(""), false},
	}

	for _, tt := range tests {
		if got := tt.persona.Valid(); got != tt.want {
			t.Errorf("Persona(%q).Valid() = %v, want %v", tt.persona, got, tt.want)
		}
	}
}

func TestIdentityAccess(t *testing.T) {
	member := Identity{UserID: 1, FamilyID: 10}
	orphan := Identity{UserID: 2}
	admin := Identity{UserID: 3, IsAdmin: true}

	tests := []struct {
		name     string
		identity Identity
		familyID int64
		ownerID  int64
		access   bool
		modify   bool
	}{
		{"own family and own row", member, 10, 1, true, true},
		{"other family", member, 11, 2, false, false},
		{"no family", orphan, 10, 2, false, true},
		{"admin", admin, 99, 1, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.identity.CanAccessFamily(tt.familyID); got != tt.access {
				t.Errorf("CanAccessFamily() = %v, want %v", got, tt.access)
			}
			if got := tt.identity.CanModify(tt.ownerID); got != tt.modify {
				t.Errorf("CanModify() = %v, want %v", got, tt.modify)
			}
		})
	}
}

func TestUserIdentity(t *testing.T) {
	familyID := int64(7)
	user := User{ID: 5, FamilyID: &familyID, Email: "a@x.com", Persona: PersonaParent}

	id := user.Identity()
	if id.UserID != 5 || id.FamilyID != 7 || id.Persona != PersonaParent {
		t.Errorf("Identity() = %+v", id)
	}

	user.FamilyID = nil
	if user.Identity().HasFamily() {
		t.Error("user without family should not have a family identity")
	}
}

func TestDecodeTypeConfig(t *testing.T) {
	tests := []struct {
		name    string
		qt      QuestionType
		raw     string
		want    ConfigShape
		wantNil bool
		wantErr bool
	}{
		{name: "options", qt: QuestionDropdown, raw: `{"options":[{"option_text":"a","option_order":0}]}`, want: ShapeOptions},
		{name: "image options", qt: QuestionImageChoice, raw: `{"options":[{"option_text":"a","option_order":0,"image_url":"u"}]}`, want: ShapeImageOptions},
		{name: "scale", qt: QuestionSlider, raw: `{"max_value":5}`, want: ShapeScale},
		{name: "matrix", qt: QuestionMatrix, raw: `{"rows":[{"content":"r"}],"columns":[{"content":"c"}]}`, want: ShapeMatrix},
		{name: "open ended", qt: QuestionOpenEnded, raw: `{"answer_format":"text","character_limit":200}`, want: ShapeOpenEnded},
		{name: "demographic", qt: QuestionDemographic, raw: `{"field_label":"Age","options":[]}`, want: ShapeDemographic},
		{name: "empty", qt: QuestionDropdown, raw: ``, wantNil: true},
		{name: "null", qt: QuestionDropdown, raw: `null`, wantNil: true},
		{name: "unknown type", qt: QuestionType("essay"), raw: `{}`, wantNil: true},
		{name: "malformed", qt: QuestionMatrix, raw: `{"rows":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := DecodeTypeConfig(tt.qt, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeTypeConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if cfg != nil {
					t.Errorf("DecodeTypeConfig() = %#v, want nil", cfg)
				}
				return
			}
			if cfg == nil || cfg.Shape() != tt.want {
				t.Errorf("DecodeTypeConfig() = %#v, want shape %v", cfg, tt.want)
			}
		})
	}
}

func TestDecodeScaleConfigKeepsDefaults(t *testing.T) {
	cfg, err := DecodeTypeConfig(QuestionRatingScale, json.RawMessage(`{"max_value":5}`))
	if err != nil {
		t.Fatalf("DecodeTypeConfig() error = %v", err)
	}
	scale := cfg.(ScaleConfig)
	if scale.MinValue != 0 || scale.MaxValue != 5 || scale.StepValue != 1 {
		t.Errorf("scale = %+v, want min 0 max 5 step 1", scale)
	}
}

func TestCheckConfig(t *testing.T) {
	if err := CheckConfig(QuestionDropdown, OptionsConfig{}); err != nil {
		t.Errorf("CheckConfig(dropdown, options) = %v", err)
	}
	if err := CheckConfig(QuestionDropdown, nil); err != nil {
		t.Errorf("CheckConfig(dropdown, nil) = %v", err)
	}
	if err := CheckConfig(QuestionSlider, OptionsConfig{}); !errors.Is(err, ErrConfigMismatch) {
		t.Errorf("CheckConfig(slider, options) = %v, want ErrConfigMismatch", err)
	}
}

func TestMediaTypeFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        MediaType
	}{
		{"image/png", MediaImage},
		{"video/mp4", MediaVideo},
		{"audio/mpeg", MediaAudio},
		{"application/pdf", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := MediaTypeFromContentType(tt.contentType); got != tt.want {
			t.Errorf("MediaTypeFromContentType(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}
