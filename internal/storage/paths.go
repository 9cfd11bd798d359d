// Package storage places member media in S3 under persona-specific folders.
package storage

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"familyhub/internal/models"
)

// FolderPath returns the folder a member's uploads live in. Parents store
// under their last name and role, children under "other" and their first name.
// Other services read files from these paths.
func FolderPath(familyID int64, user *models.User) string {
	base := fmt.Sprintf("families/%d", familyID)
	if user.Persona == models.PersonaChildren {
		return path.Join(base, "other", segment(user.FirstName, "member")) + "/"
	}
	return path.Join(base, segment(user.LastName, "family"), segment(user.Role, "member")) + "/"
}

// ObjectKey joins a folder and file name into an object key
func ObjectKey(folder, filename string) string {
	return path.Join(folder, segment(path.Base(filename), "file"))
}

// segment makes s safe to use as a single path element
func segment(s, fallback string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), ".")
	if out == "" {
		return fallback
	}
	return out
}
