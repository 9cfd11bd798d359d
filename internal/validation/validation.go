package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"familyhub/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	maxQuestionLength = 2000
	maxCommentLength  = 1000
	maxBioLength      = 2000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	return validateNamed("name", name)
}

func validateNamed(field, value string) error {
	value = strings.TrimSpace(value)
	label := strings.ReplaceAll(field, "_", " ")
	if value == "" {
		return ValidationError{Field: field, Message: label + " is required"}
	}
	if utf8.RuneCountInString(value) < 2 {
		return ValidationError{Field: field, Message: label + " must be at least 2 characters"}
	}
	return nil
}

// ValidatePersona checks the persona is Parent or Children
func ValidatePersona(persona models.Persona) error {
	if persona == "" {
		return ValidationError{Field: "persona", Message: "persona is required"}
	}
	if !persona.Valid() {
		return ValidationError{Field: "persona", Message: "persona must be Parent or Children"}
	}
	return nil
}

// ValidateRegistration checks every registration field and returns the first failure
func ValidateRegistration(in models.RegistrationInput) error {
	if err := validateNamed("first_name", in.FirstName); err != nil {
		return err
	}
	if err := validateNamed("last_name", in.LastName); err != nil {
		return err
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return err
	}
	if err := ValidatePersona(in.Persona); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.Bio) > maxBioLength {
		return ValidationError{Field: "bio", Message: fmt.Sprintf("bio must be at most %d characters", maxBioLength)}
	}
	return nil
}

// ValidateQuestionText checks the prompt of a question
func ValidateQuestionText(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ValidationError{Field: "question", Message: "question is required"}
	}
	if utf8.RuneCountInString(text) > maxQuestionLength {
		return ValidationError{Field: "question", Message: fmt.Sprintf("question must be at most %d characters", maxQuestionLength)}
	}
	return nil
}

// ValidateComment checks the body of a comment
func ValidateComment(body string) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return ValidationError{Field: "body", Message: "comment is required"}
	}
	if utf8.RuneCountInString(body) > maxCommentLength {
		return ValidationError{Field: "body", Message: fmt.Sprintf("comment must be at most %d characters", maxCommentLength)}
	}
	return nil
}
