package service

import "errors"

var (
	ErrFamilyNotFound      = errors.New("family not found")
	ErrNoFamily            = errors.New("user does not belong to a family")
	ErrAlreadyInFamily     = errors.New("user already belongs to a family")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteUsed          = errors.New("invite has already been used")
	ErrInviteExpired       = errors.New("invite has expired")
	ErrInviteNotCreated    = errors.New("invite could not be created")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidQuestionType = errors.New("invalid question type")
	ErrAnswerNotFound      = errors.New("answer not found")
	ErrForbidden           = errors.New("not allowed to access this resource")
	ErrEmailDisabled       = errors.New("email delivery is not configured")
	ErrSignupClosed        = errors.New("registration is by invite only")
)
