package models

import (
	"strings"
	"time"
)

// Persona decides authorization nuance and where a member's media is stored
type Persona string

const (
	PersonaParent   Persona = "Parent"
	PersonaChildren Persona = "Children"
)

// Valid reports whether p is one of the known personas
func (p Persona) Valid() bool {
	return p == PersonaParent || p == PersonaChildren
}

// UserStatusActive is assigned to every account created through registration
const UserStatusActive = "Active"

// User represents a family member account
type User struct {
	ID           int64     `json:"id"`
	FamilyID     *int64    `json:"family_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	Role         string    `json:"role"`
	Persona      Persona   `json:"persona"`
	Bio          string    `json:"bio"`
	Status       string    `json:"status"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the first and last name joined by a space
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Identity returns the resolved caller identity for this user
func (u *User) Identity() Identity {
	id := Identity{
		UserID:  u.ID,
		Email:   u.Email,
		Persona: u.Persona,
		IsAdmin: u.IsAdmin,
	}
	if u.FamilyID != nil {
		id.FamilyID = *u.FamilyID
	}
	return id
}

// RegistrationInput carries the fields submitted on the invite registration form
type RegistrationInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
	Role      string
	Persona   Persona
	Bio       string
}
