package models

import "time"

// Family groups user accounts that share visibility into each other's questions and answers
type Family struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FamilyWithMembers combines a family with its member accounts
type FamilyWithMembers struct {
	Family  Family `json:"family"`
	Members []User `json:"members"`
}
