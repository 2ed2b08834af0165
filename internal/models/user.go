package models

import "gorm.io/gorm"

// User represents a registered player account.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:50;not null;default:'user';index"`

	// A user can only be a member of one lobby at a time.
	CurrentLobbyID *uint  `gorm:"index"`
	CurrentLobby   *Lobby `gorm:"foreignKey:CurrentLobbyID"`
}
