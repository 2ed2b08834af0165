package models

import "gorm.io/gorm"

// Lobby is the durable record of one lobby: owner, family tag, capacity,
// phase and the ordered roster. The membership rules themselves live in
// internal/lobby; this row is loaded before and saved after every
// operation.
type Lobby struct {
	gorm.Model
	OwnerID    uint   `gorm:"not null;index"`
	FamilyID   uint32 `gorm:"not null;index"`
	MaxPlayers uint8  `gorm:"not null"`
	Phase      string `gorm:"size:20;not null;default:'registering';index"`

	Owner   User          `gorm:"foreignKey:OwnerID"`
	Members []LobbyMember `gorm:"foreignKey:LobbyID"`
}

// LobbyMember is one roster slot. Position records the roster's internal
// order, which after a leave is not necessarily join order.
type LobbyMember struct {
	LobbyID  uint `gorm:"primaryKey;autoIncrement:false"`
	UserID   uint `gorm:"primaryKey;autoIncrement:false"`
	Position int  `gorm:"not null"`

	User User `gorm:"foreignKey:UserID"`
}
