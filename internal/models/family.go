package models

import "gorm.io/gorm"

// GameFamily is a catalog entry for a family tag (e.g. "poker", "chess").
// Lobbies carry the tag as an opaque number and are never checked against
// this table; the catalog exists for browsing and display only.
type GameFamily struct {
	gorm.Model
	Name        string `gorm:"size:255;unique;not null"`
	Description string
}
