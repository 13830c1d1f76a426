package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArtisanProfile struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Language  string    `gorm:"size:100" json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *ArtisanProfile) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
