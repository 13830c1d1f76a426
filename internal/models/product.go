package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TranslationMap stores per-language translations as a JSON text column.
type TranslationMap map[string]string

func (m TranslationMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *TranslationMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// ImageList stores image URLs as a JSON text column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ImageList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON value")
	}
}

type Product struct {
	ID              uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	ArtisanID       uuid.UUID      `gorm:"type:char(36);index" json:"artisanId"`
	Title           string         `gorm:"size:255;not null" json:"title"`
	Blurb           string         `gorm:"type:text" json:"blurb"`
	Transcript      string         `gorm:"type:text" json:"transcript"`
	Translations    TranslationMap `gorm:"type:text" json:"translations"`
	Images          ImageList      `gorm:"type:text" json:"images"`
	Category        string         `gorm:"size:100;index" json:"category"`
	Price           *float64       `json:"price"`
	ArtisanName     string         `gorm:"size:255" json:"artisanName"`
	ArtisanLanguage string         `gorm:"size:100" json:"artisanLanguage"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
