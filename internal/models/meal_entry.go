package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealEntry is one recipe placed in one slot of the weekly plan. DayName and
// MealType always mirror Position.
type MealEntry struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Link      *string   `gorm:"type:text" json:"link"`
	Position  int       `gorm:"not null;index;check:position >= 0 AND position <= 13" json:"position"`
	DayName   string    `gorm:"size:16;not null" json:"day_name"`
	MealType  string    `gorm:"size:16;not null" json:"meal_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (MealEntry) TableName() string {
	return "weekly"
}

func (m *MealEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
