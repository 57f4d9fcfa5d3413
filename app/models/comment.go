package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	NoteID    uint           `gorm:"index" json:"note_id"`
	Note      Note           `gorm:"foreignKey:NoteID" json:"note,omitempty"`
	Content   string         `gorm:"type:text" json:"content" validate:"required,min=1"`
	IsHidden  bool           `gorm:"default:false;index" json:"is_hidden"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
