package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index" json:"user_id"`
	User        User           `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	PublicToken string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_token"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Body        string         `gorm:"type:longtext;not null" json:"body" validate:"required,min=1"`
	IsPublished bool           `gorm:"default:true;index" json:"is_published"`
	ViewCount   int64          `gorm:"default:0" json:"view_count"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Note) Validate() error {
	v := validator.New()
	return v.Struct(n)
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.PublicToken == "" {
		n.PublicToken = uuid.NewString()
	}
	return nil
}
