package repository

import (
	"github.com/inkpost/inkpost/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// NoteRepository defines the interface for note-related database operations
type NoteRepository interface {
	Create(note *models.Note) error
	GetByID(id uint) (*models.Note, error)
	GetByToken(token string) (*models.Note, error)
	GetByUserID(userID uint, offset, limit int) ([]models.Note, error)
	ListPublished(offset, limit int) ([]models.Note, error)
	Search(query string, limit int) ([]models.Note, error)
	Update(note *models.Note) error
	Delete(id uint) error
	UpdateViewCount(id uint) error
	Count() (int64, error)
	CountByUserID(userID uint) (int64, error)
}

// CommentRepository defines the interface for comment-related database operations
type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	ListByNote(noteID uint, offset, limit int) ([]models.Comment, error)
	Hide(id uint) error
	Delete(id uint) error
	CountByNote(noteID uint) (int64, error)
}
