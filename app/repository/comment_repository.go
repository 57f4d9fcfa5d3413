package repository

import (
	"github.com/inkpost/inkpost/app/models"
	"gorm.io/gorm"
)

// commentRepository implements the CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByNote(noteID uint, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("note_id = ? AND is_hidden = ?", noteID, false).
		Preload("User").
		Order("created_at ASC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Hide(id uint) error {
	return r.db.Model(&models.Comment{}).Where("id = ?", id).Update("is_hidden", true).Error
}

func (r *commentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}

func (r *commentRepository) CountByNote(noteID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).
		Where("note_id = ? AND is_hidden = ?", noteID, false).Count(&count).Error
	return count, err
}
