package repository

import (
	"github.com/inkpost/inkpost/app/models"
	"gorm.io/gorm"
)

// noteRepository implements the NoteRepository interface
type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new note repository instance
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

func (r *noteRepository) GetByID(id uint) (*models.Note, error) {
	var note models.Note
	err := r.db.First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) GetByToken(token string) (*models.Note, error) {
	var note models.Note
	err := r.db.Where("public_token = ?", token).First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) GetByUserID(userID uint, offset, limit int) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&notes).Error
	return notes, err
}

func (r *noteRepository) ListPublished(offset, limit int) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Where("is_published = ?", true).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&notes).Error
	return notes, err
}

// Search finds published notes matching the term in title or body.
func (r *noteRepository) Search(query string, limit int) ([]models.Note, error) {
	var notes []models.Note
	like := "%" + query + "%"
	err := r.db.Where("is_published = ? AND (title LIKE ? OR body LIKE ?)", true, like, like).
		Order("created_at DESC").Limit(limit).Find(&notes).Error
	return notes, err
}

func (r *noteRepository) Update(note *models.Note) error {
	return r.db.Save(note).Error
}

func (r *noteRepository) Delete(id uint) error {
	return r.db.Delete(&models.Note{}, id).Error
}

func (r *noteRepository) UpdateViewCount(id uint) error {
	return r.db.Model(&models.Note{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *noteRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Note{}).Count(&count).Error
	return count, err
}

func (r *noteRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Note{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
