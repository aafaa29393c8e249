package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/randyf333/SylliAI/internal/model"
)

type SyllabusRepository struct {
	db *gorm.DB
}

func NewSyllabusRepository(db *gorm.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

func (r *SyllabusRepository) Create(s *model.Syllabus) error {
	if err := r.db.Create(s).Error; err != nil {
		return fmt.Errorf("create syllabus failed: %w", err)
	}
	return nil
}

func (r *SyllabusRepository) ListByUserID(userID string) ([]model.Syllabus, error) {
	var list []model.Syllabus
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list syllabi failed: %w", err)
	}
	return list, nil
}

// GetByID fetches without a user filter so callers can distinguish a missing
// row from one owned by somebody else.
func (r *SyllabusRepository) GetByID(id string) (*model.Syllabus, error) {
	var s model.Syllabus
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get syllabus failed: %w", err)
	}
	return &s, nil
}

// DeleteCascade removes the syllabus and every document attached to it in one
// transaction, scoped by owner. It returns the file paths of deleted rows so
// the caller can clean up the upload directory.
func (r *SyllabusRepository) DeleteCascade(id, userID string) ([]string, error) {
	var paths []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var syllabus model.Syllabus
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&syllabus).Error; err != nil {
			return fmt.Errorf("get syllabus for delete failed: %w", err)
		}
		if syllabus.FilePath != "" {
			paths = append(paths, syllabus.FilePath)
		}

		var docPaths []string
		if err := tx.Model(&model.Document{}).
			Where("syllabus_id = ? AND user_id = ? AND file_path <> ''", id, userID).
			Pluck("file_path", &docPaths).Error; err != nil {
			return fmt.Errorf("list document files for delete failed: %w", err)
		}
		paths = append(paths, docPaths...)

		if err := tx.Where("syllabus_id = ? AND user_id = ?", id, userID).
			Delete(&model.Document{}).Error; err != nil {
			return fmt.Errorf("delete syllabus documents failed: %w", err)
		}
		if err := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&model.Syllabus{}).Error; err != nil {
			return fmt.Errorf("delete syllabus failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
