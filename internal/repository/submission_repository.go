package repository

import (
	"github.com/shopsetu/checklist/internal/model"
	"gorm.io/gorm"
)

// SubmissionFilter narrows FindAll. Zero values mean "no filter".
type SubmissionFilter struct {
	FormID   string
	Language string
	UserID   *uint
}

type SubmissionRepository interface {
	Create(submission *model.Submission) error
	FindByIDWithResponses(id uint) (*model.Submission, error)
	FindAll(filter SubmissionFilter) ([]model.Submission, error)
	FindAllByUser(userID uint) ([]model.Submission, error)
	Update(submission *model.Submission, responses []model.AnswerRecord) error
	Delete(id uint) error
	DeleteAllByUser(userID uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.Submission) error {
	// GORM creates the associated AnswerRecords in the same transaction,
	// so the submission document lands atomically.
	return r.db.Create(submission).Error
}

func (r *submissionRepository) FindByIDWithResponses(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Preload("User").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_records.position ASC")
		}).
		First(&submission, id).Error
	return &submission, err
}

func (r *submissionRepository) FindAll(filter SubmissionFilter) ([]model.Submission, error) {
	var submissions []model.Submission
	query := r.db.
		Preload("User").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_records.position ASC")
		})
	if filter.FormID != "" {
		query = query.Where("form_id = ?", filter.FormID)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	err := query.Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindAllByUser(userID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_records.position ASC")
		}).
		Where("user_id = ?", userID).
		Find(&submissions).Error
	return submissions, err
}

// Update replaces the submission's responses wholesale and saves any changed
// scalar fields (language). The old records are removed in the same
// transaction so a failure leaves the submission untouched.
func (r *submissionRepository) Update(submission *model.Submission, responses []model.AnswerRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if responses != nil {
			if err := tx.Where("submission_id = ?", submission.ID).
				Unscoped().Delete(&model.AnswerRecord{}).Error; err != nil {
				return err
			}
			submission.Responses = responses
		}
		return tx.Save(submission).Error
	})
}

func (r *submissionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).
			Unscoped().Delete(&model.AnswerRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Submission{}, id).Error
	})
}

func (r *submissionRepository) DeleteAllByUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&model.Submission{}).
			Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("submission_id IN ?", ids).
			Unscoped().Delete(&model.AnswerRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.Submission{}).Error
	})
}
