package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Supported submission languages.
const (
	LanguageEnglish = "en"
	LanguageMarathi = "mr"
)

func ValidLanguage(lang string) bool {
	return lang == LanguageEnglish || lang == LanguageMarathi
}

// Submission is one respondent's complete answer set for one form instance.
type Submission struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `json:"user_id" gorm:"not null;index:idx_submissions_form_user"`
	User        User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	FormID      string         `json:"form_id" gorm:"not null;index:idx_submissions_form_user"`
	Language    string         `json:"language" gorm:"not null"` // "en" or "mr"
	Responses   []AnswerRecord `json:"responses,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SubmittedAt time.Time      `json:"submitted_at" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// AnswerRecord is one question's answer plus any attached media. Position
// preserves the order the field was encountered in the submitted form.
type AnswerRecord struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	SubmissionID     uint           `json:"submission_id" gorm:"not null;index"`
	Position         int            `json:"position" gorm:"not null"`
	QuestionID       string         `json:"question_id" gorm:"not null"` // whitespace-collapsed slug
	QuestionText     string         `json:"question_text" gorm:"type:text;not null"`
	Answer           string         `json:"answer" gorm:"type:text;not null"`
	Images           pq.StringArray `json:"images" gorm:"type:text[]"`
	Videos           pq.StringArray `json:"videos" gorm:"type:text[]"`
	IsSubQuestion    bool           `json:"is_sub_question" gorm:"default:false"`
	ParentQuestionID *string        `json:"parent_question_id,omitempty"` // set iff IsSubQuestion
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
