package dto

import "time"

// UserDTO is the public view of an account.
type UserDTO struct {
	ID     uint   `json:"id"`
	Mobile string `json:"mobile"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Role   string `json:"role,omitempty"`
}

// AnswerRecordDTO is one normalized answer within a submission.
type AnswerRecordDTO struct {
	QuestionID       string   `json:"question_id"`
	QuestionText     string   `json:"question_text"`
	Answer           string   `json:"answer"`
	Images           []string `json:"images"`
	Videos           []string `json:"videos"`
	IsSubQuestion    bool     `json:"is_sub_question"`
	ParentQuestionID *string  `json:"parent_question_id,omitempty"`
}

// SubmissionDTO is the full view of one persisted submission.
type SubmissionDTO struct {
	ID          uint              `json:"id"`
	UserID      uint              `json:"user_id"`
	User        *UserDTO          `json:"user,omitempty"`
	FormID      string            `json:"form_id"`
	Language    string            `json:"language"`
	Responses   []AnswerRecordDTO `json:"responses"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// AnswerRecordUpdateDTO is one replacement answer in an administrative update.
// QuestionID may be omitted; it is then re-derived from QuestionText.
type AnswerRecordUpdateDTO struct {
	QuestionID       string   `json:"question_id"`
	QuestionText     string   `json:"question_text" binding:"required"`
	Answer           string   `json:"answer"`
	Images           []string `json:"images"`
	Videos           []string `json:"videos"`
	IsSubQuestion    bool     `json:"is_sub_question"`
	ParentQuestionID *string  `json:"parent_question_id"`
}

// SubmissionUpdateDTO replaces the whole responses sequence and/or language.
type SubmissionUpdateDTO struct {
	Language  *string                 `json:"language"`
	Responses []AnswerRecordUpdateDTO `json:"responses"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// MessageResponse is the standard success envelope: a message and, where the
// endpoint returns something, a data payload.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
