package service

import (
	"context"
	"errors"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/internal/apperr"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/model"
	"github.com/shopsetu/checklist/internal/repository"
	"github.com/shopsetu/checklist/internal/storage"
	"gorm.io/gorm"
)

// ResponseService covers the administrative side of submissions: listing,
// replacing, and deleting them, plus account deletion with its media cascade.
type ResponseService interface {
	ListResponses(ctx context.Context, formID, language, mobile string) ([]dto.SubmissionDTO, error)
	UpdateResponse(ctx context.Context, id uint, req dto.SubmissionUpdateDTO) (*dto.SubmissionDTO, error)
	DeleteResponse(ctx context.Context, id uint) error
	DeleteUser(ctx context.Context, id uint) error
}

type responseService struct {
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	media          storage.MediaStorage
	normalizer     TextNormalizerService
}

func NewResponseService(
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	media storage.MediaStorage,
	normalizer TextNormalizerService,
) ResponseService {
	return &responseService{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		media:          media,
		normalizer:     normalizer,
	}
}

func (s *responseService) ListResponses(ctx context.Context, formID, language, mobile string) ([]dto.SubmissionDTO, error) {
	filter := repository.SubmissionFilter{FormID: formID}

	if language != "" {
		if !model.ValidLanguage(language) {
			return nil, apperr.New(apperr.Validation, localize(model.LanguageEnglish, msgInvalidLanguage))
		}
		filter.Language = language
	}

	if mobile != "" {
		user, err := s.userRepo.FindByMobile(mobile)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.New(apperr.NotFound, "User not found")
			}
			return nil, apperr.Wrap(apperr.Persistence, localize(language, msgFetchError), err)
		}
		filter.UserID = &user.ID
	}

	submissions, err := s.submissionRepo.FindAll(filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, localize(language, msgFetchError), err)
	}

	out := make([]dto.SubmissionDTO, 0, len(submissions))
	for i := range submissions {
		submissionDTO := submissionToDTO(&submissions[i])
		if submissions[i].User.ID != 0 {
			submissionDTO.User = userToDTO(&submissions[i].User)
		}
		// Stored text may predate the repair heuristic; normalize on the way out.
		for j := range submissionDTO.Responses {
			submissionDTO.Responses[j].QuestionText = s.normalizer.Normalize(submissionDTO.Responses[j].QuestionText)
			submissionDTO.Responses[j].Answer = s.normalizer.Normalize(submissionDTO.Responses[j].Answer)
		}
		out = append(out, *submissionDTO)
	}
	return out, nil
}

func (s *responseService) UpdateResponse(ctx context.Context, id uint, req dto.SubmissionUpdateDTO) (*dto.SubmissionDTO, error) {
	submission, err := s.submissionRepo.FindByIDWithResponses(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "Response not found")
		}
		return nil, apperr.Wrap(apperr.Persistence, "Error fetching response", err)
	}

	if req.Language != nil {
		if !model.ValidLanguage(*req.Language) {
			return nil, apperr.New(apperr.Validation, localize(model.LanguageEnglish, msgInvalidLanguage))
		}
		submission.Language = *req.Language
	}

	var replacement []model.AnswerRecord
	if req.Responses != nil {
		replacement = make([]model.AnswerRecord, 0, len(req.Responses))
		for i, resp := range req.Responses {
			questionText := s.normalizer.Normalize(resp.QuestionText)
			questionID := resp.QuestionID
			if questionID == "" {
				questionID = questionSlug(questionText)
			}
			replacement = append(replacement, model.AnswerRecord{
				Position:         i,
				QuestionID:       questionID,
				QuestionText:     questionText,
				Answer:           s.normalizer.Normalize(resp.Answer),
				Images:           resp.Images,
				Videos:           resp.Videos,
				IsSubQuestion:    resp.IsSubQuestion,
				ParentQuestionID: resp.ParentQuestionID,
			})
		}
	}

	if err := s.submissionRepo.Update(submission, replacement); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Error updating response", err)
	}

	log.Info().Uint("submissionID", submission.ID).Msg("Submission updated")

	updated, err := s.submissionRepo.FindByIDWithResponses(id)
	if err != nil {
		// The write went through; fall back to the in-memory state.
		log.Warn().Err(err).Uint("submissionID", id).Msg("Failed to reload updated submission")
		return submissionToDTO(submission), nil
	}
	submissionDTO := submissionToDTO(updated)
	if updated.User.ID != 0 {
		submissionDTO.User = userToDTO(&updated.User)
	}
	return submissionDTO, nil
}

func (s *responseService) DeleteResponse(ctx context.Context, id uint) error {
	submission, err := s.submissionRepo.FindByIDWithResponses(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "Response not found")
		}
		return apperr.Wrap(apperr.Persistence, "Error fetching response", err)
	}

	s.deleteSubmissionMedia(ctx, submission)

	if err := s.submissionRepo.Delete(id); err != nil {
		return apperr.Wrap(apperr.Persistence, "Error deleting response", err)
	}
	log.Info().Uint("submissionID", id).Msg("Submission deleted")
	return nil
}

func (s *responseService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "User not found")
		}
		return apperr.Wrap(apperr.Persistence, "Error fetching user", err)
	}

	submissions, err := s.submissionRepo.FindAllByUser(id)
	if err != nil {
		return apperr.Wrap(apperr.Persistence, "Error fetching user responses", err)
	}
	for i := range submissions {
		s.deleteSubmissionMedia(ctx, &submissions[i])
	}

	if err := s.submissionRepo.DeleteAllByUser(id); err != nil {
		return apperr.Wrap(apperr.Persistence, "Error deleting user responses", err)
	}
	if err := s.userRepo.Delete(id); err != nil {
		return apperr.Wrap(apperr.Persistence, "Error deleting user", err)
	}
	log.Info().Uint("userID", id).Int("submissionCount", len(submissions)).Msg("User and submissions deleted")
	return nil
}

// deleteSubmissionMedia removes every hosted object the submission references.
// Each delete is independently recoverable: a failure is logged and the
// cascade moves on.
func (s *responseService) deleteSubmissionMedia(ctx context.Context, submission *model.Submission) {
	for _, record := range submission.Responses {
		for _, imageURL := range record.Images {
			if err := s.media.Delete(ctx, imageURL, storage.KindImage); err != nil {
				log.Error().Err(err).Str("url", imageURL).Msg("Error deleting image")
			}
		}
		for _, videoURL := range record.Videos {
			if err := s.media.Delete(ctx, videoURL, storage.KindVideo); err != nil {
				log.Error().Err(err).Str("url", videoURL).Msg("Error deleting video")
			}
		}
	}
}

func submissionToDTO(submission *model.Submission) *dto.SubmissionDTO {
	var out dto.SubmissionDTO
	if err := copier.Copy(&out, submission); err != nil {
		log.Error().Err(err).Uint("submissionID", submission.ID).Msg("Error copying submission to DTO")
	}
	out.Responses = make([]dto.AnswerRecordDTO, len(submission.Responses))
	for i, record := range submission.Responses {
		out.Responses[i] = dto.AnswerRecordDTO{
			QuestionID:       record.QuestionID,
			QuestionText:     record.QuestionText,
			Answer:           record.Answer,
			Images:           record.Images,
			Videos:           record.Videos,
			IsSubQuestion:    record.IsSubQuestion,
			ParentQuestionID: record.ParentQuestionID,
		}
	}
	out.User = nil
	return &out
}

func userToDTO(user *model.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:     user.ID,
		Mobile: user.Mobile,
		Name:   user.Name,
		Branch: user.Branch,
		Role:   user.Role,
	}
}
