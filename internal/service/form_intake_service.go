package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/internal/apperr"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/model"
	"github.com/shopsetu/checklist/internal/repository"
	"github.com/shopsetu/checklist/internal/storage"
	"gorm.io/gorm"
)

// Reserved metadata keys, matched case-sensitively. Everything else in the
// form is an answer field.
var reservedFieldKeys = map[string]bool{
	"name":         true,
	"mobile":       true,
	"branch":       true,
	"formId":       true,
	"language":     true,
	"submitted_at": true,
	"agreement":    true,
}

// subQuestionSeparator marks a "Parent - Sub" composite question key. Split
// happens on the first occurrence only.
const subQuestionSeparator = " - "

// mediaFolderPrefix namespaces uploaded objects per user.
const mediaFolderPrefix = "shop_setup_checklist"

// Accepted layouts for a caller-supplied submitted_at value.
var submittedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// questionSlug derives the stable identifier for a question: every run of
// whitespace in the text becomes a single underscore.
func questionSlug(text string) string {
	return whitespaceRuns.ReplaceAllString(text, "_")
}

// FormIntakeService turns one loosely-structured multipart form post into a
// persisted Submission: classifies reserved fields, parses parent/sub
// question keys, binds uploaded media to the owning question and writes the
// normalized document.
type FormIntakeService interface {
	Submit(ctx context.Context, userID uint, form dto.FormSubmission) (*dto.SubmissionDTO, error)
}

type formIntakeService struct {
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	media          storage.MediaStorage
	normalizer     TextNormalizerService
}

func NewFormIntakeService(
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	media storage.MediaStorage,
	normalizer TextNormalizerService,
) FormIntakeService {
	return &formIntakeService{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		media:          media,
		normalizer:     normalizer,
	}
}

// submissionMeta carries the classified reserved fields.
type submissionMeta struct {
	Name        string
	Mobile      string
	Branch      string
	FormID      string
	Language    string
	SubmittedAt string
}

// answerField is one classified answer. rawKey is the field name exactly as
// submitted; media parts are addressed by raw names, so matching must ignore
// any text repair applied to key.
type answerField struct {
	rawKey string
	key    string
	value  string
}

func (s *formIntakeService) Submit(ctx context.Context, userID uint, form dto.FormSubmission) (*dto.SubmissionDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, apperr.Wrap(apperr.Persistence, "Error loading user", err)
	}

	meta, answers, err := s.classifyFields(form.Fields, user)
	if err != nil {
		return nil, err
	}

	records := s.assembleResponses(ctx, answers, form.Files, meta.Language, userID)

	submission := model.Submission{
		UserID:      userID,
		FormID:      meta.FormID,
		Language:    meta.Language,
		SubmittedAt: resolveSubmittedAt(meta.SubmittedAt),
		Responses:   records,
	}

	if err := s.submissionRepo.Create(&submission); err != nil {
		log.Error().Err(err).Uint("userID", userID).Str("formID", meta.FormID).Msg("Failed to persist submission")
		return nil, apperr.Wrap(apperr.Persistence, localize(meta.Language, msgSubmitError), err)
	}

	log.Info().Uint("submissionID", submission.ID).Uint("userID", userID).
		Str("formID", meta.FormID).Int("responseCount", len(records)).Msg("Submission saved")

	dtoOut := submissionToDTO(&submission)
	dtoOut.User = userToDTO(user)
	return dtoOut, nil
}

// classifyFields separates reserved metadata from answer fields. Keys and
// values are normalized first; reserved identity fields fall back to the
// stored profile; validation failures carry locale-aware messages.
func (s *formIntakeService) classifyFields(fields []dto.FormField, user *model.User) (submissionMeta, []answerField, error) {
	var meta submissionMeta
	var answers []answerField
	answerIndex := make(map[string]int)

	for _, field := range fields {
		key := s.normalizer.Normalize(field.Key)
		value := s.normalizer.Normalize(field.Value)

		if reservedFieldKeys[key] {
			switch key {
			case "name":
				meta.Name = value
			case "mobile":
				meta.Mobile = value
			case "branch":
				meta.Branch = value
			case "formId":
				meta.FormID = value
			case "language":
				meta.Language = value
			case "submitted_at":
				meta.SubmittedAt = value
			}
			// agreement is extracted and dropped
			continue
		}

		// Repeated answer keys keep their first position, last value.
		if idx, seen := answerIndex[key]; seen {
			answers[idx].value = value
			continue
		}
		answerIndex[key] = len(answers)
		answers = append(answers, answerField{rawKey: field.Key, key: key, value: value})
	}

	if meta.Name == "" {
		meta.Name = user.Name
	}
	if meta.Mobile == "" {
		meta.Mobile = user.Mobile
	}
	if meta.Branch == "" {
		meta.Branch = user.Branch
	}

	if meta.Name == "" || meta.Mobile == "" || meta.Branch == "" {
		return meta, nil, apperr.New(apperr.Validation, localize(meta.Language, msgMissingUserFields))
	}
	if meta.FormID == "" || meta.Language == "" {
		return meta, nil, apperr.New(apperr.Validation, localize(meta.Language, msgMissingFormFields))
	}
	if !model.ValidLanguage(meta.Language) {
		return meta, nil, apperr.New(apperr.Validation, localize(meta.Language, msgInvalidLanguage))
	}
	if len(answers) == 0 {
		return meta, nil, apperr.New(apperr.Validation, localize(meta.Language, msgNoResponses))
	}

	return meta, answers, nil
}

// assembleResponses walks the answer fields in input order and emits the
// normalized records, synthesizing each composite question's parent exactly
// once before its first child.
func (s *formIntakeService) assembleResponses(ctx context.Context, answers []answerField, files []dto.FilePart, language string, userID uint) []model.AnswerRecord {
	answerByKey := make(map[string]string, len(answers))
	for _, field := range answers {
		answerByKey[field.key] = field.value
	}

	var records []model.AnswerRecord
	emittedParents := make(map[string]bool)

	appendRecord := func(record model.AnswerRecord) {
		record.Position = len(records)
		records = append(records, record)
	}

	for _, field := range answers {
		questionText := field.key

		if sepIdx := strings.Index(questionText, subQuestionSeparator); sepIdx >= 0 {
			parentText := questionText[:sepIdx]
			subText := questionText[sepIdx+len(subQuestionSeparator):]
			parentID := questionSlug(parentText)
			subID := parentID + "_" + questionSlug(subText)

			if !emittedParents[parentID] {
				parentAnswer, ok := answerByKey[parentText]
				if !ok || parentAnswer == "" {
					parentAnswer = localize(language, msgNotAnswered)
				}
				images, videos := s.bindMedia(ctx, files, rawParentKey(field.rawKey, parentText), userID)
				appendRecord(model.AnswerRecord{
					QuestionID:   parentID,
					QuestionText: parentText,
					Answer:       parentAnswer,
					Images:       images,
					Videos:       videos,
				})
				emittedParents[parentID] = true
			}

			images, videos := s.bindMedia(ctx, files, field.rawKey, userID)
			appendRecord(model.AnswerRecord{
				QuestionID:       subID,
				QuestionText:     subText,
				Answer:           field.value,
				Images:           images,
				Videos:           videos,
				IsSubQuestion:    true,
				ParentQuestionID: &parentID,
			})
			continue
		}

		questionID := questionSlug(questionText)
		if emittedParents[questionID] {
			// Already synthesized as a parent; its answer was picked up there.
			continue
		}
		images, videos := s.bindMedia(ctx, files, field.rawKey, userID)
		appendRecord(model.AnswerRecord{
			QuestionID:   questionID,
			QuestionText: questionText,
			Answer:       field.value,
			Images:       images,
			Videos:       videos,
		})
		emittedParents[questionID] = true
	}

	return records
}

// rawParentKey recovers the parent's raw field key from a composite raw key.
// Falls back to the decoded parent text when the raw key carries no
// separator (possible when the separator itself was mangled in transit).
func rawParentKey(rawKey, parentText string) string {
	if idx := strings.Index(rawKey, subQuestionSeparator); idx >= 0 {
		return rawKey[:idx]
	}
	return parentText
}

// bindMedia uploads every file part addressed to fieldKey (via the
// media[<key>] convention) and returns the hosted URLs in upload order. A
// failed upload is logged and skipped; it never fails the submission.
func (s *formIntakeService) bindMedia(ctx context.Context, files []dto.FilePart, fieldKey string, userID uint) (images []string, videos []string) {
	mediaKey := "media[" + fieldKey + "]"
	folder := fmt.Sprintf("%s/%d", mediaFolderPrefix, userID)

	for _, file := range files {
		if file.FieldName != mediaKey {
			continue
		}
		url, err := s.media.Upload(ctx, file.Data, file.ContentType, folder)
		if err != nil {
			uploadErr := apperr.Wrap(apperr.MediaUpload, "media upload failed", err)
			log.Warn().Err(uploadErr).Str("field", mediaKey).Str("file", file.Filename).Msg("Skipping failed media upload")
			continue
		}
		if strings.HasPrefix(file.ContentType, "video/") {
			videos = append(videos, url)
		} else {
			images = append(images, url)
		}
	}
	return images, videos
}

// resolveSubmittedAt honors a parseable caller-supplied timestamp and falls
// back to receipt time otherwise. Invalid values are logged, not rejected.
func resolveSubmittedAt(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	for _, layout := range submittedAtLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	log.Warn().Str("submitted_at", raw).Msg("Invalid submitted_at value, using current date instead")
	return time.Now()
}
