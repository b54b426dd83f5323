package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopsetu/checklist/internal/apperr"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntakeFixture(t *testing.T, user *model.User) (FormIntakeService, *fakeSubmissionRepo, *fakeMediaStorage) {
	t.Helper()
	userRepo := newFakeUserRepo(user)
	subRepo := newFakeSubmissionRepo()
	media := newFakeMediaStorage()
	svc := NewFormIntakeService(userRepo, subRepo, media, NewTextNormalizerService())
	return svc, subRepo, media
}

func testUser() *model.User {
	return &model.User{ID: 1, Mobile: "9111111111", Name: "Asha", Branch: "B1", Role: "user"}
}

func baseFields(extra ...dto.FormField) []dto.FormField {
	fields := []dto.FormField{
		{Key: "formId", Value: "F1"},
		{Key: "language", Value: "en"},
	}
	return append(fields, extra...)
}

func TestSubmitMissingIdentityFieldsFails(t *testing.T) {
	// No stored fallback available either.
	svc, subRepo, _ := newIntakeFixture(t, &model.User{ID: 1})

	_, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(dto.FormField{Key: "Q1", Value: "yes"}),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Empty(t, subRepo.submissions, "no document may be persisted")
}

func TestSubmitIdentityFallsBackToProfile(t *testing.T) {
	svc, subRepo, _ := newIntakeFixture(t, testUser())

	fields := []dto.FormField{
		{Key: "name", Value: ""},
		{Key: "formId", Value: "F1"},
		{Key: "language", Value: "en"},
		{Key: "Q1", Value: "yes"},
		{Key: "Q2 - Sub", Value: "no"},
	}
	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{Fields: fields})
	require.NoError(t, err)

	require.NotNil(t, result.User)
	assert.Equal(t, "Asha", result.User.Name)
	assert.Equal(t, "en", result.Language)
	assert.Equal(t, "F1", result.FormID)

	require.Len(t, subRepo.submissions, 1)
	require.Len(t, result.Responses, 3)

	assert.Equal(t, "Q1", result.Responses[0].QuestionID)
	assert.Equal(t, "yes", result.Responses[0].Answer)
	assert.False(t, result.Responses[0].IsSubQuestion)

	// Q2 parent is synthesized with the placeholder answer, before its child.
	assert.Equal(t, "Q2", result.Responses[1].QuestionID)
	assert.Equal(t, "Not answered", result.Responses[1].Answer)
	assert.False(t, result.Responses[1].IsSubQuestion)

	assert.Equal(t, "Q2_Sub", result.Responses[2].QuestionID)
	assert.Equal(t, "no", result.Responses[2].Answer)
	assert.True(t, result.Responses[2].IsSubQuestion)
	require.NotNil(t, result.Responses[2].ParentQuestionID)
	assert.Equal(t, "Q2", *result.Responses[2].ParentQuestionID)
}

func TestSubmitMissingFormIDOrLanguageFails(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	_, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: []dto.FormField{{Key: "language", Value: "en"}, {Key: "Q1", Value: "yes"}},
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: []dto.FormField{{Key: "formId", Value: "F1"}, {Key: "Q1", Value: "yes"}},
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestSubmitUnsupportedLanguageAlwaysFails(t *testing.T) {
	svc, subRepo, _ := newIntakeFixture(t, testUser())

	_, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: []dto.FormField{
			{Key: "formId", Value: "F1"},
			{Key: "language", Value: "fr"},
			{Key: "Q1", Value: "yes"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Empty(t, subRepo.submissions)
}

func TestSubmitEmptyAnswerSetFails(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	// Only reserved fields, including the dropped agreement flag.
	_, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(dto.FormField{Key: "agreement", Value: "true"}),
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCompositeQuestionEmitsParentAndChild(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(
			dto.FormField{Key: "Shutter - Size", Value: "10ft"},
			dto.FormField{Key: "Shutter - Color", Value: "grey"},
		),
	})
	require.NoError(t, err)
	require.Len(t, result.Responses, 3)

	parents := 0
	children := 0
	for _, r := range result.Responses {
		if r.IsSubQuestion {
			children++
			require.NotNil(t, r.ParentQuestionID)
			assert.Equal(t, "Shutter", *r.ParentQuestionID)
		} else {
			parents++
			assert.Equal(t, "Shutter", r.QuestionID)
		}
	}
	assert.Equal(t, 1, parents, "shared parent must be emitted exactly once")
	assert.Equal(t, 2, children)
	assert.False(t, result.Responses[0].IsSubQuestion, "parent must precede its children")
}

func TestCompositeParentTakesAnswerFromBareKey(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(
			dto.FormField{Key: "Water - Timing", Value: "morning"},
			dto.FormField{Key: "Water", Value: "yes"},
		),
	})
	require.NoError(t, err)
	require.Len(t, result.Responses, 2)

	assert.Equal(t, "Water", result.Responses[0].QuestionID)
	assert.Equal(t, "yes", result.Responses[0].Answer, "parent answer comes from the bare key")
	assert.Equal(t, "Water_Timing", result.Responses[1].QuestionID)
}

func TestCompositeSplitsOnFirstSeparatorOnly(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(dto.FormField{Key: "A - B - C", Value: "x"}),
	})
	require.NoError(t, err)
	require.Len(t, result.Responses, 2)
	assert.Equal(t, "A", result.Responses[0].QuestionID)
	assert.Equal(t, "A_B_-_C", result.Responses[1].QuestionID)
	assert.Equal(t, "B - C", result.Responses[1].QuestionText)
}

func TestQuestionSlugIsStable(t *testing.T) {
	text := "Upload a photo of the shop"
	first := questionSlug(text)
	second := questionSlug(text)
	assert.Equal(t, "Upload_a_photo_of_the_shop", first)
	assert.Equal(t, first, second)

	assert.Equal(t, "a_b", questionSlug("a \t b"))
}

func TestMediaBindsOnlyToExactFieldKey(t *testing.T) {
	svc, _, media := newIntakeFixture(t, testUser())

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(
			dto.FormField{Key: "Upload a photo of the shop", Value: "done"},
			dto.FormField{Key: "Upload a photo of the lights", Value: "done"},
		),
		Files: []dto.FilePart{
			{FieldName: "media[Upload a photo of the shop]", Filename: "shop.jpg", ContentType: "image/jpeg", Data: []byte("jpeg-bytes")},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Responses, 2)

	assert.Len(t, result.Responses[0].Images, 1)
	assert.Empty(t, result.Responses[1].Images, "media must not bind to a differently-named question")
	assert.Equal(t, []string{"shop_setup_checklist/1"}, media.uploads)
}

func TestMediaClassifiedByContentTypeInUploadOrder(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(dto.FormField{Key: "Shop media", Value: "attached"}),
		Files: []dto.FilePart{
			{FieldName: "media[Shop media]", Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
			{FieldName: "media[Shop media]", Filename: "b.mp4", ContentType: "video/mp4", Data: []byte("b")},
			{FieldName: "media[Shop media]", Filename: "c.png", ContentType: "image/png", Data: []byte("c")},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Responses, 1)

	record := result.Responses[0]
	require.Len(t, record.Images, 2)
	require.Len(t, record.Videos, 1)
	// Upload order preserved within each list.
	assert.Less(t, record.Images[0], record.Images[1])
}

func TestMediaUploadFailureIsNonFatal(t *testing.T) {
	svc, subRepo, media := newIntakeFixture(t, testUser())
	media.failUploads["bad-bytes"] = true

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(dto.FormField{Key: "Shop media", Value: "attached"}),
		Files: []dto.FilePart{
			{FieldName: "media[Shop media]", Filename: "bad.jpg", ContentType: "image/jpeg", Data: []byte("bad-bytes")},
			{FieldName: "media[Shop media]", Filename: "good.jpg", ContentType: "image/jpeg", Data: []byte("good-bytes")},
		},
	})
	require.NoError(t, err, "submission must not fail solely due to a media upload error")
	require.Len(t, subRepo.submissions, 1)
	assert.Len(t, result.Responses[0].Images, 1, "failed file is excluded from the URL list")
}

func TestParentMediaUsesParentRawKey(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(dto.FormField{Key: "Drainage - Photo", Value: "attached"}),
		Files: []dto.FilePart{
			{FieldName: "media[Drainage]", Filename: "p.jpg", ContentType: "image/jpeg", Data: []byte("p")},
			{FieldName: "media[Drainage - Photo]", Filename: "s.jpg", ContentType: "image/jpeg", Data: []byte("s")},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Responses, 2)

	assert.Len(t, result.Responses[0].Images, 1, "parent binds media[<parent raw key>]")
	assert.Len(t, result.Responses[1].Images, 1, "child binds media[<composite raw key>]")
}

func TestSubmittedAtOverride(t *testing.T) {
	svc, subRepo, _ := newIntakeFixture(t, testUser())

	_, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(
			dto.FormField{Key: "submitted_at", Value: "2025-06-01T10:30:00Z"},
			dto.FormField{Key: "Q1", Value: "yes"},
		),
	})
	require.NoError(t, err)
	require.Len(t, subRepo.submissions, 1)
	for _, s := range subRepo.submissions {
		assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC), s.SubmittedAt.UTC())
	}
}

func TestInvalidSubmittedAtFallsBackToNow(t *testing.T) {
	svc, subRepo, _ := newIntakeFixture(t, testUser())

	before := time.Now()
	_, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: baseFields(
			dto.FormField{Key: "submitted_at", Value: "not-a-date"},
			dto.FormField{Key: "Q1", Value: "yes"},
		),
	})
	require.NoError(t, err, "invalid submitted_at is logged, not rejected")
	for _, s := range subRepo.submissions {
		assert.False(t, s.SubmittedAt.Before(before))
	}
}

func TestPersistenceFailureSurfacesWithLocaleMessage(t *testing.T) {
	user := testUser()
	userRepo := newFakeUserRepo(user)
	subRepo := newFakeSubmissionRepo()
	subRepo.createErr = assert.AnError
	svc := NewFormIntakeService(userRepo, subRepo, newFakeMediaStorage(), NewTextNormalizerService())

	_, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: []dto.FormField{
			{Key: "formId", Value: "F1"},
			{Key: "language", Value: "mr"},
			{Key: "Q1", Value: "yes"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.Persistence, apperr.KindOf(err))
	assert.Equal(t, "फॉर्म सबमिट करताना त्रुटी", apperr.MessageOf(err))
}

func TestMarathiPlaceholderForSynthesizedParent(t *testing.T) {
	svc, _, _ := newIntakeFixture(t, testUser())

	result, err := svc.Submit(context.Background(), 1, dto.FormSubmission{
		Fields: []dto.FormField{
			{Key: "formId", Value: "F1"},
			{Key: "language", Value: "mr"},
			{Key: "शटर - रंग", Value: "करडा"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Responses, 2)
	assert.Equal(t, "उत्तर दिले नाही", result.Responses[0].Answer)
}
