package user

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/internal/apperr"
	"github.com/shopsetu/checklist/internal/controller"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/model"
	"github.com/shopsetu/checklist/internal/service"
	"github.com/shopsetu/checklist/internal/translations"
)

const (
	maxFileBytes  = 50 << 20 // per uploaded file
	maxValueBytes = 20 << 20 // per text field
)

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"video/mp4":  true,
}

type FormController struct {
	intakeService   service.FormIntakeService
	responseService service.ResponseService
}

func NewFormController(intakeService service.FormIntakeService, responseService service.ResponseService) *FormController {
	return &FormController{intakeService: intakeService, responseService: responseService}
}

// Submit godoc
// @Summary Submit a checklist form
// @Description Accepts a multipart form of answer fields plus media parts named media[<question>]. Reserved fields: name, mobile, branch, formId, language, submitted_at, agreement.
// @Tags Form
// @Accept mpfd
// @Produce json
// @Success 201 {object} dto.MessageResponse "Saved submission"
// @Failure 400 {object} dto.ErrorResponse "Missing reserved fields, invalid language, empty answer set or bad media"
// @Failure 401 {object} dto.ErrorResponse "No authenticated session"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /form/submit [post]
func (c *FormController) Submit(ctx *gin.Context) {
	claims := controller.CurrentUser(ctx)
	if claims == nil {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Access denied, no authenticated user"})
		return
	}

	form, err := decodeMultipart(ctx)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}

	log.Info().Uint("userID", claims.UserID).Int("fieldCount", len(form.Fields)).
		Int("fileCount", len(form.Files)).Msg("Received form submission")

	submission, err := c.intakeService.Submit(ctx.Request.Context(), claims.UserID, form)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.MessageResponse{
		Message: service.SubmitSuccessMessage(submission.Language),
		Data:    submission,
	})
}

// GetResponses godoc
// @Summary List submissions
// @Tags Form
// @Produce json
// @Param formId query string false "Filter by form id"
// @Param language query string false "Filter by language (en or mr)"
// @Param mobile query string false "Filter by submitting user's mobile"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid language"
// @Failure 404 {object} dto.ErrorResponse "Unknown mobile"
// @Router /form/responses [get]
func (c *FormController) GetResponses(ctx *gin.Context) {
	submissions, err := c.responseService.ListResponses(
		ctx.Request.Context(),
		ctx.Query("formId"),
		ctx.Query("language"),
		ctx.Query("mobile"),
	)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Responses fetched successfully", Data: submissions})
}

// GetTranslations godoc
// @Summary Get the checklist question dictionary
// @Tags Form
// @Produce json
// @Param language query string true "Language (en or mr)"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid language"
// @Router /form/translations [get]
func (c *FormController) GetTranslations(ctx *gin.Context) {
	lang := ctx.Query("language")
	if !model.ValidLanguage(lang) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid language. Must be one of: en, mr."})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Translations fetched successfully", Data: translations.Table(lang)})
}

// decodeMultipart walks the multipart stream part by part so answer fields
// keep their submitted order; gin's form map would lose it. File parts are
// checked against the allowed media types and the per-file size limit here,
// before the intake pipeline runs.
func decodeMultipart(ctx *gin.Context) (dto.FormSubmission, error) {
	var form dto.FormSubmission

	reader, err := ctx.Request.MultipartReader()
	if err != nil {
		return form, apperr.Wrap(apperr.Validation, "Invalid form data, expected multipart/form-data", err)
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return form, apperr.Wrap(apperr.Validation, "Error reading form data", err)
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxValueBytes+1))
			if err != nil {
				return form, apperr.Wrap(apperr.Validation, "Error reading form field", err)
			}
			if len(value) > maxValueBytes {
				return form, apperr.New(apperr.Validation, fmt.Sprintf("Field %q exceeds the size limit", part.FormName()))
			}
			form.Fields = append(form.Fields, dto.FormField{Key: part.FormName(), Value: string(value)})
			continue
		}

		contentType := part.Header.Get("Content-Type")
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			contentType = mediaType
		}
		if !allowedMediaTypes[contentType] {
			return form, apperr.New(apperr.Validation, "Invalid file type. Only JPG, PNG, and MP4 are allowed.")
		}

		data, err := io.ReadAll(io.LimitReader(part, maxFileBytes+1))
		if err != nil {
			return form, apperr.Wrap(apperr.Validation, "Error reading uploaded file", err)
		}
		if len(data) > maxFileBytes {
			return form, apperr.New(apperr.Validation, fmt.Sprintf("File %q exceeds the 50 MB limit", part.FileName()))
		}

		form.Files = append(form.Files, dto.FilePart{
			FieldName:   part.FormName(),
			Filename:    part.FileName(),
			ContentType: contentType,
			Data:        data,
		})
	}

	return form, nil
}
