package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopsetu/checklist/internal/controller"
	"github.com/shopsetu/checklist/internal/dto"
	"github.com/shopsetu/checklist/internal/service"
)

type ResponseAdminController struct {
	responseService service.ResponseService
}

func NewResponseAdminController(responseService service.ResponseService) *ResponseAdminController {
	return &ResponseAdminController{responseService: responseService}
}

// UpdateResponse godoc
// @Summary (Admin) Replace a submission's responses and/or language
// @Tags Admin - Responses
// @Accept json
// @Produce json
// @Param id path int true "Submission ID"
// @Param request body dto.SubmissionUpdateDTO true "Replacement responses and/or language"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or language"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /form/response/{id} [put]
func (c *ResponseAdminController) UpdateResponse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid response ID format"})
		return
	}

	var req dto.SubmissionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	updated, err := c.responseService.UpdateResponse(ctx.Request.Context(), uint(id), req)
	if err != nil {
		controller.WriteError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Response updated successfully", Data: updated})
}

// DeleteResponse godoc
// @Summary (Admin) Delete a submission and its hosted media
// @Tags Admin - Responses
// @Produce json
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /form/response/{id} [delete]
func (c *ResponseAdminController) DeleteResponse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid response ID format"})
		return
	}

	if err := c.responseService.DeleteResponse(ctx.Request.Context(), uint(id)); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	log.Info().Uint64("responseID", id).Msg("Response deleted via admin API")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Response deleted successfully"})
}

// DeleteUser godoc
// @Summary (Admin) Delete a user and all their submissions
// @Tags Admin - Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /form/user/{id} [delete]
func (c *ResponseAdminController) DeleteUser(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid user ID format"})
		return
	}

	if err := c.responseService.DeleteUser(ctx.Request.Context(), uint(id)); err != nil {
		controller.WriteError(ctx, err)
		return
	}
	log.Info().Uint64("userID", id).Msg("User deleted via admin API")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "User and associated responses deleted successfully"})
}
