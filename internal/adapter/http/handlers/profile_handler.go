package handlers

import (
	"errors"
	"log"
	"net/http"

	response "vidaqr/internal/adapter/http/dto/response"
	"vidaqr/internal/usecase"
	"vidaqr/pkg"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the emergency profile view.

type ProfileHandler struct {
	usecase usecase.IProfileUseCase
}

func NewProfileHandler(uc usecase.IProfileUseCase) *ProfileHandler {
	return &ProfileHandler{usecase: uc}
}

// GetProfile godoc
// @Summary      Get an emergency profile
// @Description  Returns the emergency view reached by scanning the profile's QR code.
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile id"
// @Success      200  {object}  response.ProfileResponse
// @Failure      400  {object}  pkg.HTTPError
// @Failure      404  {object}  pkg.HTTPError
// @Router       /v1/profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profileID := c.Param("id")
	log.Printf("[profile][handler] get start profile_id=%s", profileID)

	view, err := h.usecase.GetProfile(c.Request.Context(), profileID)
	if err != nil {
		log.Printf("[profile][handler] get failed profile_id=%s err=%v", profileID, err)
		appErr := mapProfileError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[profile][handler] get success profile_id=%s active=%t", view.Profile.ID, view.Profile.Active)

	c.JSON(http.StatusOK, response.FromProfileView(view))
}

func mapProfileError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidProfileID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return pkg.NewDomainErrorSimple("PROFILE_NOT_FOUND", "Profile not found", http.StatusNotFound)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
