package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/avoronov/linkpulse/internal/models"
	"github.com/avoronov/linkpulse/pkg/response"
)

type referrerRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type referrerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toReferrerResponse(referrer *models.Referrer) referrerResponse {
	return referrerResponse{
		ID:        referrer.ID,
		Name:      referrer.Name,
		CreatedAt: referrer.CreatedAt,
		UpdatedAt: referrer.UpdatedAt,
	}
}

func handleCreateReferrer(svc ReferrerService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateReferrer"
	const successMsg = "The referrer was created successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		var req referrerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !validateStruct(w, r, validate, req) {
			return
		}

		referrer, err := svc.CreateReferrer(r.Context(), user.ID, req.Name)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toReferrerResponse(referrer)))
	}
}

func handleListReferrers(svc ReferrerService) http.HandlerFunc {
	const op = "api.http.handleListReferrers"
	const successMsg = "The referrers were retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		referrers, err := svc.ListReferrers(r.Context(), user.ID)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		data := make([]referrerResponse, 0, len(referrers))
		for _, referrer := range referrers {
			data = append(data, toReferrerResponse(referrer))
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, data))
	}
}

func handleUpdateReferrer(svc ReferrerService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleUpdateReferrer"
	const successMsg = "The referrer was updated successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		id, err := idParam(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		var req referrerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !validateStruct(w, r, validate, req) {
			return
		}

		referrer, err := svc.UpdateReferrer(r.Context(), user.ID, id, req.Name)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toReferrerResponse(referrer)))
	}
}

func handleDeleteReferrer(svc ReferrerService) http.HandlerFunc {
	const op = "api.http.handleDeleteReferrer"
	const successMsg = "The referrer was deleted successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		id, err := idParam(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := svc.DeleteReferrer(r.Context(), user.ID, id); err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}
