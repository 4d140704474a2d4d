package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/avoronov/linkpulse/internal/models"
	"github.com/avoronov/linkpulse/pkg/response"
)

func clientContext(r *http.Request) models.ClientContext {
	return models.ClientContext{
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}

// handleRedirect serves the public alias hit: a 302 to the target URL, or a
// password challenge payload for protected links.
func handleRedirect(svc RedirectService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		alias := chi.URLParam(r, "alias")

		result, err := svc.Resolve(r.Context(), alias, clientContext(r))
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		if result.RequiresPassword {
			render.Status(r, http.StatusOK)
			render.JSON(w, r, response.SuccessResponse("The link requires a password.", map[string]any{
				"alias":             alias,
				"requires_password": true,
			}))
			return
		}

		http.Redirect(w, r, result.Link.OriginalURL, http.StatusFound)
	}
}

type verifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

func handleVerifyPassword(svc RedirectService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleVerifyPassword"
	const successMsg = "The password was verified successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyPasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !validateStruct(w, r, validate, req) {
			return
		}

		alias := chi.URLParam(r, "alias")

		link, err := svc.VerifyPassword(r.Context(), alias, req.Password)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, map[string]any{
			"original_url": link.OriginalURL,
		}))
	}
}

// handlePasswordRequired reports whether a link is password protected without
// counting a click.
func handlePasswordRequired(svc RedirectService) http.HandlerFunc {
	const op = "api.http.handlePasswordRequired"
	const successMsg = "The link was retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		alias := chi.URLParam(r, "alias")

		required, err := svc.PasswordRequired(r.Context(), alias)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, map[string]any{
			"alias":             alias,
			"requires_password": required,
		}))
	}
}
