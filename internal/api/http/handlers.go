package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/avoronov/linkpulse/internal/database"
	"github.com/avoronov/linkpulse/internal/models"
	"github.com/avoronov/linkpulse/internal/service"
	"github.com/avoronov/linkpulse/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

// decodeBody parses a JSON request body into dst and writes the error
// envelope itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.BadRequestResponse)
		return false
	}

	return true
}

// renderServiceError translates sentinel errors into the uniform envelope.
// Unexpected errors are logged with the handler op and surface generically.
func renderServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, database.ErrLinkNotFound),
		errors.Is(err, database.ErrReferrerNotFound),
		errors.Is(err, database.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.ResourceNotFoundResponse)
	case errors.Is(err, service.ErrPermissionDenied):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.ForbiddenResponse)
	case errors.Is(err, service.ErrLinkNotServable):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.ErrorResponse(http.StatusForbidden,
			"Forbidden", "The link is not available."))
	case errors.Is(err, database.ErrAliasExists):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse(http.StatusBadRequest,
			"Bad Request", "The alias is already in use."))
	case errors.Is(err, database.ErrEmailExists):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse(http.StatusBadRequest,
			"Bad Request", "The email is already registered."))
	case errors.Is(err, service.ErrStatusNotToggleable):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse(http.StatusBadRequest,
			"Bad Request", "The link status cannot be toggled."))
	case errors.Is(err, service.ErrPasswordNotSet):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ErrorResponse(http.StatusBadRequest,
			"Bad Request", "The link has no password to verify."))
	case errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrInvalidSort),
		errors.Is(err, service.ErrInvalidPeriod):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.BadRequestResponse)
	case errors.Is(err, service.ErrInvalidLinkPassword):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.ErrorResponse(http.StatusUnauthorized,
			"Unauthorized", "The link password is invalid."))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.UnauthorizedResponse)
	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parseTime accepts RFC3339 timestamps and bare dates.
func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

func parseStatsFilter(r *http.Request) (models.StatsFilter, error) {
	q := r.URL.Query()
	f := models.StatsFilter{Alias: q.Get("alias")}

	if from := q.Get("from"); from != "" {
		t, err := parseTime(from)
		if err != nil {
			return f, err
		}
		f.From = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := parseTime(to)
		if err != nil {
			return f, err
		}
		f.To = &t
	}

	return f, nil
}

func validateStruct(w http.ResponseWriter, r *http.Request, validate *validator.Validate, req any) bool {
	if err := validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return false
	}
	return true
}
