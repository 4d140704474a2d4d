package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/avoronov/linkpulse/internal/models"
	"github.com/avoronov/linkpulse/internal/service"
	"github.com/avoronov/linkpulse/pkg/response"
)

type createLinkRequest struct {
	OriginalURL string     `json:"original_url" validate:"required,url"`
	Alias       *string    `json:"alias" validate:"omitempty,min=3,max=32,alphanum"`
	Password    *string    `json:"password" validate:"omitempty,min=1,max=72"`
	ExpireAt    *time.Time `json:"expire_at"`
	MaxClicks   *int64     `json:"max_clicks" validate:"omitempty,min=1"`
	ReferrerID  *int64     `json:"referrer_id"`
}

type updateLinkRequest struct {
	OriginalURL *string    `json:"original_url" validate:"omitempty,url"`
	Alias       *string    `json:"alias" validate:"omitempty,min=3,max=32,alphanum"`
	Password    *string    `json:"password" validate:"omitempty,max=72"`
	ExpireAt    *time.Time `json:"expire_at"`
	MaxClicks   *int64     `json:"max_clicks" validate:"omitempty,min=1"`
	ReferrerID  *int64     `json:"referrer_id"`
}

type linkResponse struct {
	ID                    int64             `json:"id"`
	Alias                 string            `json:"alias"`
	OriginalURL           string            `json:"original_url"`
	IsUsePassword         bool              `json:"is_use_password"`
	ExpireAt              *time.Time        `json:"expire_at,omitempty"`
	MaxClicks             *int64            `json:"max_clicks,omitempty"`
	ClicksCount           int64             `json:"clicks_count"`
	SuccessfulAccessCount int64             `json:"successful_access_count"`
	Status                models.LinkStatus `json:"status"`
	ReferrerID            *int64            `json:"referrer_id,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

func toLinkResponse(link *models.Link) linkResponse {
	return linkResponse{
		ID:                    link.ID,
		Alias:                 link.Alias,
		OriginalURL:           link.OriginalURL,
		IsUsePassword:         link.IsUsePassword,
		ExpireAt:              link.ExpireAt,
		MaxClicks:             link.MaxClicks,
		ClicksCount:           link.ClicksCount,
		SuccessfulAccessCount: link.SuccessfulAccessCount,
		Status:                link.Status,
		ReferrerID:            link.ReferrerID,
		CreatedAt:             link.CreatedAt,
		UpdatedAt:             link.UpdatedAt,
	}
}

type linkPageResponse struct {
	Links []linkResponse `json:"links"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func toLinkPageResponse(page *models.LinkPage) linkPageResponse {
	resp := linkPageResponse{
		Links: make([]linkResponse, 0, len(page.Links)),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}
	for _, link := range page.Links {
		resp.Links = append(resp.Links, toLinkResponse(link))
	}
	return resp
}

func handleCreateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleCreateLink"
	const successMsg = "The link was created successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		var req createLinkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !validateStruct(w, r, validate, req) {
			return
		}

		link, err := svc.CreateLink(r.Context(), user.ID, service.CreateLinkInput{
			OriginalURL: req.OriginalURL,
			Alias:       req.Alias,
			Password:    req.Password,
			ExpireAt:    req.ExpireAt,
			MaxClicks:   req.MaxClicks,
			ReferrerID:  req.ReferrerID,
		})
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

// parseListOptions reads keyword, filter, sort and pagination query params.
// Filters and sorts use a "column:value" form and may repeat.
func parseListOptions(r *http.Request) models.LinkListOptions {
	q := r.URL.Query()

	opts := models.LinkListOptions{
		Keyword: q.Get("keyword"),
		Page:    1,
		Limit:   10,
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = limit
	}

	for _, f := range q["filter"] {
		column, text, ok := strings.Cut(f, ":")
		if !ok {
			continue
		}
		opts.Filters = append(opts.Filters, models.ColumnFilter{Column: column, Text: text})
	}

	for _, s := range q["sort"] {
		column, order, _ := strings.Cut(s, ":")
		opts.Sort = append(opts.Sort, models.SortRule{Column: column, Order: order})
	}

	return opts
}

func handleListLinks(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleListLinks"
	const successMsg = "The links were retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		page, err := svc.ListLinks(r.Context(), user.ID, parseListOptions(r))
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkPageResponse(page)))
	}
}

func handleGetLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleGetLink"
	const successMsg = "The link was retrieved successfully."

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

		link, err := svc.GetLink(r.Context(), user.ID, id)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

func handleUpdateLink(svc LinkService, validate *validator.Validate) http.HandlerFunc {
	const op = "api.http.handleUpdateLink"
	const successMsg = "The link was updated successfully."

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

		var req updateLinkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !validateStruct(w, r, validate, req) {
			return
		}

		link, err := svc.UpdateLink(r.Context(), user.ID, id, service.UpdateLinkInput{
			OriginalURL: req.OriginalURL,
			Alias:       req.Alias,
			Password:    req.Password,
			ExpireAt:    req.ExpireAt,
			MaxClicks:   req.MaxClicks,
			ReferrerID:  req.ReferrerID,
		})
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}

func handleDeleteLink(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleDeleteLink"
	const successMsg = "The link was deleted successfully."

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

		if err := svc.DeleteLink(r.Context(), user.ID, id); err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg))
	}
}

func handleToggleActive(svc LinkService) http.HandlerFunc {
	const op = "api.http.handleToggleActive"
	const successMsg = "The link status was toggled successfully."

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

		link, err := svc.ToggleActive(r.Context(), user.ID, id)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, toLinkResponse(link)))
	}
}
