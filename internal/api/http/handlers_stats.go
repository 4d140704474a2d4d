package http

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/avoronov/linkpulse/internal/models"
	"github.com/avoronov/linkpulse/pkg/response"
)

func handleStatusCounts(svc StatsService) http.HandlerFunc {
	const op = "api.http.handleStatusCounts"
	const successMsg = "The status counts were retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		f, err := parseStatsFilter(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		counts, err := svc.StatusCounts(r.Context(), user.ID, f)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, counts))
	}
}

func handleOverview(svc StatsService) http.HandlerFunc {
	const op = "api.http.handleOverview"
	const successMsg = "The overview was retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		f, err := parseStatsFilter(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		overview, err := svc.Overview(r.Context(), user.ID, f)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, overview))
	}
}

func handleTrend(svc StatsService) http.HandlerFunc {
	const op = "api.http.handleTrend"
	const successMsg = "The click trend was retrieved successfully."

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		f, err := parseStatsFilter(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		period := models.TrendPeriod(r.URL.Query().Get("period"))
		if period == "" {
			period = models.PeriodDay
		}

		points, err := svc.Trend(r.Context(), user.ID, period, f)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, points))
	}
}

func handleDimension(op, successMsg string, query func(r *http.Request, userID int64, f models.StatsFilter) ([]models.DimensionCount, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.UnauthorizedResponse)
			return
		}

		f, err := parseStatsFilter(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		counts, err := query(r, user.ID, f)
		if err != nil {
			renderServiceError(w, r, op, err)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.SuccessResponse(successMsg, counts))
	}
}

func handleTopCountries(svc StatsService) http.HandlerFunc {
	return handleDimension("api.http.handleTopCountries",
		"The country breakdown was retrieved successfully.",
		func(r *http.Request, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
			return svc.TopCountries(r.Context(), userID, f)
		})
}

func handleDevices(svc StatsService) http.HandlerFunc {
	return handleDimension("api.http.handleDevices",
		"The device breakdown was retrieved successfully.",
		func(r *http.Request, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
			return svc.Devices(r.Context(), userID, f)
		})
}

func handleBrowsers(svc StatsService) http.HandlerFunc {
	return handleDimension("api.http.handleBrowsers",
		"The browser breakdown was retrieved successfully.",
		func(r *http.Request, userID int64, f models.StatsFilter) ([]models.DimensionCount, error) {
			return svc.Browsers(r.Context(), userID, f)
		})
}
