package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the uniform JSON envelope every endpoint answers with.
type Response struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message"`
	Details    []any  `json:"details,omitempty"`
	Data       any    `json:"data,omitempty"`
}

var EmptyRequestBodyResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Empty Request Body",
	Message:    "Request body is empty. Please provide necessary data.",
}

var BadRequestResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusBadRequest,
	Error:      "Bad Request",
	Message:    "The request could not be processed. Check the request syntax and try again.",
}

var UnauthorizedResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusUnauthorized,
	Error:      "Unauthorized",
	Message:    "Authentication is required to access this resource.",
}

var ForbiddenResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusForbidden,
	Error:      "Forbidden",
	Message:    "You don't have permission to access this resource.",
}

var ResourceNotFoundResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusNotFound,
	Error:      "Resource Not Found",
	Message:    "The requested resource was not found.",
}

var TooManyRequestsResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusTooManyRequests,
	Error:      "Too Many Requests",
	Message:    "Request rate limit exceeded. Please try again later.",
}

var ServerErrorResponse = Response{
	Status:     StatusError,
	StatusCode: http.StatusInternalServerError,
	Error:      "Server Error",
	Message:    "An internal server error occurred. Please try again later.",
}

// SuccessResponse builds a 200-style envelope with an optional data payload.
func SuccessResponse(msg string, data ...any) Response {
	resp := Response{
		Status:     StatusSuccess,
		StatusCode: http.StatusOK,
		Message:    msg,
	}

	if len(data) > 0 {
		resp.Data = data[0]
	}

	return resp
}

// ErrorResponse builds an error envelope with a custom status code and message.
func ErrorResponse(statusCode int, errName, msg string) Response {
	return Response{
		Status:     StatusError,
		StatusCode: statusCode,
		Error:      errName,
		Message:    msg,
	}
}

// ValidationErrorResponse turns validator errors into a details payload so
// clients can show per-field messages.
func ValidationErrorResponse(err error) Response {
	resp := Response{
		Status:     StatusError,
		StatusCode: http.StatusBadRequest,
		Error:      "Validation Error",
		Message:    "The request contains invalid data. Check the details and try again.",
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, vErr := range validationErrs {
			resp.Details = append(resp.Details, map[string]string{
				"field":   vErr.Field(),
				"message": validationErrorMessage(vErr),
			})
		}
	}

	return resp
}

func validationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", err.Field())
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", err.Field())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", err.Field())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters long.", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("The %s field must be at most %s characters long.", err.Field(), err.Param())
	case "oneof":
		return fmt.Sprintf("The %s field must be one of: %s.", err.Field(), err.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", err.Field())
	}
}
