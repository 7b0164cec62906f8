package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// ErrorBody is the failure payload of the /api endpoints.
type ErrorBody struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Detail  string `json:"detail"`
}

// ErrorResponse is an error mapped to its HTTP representation.
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapError maps pipeline errors to HTTP error responses.
func MapError(err error) ErrorResponse {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return ErrorResponse{
			StatusCode: http.StatusRequestEntityTooLarge,
			Code:       "PAYLOAD_TOO_LARGE",
			Message:    "File too large",
		}
	case errors.Is(err, model.ErrInvalidImage):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       model.ErrorCode(err),
			Message:    "Error processing image: " + err.Error(),
		}
	case errors.Is(err, model.ErrModelUnavailable):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       model.ErrorCode(err),
			Message:    "Model not loaded",
		}
	case errors.Is(err, model.ErrInference):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       model.ErrorCode(err),
			Message:    "Prediction error: " + err.Error(),
		}
	case errors.Is(err, model.ErrUnknownLabel):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       model.ErrorCode(err),
			Message:    "Disease not found",
		}
	case errors.Is(err, model.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       model.ErrorCode(err),
			Message:    err.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       "INTERNAL_ERROR",
			Message:    "internal server error",
		}
	}
}

// HandleError sends the JSON error response for err.
func HandleError(c *gin.Context, err error) {
	resp := MapError(err)
	respondError(c, resp.StatusCode, resp.Code, resp.Message)
}

func respondError(c *gin.Context, status int, code, detail string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		Success: false,
		Code:    code,
		Detail:  detail,
	})
}
