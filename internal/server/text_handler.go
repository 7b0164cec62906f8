package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type textRequest struct {
	Message *string `json:"message"`
}

type textResponse struct {
	Status     string   `json:"status"`
	Result     string   `json:"result,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// PredictText handles POST /predict: {"message": "..."} classified as spam or ham.
func (s *Server) PredictText(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			textError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		textError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == nil {
		textError(c, http.StatusBadRequest, "message is required")
		return
	}

	v, err := s.svc.ClassifyText(c.Request.Context(), *req.Message)
	if err != nil {
		s.logger.Error("text classification failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		textError(c, MapError(err).StatusCode, err.Error())
		return
	}

	c.JSON(http.StatusOK, textResponse{
		Status:     "success",
		Result:     v.Label,
		Confidence: v.Confidence,
	})
}

func textError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, textResponse{Status: "error", Message: msg})
}
