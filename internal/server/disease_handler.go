package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crimson-sun/leafcheck/internal/model"
)

// Predict handles POST /api/predict: a multipart image upload with optional
// growth_stage and cultivation_type fields.
func (s *Server) Predict(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, err)
			return
		}
		HandleError(c, fmt.Errorf("%w: file is required", model.ErrInvalidRequest))
		return
	}
	if !isImage(fh.Header.Get("Content-Type")) {
		respondError(c, http.StatusBadRequest, "INVALID_IMAGE", "File must be an image")
		return
	}

	f, err := fh.Open()
	if err != nil {
		HandleError(c, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err))
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		HandleError(c, fmt.Errorf("%w: %v", model.ErrInvalidRequest, err))
		return
	}

	meta := model.RequestMetadata{
		GrowthStage:     optionalField(c, "growth_stage"),
		CultivationType: optionalField(c, "cultivation_type"),
	}

	d, err := s.svc.Diagnose(c.Request.Context(), raw, meta)
	if err != nil {
		s.logger.Error("prediction failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("filename", fh.Filename),
			zap.Error(err),
		)
		HandleError(c, err)
		return
	}

	s.logger.Info("prediction successful",
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.String("prediction_id", d.PredictionID),
		zap.String("class", d.Disease.Class),
		zap.Float64("confidence", d.Disease.Confidence),
	)
	c.JSON(http.StatusOK, d)
}

// optionalField reads a form field, falling back to the query string. It
// returns nil when the field is absent.
func optionalField(c *gin.Context, name string) *string {
	if v, ok := c.GetPostForm(name); ok {
		return &v
	}
	if v, ok := c.GetQuery(name); ok {
		return &v
	}
	return nil
}

// ListDiseases handles GET /api/diseases.
func (s *Server) ListDiseases(c *gin.Context) {
	diseases := s.svc.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(diseases),
		"diseases": diseases,
	})
}

// GetDisease handles GET /api/disease/:label. Unknown labels are a 404.
func (s *Server) GetDisease(c *gin.Context) {
	rec, err := s.svc.Disease(c.Param("label"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"disease":         rec,
		"prevention_tips": rec.PreventionTips,
	})
}

// isImage reports whether a part's Content-Type names an image media type.
func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
