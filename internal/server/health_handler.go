package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status           string   `json:"status"`
	ModelLoaded      bool     `json:"model_loaded"`
	TextModelLoaded  bool     `json:"text_model_loaded"`
	AvailableClasses []string `json:"available_classes"`
	Timestamp        string   `json:"timestamp"`
}

// Health handles GET /api/health. It always answers 200; status reports
// whether the image model is usable.
func (s *Server) Health(c *gin.Context) {
	st := s.svc.Status()
	status := "healthy"
	if !st.ImageLoaded {
		status = "model_not_loaded"
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:           status,
		ModelLoaded:      st.ImageLoaded,
		TextModelLoaded:  st.TextLoaded,
		AvailableClasses: st.Labels,
		Timestamp:        s.now().Format(time.RFC3339),
	})
}

// Root handles GET /.
func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":            "Welcome to Tomato Disease Detection API",
		"version":            s.version,
		"model":              "PlantVillage Tomato Diseases",
		"available_diseases": len(s.svc.Catalog()),
		"status":             "active",
	})
}
