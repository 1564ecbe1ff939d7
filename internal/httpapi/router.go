package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/PredictNCure/internal/feedback"
	"github.com/Skufu/PredictNCure/internal/info"
	"github.com/Skufu/PredictNCure/internal/predict"
)

type Predictor interface {
	Predict(inputs []string) (predict.Result, error)
	Suggest(query string, limit int) []string
	Policy() predict.Policy
}

type InfoSource interface {
	Lookup(disease string) info.Details
}

// Deps wires the router. Store may be nil, in which case the feedback and
// admin routes are not registered and /readyz reports the database as
// disabled.
type Deps struct {
	Engine      Predictor
	Catalog     InfoSource
	Store       feedback.Store
	AdminToken  string
	MinSymptoms int
}

type handlers struct {
	Deps
}

func NewRouter(d Deps) *gin.Engine {
	if d.MinSymptoms < 1 {
		d.MinSymptoms = 1
	}
	h := &handlers{Deps: d}

	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		requestID(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/readyz", h.readyz)

	api := router.Group("/api")
	api.GET("/symptoms", h.symptoms)
	api.POST("/predict", h.predict)
	api.GET("/diseases/:name/info", h.diseaseInfo)

	if d.Store != nil {
		api.POST("/ratings", h.addRating)
		api.POST("/complaints", h.fileComplaint)

		if d.AdminToken != "" {
			admin := api.Group("/admin", requireAdmin(d.AdminToken))
			admin.GET("/metrics", h.metrics)
			admin.GET("/ratings", h.listRatings)
			admin.GET("/complaints", h.listComplaints)
			admin.POST("/complaints/:id/resolve", h.resolveComplaint)
		}
	}

	return router
}

func (h *handlers) readyz(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"db":     fmt.Sprintf("unhealthy: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}

func (h *handlers) symptoms(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			validationFailed(c, "limit must be a number between 1 and 200")
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"symptoms": h.Engine.Suggest(c.Query("q"), limit)})
}

type predictRequest struct {
	Symptoms []string `json:"symptoms"`
}

type predictResponse struct {
	predict.Result
	Info *info.Details `json:"info,omitempty"`
}

func (h *handlers) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	symptoms, problems := h.validateSymptoms(req.Symptoms)
	if len(problems) > 0 {
		validationFailed(c, problems...)
		return
	}

	result, err := h.Engine.Predict(symptoms)
	switch {
	case errors.Is(err, predict.ErrTooManySymptoms),
		errors.Is(err, predict.ErrBlankSymptom),
		errors.Is(err, predict.ErrNoSymptoms):
		validationFailed(c, err.Error())
		return
	case err != nil:
		log.Printf("predict [%s]: %v", c.GetString("requestID"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction_failed"})
		return
	}

	resp := predictResponse{Result: result}
	if result.Status == predict.StatusPredicted && h.Catalog != nil {
		details := h.Catalog.Lookup(result.Disease)
		resp.Info = &details
	}
	c.JSON(http.StatusOK, resp)
}

// validateSymptoms trims and de-duplicates the request list and checks the
// request-level bounds.
func (h *handlers) validateSymptoms(raw []string) ([]string, []string) {
	var problems []string
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			problems = append(problems, fmt.Sprintf("symptom %d is blank", i+1))
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}

	maxSymptoms := h.Engine.Policy().MaxSymptoms
	switch {
	case len(out) < h.MinSymptoms:
		problems = append(problems, fmt.Sprintf("select at least %d symptoms", h.MinSymptoms))
	case len(out) > maxSymptoms:
		problems = append(problems, fmt.Sprintf("select at most %d symptoms", maxSymptoms))
	}
	return out, problems
}

func (h *handlers) diseaseInfo(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" || h.Catalog == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, h.Catalog.Lookup(name))
}

func validationFailed(c *gin.Context, details ...string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":   "validation_failed",
		"details": details,
	})
}
