package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Skufu/SymptomRx/internal/assistant"
	"github.com/Skufu/SymptomRx/internal/classifier"
	"github.com/Skufu/SymptomRx/internal/feedback"
	"github.com/Skufu/SymptomRx/internal/metrics"
	"github.com/Skufu/SymptomRx/internal/models"
)

type analyzeRequest struct {
	Symptoms  string   `json:"symptoms"`
	Age       *int     `json:"age" binding:"omitempty,gte=0,lte=120"`
	Weight    *float64 `json:"weight" binding:"omitempty,gte=0,lte=300"`
	Allergies string   `json:"allergies"`
}

func (r analyzeRequest) query() models.SymptomQuery {
	return models.SymptomQuery{
		Symptoms:  r.Symptoms,
		Age:       r.Age,
		WeightKg:  r.Weight,
		Allergies: r.Allergies,
	}
}

type feedbackRequest struct {
	analyzeRequest
	TopPredictions string                      `json:"top_predictions"`
	Conditions     []classifier.ConditionScore `json:"conditions"`
	Feedback       string                      `json:"feedback"`
}

type handlers struct {
	deps Deps
}

func (h *handlers) analyze(c *gin.Context) {
	var req analyzeRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.deps.Analyzer.Analyze(c.Request.Context(), req.query())
	switch {
	case errors.Is(err, assistant.ErrInvalidInput):
		abortError(c, http.StatusUnprocessableEntity, "invalid_input", "Please enter symptoms.")
		return
	case err != nil:
		h.logger(c).Error("analysis failed", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "analysis_failed", "Could not analyze symptoms.")
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *handlers) conditions(c *gin.Context) {
	var list []string
	if h.deps.Conditions != nil {
		list = h.deps.Conditions.Conditions()
	}
	if list == nil {
		list = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"conditions": list})
}

func (h *handlers) feedback(c *gin.Context) {
	var req feedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	if h.deps.Feedback == nil {
		abortError(c, http.StatusServiceUnavailable, "feedback_disabled", "Feedback storage is not configured.")
		return
	}

	top := req.TopPredictions
	if top == "" && len(req.Conditions) > 0 {
		top = assistant.FormatPredictions(req.Conditions)
	}
	rec, err := feedback.NewRecord(req.Symptoms, req.Age, req.Weight, req.Allergies, top, req.Feedback)
	if errors.Is(err, feedback.ErrEmptyFeedback) {
		abortError(c, http.StatusUnprocessableEntity, "invalid_input", "Feedback text is required.")
		return
	}

	if err := h.deps.Feedback.Save(c.Request.Context(), rec); err != nil {
		h.logger(c).Error("save feedback failed", zap.Error(err))
		abortError(c, http.StatusInternalServerError, "feedback_failed", "Failed to save feedback.")
		return
	}
	metrics.FeedbackSaved.WithLabelValues(h.deps.StoreName).Inc()
	c.JSON(http.StatusCreated, gin.H{"status": "saved", "id": rec.ID})
}

func (h *handlers) logger(c *gin.Context) *zap.Logger {
	return h.deps.Logger.With(zap.String("request_id", c.GetString(requestIDKey)))
}

// bindJSON decodes the body, answering 400 for malformed JSON and 422 for
// values outside their allowed range.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation_failed",
			"message": "Age must be 0-120 and weight 0-300 kg.",
			"fields":  fields,
		})
		return false
	}
	abortError(c, http.StatusBadRequest, "invalid_payload", "Request body must be valid JSON.")
	return false
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}
