package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/planner"
	"alcyxob/trainer-ai/internal/service"
)

type PlanHandler struct {
	planService service.PlanService
	log         *slog.Logger
}

func NewPlanHandler(planService service.PlanService, log *slog.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, log: log}
}

// --- DTOs ---

type GenerateRequest struct {
	Week int `json:"week" binding:"required,min=1,max=52"`
	// Save stores the plan right after it validates.
	Save bool `json:"save"`
}

type WorkoutGenerationResponse struct {
	ClientID      string                    `json:"clientId"`
	Week          int                       `json:"week"`
	Model         string                    `json:"model"`
	Plan          *domain.WorkoutPlan       `json:"plan"`
	Warnings      []string                  `json:"warnings"`
	Saved         *domain.WorkoutPlanRecord `json:"saved,omitempty"`
	TranscriptURL string                    `json:"transcriptUrl,omitempty"`
}

type MealPlanGenerationResponse struct {
	ClientID      string                 `json:"clientId"`
	Week          int                    `json:"week"`
	Model         string                 `json:"model"`
	Plan          *domain.MealPlan       `json:"plan"`
	Warnings      []string               `json:"warnings"`
	Saved         *domain.MealPlanRecord `json:"saved,omitempty"`
	TranscriptURL string                 `json:"transcriptUrl,omitempty"`
}

// MalformedPlanResponse carries the model output that could not be used.
type MalformedPlanResponse struct {
	Error         string `json:"error"`
	Raw           string `json:"raw"`
	TranscriptURL string `json:"transcriptUrl,omitempty"`
}

// --- Handler Methods ---

// GenerateWorkout godoc
// @Summary Generate one week of training
// @Tags Plans
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param request body GenerateRequest true "Week to generate"
// @Success 200 {object} WorkoutGenerationResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 422 {object} MalformedPlanResponse "Model output was not a usable plan"
// @Failure 502 {object} gin.H "Completion failed"
// @Router /clients/{clientId}/workouts/generate [post]
func (h *PlanHandler) GenerateWorkout(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID := c.Param("clientId")

	var (
		gen *service.WorkoutGeneration
		rec *domain.WorkoutPlanRecord
		err error
	)
	if req.Save {
		gen, rec, err = h.planService.GenerateAndSaveWorkout(c.Request.Context(), clientID, req.Week)
	} else {
		gen, err = h.planService.GenerateWorkout(c.Request.Context(), clientID, req.Week)
	}
	if err != nil {
		var raw, url string
		if gen != nil && gen.Result != nil {
			raw, url = gen.Result.Raw, gen.TranscriptURL
		}
		h.respondGenerationError(c, err, raw, url, "generate workout plan")
		return
	}

	c.JSON(http.StatusOK, WorkoutGenerationResponse{
		ClientID:      clientID,
		Week:          gen.Week,
		Model:         gen.Result.Model,
		Plan:          gen.Result.Plan,
		Warnings:      nonNil(gen.Result.Warnings),
		Saved:         rec,
		TranscriptURL: gen.TranscriptURL,
	})
}

// ListWorkoutPlans godoc
// @Summary List stored workout plans, newest first
// @Tags Plans
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.WorkoutPlanRecord
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/workouts [get]
func (h *PlanHandler) ListWorkoutPlans(c *gin.Context) {
	plans, err := h.planService.ListWorkoutPlans(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, h.log, err, "list workout plans")
		return
	}
	c.JSON(http.StatusOK, nonNil(plans))
}

// GenerateMealPlan godoc
// @Summary Generate a seven day meal plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param request body GenerateRequest true "Week the plan belongs to"
// @Success 200 {object} MealPlanGenerationResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 422 {object} MalformedPlanResponse "Model output was not a usable plan"
// @Failure 502 {object} gin.H "Completion failed"
// @Router /clients/{clientId}/meal-plans/generate [post]
func (h *PlanHandler) GenerateMealPlan(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	clientID := c.Param("clientId")

	var (
		gen *service.MealPlanGeneration
		rec *domain.MealPlanRecord
		err error
	)
	if req.Save {
		gen, rec, err = h.planService.GenerateAndSaveMealPlan(c.Request.Context(), clientID, req.Week)
	} else {
		gen, err = h.planService.GenerateMealPlan(c.Request.Context(), clientID, req.Week)
	}
	if err != nil {
		var raw, url string
		if gen != nil && gen.Result != nil {
			raw, url = gen.Result.Raw, gen.TranscriptURL
		}
		h.respondGenerationError(c, err, raw, url, "generate meal plan")
		return
	}

	c.JSON(http.StatusOK, MealPlanGenerationResponse{
		ClientID:      clientID,
		Week:          gen.Week,
		Model:         gen.Result.Model,
		Plan:          gen.Result.Plan,
		Warnings:      nonNil(gen.Result.Warnings),
		Saved:         rec,
		TranscriptURL: gen.TranscriptURL,
	})
}

// ListMealPlans godoc
// @Summary List stored meal plans, newest first
// @Tags Plans
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.MealPlanRecord
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/meal-plans [get]
func (h *PlanHandler) ListMealPlans(c *gin.Context) {
	plans, err := h.planService.ListMealPlans(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, h.log, err, "list meal plans")
		return
	}
	c.JSON(http.StatusOK, nonNil(plans))
}

// respondGenerationError sends the raw model output along with a malformed
// plan so the trainer can see what came back.
func (h *PlanHandler) respondGenerationError(c *gin.Context, err error, raw, transcriptURL, action string) {
	if errors.Is(err, planner.ErrMalformedPlan) {
		h.log.Warn("malformed plan", "client_id", c.Param("clientId"), "error", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, MalformedPlanResponse{
			Error:         err.Error(),
			Raw:           raw,
			TranscriptURL: transcriptURL,
		})
		return
	}
	respondError(c, h.log, err, action)
}
