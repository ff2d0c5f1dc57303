package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/service"
)

type TrackingHandler struct {
	trackingService service.TrackingService
	log             *slog.Logger
}

func NewTrackingHandler(trackingService service.TrackingService, log *slog.Logger) *TrackingHandler {
	return &TrackingHandler{trackingService: trackingService, log: log}
}

// --- DTOs ---
// Dates are YYYY-MM-DD and default to today when omitted.

type WeighInRequest struct {
	Date       string   `json:"weighInDate"`
	WeightKg   float64  `json:"weightKg" binding:"required"`
	BodyFatPct *float64 `json:"bodyFatPct"`
	Notes      string   `json:"notes"`
}

type MeasurementRequest struct {
	Date    string  `json:"measurementDate"`
	NeckCm  float64 `json:"neckCm" binding:"required"`
	ChestCm float64 `json:"chestCm" binding:"required"`
	WaistCm float64 `json:"waistCm" binding:"required"`
	HipCm   float64 `json:"hipCm" binding:"required"`
	ThighCm float64 `json:"thighCm" binding:"required"`
	CalfCm  float64 `json:"calfCm" binding:"required"`
}

type ExerciseResultRequest struct {
	WorkoutID     string   `json:"workoutId" binding:"required"`
	ExerciseName  string   `json:"exerciseName" binding:"required"`
	PerformedDate string   `json:"performedDate"`
	SetNumber     int      `json:"setNumber" binding:"required,min=1"`
	Reps          int      `json:"reps" binding:"min=0"`
	WeightKg      *float64 `json:"weightKg"`
	RPE           *float64 `json:"rpe"`
	RestSec       *int     `json:"restSec"`
	DurationSec   *int     `json:"durationSec"`
	Notes         string   `json:"notes"`
}

type RunRequest struct {
	Date        string  `json:"runDate"`
	DistanceKm  float64 `json:"distanceKm" binding:"required"`
	DurationSec int     `json:"durationSec" binding:"required"`
	AvgHR       *int    `json:"avgHeartRate"`
	Notes       string  `json:"notes"`
}

// --- Handler Methods ---

// RecordWeighIn godoc
// @Summary Log a body weight entry
// @Tags Tracking
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param weighIn body WeighInRequest true "Weigh-in"
// @Success 201 {object} domain.WeighIn
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/weigh-ins [post]
func (h *TrackingHandler) RecordWeighIn(c *gin.Context) {
	var req WeighInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weighInDate, expected YYYY-MM-DD")
		return
	}

	w, err := h.trackingService.RecordWeighIn(c.Request.Context(), &domain.WeighIn{
		ClientID:   c.Param("clientId"),
		Date:       date,
		WeightKg:   req.WeightKg,
		BodyFatPct: req.BodyFatPct,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err, "record weigh-in")
		return
	}
	c.JSON(http.StatusCreated, w)
}

// WeightHistory godoc
// @Summary Weigh-in history with starting, latest and change
// @Tags Tracking
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} service.WeightHistory
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/weigh-ins [get]
func (h *TrackingHandler) WeightHistory(c *gin.Context) {
	history, err := h.trackingService.WeightHistory(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, h.log, err, "load weight history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// RecordMeasurement godoc
// @Summary Log body measurements
// @Tags Tracking
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param measurement body MeasurementRequest true "Measurements in cm"
// @Success 201 {object} domain.BodyMeasurement
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/measurements [post]
func (h *TrackingHandler) RecordMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid measurementDate, expected YYYY-MM-DD")
		return
	}

	m, err := h.trackingService.RecordMeasurement(c.Request.Context(), &domain.BodyMeasurement{
		ClientID: c.Param("clientId"),
		Date:     date,
		NeckCm:   req.NeckCm,
		ChestCm:  req.ChestCm,
		WaistCm:  req.WaistCm,
		HipCm:    req.HipCm,
		ThighCm:  req.ThighCm,
		CalfCm:   req.CalfCm,
	})
	if err != nil {
		respondError(c, h.log, err, "record measurements")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMeasurements godoc
// @Summary List body measurements, newest first
// @Tags Tracking
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.BodyMeasurement
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/measurements [get]
func (h *TrackingHandler) ListMeasurements(c *gin.Context) {
	out, err := h.trackingService.Measurements(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, h.log, err, "list measurements")
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

// RecordExerciseResult godoc
// @Summary Log one performed set of a stored workout
// @Tags Tracking
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param result body ExerciseResultRequest true "Performed set"
// @Success 201 {object} domain.ExerciseResultSet
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Client or workout not found"
// @Router /clients/{clientId}/exercise-results [post]
func (h *TrackingHandler) RecordExerciseResult(c *gin.Context) {
	var req ExerciseResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := parseDate(req.PerformedDate)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid performedDate, expected YYYY-MM-DD")
		return
	}

	set, err := h.trackingService.RecordExerciseResult(c.Request.Context(), &domain.ExerciseResultSet{
		ClientID:      c.Param("clientId"),
		WorkoutID:     req.WorkoutID,
		ExerciseName:  req.ExerciseName,
		PerformedDate: date,
		SetNumber:     req.SetNumber,
		Reps:          req.Reps,
		WeightKg:      req.WeightKg,
		RPE:           req.RPE,
		RestSec:       req.RestSec,
		DurationSec:   req.DurationSec,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err, "record exercise result")
		return
	}
	c.JSON(http.StatusCreated, set)
}

// ListExerciseResults godoc
// @Summary List performed sets
// @Tags Tracking
// @Produce json
// @Param clientId path string true "Client ID"
// @Param workoutId query string false "Only sets of this workout"
// @Success 200 {array} domain.ExerciseResultSet
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/exercise-results [get]
func (h *TrackingHandler) ListExerciseResults(c *gin.Context) {
	out, err := h.trackingService.ExerciseResults(c.Request.Context(), c.Param("clientId"), c.Query("workoutId"))
	if err != nil {
		respondError(c, h.log, err, "list exercise results")
		return
	}
	c.JSON(http.StatusOK, nonNil(out))
}

// RecordRun godoc
// @Summary Log a running session
// @Tags Tracking
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param run body RunRequest true "Run"
// @Success 201 {object} service.RunSummary
// @Failure 400 {object} gin.H "Validation error"
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/runs [post]
func (h *TrackingHandler) RecordRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid runDate, expected YYYY-MM-DD")
		return
	}

	run, err := h.trackingService.RecordRun(c.Request.Context(), &domain.RunningSession{
		ClientID:    c.Param("clientId"),
		RunDate:     date,
		DistanceKm:  req.DistanceKm,
		DurationSec: req.DurationSec,
		AvgHR:       req.AvgHR,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.log, err, "record run")
		return
	}
	c.JSON(http.StatusCreated, run)
}

// ListRuns godoc
// @Summary List running sessions with pace, newest first
// @Tags Tracking
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} service.RunSummary
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId}/runs [get]
func (h *TrackingHandler) ListRuns(c *gin.Context) {
	runs, err := h.trackingService.Runs(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, h.log, err, "list runs")
		return
	}
	c.JSON(http.StatusOK, nonNil(runs))
}
