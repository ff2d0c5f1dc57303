package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/trainer-ai/internal/domain"
	"alcyxob/trainer-ai/internal/service"
)

type ClientHandler struct {
	clientService service.ClientService
	log           *slog.Logger
}

func NewClientHandler(clientService service.ClientService, log *slog.Logger) *ClientHandler {
	return &ClientHandler{clientService: clientService, log: log}
}

// --- DTOs ---

// CreateClientRequest mirrors the new-client form. Range and enumeration
// checks beyond the binding tags happen in domain.ClientProfile.Validate.
type CreateClientRequest struct {
	Name               string   `json:"clientName" binding:"required"`
	Age                int      `json:"age" binding:"required,min=18,max=100"`
	Gender             string   `json:"gender" binding:"required,oneof=Male Female Other"`
	CurrentWeightKg    float64  `json:"currentWeightKg" binding:"required"`
	HeightCm           int      `json:"heightCm" binding:"required"`
	FitnessLevel       string   `json:"fitnessLevel" binding:"required,oneof=Beginner Intermediate Advanced"`
	FitnessGoals       []string `json:"fitnessGoals" binding:"required,min=1"`
	AvailableEquipment []string `json:"availableEquipment"`
	DaysPerWeek        int      `json:"daysPerWeek" binding:"required,min=1,max=7"`
	WorkoutDurationMin int      `json:"workoutDurationMin" binding:"required"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	Allergies          string   `json:"allergies"`
	TargetCalories     *int     `json:"targetCalories"`
	TargetProteinG     *int     `json:"targetProteinG"`
}

type ClientResponse struct {
	ID                 string    `json:"clientId"`
	Name               string    `json:"clientName"`
	Age                int       `json:"age"`
	Gender             string    `json:"gender"`
	CurrentWeightKg    float64   `json:"currentWeightKg"`
	HeightCm           int       `json:"heightCm"`
	FitnessLevel       string    `json:"fitnessLevel"`
	FitnessGoals       []string  `json:"fitnessGoals"`
	AvailableEquipment []string  `json:"availableEquipment"`
	DaysPerWeek        int       `json:"daysPerWeek"`
	WorkoutDurationMin int       `json:"workoutDurationMin"`
	DietaryPreferences []string  `json:"dietaryPreferences"`
	Allergies          string    `json:"allergies"`
	TargetCalories     *int      `json:"targetCalories,omitempty"`
	TargetProteinG     *int      `json:"targetProteinG,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// MapClientToResponse converts a domain.ClientProfile to its DTO.
func MapClientToResponse(p *domain.ClientProfile) ClientResponse {
	return ClientResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Age:                p.Age,
		Gender:             p.Gender,
		CurrentWeightKg:    p.CurrentWeightKg,
		HeightCm:           p.HeightCm,
		FitnessLevel:       string(p.FitnessLevel),
		FitnessGoals:       nonNil(p.FitnessGoals),
		AvailableEquipment: nonNil(p.AvailableEquipment),
		DaysPerWeek:        p.DaysPerWeek,
		WorkoutDurationMin: p.WorkoutDurationMin,
		DietaryPreferences: nonNil(p.DietaryPreferences),
		Allergies:          p.Allergies,
		TargetCalories:     p.TargetCalories,
		TargetProteinG:     p.TargetProteinG,
		CreatedAt:          p.CreatedAt,
	}
}

// MapClientsToResponse converts a slice of domain.ClientProfile to DTOs.
func MapClientsToResponse(clients []domain.ClientProfile) []ClientResponse {
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = MapClientToResponse(&clients[i])
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// --- Handler Methods ---

// CreateClient godoc
// @Summary Add a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body CreateClientRequest true "Client profile"
// @Success 201 {object} ClientResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile := &domain.ClientProfile{
		Name:               req.Name,
		Age:                req.Age,
		Gender:             req.Gender,
		CurrentWeightKg:    req.CurrentWeightKg,
		HeightCm:           req.HeightCm,
		FitnessLevel:       domain.FitnessLevel(req.FitnessLevel),
		FitnessGoals:       req.FitnessGoals,
		AvailableEquipment: req.AvailableEquipment,
		DaysPerWeek:        req.DaysPerWeek,
		WorkoutDurationMin: req.WorkoutDurationMin,
		DietaryPreferences: req.DietaryPreferences,
		Allergies:          req.Allergies,
		TargetCalories:     req.TargetCalories,
		TargetProteinG:     req.TargetProteinG,
	}
	created, err := h.clientService.Create(c.Request.Context(), profile)
	if err != nil {
		respondError(c, h.log, err, "create client")
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(created))
}

// ListClients godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Success 200 {array} ClientResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /clients [get]
func (h *ClientHandler) ListClients(c *gin.Context) {
	clients, err := h.clientService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "list clients")
		return
	}
	c.JSON(http.StatusOK, MapClientsToResponse(clients))
}

// GetClient godoc
// @Summary Get one client
// @Tags Clients
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} ClientResponse
// @Failure 404 {object} gin.H "Client not found"
// @Router /clients/{clientId} [get]
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.Get(c.Request.Context(), c.Param("clientId"))
	if err != nil {
		respondError(c, h.log, err, "get client")
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}
