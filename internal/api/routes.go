package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alcyxob/trainer-ai/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	log *slog.Logger,
	clientService service.ClientService,
	planService service.PlanService,
	trackingService service.TrackingService,
) {
	clientHandler := NewClientHandler(clientService, log)
	planHandler := NewPlanHandler(planService, log)
	trackingHandler := NewTrackingHandler(trackingService, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		clientGroup := apiV1.Group("/clients")
		{
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.GET("/:clientId", clientHandler.GetClient)

			// --- Generation ---
			clientGroup.POST("/:clientId/workouts/generate", planHandler.GenerateWorkout)
			clientGroup.GET("/:clientId/workouts", planHandler.ListWorkoutPlans)
			clientGroup.POST("/:clientId/meal-plans/generate", planHandler.GenerateMealPlan)
			clientGroup.GET("/:clientId/meal-plans", planHandler.ListMealPlans)

			// --- Progress tracking ---
			clientGroup.POST("/:clientId/weigh-ins", trackingHandler.RecordWeighIn)
			clientGroup.GET("/:clientId/weigh-ins", trackingHandler.WeightHistory)
			clientGroup.POST("/:clientId/measurements", trackingHandler.RecordMeasurement)
			clientGroup.GET("/:clientId/measurements", trackingHandler.ListMeasurements)
			// GET accepts an optional ?workoutId= filter
			clientGroup.POST("/:clientId/exercise-results", trackingHandler.RecordExerciseResult)
			clientGroup.GET("/:clientId/exercise-results", trackingHandler.ListExerciseResults)
			clientGroup.POST("/:clientId/runs", trackingHandler.RecordRun)
			clientGroup.GET("/:clientId/runs", trackingHandler.ListRuns)
		}
	}
}
