package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"Tabinote-App/internal/handler"
	"Tabinote-App/internal/infrastructure/maps"
	"Tabinote-App/internal/repository"
	"Tabinote-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	dataDir := os.Getenv("PLANNER_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	tripRepo, err := repository.NewFileTripRepository(dataDir)
	if err != nil {
		log.Fatalf("永続化ゲートウェイの初期化失敗: %v", err)
	}

	// APIキーは保存済みのものを優先し、無ければ環境変数から読む
	apiKey := tripRepo.LoadAPIKey()
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}

	ctx := context.Background()
	fmt.Println("Selecting maps provider...")
	provider := maps.SelectProvider(ctx, apiKey)

	plannerUseCase := usecase.NewPlannerUseCase(tripRepo, provider)
	plannerUseCase.Plan(ctx, "") // 保存済みプランの初期描画

	plannerHandler := handler.NewPlannerHandler(plannerUseCase)
	shareHandler := handler.NewShareHandler(plannerUseCase)

	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Tabinote-App"})
	})

	api := router.Group("/api")
	{
		api.GET("/plan", plannerHandler.GetPlan)
		api.POST("/plan/days", plannerHandler.AddDay)
		api.PUT("/plan/days/selected", plannerHandler.SelectDay)
		api.POST("/plan/stops", plannerHandler.AddStop)
		api.DELETE("/plan/stops/:id", plannerHandler.DeleteStop)
		api.PUT("/plan/stops/reorder", plannerHandler.ReorderStops)
		api.PUT("/plan/name", plannerHandler.RenameTrip)
		api.PUT("/plan/travel-mode", plannerHandler.SetTravelMode)
		api.POST("/plan/filters/:category/toggle", plannerHandler.ToggleFilter)
		api.POST("/plan/stops/:id/focus", plannerHandler.FocusStop)
		api.GET("/plan/stops/:id/details", plannerHandler.GetStopDetails)
		api.GET("/plan/stops/:id/map-link", plannerHandler.GetStopMapLink)
		api.GET("/plan/route/map-link", plannerHandler.GetRouteMapLink)

		api.GET("/plan/share", shareHandler.MakeShareLink)
		api.GET("/plan/export", shareHandler.ExportJSON)
		api.POST("/plan/import", shareHandler.ImportJSON)
		api.POST("/plan/reset", shareHandler.ResetPlan)
		api.PUT("/settings/maps-key", shareHandler.SaveMapsKey)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Tabinote-App server starting on :%s...\n", port)
	log.Fatal(router.Run(":" + port))
}
