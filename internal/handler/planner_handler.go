package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Tabinote-App/internal/domain/model"
	"Tabinote-App/internal/domain/service"
	"Tabinote-App/internal/usecase"
)

// PlannerHandler 旅行プラン操作のHTTPハンドラー
type PlannerHandler struct {
	plannerUseCase usecase.PlannerUseCase
}

// NewPlannerHandler PlannerHandlerの新しいインスタンスを作成
func NewPlannerHandler(plannerUseCase usecase.PlannerUseCase) *PlannerHandler {
	return &PlannerHandler{
		plannerUseCase: plannerUseCase,
	}
}

// GetPlan GET /api/plan - 現在の表示状態を取得
// shareクエリパラメータに共有トークンが付いていればそれを優先して復元する
func (h *PlannerHandler) GetPlan(c *gin.Context) {
	shareToken := strings.TrimPrefix(strings.TrimSpace(c.Query("share")), "#")
	state := h.plannerUseCase.Plan(c.Request.Context(), shareToken)
	c.JSON(http.StatusOK, state)
}

// AddDay POST /api/plan/days - 日付の追加
func (h *PlannerHandler) AddDay(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}
	if req.Date == "" {
		badRequest(c, "Pick a day first.")
		return
	}

	state, err := h.plannerUseCase.AddDay(c.Request.Context(), req.Date)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SelectDay PUT /api/plan/days/selected - 表示対象日の切り替え
func (h *PlannerHandler) SelectDay(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	state, err := h.plannerUseCase.SelectDay(c.Request.Context(), req.Date)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// AddStop POST /api/plan/stops - 選択中の日へのストップ追加
func (h *PlannerHandler) AddStop(c *gin.Context) {
	var req usecase.AddStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	state, err := h.plannerUseCase.AddStop(c.Request.Context(), &req)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// DeleteStop DELETE /api/plan/stops/:id - ストップの削除
func (h *PlannerHandler) DeleteStop(c *gin.Context) {
	state, err := h.plannerUseCase.RemoveStop(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ReorderStops PUT /api/plan/stops/reorder - 表示リスト上の位置指定での並び替え
func (h *PlannerHandler) ReorderStops(c *gin.Context) {
	var req struct {
		FromIndex int `json:"from_index"`
		ToIndex   int `json:"to_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	state, err := h.plannerUseCase.ReorderStop(c.Request.Context(), req.FromIndex, req.ToIndex)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RenameTrip PUT /api/plan/name - プラン名の変更
func (h *PlannerHandler) RenameTrip(c *gin.Context) {
	var req struct {
		TripName string `json:"tripName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	state, err := h.plannerUseCase.RenameTrip(c.Request.Context(), req.TripName)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SetTravelMode PUT /api/plan/travel-mode - 移動手段の変更
func (h *PlannerHandler) SetTravelMode(c *gin.Context) {
	var req struct {
		TravelMode model.TravelMode `json:"travelMode"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	state, err := h.plannerUseCase.SetTravelMode(c.Request.Context(), req.TravelMode)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ToggleFilter POST /api/plan/filters/:category/toggle - カテゴリフィルタの反転
func (h *PlannerHandler) ToggleFilter(c *gin.Context) {
	state, err := h.plannerUseCase.ToggleFilter(c.Request.Context(), model.Category(c.Param("category")))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// FocusStop POST /api/plan/stops/:id/focus - ストップへのパン・ズーム
func (h *PlannerHandler) FocusStop(c *gin.Context) {
	state, err := h.plannerUseCase.FocusStop(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetStopDetails GET /api/plan/stops/:id/details - ストップ詳細の取得
func (h *PlannerHandler) GetStopDetails(c *gin.Context) {
	details, err := h.plannerUseCase.StopDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetStopMapLink GET /api/plan/stops/:id/map-link - 外部地図アプリで開くURL
func (h *PlannerHandler) GetStopMapLink(c *gin.Context) {
	link, err := h.plannerUseCase.StopMapLink(c.Param("id"))
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// GetRouteMapLink GET /api/plan/route/map-link - 1日分の経路を外部地図アプリで開くURL
func (h *PlannerHandler) GetRouteMapLink(c *gin.Context) {
	link, err := h.plannerUseCase.RouteMapLink()
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}

// respondUseCaseError UseCaseの回復可能エラーをHTTPステータスに変換する
func respondUseCaseError(c *gin.Context, err error) {
	var invalidCategory *model.InvalidCategoryError
	var invalidFormat *service.InvalidFormatError

	switch {
	case errors.Is(err, usecase.ErrStopNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "stop_not_found",
			"message": err.Error(),
		})
	case errors.Is(err, usecase.ErrPlaceNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "place_not_found",
			"message": "Not found. Try adding city (e.g., 'X, Tokyo').",
		})
	case errors.Is(err, usecase.ErrNotEnoughStops):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "not_enough_stops",
			"message": "Add at least 2 stops to build a route.",
		})
	case errors.Is(err, usecase.ErrNoDaySelected), errors.Is(err, usecase.ErrPlaceEmpty),
		errors.As(err, &invalidCategory), errors.As(err, &invalidFormat):
		badRequest(c, err.Error())
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
