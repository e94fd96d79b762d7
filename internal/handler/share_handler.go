package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"Tabinote-App/internal/usecase"
)

// ShareHandler 共有リンク・エクスポート/インポート・設定のHTTPハンドラー
type ShareHandler struct {
	plannerUseCase usecase.PlannerUseCase
}

// NewShareHandler ShareHandlerの新しいインスタンスを作成
func NewShareHandler(plannerUseCase usecase.PlannerUseCase) *ShareHandler {
	return &ShareHandler{
		plannerUseCase: plannerUseCase,
	}
}

// MakeShareLink GET /api/plan/share - 共有トークンと共有URLの生成
func (h *ShareHandler) MakeShareLink(c *gin.Context) {
	token, err := h.plannerUseCase.ShareToken()
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"url":   fmt.Sprintf("%s://%s/#%s", scheme, c.Request.Host, token),
	})
}

// ExportJSON GET /api/plan/export - プランのJSONファイルダウンロード
func (h *ShareHandler) ExportJSON(c *gin.Context) {
	filename, data, err := h.plannerUseCase.ExportFile()
	if err != nil {
		respondUseCaseError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// ImportJSON POST /api/plan/import - JSONファイルからのプラン復元
// 形式不正のファイルは現在のプランに触れずに拒否する
func (h *ShareHandler) ImportJSON(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "Failed to read import file: "+err.Error())
		return
	}

	state, err := h.plannerUseCase.ImportFile(c.Request.Context(), data)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ResetPlan POST /api/plan/reset - プランとローカル保存の全消去
func (h *ShareHandler) ResetPlan(c *gin.Context) {
	state, err := h.plannerUseCase.Reset(c.Request.Context())
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SaveMapsKey PUT /api/settings/maps-key - プロバイダAPIキーの保存/クリア
// 空のキーを保存するとフォールバックバックエンドへ切り替わる
func (h *ShareHandler) SaveMapsKey(c *gin.Context) {
	var req struct {
		Key string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid JSON format: "+err.Error())
		return
	}

	state, err := h.plannerUseCase.SaveMapsKey(c.Request.Context(), req.Key)
	if err != nil {
		respondUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
