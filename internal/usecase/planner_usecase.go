package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"Tabinote-App/internal/domain/model"
	"Tabinote-App/internal/domain/repository"
	"Tabinote-App/internal/domain/service"
	"Tabinote-App/internal/infrastructure/maps"
)

// ハンドラー層でHTTPステータスに変換される回復可能エラー
var (
	ErrNoDaySelected  = errors.New("日付が選択されていません")
	ErrPlaceEmpty     = errors.New("場所が入力されていません")
	ErrPlaceNotFound  = errors.New("場所が見つかりませんでした")
	ErrStopNotFound   = errors.New("ストップが見つかりませんでした")
	ErrNotEnoughStops = errors.New("経路を開くには2件以上のストップが必要です")
)

// AddStopRequest ストップ追加の入力。座標はジオコーディングで確定する
type AddStopRequest struct {
	Category  model.Category `json:"category"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Place     string         `json:"place"`
	Notes     string         `json:"notes"`
}

// PlanState 操作後にクライアントへ返す表示状態一式
type PlanState struct {
	Trip     *model.Trip             `json:"trip"`
	Filters  model.CategoryFilterSet `json:"filters"`
	Views    *service.PlanViews      `json:"views"`
	Map      *model.MapView          `json:"map"`
	Route    *model.RouteResult      `json:"route,omitempty"`
	Status   string                  `json:"status"`
	Provider string                  `json:"provider"`
}

// StopDetailsView ストップ詳細パネルの表示内容
type StopDetailsView struct {
	Title   string              `json:"title"`
	Sub     string              `json:"sub"`
	Notes   string              `json:"notes,omitempty"`
	Details *model.PlaceDetails `json:"details,omitempty"`
}

// PlannerUseCase 旅行プランへの全ユーザー操作を提供する。
// 各操作は「状態変更 → ビュー再計算 → 地図再描画 → 保存」の順で処理される
type PlannerUseCase interface {
	Plan(ctx context.Context, shareToken string) *PlanState
	AddDay(ctx context.Context, date string) (*PlanState, error)
	SelectDay(ctx context.Context, date string) (*PlanState, error)
	AddStop(ctx context.Context, req *AddStopRequest) (*PlanState, error)
	RemoveStop(ctx context.Context, id string) (*PlanState, error)
	ReorderStop(ctx context.Context, fromIndex, toIndex int) (*PlanState, error)
	RenameTrip(ctx context.Context, name string) (*PlanState, error)
	SetTravelMode(ctx context.Context, mode model.TravelMode) (*PlanState, error)
	ToggleFilter(ctx context.Context, cat model.Category) (*PlanState, error)
	FocusStop(ctx context.Context, id string) (*PlanState, error)
	StopDetails(ctx context.Context, id string) (*StopDetailsView, error)
	ShareToken() (string, error)
	ExportFile() (string, []byte, error)
	ImportFile(ctx context.Context, data []byte) (*PlanState, error)
	Reset(ctx context.Context) (*PlanState, error)
	SaveMapsKey(ctx context.Context, key string) (*PlanState, error)
	StopMapLink(id string) (string, error)
	RouteMapLink() (string, error)
}

// plannerUseCaseImpl PlannerUseCaseの実装。
// 全操作がmuで直列化されるため、経路結果が古い状態に適用されることはない
type plannerUseCaseImpl struct {
	mu          sync.Mutex
	trip        *model.Trip
	filters     model.CategoryFilterSet
	provider    repository.MapsProvider
	tripRepo    repository.TripRepository
	status      string
	lastRoute   *model.RouteResult
	initialized bool
}

// NewPlannerUseCase ローカル保存からプランを読み込んでUseCaseを作成する
func NewPlannerUseCase(tripRepo repository.TripRepository, provider repository.MapsProvider) PlannerUseCase {
	return &plannerUseCaseImpl{
		trip:     tripRepo.Load(""),
		filters:  model.NewCategoryFilterSet(),
		provider: provider,
		tripRepo: tripRepo,
		status:   "Add a day to start planning.",
	}
}

// Plan 現在の表示状態を取得する。共有トークンが付いていればそれを優先して
// プランを差し替える（復元失敗はローカル保存へのフォールバックで吸収される）
func (u *plannerUseCaseImpl) Plan(ctx context.Context, shareToken string) *PlanState {
	u.mu.Lock()
	defer u.mu.Unlock()

	if shareToken != "" {
		u.trip = u.tripRepo.Load(shareToken)
		u.refreshLocked(ctx)
	} else if !u.initialized {
		u.refreshLocked(ctx)
	}
	u.initialized = true
	return u.snapshotLocked()
}

// AddDay 日付を追加して選択する（既存の日付でも安全）
func (u *plannerUseCaseImpl) AddDay(ctx context.Context, date string) (*PlanState, error) {
	if date == "" {
		return nil, fmt.Errorf("日付が指定されていません")
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	u.trip.AddDay(date)
	return u.commitLocked(ctx), nil
}

// SelectDay 表示対象の日付を切り替える
func (u *plannerUseCaseImpl) SelectDay(ctx context.Context, date string) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.trip.SelectDay(date); err != nil {
		return nil, err
	}
	return u.commitLocked(ctx), nil
}

// AddStop 場所をジオコーディングしてから選択中の日にストップを追加する。
// 座標が確定できない場合はErrPlaceNotFoundで、プランには何も追加しない
func (u *plannerUseCaseImpl) AddStop(ctx context.Context, req *AddStopRequest) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.trip.SelectedDay == "" {
		return nil, ErrNoDaySelected
	}
	place := strings.TrimSpace(req.Place)
	if place == "" {
		return nil, ErrPlaceEmpty
	}
	if !model.IsValidCategory(req.Category) {
		return nil, &model.InvalidCategoryError{Category: string(req.Category)}
	}

	u.status = "Geocoding…"
	result, err := u.provider.Geocode(ctx, place)
	if err != nil {
		return nil, fmt.Errorf("ジオコーディングに失敗: %w", err)
	}
	if result == nil {
		u.status = "Not found. Try adding city (e.g., 'X, Tokyo')."
		return nil, ErrPlaceNotFound
	}

	stop := &model.Stop{
		ID:        uuid.New().String(),
		Category:  req.Category,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Place:     place,
		Notes:     strings.TrimSpace(req.Notes),
		Lat:       result.Coords.Lat,
		Lng:       result.Coords.Lng,
		PlaceID:   result.PlaceID,
	}
	if err := u.trip.AddStop(u.trip.SelectedDay, stop); err != nil {
		return nil, err
	}
	log.Printf("📍 ストップ追加: %s (%s)", stop.Place, stop.Category)
	return u.commitLocked(ctx), nil
}

// RemoveStop 選択中の日から指定ストップだけを削除する。
// フィルタで非表示のストップには影響しない
func (u *plannerUseCaseImpl) RemoveStop(ctx context.Context, id string) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.trip.SelectedDay == "" {
		return nil, ErrNoDaySelected
	}
	if !u.trip.RemoveStop(u.trip.SelectedDay, id) {
		return nil, ErrStopNotFound
	}
	return u.commitLocked(ctx), nil
}

// ReorderStop 表示リスト上の位置指定で並び替え、全量リストへ書き戻す
func (u *plannerUseCaseImpl) ReorderStop(ctx context.Context, fromIndex, toIndex int) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.trip.SelectedDay == "" {
		return nil, ErrNoDaySelected
	}
	if err := u.trip.ReorderStop(u.trip.SelectedDay, u.filters, fromIndex, toIndex); err != nil {
		return nil, err
	}
	return u.commitLocked(ctx), nil
}

// RenameTrip プラン名を変更する
func (u *plannerUseCaseImpl) RenameTrip(ctx context.Context, name string) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.trip.RenameTrip(name)
	return u.commitLocked(ctx), nil
}

// SetTravelMode 移動手段を変更して経路を引き直す
func (u *plannerUseCaseImpl) SetTravelMode(ctx context.Context, mode model.TravelMode) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.trip.SetTravelMode(mode); err != nil {
		return nil, err
	}
	return u.commitLocked(ctx), nil
}

// ToggleFilter カテゴリフィルタを反転して一覧・タイムライン・経路を引き直す
func (u *plannerUseCaseImpl) ToggleFilter(ctx context.Context, cat model.Category) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	filters, err := u.filters.Toggle(cat)
	if err != nil {
		return nil, err
	}
	u.filters = filters
	return u.commitLocked(ctx), nil
}

// FocusStop 表示中のストップへ地図をパン・ズームする（状態変更ではないので保存しない）
func (u *plannerUseCaseImpl) FocusStop(ctx context.Context, id string) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	stop := u.findVisibleStopLocked(id)
	if stop == nil {
		return nil, ErrStopNotFound
	}
	u.provider.Focus(stop)
	return u.snapshotLocked(), nil
}

// StopDetails ストップの詳細表示を組み立てる。場所IDを持つ場合は
// リッチバックエンドの詳細情報で補強する（失敗しても基本表示は返す）
func (u *plannerUseCaseImpl) StopDetails(ctx context.Context, id string) (*StopDetailsView, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	visible := service.VisibleStops(u.trip, u.trip.SelectedDay, u.filters)
	for i, s := range visible {
		if s.ID != id {
			continue
		}
		view := &StopDetailsView{
			Title: fmt.Sprintf("%d. %s", i+1, s.Place),
			Sub:   model.GetCategoryLabel(s.Category) + " · " + service.TimeRangeLabel(s),
			Notes: s.Notes,
		}
		if s.PlaceID != "" {
			details, err := u.provider.PlaceDetails(ctx, s.PlaceID)
			if err != nil {
				log.Printf("⚠️ 場所詳細の取得に失敗: %v", err)
			} else {
				view.Details = details
			}
		}
		return view, nil
	}
	return nil, ErrStopNotFound
}

// ShareToken 現在のプランの共有トークンを生成する
func (u *plannerUseCaseImpl) ShareToken() (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return service.EncodeShare(u.trip)
}

// ExportFile エクスポートファイル名と内容を生成する
func (u *plannerUseCaseImpl) ExportFile() (string, []byte, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, err := service.ToFile(u.trip)
	if err != nil {
		return "", nil, err
	}
	return service.ExportFileName(u.trip), data, nil
}

// ImportFile インポートファイルでプランを置き換える。
// 形式不正の場合は現在のプランに一切触れずに拒否する
func (u *plannerUseCaseImpl) ImportFile(ctx context.Context, data []byte) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	trip, err := service.FromFile(data)
	if err != nil {
		return nil, err
	}
	u.trip = trip
	log.Printf("📥 プランをインポートしました (%d日分)", len(trip.Days))
	return u.commitLocked(ctx), nil
}

// Reset プランを空に戻し、ローカル保存も削除する
func (u *plannerUseCaseImpl) Reset(ctx context.Context) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.trip = model.NewTrip()
	if err := u.tripRepo.Reset(); err != nil {
		log.Printf("⚠️ ローカル保存の削除に失敗: %v", err)
	}
	u.provider.Clear()
	u.lastRoute = nil
	u.status = "Add a day to start planning."
	log.Printf("🗑️ プランをリセットしました")
	return u.snapshotLocked(), nil
}

// SaveMapsKey プロバイダAPIキーを保存してバックエンドを選択し直す。
// 空のキーはクリアを意味し、フォールバックバックエンドへ切り替わる
func (u *plannerUseCaseImpl) SaveMapsKey(ctx context.Context, key string) (*PlanState, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	key = strings.TrimSpace(key)
	if err := u.tripRepo.SaveAPIKey(key); err != nil {
		return nil, err
	}
	u.provider = maps.SelectProvider(ctx, key)
	u.refreshLocked(ctx)
	return u.snapshotLocked(), nil
}

// StopMapLink ストップを外部地図アプリで開くURLを取得する
func (u *plannerUseCaseImpl) StopMapLink(id string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	stop := u.findVisibleStopLocked(id)
	if stop == nil {
		return "", ErrStopNotFound
	}
	return maps.StopSearchURL(stop), nil
}

// RouteMapLink 選択中の日の表示順経路を外部地図アプリで開くURLを取得する
func (u *plannerUseCaseImpl) RouteMapLink() (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.trip.SelectedDay == "" {
		return "", ErrNoDaySelected
	}
	visible := service.VisibleStops(u.trip, u.trip.SelectedDay, u.filters)
	if len(visible) < 2 {
		return "", ErrNotEnoughStops
	}
	return maps.DayRouteURL(visible, u.trip.TravelMode)
}

// commitLocked 状態変更後の共通処理。再描画し、保存してスナップショットを返す
func (u *plannerUseCaseImpl) commitLocked(ctx context.Context) *PlanState {
	u.refreshLocked(ctx)
	u.saveLocked()
	return u.snapshotLocked()
}

// refreshLocked 地図の再描画。クリア → マーカー → 経路の順に行う。
// 経路構築はロックを保持したまま同期実行されるので、構築中に状態が
// 変わることはなく、結果は常に直前の変更に対応する
func (u *plannerUseCaseImpl) refreshLocked(ctx context.Context) {
	u.provider.Clear()
	u.lastRoute = nil

	if u.trip.SelectedDay == "" {
		if len(u.trip.Days) == 0 {
			u.status = "Add a day to start planning."
		} else {
			u.status = "Select a day to draw the route."
		}
		return
	}

	visible := service.VisibleStops(u.trip, u.trip.SelectedDay, u.filters)
	if len(visible) == 0 {
		u.status = "No stops yet for this day."
		return
	}

	u.provider.RenderMarkers(visible)

	if u.provider.Name() == "google" {
		u.status = "Building route (Google)…"
	} else {
		u.status = "Building route (OSM)…"
	}
	result := u.provider.RenderRoute(ctx, visible, u.trip.TravelMode)
	u.lastRoute = result
	u.status = result.Summary
}

// saveLocked 現在のプランをローカル保存へ書き込む。失敗してもプラン状態は壊さない
func (u *plannerUseCaseImpl) saveLocked() {
	if err := u.tripRepo.Save(u.trip); err != nil {
		log.Printf("⚠️ プランの保存に失敗: %v", err)
	}
}

func (u *plannerUseCaseImpl) snapshotLocked() *PlanState {
	return &PlanState{
		Trip:     u.trip,
		Filters:  u.filters,
		Views:    service.BuildViews(u.trip, u.filters),
		Map:      u.provider.MapView(),
		Route:    u.lastRoute,
		Status:   u.status,
		Provider: u.provider.Name(),
	}
}

func (u *plannerUseCaseImpl) findVisibleStopLocked(id string) *model.Stop {
	for _, s := range service.VisibleStops(u.trip, u.trip.SelectedDay, u.filters) {
		if s.ID == id {
			return s
		}
	}
	return nil
}
