package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Tabinote-App/internal/domain/model"
	"Tabinote-App/internal/repository"
)

// fakeMapsProvider 呼び出しを記録するテスト用のプロバイダ。
// ジオコーディングはgeocodeテーブルで答え、経路は常に成功する
type fakeMapsProvider struct {
	geocode      map[string]model.GeocodeResult
	routeCalls   int
	renderCalls  int
	clearCalls   int
	detailsCalls int
	lastPlaceID  string
	lastStops    []*model.Stop
	view         *model.MapView
}

func newFakeMapsProvider() *fakeMapsProvider {
	return &fakeMapsProvider{
		geocode: map[string]model.GeocodeResult{
			"Shinjuku Hotel":  {Coords: model.LatLng{Lat: 35.6938, Lng: 139.7034}, PlaceID: "ChIJshinjuku"},
			"Ichiran Shibuya": {Coords: model.LatLng{Lat: 35.6617, Lng: 139.7041}, PlaceID: "ChIJichiran"},
			"Fushimi Inari":   {Coords: model.LatLng{Lat: 34.9671, Lng: 135.7727}, PlaceID: "ChIJinari"},
		},
		view: &model.MapView{Provider: "osm", Center: model.DefaultMapCenter, Zoom: model.DefaultMapZoom},
	}
}

func (f *fakeMapsProvider) Name() string                       { return "osm" }
func (f *fakeMapsProvider) Initialize(_ context.Context) error { return nil }
func (f *fakeMapsProvider) MapView() *model.MapView            { return f.view }
func (f *fakeMapsProvider) Focus(_ *model.Stop)                {}
func (f *fakeMapsProvider) Clear()                             { f.clearCalls++; f.lastStops = nil }
func (f *fakeMapsProvider) RenderMarkers(stops []*model.Stop)  { f.renderCalls++; f.lastStops = stops }

func (f *fakeMapsProvider) Geocode(_ context.Context, query string) (*model.GeocodeResult, error) {
	if result, ok := f.geocode[query]; ok {
		return &result, nil
	}
	return nil, nil
}

func (f *fakeMapsProvider) PlaceDetails(_ context.Context, placeID string) (*model.PlaceDetails, error) {
	f.detailsCalls++
	f.lastPlaceID = placeID
	return &model.PlaceDetails{Name: "Fake Place", FormattedAddress: "1-1 Test, Tokyo"}, nil
}

func (f *fakeMapsProvider) RenderRoute(_ context.Context, stops []*model.Stop, _ model.TravelMode) *model.RouteResult {
	f.routeCalls++
	if len(stops) < 2 {
		return &model.RouteResult{Status: model.RouteStatusInsufficientStops, Summary: "Add at least 2 stops to build a route."}
	}
	return &model.RouteResult{Status: model.RouteStatusReady, Summary: "Route ready (OpenStreetMap).", DurationMinutes: 30, DistanceMeters: 4200}
}

func newTestUseCase(t *testing.T) (PlannerUseCase, *fakeMapsProvider) {
	t.Helper()
	repo, err := repository.NewFileTripRepository(t.TempDir())
	require.NoError(t, err)
	provider := newFakeMapsProvider()
	return NewPlannerUseCase(repo, provider), provider
}

func addStop(t *testing.T, uc PlannerUseCase, cat model.Category, place string) *PlanState {
	t.Helper()
	state, err := uc.AddStop(context.Background(), &AddStopRequest{Category: cat, Place: place})
	require.NoError(t, err)
	return state
}

func TestPlannerUseCaseBasicFlow(t *testing.T) {
	log.Printf("🧪 プランナー基本フローのテスト開始")
	ctx := context.Background()

	t.Run("初期状態は日付追加を促すステータス", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		state := uc.Plan(ctx, "")
		assert.Equal(t, "Add a day to start planning.", state.Status)
		assert.Equal(t, "osm", state.Provider)
	})

	t.Run("日付追加からストップ2件で経路が引かれる", func(t *testing.T) {
		uc, provider := newTestUseCase(t)

		state, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)
		assert.Equal(t, "No stops yet for this day.", state.Status)

		state = addStop(t, uc, model.CategorySleep, "Shinjuku Hotel")
		require.NotNil(t, state.Route)
		assert.Equal(t, model.RouteStatusInsufficientStops, state.Route.Status)

		state = addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")
		require.NotNil(t, state.Route)
		assert.Equal(t, model.RouteStatusReady, state.Route.Status)
		assert.Equal(t, "Route ready (OpenStreetMap).", state.Status)
		assert.Len(t, provider.lastStops, 2)
	})

	t.Run("見つからない場所はプランに追加されない", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)

		_, err = uc.AddStop(ctx, &AddStopRequest{Category: model.CategoryFood, Place: "zzz unknown zzz"})
		assert.ErrorIs(t, err, ErrPlaceNotFound)

		state := uc.Plan(ctx, "")
		assert.Empty(t, state.Trip.Stops["2025-04-10"])
		assert.Equal(t, "Not found. Try adding city (e.g., 'X, Tokyo').", state.Status)
	})

	t.Run("追加したストップは場所IDを持ち詳細表示まで届く", func(t *testing.T) {
		uc, provider := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)

		state := addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")
		stop := state.Trip.Stops["2025-04-10"][0]
		assert.Equal(t, "ChIJichiran", stop.PlaceID, "ジオコーディング結果の場所IDがストップに引き継がれる")

		view, err := uc.StopDetails(ctx, stop.ID)
		require.NoError(t, err)
		require.NotNil(t, view.Details)
		assert.Equal(t, "Fake Place", view.Details.Name)
		assert.Equal(t, 1, provider.detailsCalls)
		assert.Equal(t, "ChIJichiran", provider.lastPlaceID)
	})

	t.Run("場所IDの無いストップでは詳細取得を呼ばない", func(t *testing.T) {
		uc, provider := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)
		provider.geocode["Backstreet Cafe"] = model.GeocodeResult{Coords: model.LatLng{Lat: 35.0, Lng: 135.0}}

		state := addStop(t, uc, model.CategoryFood, "Backstreet Cafe")
		stop := state.Trip.Stops["2025-04-10"][0]
		assert.Empty(t, stop.PlaceID)

		view, err := uc.StopDetails(ctx, stop.ID)
		require.NoError(t, err)
		assert.Nil(t, view.Details)
		assert.Equal(t, 0, provider.detailsCalls)
	})

	t.Run("日付未選択の操作は拒否される", func(t *testing.T) {
		uc, _ := newTestUseCase(t)

		_, err := uc.AddStop(ctx, &AddStopRequest{Category: model.CategoryFood, Place: "Ichiran Shibuya"})
		assert.ErrorIs(t, err, ErrNoDaySelected)

		_, err = uc.RemoveStop(ctx, "any")
		assert.ErrorIs(t, err, ErrNoDaySelected)

		_, err = uc.AddStop(ctx, &AddStopRequest{Category: model.CategoryFood, Place: ""})
		assert.ErrorIs(t, err, ErrNoDaySelected, "日付チェックが場所チェックより先")
	})
}

func TestPlannerUseCaseSerialization(t *testing.T) {
	log.Printf("🧪 操作直列化のテスト開始")
	ctx := context.Background()

	t.Run("並行する操作のあとも経路結果は最終状態を反映する", func(t *testing.T) {
		uc, provider := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)

		const stopCount = 5
		for i := 0; i < stopCount; i++ {
			provider.geocode[fmt.Sprintf("Spot %d", i)] = model.GeocodeResult{
				Coords: model.LatLng{Lat: 35.0 + float64(i)*0.01, Lng: 135.0},
			}
		}

		var wg sync.WaitGroup
		for i := 0; i < stopCount; i++ {
			wg.Add(1)
			go func(place string) {
				defer wg.Done()
				_, err := uc.AddStop(ctx, &AddStopRequest{Category: model.CategoryActivity, Place: place})
				assert.NoError(t, err)
			}(fmt.Sprintf("Spot %d", i))
		}
		wg.Wait()

		state := uc.Plan(ctx, "")
		assert.Len(t, state.Trip.Stops["2025-04-10"], stopCount)
		assert.Len(t, provider.lastStops, stopCount, "最後の描画は全ストップを含む")
		require.NotNil(t, state.Route)
		assert.Equal(t, model.RouteStatusReady, state.Route.Status)
		assert.Equal(t, "Route ready (OpenStreetMap).", state.Status)
		assert.Equal(t, stopCount, provider.routeCalls, "経路構築は操作ごとに1回ずつ直列に走る")
	})
}

func TestPlannerUseCaseFilters(t *testing.T) {
	log.Printf("🧪 フィルタ連動のテスト開始")
	ctx := context.Background()

	t.Run("フィルタで非表示のストップは削除・並び替えの影響を受けない", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)
		addStop(t, uc, model.CategorySleep, "Shinjuku Hotel")
		addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")
		addStop(t, uc, model.CategoryActivity, "Fushimi Inari")

		// sleepを非表示にすると表示リストは2件になる
		state, err := uc.ToggleFilter(ctx, model.CategorySleep)
		require.NoError(t, err)
		require.Len(t, state.Views.Stops, 2)
		assert.Equal(t, "Ichiran Shibuya", state.Views.Stops[0].Place)

		// 表示リスト先頭を削除しても全量は3件→2件で、非表示のsleepは残る
		state, err = uc.RemoveStop(ctx, state.Views.Stops[0].ID)
		require.NoError(t, err)
		full := state.Trip.Stops["2025-04-10"]
		require.Len(t, full, 2)
		assert.Equal(t, "Shinjuku Hotel", full[0].Place)
		assert.Equal(t, "Fushimi Inari", full[1].Place)

		// フィルタを戻すと非表示だったストップが再び現れる
		state, err = uc.ToggleFilter(ctx, model.CategorySleep)
		require.NoError(t, err)
		assert.Len(t, state.Views.Stops, 2)
		assert.Equal(t, "Shinjuku Hotel", state.Views.Stops[0].Place)
	})

	t.Run("経路は表示リストに対して引かれる", func(t *testing.T) {
		uc, provider := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)
		addStop(t, uc, model.CategorySleep, "Shinjuku Hotel")
		addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")

		state, err := uc.ToggleFilter(ctx, model.CategorySleep)
		require.NoError(t, err)
		assert.Len(t, provider.lastStops, 1, "非表示ストップは経路に渡らない")
		require.NotNil(t, state.Route)
		assert.Equal(t, model.RouteStatusInsufficientStops, state.Route.Status)
	})
}

func TestPlannerUseCaseShareAndImport(t *testing.T) {
	log.Printf("🧪 共有・インポートのテスト開始")
	ctx := context.Background()

	t.Run("共有トークンで別インスタンスに同じプランが復元される", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)
		addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")

		token, err := uc.ShareToken()
		require.NoError(t, err)

		other, _ := newTestUseCase(t)
		state := other.Plan(ctx, token)
		assert.Equal(t, []string{"2025-04-10"}, state.Trip.Days)
		require.Len(t, state.Trip.Stops["2025-04-10"], 1)
		assert.Equal(t, "Ichiran Shibuya", state.Trip.Stops["2025-04-10"][0].Place)
	})

	t.Run("エクスポートとインポートの往復", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)
		addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")

		name, data, err := uc.ExportFile()
		require.NoError(t, err)
		assert.Equal(t, "japan-trip.json", name)

		other, _ := newTestUseCase(t)
		state, err := other.ImportFile(ctx, data)
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-04-10"}, state.Trip.Days)
	})

	t.Run("形式不正のインポートは現在のプランに触れない", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)

		_, err = uc.ImportFile(ctx, []byte(`{"nope": true}`))
		require.Error(t, err)

		state := uc.Plan(ctx, "")
		assert.Equal(t, []string{"2025-04-10"}, state.Trip.Days, "失敗したインポートで状態が変わってはいけない")
	})

	t.Run("リセットで空のプランに戻り保存も消える", func(t *testing.T) {
		repo, err := repository.NewFileTripRepository(t.TempDir())
		require.NoError(t, err)
		uc := NewPlannerUseCase(repo, newFakeMapsProvider())
		_, err = uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)

		state, err := uc.Reset(ctx)
		require.NoError(t, err)
		assert.Empty(t, state.Trip.Days)
		assert.Equal(t, "Add a day to start planning.", state.Status)
		assert.Empty(t, repo.Load("").Days, "ローカル保存も削除される")
	})
}

func TestPlannerUseCaseMapLinks(t *testing.T) {
	ctx := context.Background()

	t.Run("ストップと1日経路の外部リンク", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)
		addStop(t, uc, model.CategorySleep, "Shinjuku Hotel")
		state := addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")

		link, err := uc.StopMapLink(state.Views.Stops[0].ID)
		require.NoError(t, err)
		assert.Contains(t, link, "google.com/maps/search")

		route, err := uc.RouteMapLink()
		require.NoError(t, err)
		assert.Contains(t, route, "google.com/maps/dir")
		assert.Contains(t, route, "travelmode=transit")
	})

	t.Run("存在しないストップのリンクはエラー", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.StopMapLink("nope")
		assert.ErrorIs(t, err, ErrStopNotFound)
	})

	t.Run("表示中のストップが2件未満なら経路リンクはエラー", func(t *testing.T) {
		uc, _ := newTestUseCase(t)
		_, err := uc.AddDay(ctx, "2025-04-10")
		require.NoError(t, err)

		_, err = uc.RouteMapLink()
		assert.ErrorIs(t, err, ErrNotEnoughStops)

		addStop(t, uc, model.CategoryFood, "Ichiran Shibuya")
		_, err = uc.RouteMapLink()
		assert.ErrorIs(t, err, ErrNotEnoughStops)
	})
}
