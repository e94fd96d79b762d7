package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"Tabinote-App/internal/domain/model"
)

const (
	nominatimBaseURL = "https://nominatim.openstreetmap.org"
	osrmBaseURL      = "https://router.project-osrm.org"

	// fitBoundsの余白比率
	osmFitBoundsFactor = 0.22

	osmFocusZoom = 14
)

// osrmProfileMap 移動手段からOSRMプロファイルへのマッピング。
// OSRMにはtransitが無いためdrivingで代替する
var osrmProfileMap = map[model.TravelMode]string{
	model.TravelModeDriving:   "driving",
	model.TravelModeTransit:   "driving",
	model.TravelModeWalking:   "walking",
	model.TravelModeBicycling: "cycling",
}

// OSMMapsProvider 認証情報なしで使えるフォールバックバックエンド。
// ジオコーディングはNominatim、経路検索はOSRMのHTTP APIを使う
type OSMMapsProvider struct {
	httpClient *http.Client
	view       *model.MapView

	nominatimBaseURL string
	osrmBaseURL      string
}

// NewOSMMapsProvider 新しいプロバイダを生成する
func NewOSMMapsProvider() *OSMMapsProvider {
	return &OSMMapsProvider{
		httpClient:       &http.Client{Timeout: 10 * time.Second},
		view:             newMapView("osm"),
		nominatimBaseURL: nominatimBaseURL,
		osrmBaseURL:      osrmBaseURL,
	}
}

// Name プロバイダ識別子を返す
func (o *OSMMapsProvider) Name() string { return "osm" }

// Initialize フォールバックバックエンドは認証情報を持たないため常に成功する
func (o *OSMMapsProvider) Initialize(ctx context.Context) error {
	return nil
}

// Geocode Nominatimで場所の文字列を座標に解決する。見つからない場合は (nil, nil)。
// 場所詳細に非対応のバックエンドなので場所IDは設定しない
func (o *OSMMapsProvider) Geocode(ctx context.Context, query string) (*model.GeocodeResult, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("accept-language", "en")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, "GET", o.nominatimBaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Tabinote-App/1.0")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ジオコーディングリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ジオコーディングAPIからエラーステータスが返されました: %s", resp.Status)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("緯度のパースに失敗: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("経度のパースに失敗: %w", err)
	}
	return &model.GeocodeResult{Coords: model.LatLng{Lat: lat, Lng: lng}}, nil
}

// PlaceDetails フォールバックバックエンドは場所詳細に非対応のため常に (nil, nil)
func (o *OSMMapsProvider) PlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	return nil, nil
}

// RenderMarkers 表示順のストップ列をマーカーとして描画状態に反映する
func (o *OSMMapsProvider) RenderMarkers(stops []*model.Stop) {
	o.view.Markers = buildMarkers(stops)
}

// RenderRoute OSRMで経路を構築して描画状態に反映する。
// ストップ2件未満では経路検索を呼ばず、失敗時はマーカーを残したままfailedを報告する
func (o *OSMMapsProvider) RenderRoute(ctx context.Context, stops []*model.Stop, mode model.TravelMode) *model.RouteResult {
	if len(stops) == 0 {
		return &model.RouteResult{
			Status:  model.RouteStatusInsufficientStops,
			Summary: "No stops yet for this day.",
		}
	}
	if len(stops) == 1 {
		o.view.Center = stops[0].ToLatLng()
		o.view.Zoom = model.SingleStopZoom
		return &model.RouteResult{
			Status:  model.RouteStatusInsufficientStops,
			Summary: "Add at least 2 stops to build a route.",
		}
	}

	coords := make([]string, 0, len(stops))
	for _, s := range stops {
		coords = append(coords, fmt.Sprintf("%f,%f", s.Lng, s.Lat))
	}
	reqURL := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		o.osrmBaseURL, osrmProfile(mode), strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return o.routeFailed(err)
	}
	resp, err := o.httpClient.Do(req)
	if err != nil {
		return o.routeFailed(err)
	}
	defer resp.Body.Close()

	var osrmResp osrmRouteResponse
	if err := json.NewDecoder(resp.Body).Decode(&osrmResp); err != nil {
		return o.routeFailed(err)
	}
	if len(osrmResp.Routes) == 0 {
		return o.routeFailed(fmt.Errorf("code=%s", osrmResp.Code))
	}

	route := osrmResp.Routes[0]
	o.view.RouteGeoJSON = route.Geometry
	o.view.Bounds = fitBounds(stops, osmFitBoundsFactor)
	o.view.Center = boundsCenter(o.view.Bounds)

	return &model.RouteResult{
		Status:          model.RouteStatusReady,
		Summary:         "Route ready (OpenStreetMap).",
		DurationMinutes: int(route.Duration / 60),
		DistanceMeters:  int(route.Distance),
	}
}

// Clear マーカーと経路を描画状態から取り除く
func (o *OSMMapsProvider) Clear() {
	clearMapView(o.view)
}

// Focus 指定ストップへパン・ズームする
func (o *OSMMapsProvider) Focus(stop *model.Stop) {
	o.view.Center = stop.ToLatLng()
	o.view.Zoom = osmFocusZoom
}

// MapView 現在の描画状態を取得する
func (o *OSMMapsProvider) MapView() *model.MapView {
	return o.view
}

func (o *OSMMapsProvider) routeFailed(err error) *model.RouteResult {
	return &model.RouteResult{
		Status:  model.RouteStatusFailed,
		Summary: fmt.Sprintf("Could not build route. Try fewer stops or more specific places. (%v)", err),
	}
}

func osrmProfile(mode model.TravelMode) string {
	if profile, ok := osrmProfileMap[mode]; ok {
		return profile
	}
	return "driving"
}

// --- Nominatim / OSRM のレスポンスをパースするための構造体 ---

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type osrmRouteResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry *geojson.Geometry `json:"geometry"`
	Duration float64           `json:"duration"` // 秒
	Distance float64           `json:"distance"` // メートル
}
