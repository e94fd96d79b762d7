package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Tabinote-App/internal/domain/model"
)

const (
	googleGeocodeBaseURL      = "https://maps.googleapis.com/maps/api/geocode/json"
	googleDirectionsBaseURL   = "https://maps.googleapis.com/maps/api/directions/json"
	googlePlaceDetailsBaseURL = "https://maps.googleapis.com/maps/api/place/details/json"

	// fitBoundsの余白比率（60pxの余白相当）
	googleFitBoundsFactor = 0.06

	googleFocusZoom = 15

	// 場所詳細に添付する写真参照の上限
	maxPlacePhotos = 6
)

// GoogleMapsProvider Google Maps Web Service APIを使用したリッチバックエンドの実装
type GoogleMapsProvider struct {
	apiKey     string
	httpClient *http.Client
	view       *model.MapView

	geocodeBaseURL      string
	directionsBaseURL   string
	placeDetailsBaseURL string
}

// NewGoogleMapsProvider 新しいプロバイダを生成する
func NewGoogleMapsProvider(apiKey string) *GoogleMapsProvider {
	return &GoogleMapsProvider{
		apiKey:              apiKey,
		httpClient:          &http.Client{Timeout: 10 * time.Second},
		view:                newMapView("google"),
		geocodeBaseURL:      googleGeocodeBaseURL,
		directionsBaseURL:   googleDirectionsBaseURL,
		placeDetailsBaseURL: googlePlaceDetailsBaseURL,
	}
}

// Name プロバイダ識別子を返す
func (g *GoogleMapsProvider) Name() string { return "google" }

// Initialize APIキーの有効性を軽量なジオコーディングで確認する。
// 失敗した場合、呼び出し側はフォールバックバックエンドへ切り替える
func (g *GoogleMapsProvider) Initialize(ctx context.Context) error {
	resp, err := g.requestGeocode(ctx, "Tokyo Station")
	if err != nil {
		return err
	}
	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return fmt.Errorf("Google Maps APIの初期化チェックに失敗: %s %s", resp.Status, resp.ErrorMessage)
	}
	return nil
}

// Geocode 場所の文字列を座標に解決する。見つからない場合は (nil, nil)。
// 場所IDも合わせて返し、後続の場所詳細取得で使えるようにする
func (g *GoogleMapsProvider) Geocode(ctx context.Context, query string) (*model.GeocodeResult, error) {
	resp, err := g.requestGeocode(ctx, query)
	if err != nil {
		return nil, err
	}
	if resp.Status == "ZERO_RESULTS" || len(resp.Results) == 0 {
		return nil, nil
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("ジオコーディングに失敗: %s %s", resp.Status, resp.ErrorMessage)
	}
	loc := resp.Results[0].Geometry.Location
	return &model.GeocodeResult{
		Coords:  model.LatLng{Lat: loc.Lat, Lng: loc.Lng},
		PlaceID: resp.Results[0].PlaceID,
	}, nil
}

// PlaceDetails Place Details APIから場所の詳細情報を取得する
func (g *GoogleMapsProvider) PlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,formatted_address,rating,user_ratings_total,website,url,opening_hours,photo")
	params.Set("language", "en")
	params.Set("key", g.apiKey)

	var resp googlePlaceDetailsResponse
	if err := g.getJSON(ctx, g.placeDetailsBaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Status == "NOT_FOUND" || resp.Status == "ZERO_RESULTS" {
		return nil, nil
	}
	if resp.Status != "OK" {
		return nil, fmt.Errorf("場所詳細の取得に失敗: %s", resp.Status)
	}

	details := &model.PlaceDetails{
		Name:             resp.Result.Name,
		FormattedAddress: resp.Result.FormattedAddress,
		Rating:           resp.Result.Rating,
		UserRatingsTotal: resp.Result.UserRatingsTotal,
		Website:          resp.Result.Website,
		URL:              resp.Result.URL,
	}
	if resp.Result.OpeningHours != nil {
		details.OpeningHours = resp.Result.OpeningHours.WeekdayText
	}
	for i, photo := range resp.Result.Photos {
		if i == maxPlacePhotos {
			break
		}
		details.Photos = append(details.Photos, photo.PhotoReference)
	}
	return details, nil
}

// RenderMarkers 表示順のストップ列をマーカーとして描画状態に反映する
func (g *GoogleMapsProvider) RenderMarkers(stops []*model.Stop) {
	g.view.Markers = buildMarkers(stops)
}

// RenderRoute Directions APIで経路を構築して描画状態に反映する。
// ストップ2件未満では経路検索を呼ばず、失敗時はマーカーを残したままfailedを報告する
func (g *GoogleMapsProvider) RenderRoute(ctx context.Context, stops []*model.Stop, mode model.TravelMode) *model.RouteResult {
	if len(stops) == 0 {
		return &model.RouteResult{
			Status:  model.RouteStatusInsufficientStops,
			Summary: "No stops yet for this day.",
		}
	}
	if len(stops) == 1 {
		g.view.Center = stops[0].ToLatLng()
		g.view.Zoom = model.SingleStopZoom
		return &model.RouteResult{
			Status:  model.RouteStatusInsufficientStops,
			Summary: "Add at least 2 stops to build a route.",
		}
	}

	var resp googleDirectionsResponse
	if err := g.getJSON(ctx, g.buildDirectionsURL(stops, mode), &resp); err != nil {
		return g.routeFailed(err)
	}
	if resp.Status != "OK" || len(resp.Routes) == 0 {
		return g.routeFailed(fmt.Errorf("status=%s %s", resp.Status, resp.ErrorMessage))
	}

	route := resp.Routes[0]
	var durationSec, distanceM int
	for _, leg := range route.Legs {
		durationSec += leg.Duration.Value
		distanceM += leg.Distance.Value
	}

	g.view.RoutePolyline = route.OverviewPolyline.Points
	g.view.Bounds = fitBounds(stops, googleFitBoundsFactor)
	g.view.Center = boundsCenter(g.view.Bounds)

	return &model.RouteResult{
		Status:          model.RouteStatusReady,
		Summary:         "Route ready (Google Maps).",
		DurationMinutes: durationSec / 60,
		DistanceMeters:  distanceM,
	}
}

// Clear マーカーと経路を描画状態から取り除く
func (g *GoogleMapsProvider) Clear() {
	clearMapView(g.view)
}

// Focus 指定ストップへパン・ズームする
func (g *GoogleMapsProvider) Focus(stop *model.Stop) {
	g.view.Center = stop.ToLatLng()
	g.view.Zoom = googleFocusZoom
}

// MapView 現在の描画状態を取得する
func (g *GoogleMapsProvider) MapView() *model.MapView {
	return g.view
}

func (g *GoogleMapsProvider) routeFailed(err error) *model.RouteResult {
	return &model.RouteResult{
		Status:  model.RouteStatusFailed,
		Summary: fmt.Sprintf("Could not build Google route. Try changing travel mode or places. (%v)", err),
	}
}

func (g *GoogleMapsProvider) requestGeocode(ctx context.Context, query string) (*googleGeocodeResponse, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("region", "JP")
	params.Set("language", "en")
	params.Set("key", g.apiKey)

	var resp googleGeocodeResponse
	if err := g.getJSON(ctx, g.geocodeBaseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *GoogleMapsProvider) buildDirectionsURL(stops []*model.Stop, mode model.TravelMode) string {
	params := url.Values{}
	origin := stops[0]
	destination := stops[len(stops)-1]
	params.Set("origin", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destination", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))

	// 表示順をそのまま経由地として使う（順序の最適化はしない）
	if len(stops) > 2 {
		viaPoints := make([]string, 0, len(stops)-2)
		for _, s := range stops[1 : len(stops)-1] {
			viaPoints = append(viaPoints, fmt.Sprintf("%f,%f", s.Lat, s.Lng))
		}
		params.Set("waypoints", strings.Join(viaPoints, "|"))
	}

	params.Set("mode", strings.ToLower(string(mode)))
	params.Set("language", "en")
	params.Set("region", "JP")
	params.Set("key", g.apiKey)

	return fmt.Sprintf("%s?%s", g.directionsBaseURL, params.Encode())
}

func (g *GoogleMapsProvider) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("リクエストの作成に失敗: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("JSONのパースに失敗: %w", err)
	}
	return nil
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleGeocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		PlaceID string `json:"place_id"`
	} `json:"results"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type googleDirectionsResponse struct {
	Routes       []googleRoute `json:"routes"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

type googleRoute struct {
	Legs             []googleLeg            `json:"legs"`
	OverviewPolyline googleOverviewPolyline `json:"overview_polyline"`
}

type googleLeg struct {
	Duration googleValue `json:"duration"`
	Distance googleValue `json:"distance"`
}

type googleValue struct {
	Value int `json:"value"` // durationは秒、distanceはメートル
}

type googleOverviewPolyline struct {
	Points string `json:"points"`
}

type googlePlaceDetailsResponse struct {
	Result struct {
		Name             string  `json:"name"`
		FormattedAddress string  `json:"formatted_address"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		Website          string  `json:"website"`
		URL              string  `json:"url"`
		OpeningHours     *struct {
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
	Status string `json:"status"`
}
