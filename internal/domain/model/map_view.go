package model

import "github.com/paulmach/orb/geojson"

// LatLng 緯度経度を表す基本的な型（ジオコーディング・経路検索で使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLngBounds 地図の表示範囲（南西・北東の角）
type LatLngBounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Marker 地図上に描画するマーカー
type Marker struct {
	Position LatLng   `json:"position"`
	Label    string   `json:"label"` // 表示順の番号（1始まり）
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Color    string   `json:"color"`
	Icon     string   `json:"icon"`
	StopID   string   `json:"stop_id"`
}

// MapView プロバイダが保持する描画状態。クライアントはこれをそのまま地図に反映する
type MapView struct {
	Provider      string            `json:"provider"`
	Center        LatLng            `json:"center"`
	Zoom          int               `json:"zoom"`
	Markers       []Marker          `json:"markers"`
	RoutePolyline string            `json:"route_polyline,omitempty"` // Googleのエンコード済みポリライン
	RouteGeoJSON  *geojson.Geometry `json:"route_geojson,omitempty"`  // OSRMのGeoJSONジオメトリ
	Bounds        *LatLngBounds     `json:"bounds,omitempty"`
}

// GeocodeResult ジオコーディングの解決結果。場所IDはリッチバックエンドでのみ
// 設定され、後から場所詳細の取得に使われる
type GeocodeResult struct {
	Coords  LatLng `json:"coords"`
	PlaceID string `json:"place_id,omitempty"`
}

// RouteStatus 経路構築の結果ステータス
type RouteStatus string

const (
	RouteStatusReady             RouteStatus = "ready"
	RouteStatusInsufficientStops RouteStatus = "insufficient-stops"
	RouteStatusFailed            RouteStatus = "failed"
)

// RouteResult 経路構築の結果。失敗は例外ではなくステータスで表現する
type RouteResult struct {
	Status          RouteStatus `json:"status"`
	Summary         string      `json:"summary"`
	DurationMinutes int         `json:"duration_minutes,omitempty"`
	DistanceMeters  int         `json:"distance_meters,omitempty"`
}

// PlaceDetails リッチバックエンドから取得する場所の詳細情報
type PlaceDetails struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	Website          string   `json:"website,omitempty"`
	URL              string   `json:"url,omitempty"`
	OpeningHours     []string `json:"opening_hours,omitempty"`
	Photos           []string `json:"photos,omitempty"` // 写真参照トークン（最大6件）
}

// 地図の初期表示は日本全体（東京中心）
var DefaultMapCenter = LatLng{Lat: 35.6762, Lng: 139.6503}

const (
	DefaultMapZoom = 6  // 初期表示のズーム
	SingleStopZoom = 12 // ストップが1件だけの時のズーム
)
