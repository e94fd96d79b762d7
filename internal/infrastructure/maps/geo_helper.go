package maps

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"

	"Tabinote-App/internal/domain/model"
)

// fitBounds 全ストップを含む表示範囲を計算する。factorは範囲サイズに対する余白比率
func fitBounds(stops []*model.Stop, factor float64) *model.LatLngBounds {
	if len(stops) == 0 {
		return nil
	}

	first := orb.Point{stops[0].Lng, stops[0].Lat}
	bound := orb.Bound{Min: first, Max: first}
	for _, s := range stops[1:] {
		bound = bound.Extend(orb.Point{s.Lng, s.Lat})
	}

	padding := math.Max(bound.Right()-bound.Left(), bound.Top()-bound.Bottom()) * factor
	if padding < 0.001 {
		padding = 0.001 // 最低でも約100mの余白を確保
	}
	bound = bound.Pad(padding)

	return &model.LatLngBounds{
		MinLat: bound.Bottom(),
		MinLng: bound.Left(),
		MaxLat: bound.Top(),
		MaxLng: bound.Right(),
	}
}

// boundsCenter 表示範囲の中心座標を求める
func boundsCenter(b *model.LatLngBounds) model.LatLng {
	return model.LatLng{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: (b.MinLng + b.MaxLng) / 2,
	}
}

// buildMarkers 表示順のストップ列からマーカー列を組み立てる（番号は1始まり）
func buildMarkers(stops []*model.Stop) []model.Marker {
	markers := make([]model.Marker, 0, len(stops))
	for i, s := range stops {
		markers = append(markers, model.Marker{
			Position: s.ToLatLng(),
			Label:    strconv.Itoa(i + 1),
			Title:    fmt.Sprintf("%d. %s", i+1, s.Place),
			Category: s.Category,
			Color:    model.GetCategoryMarkerColor(s.Category),
			Icon:     model.GetCategoryIcon(s.Category),
			StopID:   s.ID,
		})
	}
	return markers
}

// newMapView 初期表示（日本全体）の描画状態を作成する
func newMapView(provider string) *model.MapView {
	return &model.MapView{
		Provider: provider,
		Center:   model.DefaultMapCenter,
		Zoom:     model.DefaultMapZoom,
		Markers:  []model.Marker{},
	}
}

// clearMapView マーカーと経路を描画状態から取り除く（中心とズームは保持）
func clearMapView(view *model.MapView) {
	view.Markers = []model.Marker{}
	view.RoutePolyline = ""
	view.RouteGeoJSON = nil
	view.Bounds = nil
}
