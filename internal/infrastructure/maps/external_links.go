package maps

import (
	"fmt"
	"net/url"
	"strings"

	"Tabinote-App/internal/domain/model"
)

// StopSearchURL ストップを外部の地図アプリで開くための検索URLを組み立てる
func StopSearchURL(stop *model.Stop) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(stop.Place)
}

// DayRouteURL 1日分の表示順ストップ列を外部の地図アプリでナビゲーションするためのURLを組み立てる。
// 最初が出発地・最後が目的地・中間が経由地になる
func DayRouteURL(stops []*model.Stop, mode model.TravelMode) (string, error) {
	if len(stops) < 2 {
		return "", fmt.Errorf("経路を開くには2件以上のストップが必要です")
	}

	origin := url.QueryEscape(stops[0].Place)
	destination := url.QueryEscape(stops[len(stops)-1].Place)
	viaPlaces := make([]string, 0, len(stops)-2)
	for _, s := range stops[1 : len(stops)-1] {
		viaPlaces = append(viaPlaces, s.Place)
	}
	waypoints := url.QueryEscape(strings.Join(viaPlaces, "|"))
	travelMode := strings.ToLower(string(mode))

	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%s&destination=%s&waypoints=%s&travelmode=%s",
		origin, destination, waypoints, travelMode,
	), nil
}
