package repository

import (
	"context"

	"Tabinote-App/internal/domain/model"
)

// MapsProvider 地図バックエンドの能力契約。リッチバックエンド（Google）と
// フォールバックバックエンド（OpenStreetMap）が同一の契約を満たす。
// 描画系メソッドはMapViewの状態を更新し、クライアントはそれを取得して描画する
type MapsProvider interface {
	// Name プロバイダ識別子（"google" / "osm"）
	Name() string

	// Initialize セッション開始時の初期化チェック。失敗はフォールバック選択の契機になる
	Initialize(ctx context.Context) error

	// Geocode 場所の文字列を座標に解決する。見つからない場合は (nil, nil)。
	// リッチバックエンドは場所IDも合わせて返す
	Geocode(ctx context.Context, query string) (*model.GeocodeResult, error)

	// PlaceDetails 場所IDから詳細情報を取得する。非対応のバックエンドは (nil, nil)
	PlaceDetails(ctx context.Context, placeID string) (*model.PlaceDetails, error)

	// RenderMarkers 表示順のストップ列をマーカーとして描画状態に反映する
	RenderMarkers(stops []*model.Stop)

	// RenderRoute 表示順のストップ列で経路を構築する。
	// 0件は何もせず、1件は中心寄せのみで、いずれもinsufficient-stopsを報告する。
	// 2件以上で経路検索を1回だけ呼び、失敗時はマーカーを残したままfailedを報告する
	RenderRoute(ctx context.Context, stops []*model.Stop, mode model.TravelMode) *model.RouteResult

	// Clear マーカーと経路を描画状態から取り除く
	Clear()

	// Focus 指定ストップへパン・ズームする
	Focus(stop *model.Stop)

	// MapView 現在の描画状態を取得する
	MapView() *model.MapView
}
