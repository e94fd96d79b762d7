package repository

import (
	"Tabinote-App/internal/domain/model"
)

// TripRepository 旅行プランのローカル永続化ゲートウェイ。
// Loadは共有トークンがあればそれを優先し、失敗時はローカル保存へフォールバックする。
// どのケースでもエラーではなく必ず使えるTripを返す
type TripRepository interface {
	Load(shareToken string) *model.Trip
	Save(trip *model.Trip) error
	Reset() error

	// プロバイダ認証情報（APIキー）の保存。空文字列の保存はクリアを意味する
	LoadAPIKey() string
	SaveAPIKey(key string) error
}
