package maps

import (
	"context"
	"log"

	"Tabinote-App/internal/domain/repository"
)

// SelectProvider 認証情報の有無でバックエンドを選択する。
// APIキーがありリッチバックエンドの初期化に成功すればGoogleを、
// それ以外はフォールバックのOpenStreetMapを使う。
// この判定はセッション開始時（およびキー保存・クリア時）にのみ行う
func SelectProvider(ctx context.Context, apiKey string) repository.MapsProvider {
	if apiKey != "" {
		google := NewGoogleMapsProvider(apiKey)
		if err := google.Initialize(ctx); err == nil {
			log.Printf("✅ Google Mapsバックエンドを使用します")
			return google
		} else {
			log.Printf("⚠️ Google Mapsの初期化に失敗、OpenStreetMapへフォールバック: %v", err)
		}
	}

	osm := NewOSMMapsProvider()
	log.Printf("🗺️ OpenStreetMapバックエンドを使用します")
	return osm
}
