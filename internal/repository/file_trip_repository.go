package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"Tabinote-App/internal/domain/model"
	"Tabinote-App/internal/domain/service"
)

// localStorage互換のキー名をそのままファイル名に使う
const (
	stateFileName = "jp_planner_state_v1.json"
	keyFileName   = "jp_planner_gm_key_v1"
)

// FileTripRepository 旅行プランとAPIキーをデータディレクトリ内のファイルに永続化する
type FileTripRepository struct {
	stateFile string
	keyFile   string
}

// NewFileTripRepository データディレクトリを用意してリポジトリを作成する
func NewFileTripRepository(dataDir string) (*FileTripRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("データディレクトリの作成に失敗: %w", err)
	}
	return &FileTripRepository{
		stateFile: filepath.Join(dataDir, stateFileName),
		keyFile:   filepath.Join(dataDir, keyFileName),
	}, nil
}

// Load 旅行プランを読み込む。共有トークンがあればそれを優先し、
// 復元に失敗した場合はローカル保存へフォールバックする。
// ローカル保存が無い・壊れている場合は空のプランを返す（エラーにはしない）
func (r *FileTripRepository) Load(shareToken string) *model.Trip {
	if shareToken != "" {
		trip, err := service.DecodeShare(shareToken)
		if err == nil {
			log.Printf("🔗 共有トークンから旅行プランを復元しました")
			return trip
		}
		log.Printf("⚠️ 共有トークンの復元に失敗、ローカル保存へフォールバック: %v", err)
	}

	data, err := os.ReadFile(r.stateFile)
	if err != nil {
		return model.NewTrip()
	}
	trip, err := service.FromFile(data)
	if err != nil {
		log.Printf("⚠️ ローカル保存の解析に失敗、空のプランから開始: %v", err)
		return model.NewTrip()
	}
	return trip
}

// Save 旅行プランを正規JSONで書き込む。トランザクションは持たず最後の書き込みが勝つ
func (r *FileTripRepository) Save(trip *model.Trip) error {
	data, err := service.ToFile(trip)
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.stateFile, data, 0o644); err != nil {
		return fmt.Errorf("旅行プランの保存に失敗: %w", err)
	}
	return nil
}

// Reset ローカル保存の状態エントリを削除する
func (r *FileTripRepository) Reset() error {
	if err := os.Remove(r.stateFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ローカル保存の削除に失敗: %w", err)
	}
	return nil
}

// LoadAPIKey 保存済みのプロバイダAPIキーを取得する（未保存なら空文字列）
func (r *FileTripRepository) LoadAPIKey() string {
	data, err := os.ReadFile(r.keyFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SaveAPIKey プロバイダAPIキーを保存する。空文字列はキーのクリアを意味する
func (r *FileTripRepository) SaveAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		if err := os.Remove(r.keyFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("APIキーの削除に失敗: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(r.keyFile, []byte(key), 0o600); err != nil {
		return fmt.Errorf("APIキーの保存に失敗: %w", err)
	}
	return nil
}
