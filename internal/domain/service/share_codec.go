package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"Tabinote-App/internal/domain/model"
)

// DecodeError 共有トークンの復元失敗を表す。回復可能なエラーで、
// 呼び出し側はローカル保存へフォールバックする
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("共有トークンの復元に失敗: %s: %v", e.Reason, e.Err)
	}
	return "共有トークンの復元に失敗: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// InvalidFormatError インポートファイルの形式不正を表す。
// 現在の状態には一切触れずにインポートを拒否する
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return "インポートファイルの形式が不正です: " + e.Reason
}

// EncodeShare 旅行プランをURLセーフな共有トークンに変換する。
// 正規JSONをbase64url（パディングなし）でエンコードした文字列になる
func EncodeShare(trip *model.Trip) (string, error) {
	data, err := json.Marshal(trip)
	if err != nil {
		return "", fmt.Errorf("共有トークンの生成に失敗: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeShare 共有トークンから旅行プランを復元する。
// base64不正・JSON不正・Trip形状不一致はいずれも *DecodeError になる
func DecodeShare(token string) (*model.Trip, error) {
	// パディング付きで渡されても受け付ける
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return nil, &DecodeError{Reason: "base64のデコードに失敗", Err: err}
	}

	trip, err := parseTripJSON(raw)
	if err != nil {
		return nil, &DecodeError{Reason: "JSONの解析に失敗", Err: err}
	}
	return trip, nil
}

// ToFile 旅行プランをエクスポート用のJSONドキュメントに変換する
func ToFile(trip *model.Trip) ([]byte, error) {
	data, err := json.MarshalIndent(trip, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("エクスポートJSONの生成に失敗: %w", err)
	}
	return data, nil
}

// FromFile インポートファイルから旅行プランを復元する。
// days・stopsを欠くドキュメントは *InvalidFormatError として拒否する
func FromFile(data []byte) (*model.Trip, error) {
	trip, err := parseTripJSON(data)
	if err != nil {
		return nil, &InvalidFormatError{Reason: err.Error()}
	}
	return trip, nil
}

// ExportFileName エクスポートファイルのダウンロード名を組み立てる
func ExportFileName(trip *model.Trip) string {
	name := trip.TripName
	if name == "" {
		name = "japan-trip"
	}
	return name + ".json"
}

// parseTripJSON 正規JSONをTripに復元し、形状を検証する。
// daysとstopsの両キーを持たないドキュメントはTripとして受け付けない
func parseTripJSON(data []byte) (*model.Trip, error) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, err
	}
	if _, ok := shape["days"]; !ok {
		return nil, fmt.Errorf("daysキーがありません")
	}
	if _, ok := shape["stops"]; !ok {
		return nil, fmt.Errorf("stopsキーがありません")
	}

	var trip model.Trip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, err
	}
	trip.Normalize()
	return &trip, nil
}
