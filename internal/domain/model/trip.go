package model

import (
	"fmt"
	"sort"
)

// Trip 旅行プラン全体の正規状態。共有リンク・エクスポートのワイヤ形式と同一のJSON形状を持つ
type Trip struct {
	TripName    string             `json:"tripName"`
	TravelMode  TravelMode         `json:"travelMode"`
	Days        []string           `json:"days"`        // "YYYY-MM-DD" 昇順・重複なし
	SelectedDay string             `json:"selectedDay"` // 未選択の場合は空文字列
	Stops       map[string][]*Stop `json:"stops"`       // 日付 → 表示順のストップ列
}

// NewTrip 空の旅行プランを作成する
func NewTrip() *Trip {
	return &Trip{
		TravelMode: TravelModeTransit,
		Days:       []string{},
		Stops:      map[string][]*Stop{},
	}
}

// Normalize デコード直後のnilスライス・nilマップを初期化し、daysを昇順に揃える
func (t *Trip) Normalize() {
	if t.Days == nil {
		t.Days = []string{}
	}
	if t.Stops == nil {
		t.Stops = map[string][]*Stop{}
	}
	if t.TravelMode == "" {
		t.TravelMode = TravelModeTransit
	}
	sort.Strings(t.Days)
}

// AddDay 日付を追加して選択状態にする。既存の日付なら並び替えのみ（冪等）
func (t *Trip) AddDay(date string) {
	if !t.HasDay(date) {
		t.Days = append(t.Days, date)
	}
	sort.Strings(t.Days)
	if t.Stops[date] == nil {
		t.Stops[date] = []*Stop{}
	}
	t.SelectedDay = date
}

// HasDay 日付が登録済みか判定する
func (t *Trip) HasDay(date string) bool {
	for _, d := range t.Days {
		if d == date {
			return true
		}
	}
	return false
}

// SelectDay 登録済みの日付を選択する
func (t *Trip) SelectDay(date string) error {
	if !t.HasDay(date) {
		return fmt.Errorf("登録されていない日付です: %s", date)
	}
	t.SelectedDay = date
	return nil
}

// AddStop 指定日の末尾にストップを追加する（座標確定済みであることが前提）
func (t *Trip) AddStop(date string, stop *Stop) error {
	if !t.HasDay(date) {
		return fmt.Errorf("登録されていない日付です: %s", date)
	}
	t.Stops[date] = append(t.Stops[date], stop)
	return nil
}

// RemoveStop 指定日からIDの一致するストップだけを取り除く。
// 全量リストに対して削除するため、フィルタで非表示のストップが消えることはない
func (t *Trip) RemoveStop(date, id string) bool {
	arr := t.Stops[date]
	for i, s := range arr {
		if s.ID == id {
			t.Stops[date] = append(arr[:i:i], arr[i+1:]...)
			return true
		}
	}
	return false
}

// FindStop 指定日からIDでストップを探す
func (t *Trip) FindStop(date, id string) *Stop {
	for _, s := range t.Stops[date] {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// ReorderStop フィルタ適用後の表示リスト上での並び替えを、全量リストへ書き戻す。
// 表示中のストップが占めていた位置に新しい順序で再配置するので、
// 非表示ストップの位置と相対順序はそのまま保たれる
func (t *Trip) ReorderStop(date string, filters CategoryFilterSet, fromIndex, toIndex int) error {
	full := t.Stops[date]

	// 全量リスト中で表示対象が占める添字を収集
	visibleIdx := make([]int, 0, len(full))
	for i, s := range full {
		if filters.Allows(s.Category) {
			visibleIdx = append(visibleIdx, i)
		}
	}

	if fromIndex < 0 || fromIndex >= len(visibleIdx) || toIndex < 0 || toIndex >= len(visibleIdx) {
		return fmt.Errorf("並び替えの位置が不正です: from=%d, to=%d", fromIndex, toIndex)
	}

	visible := make([]*Stop, len(visibleIdx))
	for i, idx := range visibleIdx {
		visible[i] = full[idx]
	}
	moved := visible[fromIndex]
	visible = append(visible[:fromIndex], visible[fromIndex+1:]...)
	visible = append(visible[:toIndex], append([]*Stop{moved}, visible[toIndex:]...)...)

	for i, idx := range visibleIdx {
		full[idx] = visible[i]
	}
	return nil
}

// RenameTrip プラン名を変更する
func (t *Trip) RenameTrip(name string) {
	t.TripName = name
}

// SetTravelMode 移動手段を変更する
func (t *Trip) SetTravelMode(mode TravelMode) error {
	if !IsValidTravelMode(mode) {
		return fmt.Errorf("対応していない移動手段です: %s", mode)
	}
	t.TravelMode = mode
	return nil
}
