package service

import (
	"fmt"
	"sort"

	"Tabinote-App/internal/domain/model"
)

// timelineTimeSentinel 時刻未設定のストップをタイムライン上で末尾に送るための番兵値
const timelineTimeSentinel = "99:99"

// DayPill 日付選択ピルの表示状態
type DayPill struct {
	Date   string `json:"date"`
	Active bool   `json:"active"`
}

// StopEntry ストップ一覧の1行（1始まりの表示番号付き）
type StopEntry struct {
	Index     int            `json:"index"`
	ID        string         `json:"id"`
	Category  model.Category `json:"category"`
	Icon      string         `json:"icon"`
	Label     string         `json:"label"`
	Place     string         `json:"place"`
	TimeRange string         `json:"time_range"`
	Notes     string         `json:"notes,omitempty"`
	Day       string         `json:"day"`
}

// TimelineBlock タイムライン表示の1ブロック
type TimelineBlock struct {
	Index     int            `json:"index"`
	ID        string         `json:"id"`
	Category  model.Category `json:"category"`
	Label     string         `json:"label"`
	Place     string         `json:"place"`
	TimeRange string         `json:"time_range"`
	Notes     string         `json:"notes,omitempty"`
}

// PlanViews Tripとフィルタから導出される表示状態一式
type PlanViews struct {
	Days      []DayPill       `json:"days"`
	Stops     []StopEntry     `json:"stops"`
	Timeline  []TimelineBlock `json:"timeline"`
	TimeSlots []string        `json:"time_slots"`
}

// VisibleStops 指定日のストップ列にカテゴリフィルタを適用した表示リストを導出する。
// 一覧・タイムライン・経路・削除・並び替えはすべてこの1本の導出を使う
func VisibleStops(trip *model.Trip, day string, filters model.CategoryFilterSet) []*model.Stop {
	if day == "" {
		return nil
	}
	full := trip.Stops[day]
	visible := make([]*model.Stop, 0, len(full))
	for _, s := range full {
		if filters.Allows(s.Category) {
			visible = append(visible, s)
		}
	}
	return visible
}

// BuildViews 日付ピル・ストップ一覧・タイムラインをまとめて再計算する
func BuildViews(trip *model.Trip, filters model.CategoryFilterSet) *PlanViews {
	views := &PlanViews{
		Days:      make([]DayPill, 0, len(trip.Days)),
		Stops:     []StopEntry{},
		Timeline:  []TimelineBlock{},
		TimeSlots: timelineTimeSlots(),
	}

	for _, d := range trip.Days {
		views.Days = append(views.Days, DayPill{Date: d, Active: d == trip.SelectedDay})
	}

	visible := VisibleStops(trip, trip.SelectedDay, filters)
	for i, s := range visible {
		views.Stops = append(views.Stops, StopEntry{
			Index:     i + 1,
			ID:        s.ID,
			Category:  s.Category,
			Icon:      model.GetCategoryIcon(s.Category),
			Label:     model.GetCategoryLabel(s.Category),
			Place:     s.Place,
			TimeRange: TimeRangeLabel(s),
			Notes:     s.Notes,
			Day:       trip.SelectedDay,
		})
	}

	for i, s := range sortForTimeline(visible) {
		views.Timeline = append(views.Timeline, TimelineBlock{
			Index:     i + 1,
			ID:        s.ID,
			Category:  s.Category,
			Label:     model.GetCategoryLabel(s.Category),
			Place:     s.Place,
			TimeRange: TimeRangeLabel(s),
			Notes:     s.Notes,
		})
	}

	return views
}

// TimeRangeLabel ストップの時間帯を表示用文字列にする（未設定は "—"）
func TimeRangeLabel(s *model.Stop) string {
	if !s.HasTime() {
		return "—"
	}
	label := s.StartTime
	if s.EndTime != "" {
		label += "–" + s.EndTime
	}
	return label
}

// sortForTimeline 開始時刻を持つストップが1つでもあれば開始時刻の昇順に並べたコピーを返す。
// 時刻未設定のストップは番兵値で末尾に回る。元のスライスは変更しない
func sortForTimeline(visible []*model.Stop) []*model.Stop {
	anyTime := false
	for _, s := range visible {
		if s.StartTime != "" {
			anyTime = true
			break
		}
	}
	if !anyTime {
		return visible
	}

	sorted := make([]*model.Stop, len(visible))
	copy(sorted, visible)
	sort.SliceStable(sorted, func(i, j int) bool {
		return timelineKey(sorted[i]) < timelineKey(sorted[j])
	})
	return sorted
}

func timelineKey(s *model.Stop) string {
	if s.StartTime == "" {
		return timelineTimeSentinel
	}
	return s.StartTime
}

// timelineTimeSlots タイムライン左列の時刻スロット（06:00〜22:00）
func timelineTimeSlots() []string {
	slots := make([]string, 0, 17)
	for h := 6; h <= 22; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}
