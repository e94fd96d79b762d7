package model

// Stop 1日の行程を構成するスポット（宿・食事・アクティビティ・移動地点）
type Stop struct {
	ID        string   `json:"id"`                // 作成時に採番されるユニークID
	Category  Category `json:"category"`          // sleep / food / activity / move
	StartTime string   `json:"startTime"`         // "HH:MM" または空文字列
	EndTime   string   `json:"endTime"`           // "HH:MM" または空文字列
	Place     string   `json:"place"`             // 場所のラベル（自由入力）
	Notes     string   `json:"notes"`             // メモ
	Lat       float64  `json:"lat"`               // ジオコーディング済みの緯度
	Lng       float64  `json:"lng"`               // ジオコーディング済みの経度
	PlaceID   string   `json:"placeId,omitempty"` // プロバイダ固有の場所ID（リッチバックエンドのみ）
}

// ToLatLng ストップの座標をLatLng型に変換
func (s *Stop) ToLatLng() LatLng {
	return LatLng{Lat: s.Lat, Lng: s.Lng}
}

// HasTime 開始・終了いずれかの時刻が設定されているか
func (s *Stop) HasTime() bool {
	return s.StartTime != "" || s.EndTime != ""
}

// CategoryFilterSet 表示対象カテゴリのトグル集合。セッション限りのUI状態で、
// 共有リンクにも永続化にも含まれない
type CategoryFilterSet struct {
	Sleep    bool `json:"sleep"`
	Food     bool `json:"food"`
	Activity bool `json:"activity"`
	Move     bool `json:"move"`
}

// NewCategoryFilterSet 全カテゴリ表示のフィルタ集合を作成する
func NewCategoryFilterSet() CategoryFilterSet {
	return CategoryFilterSet{Sleep: true, Food: true, Activity: true, Move: true}
}

// Allows カテゴリが表示対象か判定する
func (f CategoryFilterSet) Allows(cat Category) bool {
	switch cat {
	case CategorySleep:
		return f.Sleep
	case CategoryFood:
		return f.Food
	case CategoryActivity:
		return f.Activity
	case CategoryMove:
		return f.Move
	}
	return false
}

// Toggle カテゴリの表示状態を反転した新しい集合を返す
func (f CategoryFilterSet) Toggle(cat Category) (CategoryFilterSet, error) {
	switch cat {
	case CategorySleep:
		f.Sleep = !f.Sleep
	case CategoryFood:
		f.Food = !f.Food
	case CategoryActivity:
		f.Activity = !f.Activity
	case CategoryMove:
		f.Move = !f.Move
	default:
		return f, &InvalidCategoryError{Category: string(cat)}
	}
	return f, nil
}

// InvalidCategoryError 未知のカテゴリが指定されたことを表す
type InvalidCategoryError struct {
	Category string
}

func (e *InvalidCategoryError) Error() string {
	return "対応していないカテゴリです: " + e.Category
}
