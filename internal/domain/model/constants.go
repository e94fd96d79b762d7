package model

// Category ストップの分類
type Category string

const (
	CategorySleep    Category = "sleep"
	CategoryFood     Category = "food"
	CategoryActivity Category = "activity"
	CategoryMove     Category = "move"
)

// TravelMode 経路検索で使う移動手段
type TravelMode string

const (
	TravelModeDriving   TravelMode = "DRIVING"
	TravelModeTransit   TravelMode = "TRANSIT"
	TravelModeWalking   TravelMode = "WALKING"
	TravelModeBicycling TravelMode = "BICYCLING"
)

// CategoryLabelMap カテゴリIDから表示ラベルへのマッピング
var CategoryLabelMap = map[Category]string{
	CategorySleep:    "Sleep/Hotel",
	CategoryFood:     "Foodspot",
	CategoryActivity: "Activity",
	CategoryMove:     "Move",
}

// CategoryIconMap カテゴリIDからアイコンへのマッピング
var CategoryIconMap = map[Category]string{
	CategorySleep:    "🛏️",
	CategoryFood:     "🍜",
	CategoryActivity: "🎌",
	CategoryMove:     "🚆",
}

// CategoryMarkerColorMap カテゴリIDからマーカー色へのマッピング
var CategoryMarkerColorMap = map[Category]string{
	CategorySleep:    "#7E57C2",
	CategoryFood:     "#ff7043",
	CategoryActivity: "#26a69a",
	CategoryMove:     "#42a5f5",
}

// GetCategoryLabel カテゴリの表示ラベルを取得する
func GetCategoryLabel(cat Category) string {
	if label, ok := CategoryLabelMap[cat]; ok {
		return label
	}
	return CategoryLabelMap[CategoryMove] // デフォルトはMove扱い
}

// GetCategoryIcon カテゴリのアイコンを取得する
func GetCategoryIcon(cat Category) string {
	if icon, ok := CategoryIconMap[cat]; ok {
		return icon
	}
	return CategoryIconMap[CategoryMove]
}

// GetCategoryMarkerColor カテゴリのマーカー色を取得する
func GetCategoryMarkerColor(cat Category) string {
	if color, ok := CategoryMarkerColorMap[cat]; ok {
		return color
	}
	return CategoryMarkerColorMap[CategoryMove]
}

// GetAllCategories 全カテゴリの一覧を取得する
func GetAllCategories() []Category {
	return []Category{
		CategorySleep,
		CategoryFood,
		CategoryActivity,
		CategoryMove,
	}
}

// GetAllTravelModes 全移動手段の一覧を取得する
func GetAllTravelModes() []TravelMode {
	return []TravelMode{
		TravelModeDriving,
		TravelModeTransit,
		TravelModeWalking,
		TravelModeBicycling,
	}
}

// IsValidCategory カテゴリが定義済みか判定する
func IsValidCategory(cat Category) bool {
	_, ok := CategoryLabelMap[cat]
	return ok
}

// IsValidTravelMode 移動手段が定義済みか判定する
func IsValidTravelMode(mode TravelMode) bool {
	for _, m := range GetAllTravelModes() {
		if m == mode {
			return true
		}
	}
	return false
}
