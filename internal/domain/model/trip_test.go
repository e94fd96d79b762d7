package model

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStop(id string, cat Category, place string) *Stop {
	return &Stop{ID: id, Category: cat, Place: place, Lat: 35.0, Lng: 135.0}
}

func TestTripAddDay(t *testing.T) {
	log.Printf("🧪 日付追加のテスト開始")

	t.Run("日付は昇順で保持され追加した日が選択される", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-12")
		trip.AddDay("2025-04-10")
		trip.AddDay("2025-04-11")

		assert.Equal(t, []string{"2025-04-10", "2025-04-11", "2025-04-12"}, trip.Days)
		assert.Equal(t, "2025-04-11", trip.SelectedDay)
		assert.NotNil(t, trip.Stops["2025-04-11"])
	})

	t.Run("同じ日付を2回追加しても1件のまま", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")
		require.NoError(t, trip.AddStop("2025-04-10", newStop("s1", CategoryFood, "Ichiran")))

		trip.AddDay("2025-04-10")

		assert.Equal(t, []string{"2025-04-10"}, trip.Days)
		assert.Len(t, trip.Stops["2025-04-10"], 1, "既存のストップが消えてはいけない")
	})

	t.Run("登録していない日付は選択できない", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")

		err := trip.SelectDay("2025-12-31")
		assert.Error(t, err)
		assert.Equal(t, "2025-04-10", trip.SelectedDay)
	})
}

func TestTripRemoveStop(t *testing.T) {
	log.Printf("🧪 ストップ削除のテスト開始")

	t.Run("IDの一致するストップだけが消える", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")
		require.NoError(t, trip.AddStop("2025-04-10", newStop("s1", CategorySleep, "Hotel")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("s2", CategoryFood, "Ramen")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("s3", CategoryActivity, "Temple")))

		assert.True(t, trip.RemoveStop("2025-04-10", "s2"))

		ids := stopIDs(trip.Stops["2025-04-10"])
		assert.Equal(t, []string{"s1", "s3"}, ids)
	})

	t.Run("フィルタで非表示のストップは削除の影響を受けない", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")
		require.NoError(t, trip.AddStop("2025-04-10", newStop("hidden-sleep", CategorySleep, "Hotel")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("visible-food", CategoryFood, "Ramen")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("hidden-move", CategoryMove, "Station")))

		// sleepとmoveを非表示にした状態でvisible-foodを削除しても、
		// 削除はIDベースなので非表示ストップは全量リストに残る
		assert.True(t, trip.RemoveStop("2025-04-10", "visible-food"))

		ids := stopIDs(trip.Stops["2025-04-10"])
		assert.Equal(t, []string{"hidden-sleep", "hidden-move"}, ids)
	})

	t.Run("存在しないIDの削除はfalseを返す", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")
		assert.False(t, trip.RemoveStop("2025-04-10", "nope"))
	})
}

func TestTripReorderStop(t *testing.T) {
	log.Printf("🧪 ストップ並び替えのテスト開始")

	t.Run("全表示時は単純な並び替えになる", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, trip.AddStop("2025-04-10", newStop(id, CategoryFood, id)))
		}

		require.NoError(t, trip.ReorderStop("2025-04-10", NewCategoryFilterSet(), 0, 2))
		assert.Equal(t, []string{"b", "c", "a"}, stopIDs(trip.Stops["2025-04-10"]))
	})

	t.Run("フィルタ適用中の並び替えは非表示ストップの位置を保つ", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")
		require.NoError(t, trip.AddStop("2025-04-10", newStop("f1", CategoryFood, "Ramen")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("m1", CategoryMove, "Station")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("f2", CategoryFood, "Sushi")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("m2", CategoryMove, "Bus")))
		require.NoError(t, trip.AddStop("2025-04-10", newStop("f3", CategoryFood, "Cafe")))

		filters := NewCategoryFilterSet()
		filters.Move = false // 表示リストは [f1, f2, f3]

		// 表示リスト上で先頭のf1を末尾へ移動
		require.NoError(t, trip.ReorderStop("2025-04-10", filters, 0, 2))

		// 非表示のm1・m2は元の添字位置に留まり、表示対象だけが入れ替わる
		assert.Equal(t, []string{"f2", "m1", "f3", "m2", "f1"}, stopIDs(trip.Stops["2025-04-10"]))
		assert.Len(t, trip.Stops["2025-04-10"], 5, "並び替えでストップが失われてはいけない")
	})

	t.Run("表示リスト外の位置指定はエラー", func(t *testing.T) {
		trip := NewTrip()
		trip.AddDay("2025-04-10")
		require.NoError(t, trip.AddStop("2025-04-10", newStop("a", CategoryFood, "Ramen")))

		err := trip.ReorderStop("2025-04-10", NewCategoryFilterSet(), 0, 5)
		assert.Error(t, err)
	})
}

func TestTravelModeAndFilters(t *testing.T) {
	t.Run("移動手段のバリデーション", func(t *testing.T) {
		trip := NewTrip()
		assert.Equal(t, TravelModeTransit, trip.TravelMode, "デフォルトはTRANSIT")

		require.NoError(t, trip.SetTravelMode(TravelModeWalking))
		assert.Equal(t, TravelModeWalking, trip.TravelMode)

		assert.Error(t, trip.SetTravelMode("FLYING"))
		assert.Equal(t, TravelModeWalking, trip.TravelMode)
	})

	t.Run("フィルタのトグルと判定", func(t *testing.T) {
		filters := NewCategoryFilterSet()
		for _, cat := range GetAllCategories() {
			assert.True(t, filters.Allows(cat), "初期状態は全カテゴリ表示")
		}

		toggled, err := filters.Toggle(CategorySleep)
		require.NoError(t, err)
		assert.False(t, toggled.Allows(CategorySleep))
		assert.True(t, filters.Allows(CategorySleep), "元の集合は変化しない")

		_, err = filters.Toggle("unknown")
		var invalidErr *InvalidCategoryError
		assert.ErrorAs(t, err, &invalidErr)
	})
}

func stopIDs(stops []*Stop) []string {
	ids := make([]string, 0, len(stops))
	for _, s := range stops {
		ids = append(ids, s.ID)
	}
	return ids
}
