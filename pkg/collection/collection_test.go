package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chhotalabhavik/cleanout/pkg/collection"
)

type pack struct {
	Shop  string
	Price float64
}

func TestMapFilterReject(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5}

	doubled := collection.Map(nums, func(n int) int { return n * 2 })
	assert.Equal(t, []int{2, 4, 6, 8, 10}, doubled)

	even := collection.Filter(nums, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	odd := collection.Reject(nums, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{1, 3, 5}, odd)

	assert.Nil(t, collection.Filter(nil, func(n int) bool { return true }))
}

func TestFirstLastContains(t *testing.T) {
	nums := []int{3, 7, 7, 9}

	first, ok := collection.First(nums, func(n int) bool { return n > 5 })
	assert.True(t, ok)
	assert.Equal(t, 7, first)

	last, ok := collection.Last(nums, func(n int) bool { return n < 9 })
	assert.True(t, ok)
	assert.Equal(t, 7, last)

	_, ok = collection.First(nums, func(n int) bool { return n > 100 })
	assert.False(t, ok)

	assert.True(t, collection.Contains(nums, func(n int) bool { return n == 9 }))
	assert.False(t, collection.Contains(nums, func(n int) bool { return n == 4 }))
}

func TestGroupByAndKeyBy(t *testing.T) {
	items := []pack{
		{Shop: "ravi", Price: 100},
		{Shop: "meena", Price: 50},
		{Shop: "ravi", Price: 75},
	}

	grouped := collection.GroupBy(items, func(p pack) string { return p.Shop })
	assert.Len(t, grouped, 2)
	assert.Len(t, grouped["ravi"], 2)
	assert.Len(t, grouped["meena"], 1)

	keyed := collection.KeyBy(items, func(p pack) string { return p.Shop })
	assert.Len(t, keyed, 2)
	// Last element wins on duplicate keys.
	assert.Equal(t, 75.0, keyed["ravi"].Price)
}

func TestUniqueAndUniqueBy(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, collection.Unique([]int{1, 2, 1, 3, 2}))

	items := []pack{
		{Shop: "ravi", Price: 100},
		{Shop: "ravi", Price: 75},
		{Shop: "meena", Price: 50},
	}
	uniq := collection.UniqueBy(items, func(p pack) string { return p.Shop })
	assert.Len(t, uniq, 2)
	// First occurrence is kept.
	assert.Equal(t, 100.0, uniq[0].Price)
}

func TestChunk(t *testing.T) {
	chunks := collection.Chunk([]int{1, 2, 3, 4, 5}, 2)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)

	assert.Nil(t, collection.Chunk([]int{1, 2}, 0))
	assert.Nil(t, collection.Chunk[int](nil, 3))
}

func TestReduceAndSum(t *testing.T) {
	product := collection.Reduce([]int{2, 3, 4}, 1, func(carry, n int) int { return carry * n })
	assert.Equal(t, 24, product)

	items := []pack{{Price: 100}, {Price: 50}, {Price: 75}}
	total := collection.Sum(items, func(p pack) float64 { return p.Price })
	assert.Equal(t, 225.0, total)
}

func TestSortBy(t *testing.T) {
	items := []pack{{Shop: "c"}, {Shop: "a"}, {Shop: "b"}}
	collection.SortBy(items, func(a, b pack) bool { return a.Shop < b.Shop })
	assert.Equal(t, "a", items[0].Shop)
	assert.Equal(t, "c", items[2].Shop)
}

func TestFlattenReverse(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4}, collection.Flatten([][]int{{1, 2}, {3}, {4}}))
	assert.Equal(t, []int{3, 2, 1}, collection.Reverse([]int{1, 2, 3}))
}

func TestTakeSkipPaginate(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, collection.Take(nums, 2))
	assert.Equal(t, nums, collection.Take(nums, 10))
	assert.Equal(t, []int{4, 5}, collection.Skip(nums, 3))
	assert.Nil(t, collection.Skip(nums, 10))

	assert.Equal(t, []int{3, 4}, collection.Paginate(nums, 2, 2))
	assert.Equal(t, []int{5}, collection.Paginate(nums, 3, 2))
	assert.Nil(t, collection.Paginate(nums, 4, 2))
	// Page below 1 clamps to the first page.
	assert.Equal(t, []int{1, 2}, collection.Paginate(nums, 0, 2))
}
