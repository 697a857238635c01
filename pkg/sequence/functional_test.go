package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterCollect(t *testing.T) {
	even := From([]int{1, 2, 3, 4, 5, 6}).Filter(func(v int) bool { return v%2 == 0 }).Collect()
	assert.Equal(t, []int{2, 4, 6}, even)
}

func TestFindStopsEarly(t *testing.T) {
	visited := 0
	v, ok := From([]int{3, 5, 8, 9}).Find(func(v int) bool {
		visited++
		return v > 4
	})
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, 2, visited)

	_, ok = From([]int{}).Find(func(int) bool { return true })
	assert.False(t, ok)
}

func TestAny(t *testing.T) {
	names := From([]string{"Chest", "Chest 1", "Furnace"})
	assert.True(t, names.Any(func(s string) bool { return s == "Chest 1" }))
	assert.False(t, names.Any(func(s string) bool { return s == "Chest 2" }))
}

func TestPartition(t *testing.T) {
	small, big := From([]int{10, 1, 20, 2}).Partition(func(v int) bool { return v < 5 })
	assert.Equal(t, []int{1, 2}, small)
	assert.Equal(t, []int{10, 20}, big)
}

func TestMap(t *testing.T) {
	lengths := Map(From([]string{"a", "bb", "cc"}), func(s string) int { return len(s) })
	assert.Equal(t, []int{1, 2, 2}, lengths.Collect())
}
