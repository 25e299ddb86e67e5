package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{1, 2, 3}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 2}, []float32{-1, -2}), 1e-9)
	})

	t.Run("symmetry", func(t *testing.T) {
		a := []float32{0.3, -0.7, 0.2}
		b := []float32{0.1, 0.9, -0.4}
		assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("empty vectors", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	})

	t.Run("zero magnitude", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
	})
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5.0, Magnitude([]float32{3, 4}), 1e-9)
	assert.Equal(t, 0.0, Magnitude(nil))
}

func TestTopKByScore(t *testing.T) {
	items := []ScoredItem[string]{
		{Item: "a", Score: 0.1},
		{Item: "b", Score: 0.9},
		{Item: "c", Score: 0.5},
		{Item: "d", Score: 0.7},
		{Item: "e", Score: 0.3},
	}

	t.Run("k smaller than n", func(t *testing.T) {
		top := TopKByScore(items, 3)
		require.Len(t, top, 3)
		assert.Equal(t, "b", top[0].Item)
		assert.Equal(t, "d", top[1].Item)
		assert.Equal(t, "c", top[2].Item)
	})

	t.Run("k larger than n returns all sorted", func(t *testing.T) {
		top := TopKByScore(items, 10)
		require.Len(t, top, len(items))
		for i := 1; i < len(top); i++ {
			assert.GreaterOrEqual(t, top[i-1].Score, top[i].Score)
		}
	})

	t.Run("k zero", func(t *testing.T) {
		assert.Nil(t, TopKByScore(items, 0))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, TopKByScore[string](nil, 5))
	})

	t.Run("input not mutated", func(t *testing.T) {
		TopKByScore(items, 2)
		assert.Equal(t, "a", items[0].Item)
		assert.Equal(t, 0.1, items[0].Score)
	})
}
