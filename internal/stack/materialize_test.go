package stack

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/biome-stack/internal/layer"
)

func squareStack(t *testing.T, kind string) *Stack {
	t.Helper()
	ctor, err := layer.ConstructorFor(kind)
	require.NoError(t, err)

	s, err := New(2024, 4, testPicker(t), 32, 128, ctor)
	require.NoError(t, err)
	return s
}

func layerChunks(s *Stack, cx, cz int) []*layer.Chunk {
	out := make([]*layer.Chunk, s.LayerCount())
	for i := range out {
		out[i] = s.Layer(i).Chunk(cx, cz, false)
	}
	return out
}

func TestMaterializeChunk_ReconcilesRealLayers(t *testing.T) {
	for _, kind := range []string{layer.KindSquare, layer.KindPerlin} {
		s := squareStack(t, kind)

		for cx := -2; cx <= 2; cx++ {
			for cz := -2; cz <= 2; cz++ {
				chunks, err := s.MaterializeChunk(context.Background(), cx, cz)
				require.NoError(t, err)
				require.Len(t, chunks, 4)
				for _, ch := range chunks {
					require.NotNil(t, ch)
				}
				requireVerticalConsistency(t, chunks)
			}
		}
	}
}

func TestMaterializeChunk_ReturnsCachedChunks(t *testing.T) {
	s := squareStack(t, layer.KindSquare)

	first, err := s.MaterializeChunk(context.Background(), 1, 1)
	require.NoError(t, err)
	second, err := s.MaterializeChunk(context.Background(), 1, 1)
	require.NoError(t, err)

	for i := range first {
		assert.Same(t, first[i], second[i])
	}
	assert.Equal(t, snapshot(first), snapshot(second))
}

func TestPointQueries_TriggerReconciliation(t *testing.T) {
	s := squareStack(t, layer.KindSquare)

	// Точечные запросы материализуют чанки через обработчик слоёв без MaterializeChunk
	for i := 0; i < 200; i++ {
		s.Biome(float64(i)*3.7, float64(i%128), float64(i)*-2.3)
	}

	for cx := -4; cx <= 12; cx++ {
		for cz := -12; cz <= 4; cz++ {
			chunks := layerChunks(s, cx, cz)
			requireVerticalConsistency(t, chunks)
		}
	}
}

func TestMaterializeChunk_Concurrent(t *testing.T) {
	s := squareStack(t, layer.KindSquare)

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				cx, cz := i%5, (i+w)%5
				_, err := s.MaterializeChunk(context.Background(), cx, cz)
				assert.NoError(t, err)
				s.Biome(float64(cx*64+w), float64(w*8), float64(cz*64+i))
			}
		}(w)
	}
	wg.Wait()

	for cx := 0; cx < 5; cx++ {
		for cz := 0; cz < 5; cz++ {
			requireVerticalConsistency(t, layerChunks(s, cx, cz))
		}
	}
	assert.Empty(t, s.reconciling)
}

func TestMaterializeChunk_CancelledContext(t *testing.T) {
	s := squareStack(t, layer.KindSquare)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.MaterializeChunk(ctx, 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMaterializeRegion(t *testing.T) {
	s := squareStack(t, layer.KindSquare)

	res, err := s.MaterializeRegion(context.Background(), -1, -1, 1, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 12, res.Chunks)

	expected := 0
	for cx := -1; cx <= 1; cx++ {
		for cz := -1; cz <= 2; cz++ {
			chunks := layerChunks(s, cx, cz)
			requireVerticalConsistency(t, chunks)
			expected += CountVertical(chunks)
		}
	}
	assert.Equal(t, expected, res.VerticalColumns)
	assert.Greater(t, res.VerticalColumns, 0)

	_, err = s.MaterializeRegion(context.Background(), 2, 0, 1, 0, 1)
	assert.Error(t, err)
}

func TestMaterializeRegion_Cancelled(t *testing.T) {
	s := squareStack(t, layer.KindSquare)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.MaterializeRegion(ctx, 0, 0, 3, 3, 2)
	assert.Error(t, err)
}

func TestCountVertical(t *testing.T) {
	ch := filledChunk(2, plains)
	ch.SetBiome(1, 1, chasm)
	assert.Equal(t, 1, CountVertical([]*layer.Chunk{nil, ch}))
	assert.Equal(t, 0, CountVertical(nil))
}
