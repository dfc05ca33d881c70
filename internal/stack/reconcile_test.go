package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/layer"
	"github.com/annel0/biome-stack/internal/vec"
)

var (
	plains = &biome.Definition{Key: "plains", Weight: 1}
	forest = &biome.Definition{Key: "forest", Weight: 1}
	chasm  = &biome.Definition{Key: "chasm", Weight: 1, Vertical: true}
	rift   = &biome.Definition{Key: "rift", Weight: 1, Vertical: true}
)

// filledChunk создаёт чанк side×side, заполненный b
func filledChunk(side int, b biome.Resolved) *layer.Chunk {
	ch := layer.NewChunk(vec.Vec2{}, side)
	for x := 0; x < side; x++ {
		for z := 0; z < side; z++ {
			ch.SetBiome(x, z, b)
		}
	}
	return ch
}

func chunksOf(fakes []*fakeLayer) []*layer.Chunk {
	out := make([]*layer.Chunk, len(fakes))
	for i, f := range fakes {
		out[i] = f.chunks[vec.Vec2{}]
	}
	return out
}

func TestReconcile_PropagatesVerticalBiome(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	require.Len(t, fakes, 4)

	base := []biome.Resolved{plains, forest, plains, forest}
	for i, f := range fakes {
		ch := filledChunk(4, base[i])
		ch.SetBiome(2, 1, nil)
		f.chunks[vec.Vec2{}] = ch
	}
	fakes[1].chunks[vec.Vec2{}].SetBiome(2, 1, chasm)

	before := snapshot(chunksOf(fakes))
	s.onChunkCreation(0, 0, 4)

	for i, f := range fakes {
		ch := f.chunks[vec.Vec2{}]
		assert.Equal(t, chasm, ch.Biome(2, 1), "слой %d", i)

		for x := 0; x < 4; x++ {
			for z := 0; z < 4; z++ {
				if x == 2 && z == 1 {
					continue
				}
				assert.Equal(t, before[i][x][z], ch.Biome(x, z).ID(), "слой %d колонка %d:%d", i, x, z)
			}
		}
	}
}

func TestReconcile_FirstLayerWins(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	for _, f := range fakes {
		f.chunks[vec.Vec2{}] = filledChunk(4, plains)
	}

	fakes[2].chunks[vec.Vec2{}].SetBiome(0, 0, chasm)
	fakes[3].chunks[vec.Vec2{}].SetBiome(0, 0, rift)
	fakes[0].chunks[vec.Vec2{}].SetBiome(3, 3, rift)
	fakes[3].chunks[vec.Vec2{}].SetBiome(3, 3, chasm)

	s.onChunkCreation(0, 0, 4)

	for _, f := range fakes {
		ch := f.chunks[vec.Vec2{}]
		assert.Equal(t, chasm, ch.Biome(0, 0), "нижний слой имеет приоритет")
		assert.Equal(t, rift, ch.Biome(3, 3), "нижний слой имеет приоритет")
	}
	requireVerticalConsistency(t, chunksOf(fakes))
}

func TestReconcile_NonVerticalUntouched(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	for i, f := range fakes {
		if i%2 == 0 {
			f.chunks[vec.Vec2{}] = filledChunk(4, plains)
		} else {
			f.chunks[vec.Vec2{}] = filledChunk(4, forest)
		}
	}
	before := snapshot(chunksOf(fakes))

	s.onChunkCreation(0, 0, 4)
	assert.Equal(t, before, snapshot(chunksOf(fakes)))
}

func TestReconcile_MissingChunkSkipped(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	for i, f := range fakes {
		if i == 2 {
			continue
		}
		f.chunks[vec.Vec2{}] = filledChunk(4, plains)
	}
	fakes[3].chunks[vec.Vec2{}].SetBiome(1, 2, chasm)

	assert.NotPanics(t, func() { s.onChunkCreation(0, 0, 4) })

	for i, f := range fakes {
		if i == 2 {
			assert.Nil(t, f.chunks[vec.Vec2{}])
			continue
		}
		assert.Equal(t, chasm, f.chunks[vec.Vec2{}].Biome(1, 2), "слой %d", i)
	}
}

func TestReconcile_EmptyCellsContributeNothing(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	for _, f := range fakes {
		f.chunks[vec.Vec2{}] = layer.NewChunk(vec.Vec2{}, 4)
	}
	fakes[0].chunks[vec.Vec2{}].SetBiome(0, 3, rift)

	s.onChunkCreation(0, 0, 4)

	for _, f := range fakes {
		ch := f.chunks[vec.Vec2{}]
		assert.Equal(t, rift, ch.Biome(0, 3))
		assert.Nil(t, ch.Biome(1, 1), "пустые ячейки остаются пустыми")
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	for i, f := range fakes {
		ch := filledChunk(4, plains)
		ch.SetBiome(i, i, chasm)
		ch.SetBiome(3-i, i, forest)
		f.chunks[vec.Vec2{}] = ch
	}

	s.onChunkCreation(0, 0, 4)
	once := snapshot(chunksOf(fakes))

	s.onChunkCreation(0, 0, 4)
	assert.Equal(t, once, snapshot(chunksOf(fakes)))
	requireVerticalConsistency(t, chunksOf(fakes))
}

func TestReconcile_SkipsWhileSameChunkInProgress(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	for _, f := range fakes {
		f.chunks[vec.Vec2{}] = filledChunk(4, plains)
	}
	fakes[1].chunks[vec.Vec2{}].SetBiome(0, 0, chasm)

	// Имитируем идущий проход по этой координате
	s.reconciling[vec.Vec2{}] = struct{}{}
	s.onChunkCreation(0, 0, 4)
	assert.Equal(t, plains, fakes[0].chunks[vec.Vec2{}].Biome(0, 0), "вложенный вызов не должен выполнять проход")

	s.release(vec.Vec2{})
	s.onChunkCreation(0, 0, 4)
	assert.Equal(t, chasm, fakes[0].chunks[vec.Vec2{}].Biome(0, 0))
	assert.Empty(t, s.reconciling)
}
