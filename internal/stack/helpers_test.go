package stack

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/layer"
	"github.com/annel0/biome-stack/internal/noise"
	"github.com/annel0/biome-stack/internal/vec"
)

// fakeLayer - слой с заранее заданными чанками.
// Точечный запрос возвращает биом "layer-<index>".
type fakeLayer struct {
	mu        sync.Mutex
	index     int
	seed      int64
	point     biome.Resolved
	chunks    map[vec.Vec2]*layer.Chunk
	processor layer.ChunkProcessor
	cleared   int
}

func (f *fakeLayer) Biome(x, y, z float64) biome.Resolved { return f.point }

func (f *fakeLayer) Chunk(chunkX, chunkZ int, forceUpdate bool) *layer.Chunk {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chunks[vec.Vec2{X: chunkX, Z: chunkZ}]
}

func (f *fakeLayer) ClearCache() {
	f.mu.Lock()
	f.cleared++
	f.mu.Unlock()
}

func (f *fakeLayer) SetChunkProcessor(p layer.ChunkProcessor) { f.processor = p }

// fakeStack создаёт стек из fakeLayer; каждый слой знает свой индекс
func fakeStack(t *testing.T, layerHeight, worldHeight int, opts ...Option) (*Stack, []*fakeLayer) {
	t.Helper()

	var fakes []*fakeLayer
	ctor := func(seed int64, size int, picker *biome.Picker) layer.Layer {
		f := &fakeLayer{
			index:  len(fakes),
			seed:   seed,
			point:  &biome.Definition{Key: fmt.Sprintf("layer-%d", len(fakes))},
			chunks: make(map[vec.Vec2]*layer.Chunk),
		}
		fakes = append(fakes, f)
		return f
	}

	s, err := New(12345, 16, testPicker(t), layerHeight, worldHeight, ctor, opts...)
	require.NoError(t, err)
	return s, fakes
}

func testPicker(t *testing.T) *biome.Picker {
	t.Helper()
	reg, err := biome.NewMapRegistry(
		&biome.Definition{Key: "plains", Weight: 4},
		&biome.Definition{Key: "forest", Weight: 3},
		&biome.Definition{Key: "chasm", Weight: 2, Vertical: true},
		&biome.Definition{Key: "rift", Weight: 1, Vertical: true},
	)
	require.NoError(t, err)
	p, err := biome.NewPickerFromRegistry(reg, nil, "plains")
	require.NoError(t, err)
	return p
}

func zeroNoise() Option {
	return WithNoise(func(int64) noise.Source { return noise.Zero })
}

func constNoise(v float64) Option {
	return WithNoise(func(int64) noise.Source { return noise.Constant(v) })
}

// snapshot возвращает идентификаторы биомов всех слоёв для чанка
func snapshot(chunks []*layer.Chunk) [][][]string {
	out := make([][][]string, len(chunks))
	for i, ch := range chunks {
		if ch != nil {
			out[i] = ch.IDs()
		}
	}
	return out
}

// requireVerticalConsistency проверяет: если хоть один слой колонки вертикален,
// все слои содержат этот же биом
func requireVerticalConsistency(t *testing.T, chunks []*layer.Chunk) {
	t.Helper()

	side := chunks[0].Side()
	for x := 0; x < side; x++ {
		for z := 0; z < side; z++ {
			var vertical biome.Resolved
			for _, ch := range chunks {
				if b := ch.Biome(x, z); b != nil && b.IsVertical() {
					vertical = b
					break
				}
			}
			if vertical == nil {
				continue
			}
			for i, ch := range chunks {
				require.Truef(t, biome.Same(vertical, ch.Biome(x, z)),
					"layer %d column %d:%d: want %s", i, x, z, vertical.ID())
			}
		}
	}
}
