package layer

import (
	"math"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/logging"
	"github.com/annel0/biome-stack/internal/noise"
	"github.com/annel0/biome-stack/internal/vec"
)

// Искажение границ ячеек (в долях ячейки)
const (
	warpFrequency = 0.5
	warpAmplitude = 0.35
	warpOffset    = 1013.0
)

// cellSampler возвращает значение из [0, 1) для ячейки; по нему пикер выбирает биом
type cellSampler func(cell vec.Vec2) float64

// grid - общая геометрия слоёв: квадратные ячейки size×size блоков,
// сгруппированные в чанки ChunkSide×ChunkSide ячеек.
type grid struct {
	seed   int64
	size   float64
	picker *biome.Picker
	warp   noise.Source
	sample cellSampler
	cache  *chunkCache
	logger *logging.Logger
}

func newGrid(seed int64, size int, picker *biome.Picker, sample cellSampler) *grid {
	if size < 1 {
		panic("layer: biome size must be positive")
	}
	if picker == nil {
		panic("layer: picker is nil")
	}
	return &grid{
		seed:   seed,
		size:   float64(size),
		picker: picker,
		warp:   noise.NewSimplex(seed),
		sample: sample,
		cache:  newChunkCache(),
		logger: logging.GetLayerLogger(),
	}
}

// cellAt возвращает ячейку, в которую попадает мировая точка (x, z)
func (g *grid) cellAt(x, z float64) vec.Vec2 {
	fx := x / g.size
	fz := z / g.size

	wx := fx + g.warp.Eval(fx*warpFrequency, fz*warpFrequency)*warpAmplitude
	wz := fz + g.warp.Eval(fx*warpFrequency+warpOffset, fz*warpFrequency+warpOffset)*warpAmplitude

	return vec.Vec2{X: int(math.Floor(wx)), Z: int(math.Floor(wz))}
}

// Biome возвращает биом слоя в точке; высота y на двумерный слой не влияет
func (g *grid) Biome(x, y, z float64) biome.Resolved {
	cell := g.cellAt(x, z)
	pos := cell.ChunkOf(ChunkSide)

	ch := g.Chunk(pos.X, pos.Z, false)
	if ch == nil {
		return nil
	}
	local := cell.LocalIn(ChunkSide)
	return ch.Biome(local.X, local.Z)
}

// Chunk возвращает чанк слоя, материализуя его при необходимости
func (g *grid) Chunk(chunkX, chunkZ int, forceUpdate bool) *Chunk {
	return g.cache.get(vec.Vec2{X: chunkX, Z: chunkZ}, forceUpdate, g.generate)
}

func (g *grid) generate(pos vec.Vec2) *Chunk {
	ch := NewChunk(pos, ChunkSide)
	for x := 0; x < ChunkSide; x++ {
		for z := 0; z < ChunkSide; z++ {
			cell := vec.Vec2{X: pos.X*ChunkSide + x, Z: pos.Z*ChunkSide + z}
			ch.SetBiome(x, z, g.picker.Pick(g.sample(cell)))
		}
	}
	g.logger.Trace("chunk %s generated (seed=%d)", pos, g.seed)
	return ch
}

// ClearCache сбрасывает все материализованные чанки
func (g *grid) ClearCache() {
	n := g.cache.clear()
	g.logger.Debug("cache cleared: %d chunks dropped (seed=%d)", n, g.seed)
}

// SetChunkProcessor устанавливает обработчик материализации чанков
func (g *grid) SetChunkProcessor(processor ChunkProcessor) {
	g.cache.setProcessor(processor)
}

// CachedChunks возвращает количество чанков в кэше
func (g *grid) CachedChunks() int {
	return g.cache.len()
}

// Seed возвращает подсид слоя
func (g *grid) Seed() int64 {
	return g.seed
}
