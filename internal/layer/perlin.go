package layer

import (
	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/noise"
	"github.com/annel0/biome-stack/internal/vec"
)

// Масштаб шума в ячейках: соседние ячейки чаще получают один биом
const perlinCellScale = 0.15

// Perlin - слой, в котором биом ячейки определяется шумом Перлина
type Perlin struct {
	*grid
}

// NewPerlin создаёт слой на шуме Перлина
func NewPerlin(seed int64, size int, picker *biome.Picker) *Perlin {
	n := noise.NewPerlin(seed)
	sample := func(cell vec.Vec2) float64 {
		return n.Eval01((float64(cell.X)+0.5)*perlinCellScale, (float64(cell.Z)+0.5)*perlinCellScale)
	}
	return &Perlin{grid: newGrid(seed, size, picker, sample)}
}
