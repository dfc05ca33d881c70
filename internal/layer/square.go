package layer

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/vec"
)

// Square - слой с независимым выбором биома в каждой ячейке по весам пикера
type Square struct {
	*grid
}

// NewSquare создаёт слой квадратных ячеек
func NewSquare(seed int64, size int, picker *biome.Picker) *Square {
	return &Square{grid: newGrid(seed, size, picker, hashSampler(seed))}
}

// hashSampler возвращает равномерное значение из [0, 1) по xxhash(seed, x, z)
func hashSampler(seed int64) cellSampler {
	return func(cell vec.Vec2) float64 {
		var buf [24]byte
		binary.LittleEndian.PutUint64(buf[0:], uint64(seed))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(cell.X)))
		binary.LittleEndian.PutUint64(buf[16:], uint64(int64(cell.Z)))

		h := xxhash.Sum64(buf[:])
		return float64(h>>11) * (1.0 / (1 << 53))
	}
}
