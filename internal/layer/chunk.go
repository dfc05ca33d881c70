package layer

import (
	"sync"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/vec"
)

// Chunk - сетка side×side выбранных биомов одного слоя.
// Пустая ячейка хранит nil.
type Chunk struct {
	mu     sync.RWMutex
	pos    vec.Vec2
	side   int
	biomes []biome.Resolved
}

// NewChunk создаёт пустой чанк
func NewChunk(pos vec.Vec2, side int) *Chunk {
	return &Chunk{
		pos:    pos,
		side:   side,
		biomes: make([]biome.Resolved, side*side),
	}
}

// Pos возвращает координаты чанка
func (c *Chunk) Pos() vec.Vec2 {
	return c.pos
}

// Side возвращает сторону чанка
func (c *Chunk) Side() int {
	return c.side
}

func (c *Chunk) index(x, z int) (int, bool) {
	if x < 0 || z < 0 || x >= c.side || z >= c.side {
		return 0, false
	}
	return x*c.side + z, true
}

// Biome возвращает биом по локальным координатам или nil
func (c *Chunk) Biome(x, z int) biome.Resolved {
	i, ok := c.index(x, z)
	if !ok {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.biomes[i]
}

// SetBiome записывает биом по локальным координатам.
// Возвращает false для координат за пределами чанка.
func (c *Chunk) SetBiome(x, z int, b biome.Resolved) bool {
	i, ok := c.index(x, z)
	if !ok {
		return false
	}

	c.mu.Lock()
	c.biomes[i] = b
	c.mu.Unlock()
	return true
}

// IDs возвращает идентификаторы биомов построчно по x ("" для пустых ячеек)
func (c *Chunk) IDs() [][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows := make([][]string, c.side)
	for x := 0; x < c.side; x++ {
		rows[x] = make([]string, c.side)
		for z := 0; z < c.side; z++ {
			if b := c.biomes[x*c.side+z]; b != nil {
				rows[x][z] = b.ID()
			}
		}
	}
	return rows
}
