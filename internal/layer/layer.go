// Package layer описывает двумерный биомный слой и его реализации.
package layer

import (
	"fmt"

	"github.com/annel0/biome-stack/internal/biome"
)

// ChunkSide - сторона чанка слоя в ячейках
const ChunkSide = 16

// ChunkProcessor вызывается после материализации чанка слоя
type ChunkProcessor func(chunkX, chunkZ, side int)

// Layer - независимо засеянное двумерное биомное поле.
//
// Biome должен быть безопасен для конкурентных вызовов. Chunk возвращает
// закэшированный чанк либо материализует его; forceUpdate пересоздаёт
// чанк даже при наличии в кэше. Реализация может вернуть nil, если данных
// для координат нет.
type Layer interface {
	Biome(x, y, z float64) biome.Resolved
	Chunk(chunkX, chunkZ int, forceUpdate bool) *Chunk
	ClearCache()
	SetChunkProcessor(processor ChunkProcessor)
}

// Constructor создаёт слой по подсиду, размеру биома в блоках и пикеру
type Constructor func(seed int64, size int, picker *biome.Picker) Layer

// Типы слоёв для конфигурации
const (
	KindSquare = "square"
	KindPerlin = "perlin"
)

// ConstructorFor возвращает конструктор слоя по имени
func ConstructorFor(kind string) (Constructor, error) {
	switch kind {
	case "", KindSquare:
		return func(seed int64, size int, picker *biome.Picker) Layer {
			return NewSquare(seed, size, picker)
		}, nil
	case KindPerlin:
		return func(seed int64, size int, picker *biome.Picker) Layer {
			return NewPerlin(seed, size, picker)
		}, nil
	default:
		return nil, fmt.Errorf("unknown layer kind %q", kind)
	}
}
