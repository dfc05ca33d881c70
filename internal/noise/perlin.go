package noise

import (
	"github.com/aquilax/go-perlin"
)

// Параметры шума Перлина
const (
	perlinAlpha   = 2.0 // Сглаживание шума
	perlinBeta    = 2.0 // Частота шума
	perlinOctaves = 3   // Количество октав
)

// Perlin - шум Перлина поверх go-perlin
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin инициализирует генератор шума Перлина с указанным сидом
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

// Eval возвращает значение шума (примерно от -1 до 1)
func (p *Perlin) Eval(x, z float64) float64 {
	return p.p.Noise2D(x, z)
}

// Eval01 возвращает значение шума, приведённое к диапазону [0, 1]
func (p *Perlin) Eval01(x, z float64) float64 {
	v := (p.Eval(x, z) + 1.0) / 2.0
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
