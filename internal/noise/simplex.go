package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// Simplex - двумерный OpenSimplex шум
type Simplex struct {
	n opensimplex.Noise
}

// NewSimplex создаёт генератор OpenSimplex с указанным сидом.
// 32-битные сиды передаются с расширением знака.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{n: opensimplex.New(seed)}
}

// Eval возвращает значение шума в точке (x, z)
func (s *Simplex) Eval(x, z float64) float64 {
	return s.n.Eval2(x, z)
}
