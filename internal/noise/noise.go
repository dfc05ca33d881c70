package noise

import "fmt"

// Source - детерминированный непрерывный 2D шум.
// Значения примерно в диапазоне [-1, 1], реализации безопасны для
// конкурентных вызовов Eval.
type Source interface {
	Eval(x, z float64) float64
}

// Factory создаёт источник шума из сида
type Factory func(seed int64) Source

// Поддерживаемые типы шума для конфигурации
const (
	KindSimplex = "simplex"
	KindPerlin  = "perlin"
	KindZero    = "zero"
)

// FactoryFor возвращает фабрику по имени типа шума
func FactoryFor(kind string) (Factory, error) {
	switch kind {
	case "", KindSimplex:
		return func(seed int64) Source { return NewSimplex(seed) }, nil
	case KindPerlin:
		return func(seed int64) Source { return NewPerlin(seed) }, nil
	case KindZero:
		return func(int64) Source { return Zero }, nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", kind)
	}
}

// Constant возвращает одно и то же значение в любой точке
type Constant float64

// Zero - нулевой шум: границы слоёв становятся плоскими
const Zero = Constant(0)

// Eval реализует Source
func (c Constant) Eval(x, z float64) float64 {
	return float64(c)
}
