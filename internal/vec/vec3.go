package vec

import "math"

// Vec3Float представляет точку запроса биома в мировых координатах
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// Column возвращает целочисленную колонку (X, Z), в которой лежит точка
func (v Vec3Float) Column() Vec2 {
	return Vec2{
		X: int(math.Floor(v.X)),
		Z: int(math.Floor(v.Z)),
	}
}
