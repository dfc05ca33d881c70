package vec

import "fmt"

// Vec2 представляет целочисленные координаты на горизонтальной плоскости (X, Z).
// Используется как ключ чанков и ячеек биомных слоёв.
type Vec2 struct {
	X, Z int
}

// FloorDiv делит с округлением вниз (корректно для отрицательных координат)
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod возвращает неотрицательный остаток от деления на b
func FloorMod(a, b int) int {
	return a - FloorDiv(a, b)*b
}

// ChunkOf возвращает координаты чанка, содержащего ячейку, при стороне чанка side
func (v Vec2) ChunkOf(side int) Vec2 {
	return Vec2{X: FloorDiv(v.X, side), Z: FloorDiv(v.Z, side)}
}

// LocalIn возвращает локальные координаты ячейки внутри её чанка
func (v Vec2) LocalIn(side int) Vec2 {
	return Vec2{X: FloorMod(v.X, side), Z: FloorMod(v.Z, side)}
}

// String возвращает представление вида "x:z" (используется в ключах singleflight)
func (v Vec2) String() string {
	return fmt.Sprintf("%d:%d", v.X, v.Z)
}
