package vec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 0, FloorDiv(0, 16))
	assert.Equal(t, 0, FloorDiv(15, 16))
	assert.Equal(t, 1, FloorDiv(16, 16))
	assert.Equal(t, -1, FloorDiv(-1, 16))
	assert.Equal(t, -1, FloorDiv(-16, 16))
	assert.Equal(t, -2, FloorDiv(-17, 16))
}

func TestChunkAndLocal(t *testing.T) {
	cell := Vec2{X: -1, Z: 33}

	assert.Equal(t, Vec2{X: -1, Z: 2}, cell.ChunkOf(16))
	assert.Equal(t, Vec2{X: 15, Z: 1}, cell.LocalIn(16), "локальные координаты должны быть неотрицательными")
	assert.Equal(t, "-1:33", cell.String())
}

func TestVec3FloatColumn(t *testing.T) {
	p := Vec3Float{X: -0.5, Y: 64, Z: 3.9}
	assert.Equal(t, Vec2{X: -1, Z: 3}, p.Column())
}
