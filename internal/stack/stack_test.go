package stack

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/layer"
	"github.com/annel0/biome-stack/internal/noise"
	"github.com/annel0/biome-stack/internal/seed"
)

func TestNew_DerivedConstants(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)

	assert.Equal(t, 4, s.LayerCount())
	assert.Equal(t, 3, s.MaxIndex())
	minB, maxB := s.Boundaries()
	assert.Equal(t, 16, minB)
	assert.Equal(t, 112, maxB)
	assert.InDelta(t, 3.2, s.Distortion(), 1e-9)
	assert.Len(t, fakes, 4)
	assert.Equal(t, 32, s.LayerHeight())
	assert.Equal(t, 128, s.WorldHeight())
	assert.Equal(t, int64(12345), s.Seed())
}

func TestNew_LayerCountRoundsUp(t *testing.T) {
	s, _ := fakeStack(t, 50, 128)
	assert.Equal(t, 3, s.LayerCount())

	s, _ = fakeStack(t, 256, 128)
	assert.Equal(t, 1, s.LayerCount())
	assert.Equal(t, 0, s.MaxIndex())
	assert.Equal(t, "layer-0", s.Biome(0, 64, 0).ID())
}

func TestNew_SeedDrawOrder(t *testing.T) {
	var noiseSeed int64
	s, fakes := fakeStack(t, 32, 128, WithNoise(func(sd int64) noise.Source {
		noiseSeed = sd
		return noise.Zero
	}))

	plan := seed.Derive(12345, 4)
	assert.Equal(t, plan, s.Plan())
	for i, f := range fakes {
		assert.Equal(t, plan.LayerSeeds[i], f.seed, "слой %d получил неверный подсид", i)
	}
	assert.Equal(t, int64(plan.NoiseSeed), noiseSeed)
}

func TestNew_WiresChunkProcessor(t *testing.T) {
	_, fakes := fakeStack(t, 32, 128)
	for i, f := range fakes {
		assert.NotNil(t, f.processor, "слой %d без обработчика чанков", i)
	}
}

func TestNew_InvalidConfiguration(t *testing.T) {
	picker := testPicker(t)
	ctor, err := layer.ConstructorFor(layer.KindSquare)
	require.NoError(t, err)

	cases := []struct {
		name        string
		size        int
		layerHeight int
		worldHeight int
		picker      *biome.Picker
		ctor        layer.Constructor
		want        error
	}{
		{"zero layer height", 16, 0, 128, picker, ctor, ErrInvalidLayerHeight},
		{"negative layer height", 16, -4, 128, picker, ctor, ErrInvalidLayerHeight},
		{"zero world height", 16, 32, 0, picker, ctor, ErrInvalidWorldHeight},
		{"zero size", 0, 32, 128, picker, ctor, ErrInvalidBiomeSize},
		{"nil constructor", 16, 32, 128, picker, nil, ErrNilConstructor},
		{"nil picker", 16, 32, 128, nil, ctor, ErrNilPicker},
		{"nil layer", 16, 32, 128, picker, func(int64, int, *biome.Picker) layer.Layer { return nil }, ErrNilLayer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(1, tc.size, tc.picker, tc.layerHeight, tc.worldHeight, tc.ctor)
			assert.Nil(t, s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, IsInvalidConfig(err))
		})
	}

	assert.False(t, IsInvalidConfig(fmt.Errorf("other")))
}

func TestBiome_ConcreteScenario(t *testing.T) {
	s, _ := fakeStack(t, 32, 128)
	assert.Equal(t, "layer-0", s.Biome(10, 5, -3).ID())
	assert.Equal(t, "layer-3", s.Biome(10, 120, -3).ID())

	z, _ := fakeStack(t, 32, 128, zeroNoise())
	assert.Equal(t, 2, z.LayerIndex(0, 64, 0))
	assert.Equal(t, "layer-2", z.Biome(0, 64, 0).ID())
}

func TestBiome_OutsideBoundaryBandIsExact(t *testing.T) {
	s, _ := fakeStack(t, 32, 128)
	minB, maxB := s.Boundaries()

	for i := -20; i < 20; i++ {
		x := float64(i) * 37.1
		z := float64(i) * -11.9
		for y := -64.0; y < float64(minB); y += 3.5 {
			assert.Equal(t, 0, s.LayerIndex(x, y, z))
		}
		for y := float64(maxB) + 0.5; y < 300; y += 7 {
			assert.Equal(t, s.MaxIndex(), s.LayerIndex(x, y, z))
		}
	}
}

func TestBiome_MonotonicWithZeroNoise(t *testing.T) {
	s, _ := fakeStack(t, 32, 128, zeroNoise())
	minB, maxB := s.Boundaries()

	prev := 0
	for y := float64(minB); y <= float64(maxB); y += 0.25 {
		idx := s.LayerIndex(5, y, 5)
		assert.GreaterOrEqual(t, idx, prev, "y=%.2f", y)
		prev = idx
	}
	assert.Equal(t, s.MaxIndex(), prev)
}

func TestBiome_IndexClampedInsideBand(t *testing.T) {
	low, _ := fakeStack(t, 32, 128, constNoise(-100))
	high, _ := fakeStack(t, 32, 128, constNoise(100))

	for y := 16.0; y <= 112; y += 8 {
		assert.Equal(t, 0, low.LayerIndex(0, y, 0))
		assert.Equal(t, 3, high.LayerIndex(0, y, 0))
	}
}

func TestBiome_NoiseDistortsBoundary(t *testing.T) {
	s, _ := fakeStack(t, 32, 128)

	// y=64 лежит ровно на границе слоёв 1 и 2: знак шума решает, какой слой отвечает
	seen := map[int]bool{}
	for i := 0; i < 400; i++ {
		seen[s.LayerIndex(float64(i)*7, 64, float64(i)*3)] = true
	}
	assert.True(t, seen[1] && seen[2], "граница должна быть волнистой: %v", seen)
	assert.Len(t, seen, 2)
}

func TestBiome_Deterministic(t *testing.T) {
	picker := testPicker(t)
	ctor, err := layer.ConstructorFor(layer.KindSquare)
	require.NoError(t, err)

	a, err := New(777, 8, picker, 32, 128, ctor)
	require.NoError(t, err)
	b, err := New(777, 8, picker, 32, 128, ctor)
	require.NoError(t, err)

	for i := -30; i < 30; i++ {
		for y := 0.0; y < 128; y += 9 {
			x := float64(i) * 17.3
			z := float64(i) * 5.1
			assert.Equal(t, a.Biome(x, y, z).ID(), b.Biome(x, y, z).ID())
		}
	}
}

func TestClearCache_ForwardsToEveryLayer(t *testing.T) {
	s, fakes := fakeStack(t, 32, 128)
	s.ClearCache()
	s.ClearCache()
	for _, f := range fakes {
		assert.Equal(t, 2, f.cleared)
	}
}

func TestStack_ChunkHooksAreInert(t *testing.T) {
	s, _ := fakeStack(t, 32, 128)
	assert.Nil(t, s.Chunk(0, 0, false))
	assert.Nil(t, s.Chunk(0, 0, true))
	assert.NotPanics(t, func() { s.SetChunkProcessor(func(int, int, int) {}) })

	var l layer.Layer = s
	assert.NotNil(t, l)
}
