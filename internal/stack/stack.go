// Package stack собирает несколько двумерных биомных слоёв в трёхмерное поле.
//
// Стек выбирает ответственный слой по высоте запроса: вне полосы границ
// выбор точный, внутри полосы к высоте добавляется шум, и граница между
// соседними слоями становится волнистой. После материализации любого чанка
// любым слоем стек согласует вертикальные биомы по всем слоям колонки.
package stack

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/layer"
	"github.com/annel0/biome-stack/internal/logging"
	"github.com/annel0/biome-stack/internal/noise"
	"github.com/annel0/biome-stack/internal/seed"
	"github.com/annel0/biome-stack/internal/vec"
)

// Параметры искажения границ между слоями
const (
	noiseScale          = 0.03
	distortionPerHeight = 0.1
)

// Stack - вертикальный стек биомных слоёв.
// После создания неизменяем, кроме кэшей слоёв.
type Stack struct {
	seed        int64
	size        int
	layerHeight int
	worldHeight int
	maxIndex    int
	minBoundary int
	maxBoundary int
	distortion  float64

	plan   seed.Plan
	layers []layer.Layer
	noise  noise.Source

	// Координаты чанков, для которых сейчас идёт согласование
	mu          sync.Mutex
	reconciling map[vec.Vec2]struct{}
	idle        *sync.Cond

	flight  singleflight.Group
	metrics *Metrics
	logger  *logging.Logger
}

var _ layer.Layer = (*Stack)(nil)

type options struct {
	noise   noise.Factory
	metrics *Metrics
}

// Option настраивает стек при создании
type Option func(*options)

// WithNoise задаёт фабрику шума искажения границ (по умолчанию OpenSimplex)
func WithNoise(f noise.Factory) Option {
	return func(o *options) {
		o.noise = f
	}
}

// WithMetrics включает запись Prometheus-метрик
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New создаёт стек из ceil(worldHeight/layerHeight) слоёв.
//
// Подсиды выводятся из seed строго по seed.Derive: сначала по одному на
// каждый слой (в порядке слоёв), затем один для шума. Обработчик
// материализации чанков каждого слоя подключается к согласованию стека.
func New(worldSeed int64, size int, picker *biome.Picker, layerHeight, worldHeight int, ctor layer.Constructor, opts ...Option) (*Stack, error) {
	switch {
	case layerHeight <= 0:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLayerHeight, layerHeight)
	case worldHeight <= 0:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWorldHeight, worldHeight)
	case size <= 0:
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBiomeSize, size)
	case ctor == nil:
		return nil, ErrNilConstructor
	case picker == nil:
		return nil, ErrNilPicker
	}

	o := options{noise: func(s int64) noise.Source { return noise.NewSimplex(s) }}
	for _, opt := range opts {
		opt(&o)
	}

	layerCount := (worldHeight + layerHeight - 1) / layerHeight
	if layerCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLayerCount, layerCount)
	}

	s := &Stack{
		seed:        worldSeed,
		size:        size,
		layerHeight: layerHeight,
		worldHeight: worldHeight,
		maxIndex:    layerCount - 1,
		minBoundary: int(math.Floor(float64(layerHeight)*0.5 + 0.5)),
		maxBoundary: int(math.Floor(float64(worldHeight) - float64(layerHeight)*0.5 + 0.5)),
		distortion:  float64(layerHeight) * distortionPerHeight,
		plan:        seed.Derive(worldSeed, layerCount),
		layers:      make([]layer.Layer, layerCount),
		reconciling: make(map[vec.Vec2]struct{}),
		metrics:     o.metrics,
		logger:      logging.GetStackLogger(),
	}
	s.idle = sync.NewCond(&s.mu)

	for i := range s.layers {
		l := ctor(s.plan.LayerSeeds[i], size, picker)
		if l == nil {
			return nil, fmt.Errorf("%w: layer %d", ErrNilLayer, i)
		}
		l.SetChunkProcessor(s.onChunkCreation)
		s.layers[i] = l
	}
	s.noise = o.noise(int64(s.plan.NoiseSeed))

	s.logger.Info("🧱 Stack created: seed=%d layers=%d boundaries=[%d, %d] distortion=%.2f",
		worldSeed, layerCount, s.minBoundary, s.maxBoundary, s.distortion)
	return s, nil
}

// LayerIndex возвращает индекс слоя, отвечающего за точку (x, y, z)
func (s *Stack) LayerIndex(x, y, z float64) int {
	if y < float64(s.minBoundary) {
		return 0
	}
	if y > float64(s.maxBoundary) {
		return s.maxIndex
	}

	shifted := y + s.noise.Eval(x*noiseScale, z*noiseScale)*s.distortion
	index := int(math.Floor(shifted/float64(s.worldHeight)*float64(s.maxIndex) + 0.5))
	if index < 0 {
		index = 0
	} else if index > s.maxIndex {
		index = s.maxIndex
	}
	return index
}

// Biome возвращает биом в точке, делегируя запрос ответственному слою
func (s *Stack) Biome(x, y, z float64) biome.Resolved {
	index := s.LayerIndex(x, y, z)
	if index < 0 || index >= len(s.layers) {
		panic(fmt.Sprintf("stack: layer index %d out of range [0, %d]", index, s.maxIndex))
	}
	if s.metrics != nil {
		s.metrics.observeLookup(index)
	}
	return s.layers[index].Biome(x, y, z)
}

// ClearCache очищает кэши всех слоёв.
// Вызывающий обязан гарантировать отсутствие параллельных запросов к стеку.
func (s *Stack) ClearCache() {
	for _, l := range s.layers {
		l.ClearCache()
	}
	s.logger.Debug("🧹 Stack caches cleared (%d layers)", len(s.layers))
}

// Chunk не поддерживается: стек нельзя вложить в другой стек
func (s *Stack) Chunk(chunkX, chunkZ int, forceUpdate bool) *layer.Chunk {
	return nil
}

// SetChunkProcessor не поддерживается: стек нельзя вложить в другой стек
func (s *Stack) SetChunkProcessor(processor layer.ChunkProcessor) {}

// Seed возвращает сид мира
func (s *Stack) Seed() int64 { return s.seed }

// Plan возвращает выведенные подсиды
func (s *Stack) Plan() seed.Plan { return s.plan }

// LayerCount возвращает количество слоёв
func (s *Stack) LayerCount() int { return len(s.layers) }

// MaxIndex возвращает индекс верхнего слоя
func (s *Stack) MaxIndex() int { return s.maxIndex }

// LayerHeight возвращает номинальную высоту слоя
func (s *Stack) LayerHeight() int { return s.layerHeight }

// WorldHeight возвращает высоту мира
func (s *Stack) WorldHeight() int { return s.worldHeight }

// Boundaries возвращает полосу [min, max], в которой граница слоёв искажается шумом
func (s *Stack) Boundaries() (min, max int) { return s.minBoundary, s.maxBoundary }

// Distortion возвращает амплитуду искажения границ в блоках
func (s *Stack) Distortion() float64 { return s.distortion }

// Layer возвращает слой по индексу
func (s *Stack) Layer(i int) layer.Layer { return s.layers[i] }
