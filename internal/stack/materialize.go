package stack

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/annel0/biome-stack/internal/layer"
	"github.com/annel0/biome-stack/internal/vec"
)

const tracerName = "github.com/annel0/biome-stack/internal/stack"

// MaterializeChunk материализует чанк на всех слоях и возвращает согласованные чанки.
//
// Параллельные запросы одной координаты объединяются: выполняется одна
// материализация, остальные получают её результат. После материализации
// всех слоёв выполняется завершающее согласование, которое дожидается
// любого идущего прохода по этой координате.
func (s *Stack) MaterializeChunk(ctx context.Context, chunkX, chunkZ int) ([]*layer.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pos := vec.Vec2{X: chunkX, Z: chunkZ}
	v, err, shared := s.flight.Do(pos.String(), func() (interface{}, error) {
		return s.materialize(ctx, chunkX, chunkZ), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Trace("chunk %s materialization shared", pos)
	}
	return v.([]*layer.Chunk), nil
}

func (s *Stack) materialize(ctx context.Context, chunkX, chunkZ int) []*layer.Chunk {
	_, span := otel.Tracer(tracerName).Start(ctx, "stack.MaterializeChunk",
		trace.WithAttributes(
			attribute.Int("chunk.x", chunkX),
			attribute.Int("chunk.z", chunkZ),
			attribute.Int("stack.layers", len(s.layers)),
		))
	defer span.End()

	start := time.Now()

	chunks := make([]*layer.Chunk, len(s.layers))
	side := layer.ChunkSide
	for i, l := range s.layers {
		chunks[i] = l.Chunk(chunkX, chunkZ, false)
		if chunks[i] != nil {
			side = chunks[i].Side()
		}
	}

	vertical := s.reconcileWait(chunkX, chunkZ, side)
	span.SetAttributes(attribute.Int("chunk.vertical_columns", vertical))

	if s.metrics != nil {
		s.metrics.materializeDuration.Observe(time.Since(start).Seconds())
	}
	return chunks
}

// RegionResult - итог материализации прямоугольника чанков
type RegionResult struct {
	Chunks          int `json:"chunks"`
	VerticalColumns int `json:"vertical_columns"`
}

// MaterializeRegion материализует чанки [minX..maxX]×[minZ..maxZ] параллельно
// не более чем в workers горутинах. Отмена ctx прекращает запуск новых чанков.
func (s *Stack) MaterializeRegion(ctx context.Context, minX, minZ, maxX, maxZ, workers int) (RegionResult, error) {
	if maxX < minX || maxZ < minZ {
		return RegionResult{}, fmt.Errorf("invalid region [%d..%d]x[%d..%d]", minX, maxX, minZ, maxZ)
	}
	if workers < 1 {
		workers = 1
	}

	width := maxX - minX + 1
	counts := make([]int, width*(maxZ-minZ+1))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for cx := minX; cx <= maxX; cx++ {
		for cz := minZ; cz <= maxZ; cz++ {
			if gctx.Err() != nil {
				break
			}
			cx, cz := cx, cz
			g.Go(func() error {
				chunks, err := s.MaterializeChunk(gctx, cx, cz)
				if err != nil {
					return fmt.Errorf("chunk %d:%d: %w", cx, cz, err)
				}
				counts[(cz-minZ)*width+(cx-minX)] = CountVertical(chunks)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return RegionResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return RegionResult{}, err
	}

	result := RegionResult{Chunks: len(counts)}
	for _, c := range counts {
		result.VerticalColumns += c
	}
	s.logger.Debug("region [%d..%d]x[%d..%d] materialized: %d chunks, %d vertical columns",
		minX, maxX, minZ, maxZ, result.Chunks, result.VerticalColumns)
	return result, nil
}

// CountVertical считает колонки с вертикальным биомом по первому слою;
// после согласования они одинаковы на всех слоях.
func CountVertical(chunks []*layer.Chunk) int {
	for _, ch := range chunks {
		if ch == nil {
			continue
		}
		n := 0
		for x := 0; x < ch.Side(); x++ {
			for z := 0; z < ch.Side(); z++ {
				if b := ch.Biome(x, z); b != nil && b.IsVertical() {
					n++
				}
			}
		}
		return n
	}
	return 0
}
