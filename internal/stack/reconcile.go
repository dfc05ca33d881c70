package stack

import (
	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/layer"
	"github.com/annel0/biome-stack/internal/vec"
)

// onChunkCreation - обработчик материализации чанка любым слоем.
//
// Если согласование этого чанка уже выполняется (вложенный вызов из
// материализации следующего слоя или параллельный запрос), вызов
// завершается сразу: выполняющийся проход сам прочитает чанки всех слоёв.
func (s *Stack) onChunkCreation(chunkX, chunkZ, side int) {
	pos := vec.Vec2{X: chunkX, Z: chunkZ}

	s.mu.Lock()
	if _, busy := s.reconciling[pos]; busy {
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.reconcileSkipped.Inc()
		}
		return
	}
	s.reconciling[pos] = struct{}{}
	s.mu.Unlock()

	defer s.release(pos)
	s.reconcile(chunkX, chunkZ, side)
}

// reconcileWait ждёт завершения текущего согласования чанка и выполняет своё
func (s *Stack) reconcileWait(chunkX, chunkZ, side int) int {
	pos := vec.Vec2{X: chunkX, Z: chunkZ}

	s.mu.Lock()
	for {
		if _, busy := s.reconciling[pos]; !busy {
			break
		}
		s.idle.Wait()
	}
	s.reconciling[pos] = struct{}{}
	s.mu.Unlock()

	defer s.release(pos)
	return s.reconcile(chunkX, chunkZ, side)
}

func (s *Stack) release(pos vec.Vec2) {
	s.mu.Lock()
	delete(s.reconciling, pos)
	s.mu.Unlock()
	s.idle.Broadcast()
}

// reconcile переносит вертикальные биомы на все слои колонки.
// Для каждой колонки побеждает первый по порядку слоёв вертикальный биом.
// Возвращает количество колонок с вертикальным биомом.
func (s *Stack) reconcile(chunkX, chunkZ, side int) int {
	overrides := make([]biome.Resolved, side*side)
	chunks := make([]*layer.Chunk, len(s.layers))

	filled := 0
	for i, l := range s.layers {
		ch := l.Chunk(chunkX, chunkZ, false)
		if ch == nil {
			continue
		}
		chunks[i] = ch

		for x := 0; x < side; x++ {
			for z := 0; z < side; z++ {
				if overrides[x*side+z] != nil {
					continue
				}
				b := ch.Biome(x, z)
				if b != nil && b.IsVertical() {
					overrides[x*side+z] = b
					filled++
				}
			}
		}
	}

	if filled > 0 {
		for _, ch := range chunks {
			if ch == nil {
				continue
			}
			for x := 0; x < side; x++ {
				for z := 0; z < side; z++ {
					if b := overrides[x*side+z]; b != nil {
						ch.SetBiome(x, z, b)
					}
				}
			}
		}
	}

	if s.metrics != nil {
		s.metrics.reconciled.Inc()
		s.metrics.verticalColumns.Add(float64(filled))
	}
	s.logger.Trace("chunk %d:%d reconciled, vertical columns=%d", chunkX, chunkZ, filled)
	return filled
}
