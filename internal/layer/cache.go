package layer

import (
	"sync"

	"github.com/annel0/biome-stack/internal/vec"
)

// chunkCache хранит материализованные чанки слоя.
//
// Чанк попадает в кэш до вызова обработчика, поэтому вложенные запросы
// того же чанка из обработчика получают уже сохранённый экземпляр.
// Обработчик вызывается вне блокировки ровно один раз на материализацию.
type chunkCache struct {
	mu        sync.Mutex
	chunks    map[vec.Vec2]*Chunk
	processor ChunkProcessor
}

func newChunkCache() *chunkCache {
	return &chunkCache{chunks: make(map[vec.Vec2]*Chunk)}
}

func (c *chunkCache) setProcessor(p ChunkProcessor) {
	c.mu.Lock()
	c.processor = p
	c.mu.Unlock()
}

func (c *chunkCache) get(pos vec.Vec2, force bool, generate func(vec.Vec2) *Chunk) *Chunk {
	if !force {
		c.mu.Lock()
		ch := c.chunks[pos]
		c.mu.Unlock()
		if ch != nil {
			return ch
		}
	}

	// Генерация детерминирована, поэтому проигравший гонку просто отбрасывает свой результат
	ch := generate(pos)

	c.mu.Lock()
	if existing := c.chunks[pos]; existing != nil && !force {
		c.mu.Unlock()
		return existing
	}
	c.chunks[pos] = ch
	processor := c.processor
	c.mu.Unlock()

	if processor != nil {
		processor(pos.X, pos.Z, ch.Side())
	}
	return ch
}

func (c *chunkCache) clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.chunks)
	c.chunks = make(map[vec.Vec2]*Chunk)
	return n
}

func (c *chunkCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chunks)
}
