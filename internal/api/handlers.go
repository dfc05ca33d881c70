package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/stack"
)

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// StackInfo описывает параметры стека
type StackInfo struct {
	Seed        int64   `json:"seed"`
	PlanVersion int     `json:"plan_version"`
	LayerSeeds  []int64 `json:"layer_seeds"`
	NoiseSeed   int32   `json:"noise_seed"`
	LayerCount  int     `json:"layer_count"`
	LayerHeight int     `json:"layer_height"`
	WorldHeight int     `json:"world_height"`
	MinBoundary int     `json:"min_boundary"`
	MaxBoundary int     `json:"max_boundary"`
	Distortion  float64 `json:"distortion"`
}

// BiomeSample - биом в точке и ответственный слой
type BiomeSample struct {
	Y        float64 `json:"y"`
	Layer    int     `json:"layer"`
	Biome    *string `json:"biome"`
	Vertical bool    `json:"vertical"`
}

// ChunkView - согласованные сетки биомов всех слоёв чанка
type ChunkView struct {
	X               int          `json:"x"`
	Z               int          `json:"z"`
	Side            int          `json:"side"`
	VerticalColumns int          `json:"vertical_columns"`
	Layers          [][][]string `json:"layers"`
}

func badRequest(c *gin.Context, format string, args ...interface{}) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

// floatQuery читает обязательный числовой параметр запроса
func floatQuery(c *gin.Context, name string) (float64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		badRequest(c, "missing query parameter %q", name)
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		badRequest(c, "invalid query parameter %q: %s", name, raw)
		return 0, false
	}
	return v, true
}

func sample(b biome.Resolved, y float64, layer int) BiomeSample {
	s := BiomeSample{Y: y, Layer: layer}
	if b != nil {
		id := b.ID()
		s.Biome = &id
		s.Vertical = b.IsVertical()
	}
	return s
}

// handleHealth возвращает статус сервиса
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleStack возвращает параметры стека и план сидов
func (rs *RestServer) handleStack(c *gin.Context) {
	rs.mu.RLock()
	s := rs.stack
	plan := s.Plan()
	minB, maxB := s.Boundaries()
	info := StackInfo{
		Seed:        s.Seed(),
		PlanVersion: plan.Version,
		LayerSeeds:  plan.LayerSeeds,
		NoiseSeed:   plan.NoiseSeed,
		LayerCount:  s.LayerCount(),
		LayerHeight: s.LayerHeight(),
		WorldHeight: s.WorldHeight(),
		MinBoundary: minB,
		MaxBoundary: maxB,
		Distortion:  s.Distortion(),
	}
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, GenericResponse{Success: true, Data: info})
}

// handleBiome возвращает биом в точке x, y, z
func (rs *RestServer) handleBiome(c *gin.Context) {
	x, ok := floatQuery(c, "x")
	if !ok {
		return
	}
	y, ok := floatQuery(c, "y")
	if !ok {
		return
	}
	z, ok := floatQuery(c, "z")
	if !ok {
		return
	}

	rs.mu.RLock()
	index := rs.stack.LayerIndex(x, y, z)
	b := rs.stack.Biome(x, y, z)
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, GenericResponse{Success: true, Data: sample(b, y, index)})
}

// handleColumn возвращает биомы колонки x, z с шагом step по высоте
func (rs *RestServer) handleColumn(c *gin.Context) {
	x, ok := floatQuery(c, "x")
	if !ok {
		return
	}
	z, ok := floatQuery(c, "z")
	if !ok {
		return
	}
	step, err := strconv.Atoi(c.DefaultQuery("step", "8"))
	if err != nil || step < 1 {
		badRequest(c, "step must be a positive integer")
		return
	}

	rs.mu.RLock()
	height := rs.stack.WorldHeight()
	samples := make([]BiomeSample, 0, height/step+1)
	for y := 0; y < height; y += step {
		fy := float64(y)
		samples = append(samples, sample(rs.stack.Biome(x, fy, z), fy, rs.stack.LayerIndex(x, fy, z)))
	}
	rs.mu.RUnlock()

	c.JSON(http.StatusOK, GenericResponse{Success: true, Data: samples})
}

// handleChunk материализует чанк на всех слоях и возвращает сетки биомов
func (rs *RestServer) handleChunk(c *gin.Context) {
	cx, err := strconv.Atoi(c.Param("cx"))
	if err != nil {
		badRequest(c, "invalid chunk x: %s", c.Param("cx"))
		return
	}
	cz, err := strconv.Atoi(c.Param("cz"))
	if err != nil {
		badRequest(c, "invalid chunk z: %s", c.Param("cz"))
		return
	}

	rs.mu.RLock()
	chunks, err := rs.stack.MaterializeChunk(c.Request.Context(), cx, cz)
	rs.mu.RUnlock()
	if err != nil {
		rs.logger.Warn("❌ Материализация чанка %d:%d: %v", cx, cz, err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		return
	}

	view := ChunkView{X: cx, Z: cz, Layers: make([][][]string, len(chunks))}
	for i, ch := range chunks {
		if ch == nil {
			continue
		}
		view.Side = ch.Side()
		view.Layers[i] = ch.IDs()
	}
	view.VerticalColumns = stack.CountVertical(chunks)

	c.JSON(http.StatusOK, GenericResponse{Success: true, Data: view})
}

// handleClearCache сбрасывает кэши всех слоёв
func (rs *RestServer) handleClearCache(c *gin.Context) {
	rs.mu.Lock()
	rs.stack.ClearCache()
	rs.mu.Unlock()

	rs.logger.Info("🧹 Кэш чанков очищен по запросу %s", c.ClientIP())
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "cache cleared"})
}

// handleServerInfo возвращает метрики процесса
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	memoryMB, err := rs.metrics.GetMemoryUsage()
	if err != nil {
		rs.logger.Debug("Не удалось получить память процесса: %v", err)
	}
	cpuPercent, err := rs.metrics.GetCPUUsage()
	if err != nil {
		rs.logger.Debug("Не удалось получить CPU процесса: %v", err)
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Data: gin.H{
			"name":        "biome-stack",
			"uptime":      rs.metrics.GetUptime(),
			"memory_mb":   fmt.Sprintf("%.1f", memoryMB),
			"cpu_percent": fmt.Sprintf("%.1f", cpuPercent),
			"goroutines":  rs.metrics.Goroutines(),
		},
	})
}
