package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/biome-stack/internal/logging"
	"github.com/annel0/biome-stack/internal/middleware"
	"github.com/annel0/biome-stack/internal/stack"
)

// RestServer - REST API предпросмотра стека биомов
type RestServer struct {
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server
	logger     *logging.Logger
	metrics    *ServerMetrics

	// Запросы держат чтение, очистка кэша - запись: очистка не пересекается
	// ни с одним запросом и материализацией.
	mu    sync.RWMutex
	stack *stack.Stack
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port        string                // адрес для запуска сервера, например ":8088"
	Stack       *stack.Stack          // обслуживаемый стек слоёв
	ServiceName string                // имя сервиса для otelgin
	Metrics     bool                  // включить HTTP-метрики и /metrics
	Registerer  prometheus.Registerer // регистр метрик (nil - дефолтный)
	Logger      *logging.Logger
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Stack == nil {
		return nil, errors.New("api: stack is nil")
	}
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.ServiceName == "" {
		config.ServiceName = "biome-stack"
	}
	if config.Logger == nil {
		config.Logger = logging.GetAPILogger()
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware(config.ServiceName))
	router.Use(middleware.NewRequestLogger(config.Logger, "/health", "/metrics").Handler())

	if config.Metrics {
		promMw := middleware.NewPrometheusMiddleware("biome_api", config.Registerer)
		router.Use(promMw.Handler())
		promMw.RegisterMetricsEndpoint(router)
	}

	rs := &RestServer{
		router:  router,
		handler: gzhttp.GzipHandler(router),
		logger:  config.Logger,
		metrics: NewServerMetrics(),
		stack:   config.Stack,
	}
	rs.httpServer = &http.Server{
		Addr:              config.Port,
		Handler:           rs.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	rs.setupRoutes()
	return rs, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	{
		api.GET("/stack", rs.handleStack)
		api.GET("/biome", rs.handleBiome)
		api.GET("/column", rs.handleColumn)
		api.GET("/chunk/:cx/:cz", rs.handleChunk)
		api.POST("/cache/clear", rs.handleClearCache)
		api.GET("/server", rs.handleServerInfo)
	}
}

// Handler возвращает HTTP-обработчик со сжатием ответов
func (rs *RestServer) Handler() http.Handler {
	return rs.handler
}

// Start запускает REST сервер и блокируется до остановки
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.httpServer.Addr)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop корректно останавливает сервер, дожидаясь активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	rs.logger.Info("🛑 Остановка REST API")
	return rs.httpServer.Shutdown(ctx)
}
