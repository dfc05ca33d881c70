package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/biome-stack/internal/api"
	"github.com/annel0/biome-stack/internal/config"
	"github.com/annel0/biome-stack/internal/logging"
	"github.com/annel0/biome-stack/internal/observability"
	"github.com/annel0/biome-stack/internal/stack"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $BIOMESTACK_CONFIG or built-in)")
	flag.Parse()

	// Инициализируем систему логирования
	if err := logging.InitDefaultLogger("server"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()

	// === КОНФИГУРАЦИЯ ===
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}
	if level, err := logging.ParseLevel(cfg.Logging.Level); err == nil {
		logging.SetDefaultLevel(level)
	} else {
		logging.Warn("Неизвестный уровень логирования %q, используется INFO", cfg.Logging.Level)
	}

	logging.Info("🌍 Запуск biome-stack: seed=%d, высота мира=%d, высота слоя=%d",
		cfg.Seed, cfg.World.WorldHeight, cfg.World.LayerHeight)

	ctx := context.Background()
	shutdownTelemetry, err := observability.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	// === ИНИЦИАЛИЗАЦИЯ КОМПОНЕНТОВ ===
	var opts []stack.Option
	if cfg.Server.Metrics {
		opts = append(opts, stack.WithMetrics(stack.NewMetrics("biome_stack")))
	}

	logging.Debug("Создание стека слоёв...")
	biomeStack, err := cfg.NewStack(opts...)
	if err != nil {
		log.Fatalf("❌ Ошибка создания стека слоёв: %v", err)
	}

	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server, err := api.NewRestServer(api.Config{
		Port:        restPort,
		Stack:       biomeStack,
		ServiceName: cfg.Telemetry.ServiceName,
		Metrics:     cfg.Server.Metrics,
	})
	if err != nil {
		log.Fatalf("❌ Ошибка создания REST API: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logging.Info("✅ Сервис запущен")
	logging.Info("   🌐 REST API: http://localhost%s", restPort)
	logging.Info("   ❤️  Health check: http://localhost%s/health", restPort)
	logging.Info("💡 Примеры использования REST API:")
	logging.Info("   curl 'http://localhost%s/api/biome?x=0&y=64&z=0'", restPort)
	logging.Info("   curl http://localhost%s/api/chunk/0/0", restPort)

	// Канал для получения сигналов ОС
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
	case err := <-errCh:
		if err != nil {
			logging.Error("❌ REST API остановлен с ошибкой: %v", err)
		}
	}

	// === GRACEFUL SHUTDOWN ===
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logging.Error("❌ Ошибка остановки OpenTelemetry: %v", err)
	}

	logging.Info("👋 Сервер успешно остановлен")
}
