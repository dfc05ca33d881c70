package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/layer"
	"github.com/annel0/biome-stack/internal/noise"
	"github.com/annel0/biome-stack/internal/stack"
)

// ErrInvalidConfig возвращается Validate для любой некорректной секции
var ErrInvalidConfig = errors.New("invalid config")

// Config корневая структура конфигурации генератора
type Config struct {
	Seed          int64               `yaml:"seed"`
	World         WorldConfig         `yaml:"world"`
	Biomes        []*biome.Definition `yaml:"biomes"`
	FallbackBiome string              `yaml:"fallback_biome"`
	Server        ServerConfig        `yaml:"server"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type WorldConfig struct {
	LayerHeight int    `yaml:"layer_height"`
	WorldHeight int    `yaml:"world_height"`
	BiomeSize   int    `yaml:"biome_size"`
	LayerKind   string `yaml:"layer_kind"`
	NoiseKind   string `yaml:"noise_kind"`
}

type ServerConfig struct {
	RESTPort int  `yaml:"rest_port"`
	Metrics  bool `yaml:"metrics"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "BIOMESTACK_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает конфигурацию мира по умолчанию
func Default() *Config {
	return &Config{
		Seed: 1,
		World: WorldConfig{
			LayerHeight: 32,
			WorldHeight: 256,
			BiomeSize:   8,
			LayerKind:   layer.KindSquare,
			NoiseKind:   noise.KindSimplex,
		},
		Biomes: []*biome.Definition{
			{Key: "plains", Weight: 5},
			{Key: "forest", Weight: 4},
			{Key: "desert", Weight: 2},
			{Key: "tundra", Weight: 2},
			{Key: "caverns", Weight: 3},
			{Key: "canyon", Weight: 1, Vertical: true},
			{Key: "abyss", Weight: 1, Vertical: true},
		},
		FallbackBiome: "plains",
		Server:        ServerConfig{Metrics: true},
		Telemetry:     TelemetryConfig{ServiceName: "biome-stack"},
		Logging:       LoggingConfig{Level: "INFO"},
	}
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV BIOMESTACK_CONFIG или возвращает Default().
// Незаданные в файле поля берутся из Default().
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("BIOMESTACK_CONFIG")
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	// Список биомов в файле заменяет дефолтный целиком
	cfg.Biomes = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(cfg.Biomes) == 0 {
		cfg.Biomes = Default().Biomes
	}

	return cfg, nil
}

// Validate проверяет ограничения построения стека и списка биомов
func (c *Config) Validate() error {
	w := c.World
	if w.LayerHeight <= 0 {
		return fmt.Errorf("%w: world.layer_height must be positive, got %d", ErrInvalidConfig, w.LayerHeight)
	}
	if w.WorldHeight <= 0 {
		return fmt.Errorf("%w: world.world_height must be positive, got %d", ErrInvalidConfig, w.WorldHeight)
	}
	if w.BiomeSize <= 0 {
		return fmt.Errorf("%w: world.biome_size must be positive, got %d", ErrInvalidConfig, w.BiomeSize)
	}
	if _, err := layer.ConstructorFor(w.LayerKind); err != nil {
		return fmt.Errorf("%w: world.layer_kind: %v", ErrInvalidConfig, err)
	}
	if _, err := noise.FactoryFor(w.NoiseKind); err != nil {
		return fmt.Errorf("%w: world.noise_kind: %v", ErrInvalidConfig, err)
	}

	if len(c.Biomes) == 0 {
		return fmt.Errorf("%w: biomes list is empty", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Biomes))
	positive := false
	for i, d := range c.Biomes {
		if d == nil || d.Key == "" {
			return fmt.Errorf("%w: biomes[%d] has no id", ErrInvalidConfig, i)
		}
		if seen[d.Key] {
			return fmt.Errorf("%w: duplicate biome id %q", ErrInvalidConfig, d.Key)
		}
		if d.Weight < 0 {
			return fmt.Errorf("%w: biome %q has negative weight", ErrInvalidConfig, d.Key)
		}
		seen[d.Key] = true
		positive = positive || d.Weight > 0
	}
	if !positive {
		return fmt.Errorf("%w: no biome has positive weight", ErrInvalidConfig)
	}
	if c.FallbackBiome != "" && !seen[c.FallbackBiome] {
		return fmt.Errorf("%w: fallback biome %q is not in the biomes list", ErrInvalidConfig, c.FallbackBiome)
	}

	if c.Server.RESTPort < 0 || c.Server.RESTPort > 65535 {
		return fmt.Errorf("%w: server.rest_port out of range: %d", ErrInvalidConfig, c.Server.RESTPort)
	}
	return nil
}

// BuildRegistry строит реестр биомов из списка конфигурации
func (c *Config) BuildRegistry() (*biome.MapRegistry, error) {
	reg, err := biome.NewMapRegistry()
	if err != nil {
		return nil, err
	}
	for _, d := range c.Biomes {
		// Копия, чтобы реестр не зависел от дальнейших изменений конфига
		def := *d
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return reg, nil
}

// fallbackID возвращает явный запасной биом либо первый из списка
func (c *Config) fallbackID() string {
	if c.FallbackBiome != "" {
		return c.FallbackBiome
	}
	if len(c.Biomes) > 0 && c.Biomes[0] != nil {
		return c.Biomes[0].Key
	}
	return ""
}

// NewStack валидирует конфигурацию и собирает стек слоёв
func (c *Config) NewStack(opts ...stack.Option) (*stack.Stack, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	reg, err := c.BuildRegistry()
	if err != nil {
		return nil, err
	}
	picker, err := biome.NewPickerFromRegistry(reg, nil, c.fallbackID())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	ctor, err := layer.ConstructorFor(c.World.LayerKind)
	if err != nil {
		return nil, err
	}
	noiseFactory, err := noise.FactoryFor(c.World.NoiseKind)
	if err != nil {
		return nil, err
	}

	// Шум из конфигурации идёт первым, чтобы явная опция вызывающего могла его переопределить
	opts = append([]stack.Option{stack.WithNoise(noiseFactory)}, opts...)
	return stack.New(c.Seed, c.World.BiomeSize, picker, c.World.LayerHeight, c.World.WorldHeight, ctor, opts...)
}
