package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/annel0/biome-stack/internal/biome"
	"github.com/annel0/biome-stack/internal/config"
	"github.com/annel0/biome-stack/internal/logging"
	"github.com/annel0/biome-stack/internal/stack"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (default: $BIOMESTACK_CONFIG or built-in)")
		command    = flag.String("cmd", "info", "Command: info, slice, region")
		x          = flag.Int("x", 0, "Slice start X / region center chunk X")
		z          = flag.Int("z", 0, "Slice Z / region center chunk Z")
		width      = flag.Int("width", 80, "Slice width in blocks")
		step       = flag.Int("step", 4, "Vertical step of the slice in blocks")
		radius     = flag.Int("radius", 2, "Region radius in chunks")
		workers    = flag.Int("workers", 4, "Parallel workers for region materialisation")
	)
	flag.Parse()

	// CLI пишет результат в stdout, логи стека только при ошибках
	logging.SetDefaultLevel(logging.WARN)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	s, err := cfg.NewStack()
	if err != nil {
		log.Fatalf("❌ Failed to build stack: %v", err)
	}

	switch *command {
	case "info":
		printInfo(os.Stdout, cfg, s)

	case "slice":
		if *width < 1 || *step < 1 {
			log.Fatalf("❌ width and step must be positive")
		}
		printSlice(os.Stdout, s, *x, *z, *width, *step)

	case "region":
		if err := runRegion(os.Stdout, s, *x, *z, *radius, *workers); err != nil {
			log.Fatalf("❌ Region failed: %v", err)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", *command)
		flag.Usage()
		os.Exit(1)
	}
}

func printInfo(w io.Writer, cfg *config.Config, s *stack.Stack) {
	plan := s.Plan()
	minB, maxB := s.Boundaries()

	fmt.Fprintf(w, "🌍 Seed:          %d (derivation v%d)\n", s.Seed(), plan.Version)
	fmt.Fprintf(w, "🧱 Layers:        %d × %d blocks (world height %d)\n", s.LayerCount(), s.LayerHeight(), s.WorldHeight())
	fmt.Fprintf(w, "📏 Boundaries:    [%d, %d], distortion ±%.2f\n", minB, maxB, s.Distortion())
	fmt.Fprintf(w, "🎲 Noise seed:    %d (%s)\n", plan.NoiseSeed, cfg.World.NoiseKind)
	for i, ls := range plan.LayerSeeds {
		fmt.Fprintf(w, "   layer %d: seed=%d\n", i, ls)
	}

	fmt.Fprintf(w, "🌿 Biomes (%s layers, size %d):\n", cfg.World.LayerKind, cfg.World.BiomeSize)
	for _, b := range cfg.Biomes {
		kind := "flat"
		if b.Vertical {
			kind = "vertical"
		}
		fmt.Fprintf(w, "   %c %-12s weight=%-5.1f %s\n", symbolFor(b), b.Key, b.Weight, kind)
	}
}

// symbolFor возвращает букву биома для среза: заглавную для вертикальных
func symbolFor(b biome.Resolved) rune {
	if b == nil {
		return '?'
	}
	id := b.ID()
	if id == "" {
		return '?'
	}
	r := rune(strings.ToLower(id)[0])
	if b.IsVertical() {
		r = rune(strings.ToUpper(string(r))[0])
	}
	return r
}

// printSlice печатает вертикальный срез z=const: строки сверху вниз по высоте
func printSlice(w io.Writer, s *stack.Stack, startX, z, width, step int) {
	fmt.Fprintf(w, "Slice z=%d, x=[%d, %d), step=%d\n", z, startX, startX+width, step)

	top := (s.WorldHeight() - 1) / step * step
	for y := top; y >= 0; y -= step {
		var row strings.Builder
		for x := startX; x < startX+width; x++ {
			row.WriteRune(symbolFor(s.Biome(float64(x), float64(y), float64(z))))
		}
		fmt.Fprintf(w, "%4d %d │%s\n", y, s.LayerIndex(float64(startX), float64(y), float64(z)), row.String())
	}
}

func runRegion(w io.Writer, s *stack.Stack, cx, cz, radius, workers int) error {
	if radius < 0 {
		return fmt.Errorf("radius must be non-negative")
	}

	start := time.Now()
	res, err := s.MaterializeRegion(context.Background(), cx-radius, cz-radius, cx+radius, cz+radius, workers)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✅ Materialised %d chunks around %d:%d in %s (%d workers)\n",
		res.Chunks, cx, cz, time.Since(start).Round(time.Millisecond), workers)
	fmt.Fprintf(w, "   vertical columns: %d\n", res.VerticalColumns)
	return nil
}
