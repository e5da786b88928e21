// Command topoprev renders a still of the terrain on the CPU and writes it
// as PNG. No GPU or window is needed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/topo-scene/internal/engine/preview"
	"github.com/Faultbox/topo-scene/internal/logger"
	"github.com/Faultbox/topo-scene/pkg/math"
)

func main() {
	out := flag.String("o", "topo.png", "Output PNG path")
	width := flag.Int("width", 1280, "Image width")
	height := flag.Int("height", 720, "Image height")
	downscale := flag.Int("downscale", 4, "Render at 1/N resolution and upsample")
	sceneTime := flag.Float64("time", 0, "Scene time in seconds")
	px := flag.Float64("px", 0, "Pointer X in [-1, 1]")
	py := flag.Float64("py", 0, "Pointer Y in [-1, 1]")
	level := flag.String("log", "info", "Log level")
	flag.Parse()

	if err := logger.Init(*level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := preview.DefaultOptions(*width, *height)
	opts.Downscale = *downscale
	opts.Time = float32(*sceneTime)
	opts.Pointer = math.Vec2{X: float32(*px), Y: float32(*py)}.Clamp(-1, 1)

	start := time.Now()
	img, err := preview.Render(opts)
	if err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
	if err := preview.WritePNG(*out, img); err != nil {
		logger.Error("write failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("preview written",
		zap.String("path", *out),
		zap.Int("width", *width),
		zap.Int("height", *height),
		zap.Duration("took", time.Since(start)))
}
