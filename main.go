package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gphat/graphics-primitive-driver-cairo/driver"
	canvasdriver "github.com/gphat/graphics-primitive-driver-cairo/driver/canvas"
	"github.com/gphat/graphics-primitive-driver-cairo/dsl"
	"github.com/gphat/graphics-primitive-driver-cairo/scene"
)

func main() {
	input := flag.String("in", "examples/demo.scene", "scene description file")
	output := flag.String("out", "output/demo.png", "output file")
	format := flag.String("format", "", "output format (png/pdf/ps/svg); default from the output extension")
	dataJSON := flag.String("data", "", "JSON data bound to ${path} placeholders")
	debugPath := flag.String("debug", "", "write the component tree as JSON to this path")
	res := flag.Float64("res", 1.0, "raster resolution in pixels per unit (png only)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *verbose {
		canvasdriver.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var data any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			log.Fatalf("parsing data JSON: %v", err)
		}
	}

	if err := run(*input, *output, *format, *debugPath, data, *res); err != nil {
		log.Fatalf("rendering failed: %v", err)
	}
	fmt.Printf("wrote %s\n", *output)
}

// run chains parsing, building and rendering.
func run(inputPath, outputPath, format, debugPath string, data any, res float64) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening scene file %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("parsing scene: %w", err)
	}

	root, err := dsl.Build(doc, dsl.BuildOptions{
		BaseDir: filepath.Dir(inputPath),
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("building component tree: %w", err)
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("creating debug directory: %w", err)
		}
		if err := scene.WriteDebugJSON(root, debugPath); err != nil {
			return fmt.Errorf("writing debug JSON: %w", err)
		}
	}

	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(outputPath), ".")
	}
	var d driver.Driver
	d, err = canvasdriver.NewWithOptions(canvasdriver.Options{
		Format:     format,
		Resolution: res,
	})
	if err != nil {
		return err
	}

	if err := d.Draw(root); err != nil {
		return fmt.Errorf("drawing: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return d.Write(outputPath)
}
