// Package cover generates a stylistic variant of a base image and writes a
// Markdown report describing the run.
package cover

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"supportbot/internal/diffusion"
	"supportbot/internal/models"
)

const (
	InputFile      = "original.jpg"
	OriginalFile   = "original_cover.jpg"
	GeneratedFile  = "generated_album_cover.jpg"
	ScreenshotFile = "pipeline_screenshot.jpg"
	ReportFile     = "report.md"

	ModelName = "Stable Diffusion v1.5"

	jpegQuality = 95
)

// Generator holds the fixed configuration of one cover run.
type Generator struct {
	ResourcesDir string
	OutputDir    string

	Prompt        string
	Steps         int
	GuidanceScale float64

	Device diffusion.Device
	Prober diffusion.Prober
	// NewBackend is called at most once, after the input has been validated.
	NewBackend func(diffusion.Device) (diffusion.Backend, error)
}

type Result struct {
	Device        diffusion.Device
	Params        models.GenerationParams
	OriginalPath  string
	GeneratedPath string
	SummaryPath   string
	ReportPath    string
}

// AdjustDimensions floors both sides to multiples of 8 when either is not one.
func AdjustDimensions(width, height int) (int, int) {
	if width%8 != 0 || height%8 != 0 {
		width = (width / 8) * 8
		height = (height / 8) * 8
	}
	return width, height
}

// Run executes the whole flow. It fails before touching the backend when the
// base image is absent or smaller than 8 pixels on a side; backend errors are
// returned as they come, without retry.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	for _, dir := range []string{g.OutputDir, g.ResourcesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	inputPath := filepath.Join(g.ResourcesDir, InputFile)
	original, err := loadImage(inputPath)
	if err != nil {
		return nil, err
	}

	bounds := original.Bounds()
	width, height := AdjustDimensions(bounds.Dx(), bounds.Dy())
	if width == 0 || height == 0 {
		return nil, models.NewError(models.KindParse, "load input",
			fmt.Errorf("%s is %dx%d, both sides must be at least 8 pixels", inputPath, bounds.Dx(), bounds.Dy()))
	}

	res := &Result{
		OriginalPath:  filepath.Join(g.OutputDir, OriginalFile),
		GeneratedPath: filepath.Join(g.OutputDir, GeneratedFile),
		SummaryPath:   filepath.Join(g.OutputDir, ScreenshotFile),
		ReportPath:    filepath.Join(g.OutputDir, ReportFile),
	}
	if err := saveJPEG(res.OriginalPath, original); err != nil {
		return nil, err
	}

	if width != bounds.Dx() || height != bounds.Dy() {
		log.Info().Int("width", width).Int("height", height).Msgf("Adjusted dimensions from %dx%d", bounds.Dx(), bounds.Dy())
	}

	res.Device = diffusion.SelectDevice(ctx, g.Device, g.Prober)
	log.Info().Str("device", string(res.Device)).Msg("Selected device")

	backend, err := g.NewBackend(res.Device)
	if err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "create backend", err)
	}

	if _, err := backend.Generate(ctx, models.GenerationParams{Prompt: models.WarmupPrompt, Steps: 1}); err != nil {
		return nil, fmt.Errorf("warm-up: %w", err)
	}

	res.Params = models.GenerationParams{
		Prompt:        g.Prompt,
		Steps:         g.Steps,
		GuidanceScale: g.GuidanceScale,
		Width:         width,
		Height:        height,
	}
	log.Info().Int("steps", g.Steps).Float64("guidance", g.GuidanceScale).Msg("Generating cover")
	generated, err := backend.Generate(ctx, res.Params)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if err := saveJPEG(res.GeneratedPath, generated); err != nil {
		return nil, err
	}

	data := ReportData{
		Model:          ModelName,
		Device:         string(res.Device),
		Steps:          g.Steps,
		GuidanceScale:  g.GuidanceScale,
		Width:          width,
		Height:         height,
		Prompt:         g.Prompt,
		OriginalFile:   OriginalFile,
		GeneratedFile:  GeneratedFile,
		ScreenshotFile: ScreenshotFile,
	}
	if err := saveJPEG(res.SummaryPath, RenderSummary(data)); err != nil {
		return nil, err
	}

	var report bytes.Buffer
	if err := WriteReport(&report, data); err != nil {
		return nil, err
	}
	if err := os.WriteFile(res.ReportPath, report.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}

	log.Info().Str("report", res.ReportPath).Msg("Cover generated")
	return res, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewError(models.KindInputMissing, "load input",
				fmt.Errorf("place the original album cover at %s", path))
		}
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, models.NewError(models.KindParse, "decode "+path, err)
	}
	return img, nil
}

func saveJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
