package diffusion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"supportbot/internal/models"
)

// WebUI is a client for the stable-diffusion-webui HTTP API.
type WebUI struct {
	baseURL string
	client  *http.Client
}

func NewWebUI(baseURL string) *WebUI {
	return &WebUI{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
}

type txt2imgRequest struct {
	Prompt    string  `json:"prompt"`
	Steps     int     `json:"steps"`
	CfgScale  float64 `json:"cfg_scale"`
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	BatchSize int     `json:"batch_size"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

// Generate runs one txt2img call. A zero width or height is left to the
// backend default.
func (w *WebUI) Generate(ctx context.Context, params models.GenerationParams) (image.Image, error) {
	reqBody := txt2imgRequest{
		Prompt:    params.Prompt,
		Steps:     params.Steps,
		CfgScale:  params.GuidanceScale,
		Width:     params.Width,
		Height:    params.Height,
		BatchSize: 1,
	}

	var resp txt2imgResponse
	if err := w.do(ctx, http.MethodPost, "/sdapi/v1/txt2img", reqBody, &resp); err != nil {
		return nil, models.NewError(models.KindBackendUnavailable, "txt2img", err)
	}
	if len(resp.Images) == 0 {
		return nil, models.NewError(models.KindBackendUnavailable, "txt2img", fmt.Errorf("no images returned"))
	}

	data, err := base64.StdEncoding.DecodeString(stripDataURI(resp.Images[0]))
	if err != nil {
		return nil, models.NewError(models.KindParse, "txt2img", fmt.Errorf("decode base64: %w", err))
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewError(models.KindParse, "txt2img", fmt.Errorf("decode image: %w", err))
	}
	log.Debug().Str("format", format).Int("steps", params.Steps).Msg("Image generated")
	return img, nil
}

type memoryResponse struct {
	Cuda struct {
		System map[string]any `json:"system"`
		Error  string         `json:"error"`
	} `json:"cuda"`
}

// Accelerator reports cuda when the backend's memory endpoint lists a CUDA
// device.
func (w *WebUI) Accelerator(ctx context.Context) (Device, error) {
	var resp memoryResponse
	if err := w.do(ctx, http.MethodGet, "/sdapi/v1/memory", nil, &resp); err != nil {
		return "", err
	}
	if resp.Cuda.Error == "" && len(resp.Cuda.System) > 0 {
		return DeviceCUDA, nil
	}
	return "", nil
}

func (w *WebUI) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, w.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func stripDataURI(s string) string {
	if i := strings.Index(s, "base64,"); i >= 0 {
		return s[i+len("base64,"):]
	}
	return s
}
