// Package diffusion talks to a text-to-image backend.
package diffusion

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog/log"

	"supportbot/internal/models"
)

// Backend produces one image for a parameter record.
type Backend interface {
	Generate(ctx context.Context, params models.GenerationParams) (image.Image, error)
}

type Device string

const (
	DeviceAuto Device = "auto"
	DeviceMPS  Device = "mps"
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

func (d Device) Accelerated() bool {
	return d == DeviceMPS || d == DeviceCUDA
}

// Prober reports the accelerated device a backend can use, or "" when only
// general purpose compute is available.
type Prober interface {
	Accelerator(ctx context.Context) (Device, error)
}

func ParseDevice(s string) (Device, error) {
	switch d := Device(strings.ToLower(strings.TrimSpace(s))); d {
	case "", DeviceAuto:
		return DeviceAuto, nil
	case DeviceMPS, DeviceCUDA, DeviceCPU:
		return d, nil
	default:
		return "", fmt.Errorf("unknown device %q", s)
	}
}

// SelectDevice resolves the device once. An explicit preference is returned
// as is; auto asks the prober and falls back to cpu when nothing accelerated
// is reported or the probe fails.
func SelectDevice(ctx context.Context, pref Device, prober Prober) Device {
	if pref != DeviceAuto && pref != "" {
		return pref
	}
	if prober == nil {
		return DeviceCPU
	}
	d, err := prober.Accelerator(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Device probe failed, using cpu")
		return DeviceCPU
	}
	if !d.Accelerated() {
		return DeviceCPU
	}
	return d
}
