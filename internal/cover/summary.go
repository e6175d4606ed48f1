package cover

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	summaryWidth  = 600
	summaryHeight = 400
	summaryMargin = 60
	lineHeight    = 16
)

// RenderSummary draws the run parameters as text on a white canvas, standing
// in for a screenshot of the pipeline configuration.
func RenderSummary(d ReportData) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, summaryWidth, summaryHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: face}
	maxChars := (summaryWidth - 2*summaryMargin) / face.Advance

	y := summaryMargin
	line := func(s string) {
		drawer.Dot = fixed.P(summaryMargin, y)
		drawer.DrawString(s)
		y += lineHeight
	}

	line("Model: " + d.Model)
	line("Device: " + d.Device)
	y += lineHeight
	line("Sampler: default")
	line(fmt.Sprintf("Steps: %d", d.Steps))
	line(fmt.Sprintf("CFG: %g", d.GuidanceScale))
	line(fmt.Sprintf("Size: %dx%d", d.Width, d.Height))
	y += lineHeight
	line("Prompt:")
	for _, l := range wrap(d.Prompt, maxChars) {
		if y > summaryHeight-lineHeight {
			break
		}
		line(l)
	}
	return img
}

func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
