package cover

import (
	"fmt"
	"io"
	"strings"
)

// Headings are the report's section headings, in the order they are written.
var Headings = []string{
	"# 🎵 AI Redesigned Vinyl Album Cover: The Dark Side of the Moon",
	"## 💼 Original Cover",
	"## 🎨 AI-Generated Variation",
	"## ⚙️ Workflow & Technical Details",
	"## 📸 Pipeline Configuration Screenshot",
	"## 🧰 Resources Used",
}

type ReportData struct {
	Model         string
	Device        string
	Steps         int
	GuidanceScale float64
	Width         int
	Height        int
	Prompt        string

	OriginalFile   string
	GeneratedFile  string
	ScreenshotFile string
}

// WriteReport writes the Markdown report. Image links are relative to the
// report's own directory. The prompt is flattened to a single quoted line so
// it can never introduce a heading of its own.
func WriteReport(w io.Writer, d ReportData) error {
	prompt := strings.Join(strings.Fields(d.Prompt), " ")

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", Headings[0])

	fmt.Fprintf(&b, "%s\n\n", Headings[1])
	fmt.Fprintf(&b, "![Original](%s)\n\n---\n\n", d.OriginalFile)

	fmt.Fprintf(&b, "%s\n\n", Headings[2])
	fmt.Fprintf(&b, "![AI Cover](%s)\n\n---\n\n", d.GeneratedFile)

	fmt.Fprintf(&b, "%s\n\n", Headings[3])
	fmt.Fprintf(&b, "**Model**: %s on self-hosted setup\n", d.Model)
	fmt.Fprintf(&b, "**Device**: %s\n", d.Device)
	b.WriteString("**LoRA**: Retro Album Art aesthetic (optional, not used here)\n")
	b.WriteString("**Sampler/Backend**: default scheduler\n")
	fmt.Fprintf(&b, "**Steps**: %d\n", d.Steps)
	fmt.Fprintf(&b, "**CFG Scale**: %g\n", d.GuidanceScale)
	fmt.Fprintf(&b, "**Size**: %dx%d\n\n", d.Width, d.Height)
	b.WriteString("**Prompt**:\n")
	fmt.Fprintf(&b, "> %s\n\n", prompt)

	fmt.Fprintf(&b, "%s\n\n", Headings[4])
	fmt.Fprintf(&b, "![Pipeline Setup](%s)\n\n", d.ScreenshotFile)

	fmt.Fprintf(&b, "%s\n\n", Headings[5])
	b.WriteString("- **Interface**: stable-diffusion-webui HTTP API (self-hosted, no external API)\n")
	fmt.Fprintf(&b, "- **Hardware**: %s\n", d.Device)
	fmt.Fprintf(&b, "- **Model**: %s\n", d.Model)
	b.WriteString("- **LoRA**: Retro aesthetic LoRA file (not loaded in this run)\n")
	b.WriteString("\n👉 The output folder contains the generated images and `report.md`.\n")

	_, err := io.WriteString(w, b.String())
	return err
}
