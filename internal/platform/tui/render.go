package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilt-platformer/internal/core"
)

// ledGlyph is one matrix pixel; two columns keep cells roughly square.
const ledGlyph = "██"

// ledStyles maps Brightness.Level to an LED shade, off to brightest.
var ledStyles = [5]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("52")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("88")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
}

var (
	matrixStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// RenderMatrix draws the pixel buffer as shaded LED cells, top row first.
// Runs of equal shade share one style span.
func RenderMatrix(p *core.PixelBuffer) string {
	size := p.Size()
	var sb strings.Builder
	sb.Grow(size * size * 8)

	for y := 0; y < size; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < size {
			level := p.Get(x, y).Level()
			var run strings.Builder
			for x < size && p.Get(x, y).Level() == level {
				run.WriteString(ledGlyph)
				x++
			}
			sb.WriteString(ledStyles[level].Render(run.String()))
		}
	}
	return sb.String()
}

// RenderDevice frames the matrix and places the banner line under it.
func RenderDevice(p *core.PixelBuffer, banner string) string {
	line := strings.Repeat(" ", bannerWidth)
	if banner != "" {
		line = banner
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		matrixStyle.Render(RenderMatrix(p)),
		bannerStyle.Render(line),
	)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
