package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilt-platformer/internal/core"
)

func TestRenderMatrix(t *testing.T) {
	p := core.NewPixelBuffer(4)
	p.Set(0, 0, core.BrightnessFull)
	p.Set(3, 3, core.BrightnessDim)

	out := RenderMatrix(p)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("rendered %d rows, expected 4", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 4*lipgloss.Width(ledGlyph) {
			t.Errorf("row %d width = %d", i, w)
		}
	}
}

func TestRenderDeviceBanner(t *testing.T) {
	p := core.NewPixelBuffer(5)

	out := RenderDevice(p, "WIN")
	if !strings.Contains(out, "WIN") {
		t.Error("banner text missing from device view")
	}

	blank := RenderDevice(p, "")
	if strings.Count(blank, "\n") != strings.Count(out, "\n") {
		t.Error("empty banner changed the layout height")
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text     string
		width    int
		expected string
	}{
		{"ab", 6, "  ab"},
		{"abc", 6, " abc"},
		{"toolong", 3, "toolong"},
	}
	for _, tc := range tests {
		if got := centerText(tc.text, tc.width); got != tc.expected {
			t.Errorf("centerText(%q, %d) = %q, expected %q", tc.text, tc.width, got, tc.expected)
		}
	}
}
