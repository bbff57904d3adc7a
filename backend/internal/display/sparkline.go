package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// sparkline renders the last width values scaled between lo and hi. Missing
// columns on the left are padded with a dim rule.
func sparkline(values []float32, width int, lo, hi float32, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}

	if len(values) > width {
		values = values[len(values)-width:]
	}

	dim := lipgloss.NewStyle().Foreground(colorDim)
	span := hi - lo

	var sb strings.Builder

	sb.WriteString(dim.Render(strings.Repeat("╌", width-len(values))))

	blocks := make([]rune, len(values))
	for i, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float32(len(sparkBlocks)-1))
		}

		blocks[i] = sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)]
	}

	sb.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(blocks)))

	return sb.String()
}
