package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sensor-dashboard/backend/internal/aggregate"
)

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorTemp     = lipgloss.Color("208")
	colorHum      = lipgloss.Color("39")
	colorSensor   = lipgloss.Color("147")
)

const minWidth = 40

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	width := max(m.width-2, minWidth)

	sections := []string{m.renderTitleBar(width)}

	switch {
	case !m.hasData:
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data..."))
	case m.page == PageTemperature:
		sections = append(sections, m.renderGraph(width, "Temperature", "°C", colorTemp, func(dp aggregate.Datapoint) float32 { return dp.Temperature }, m.vm.MinTemperature, m.vm.MaxTemperature))
	case m.page == PageHumidity:
		sections = append(sections, m.renderGraph(width, "Humidity", "%", colorHum, func(dp aggregate.Datapoint) float32 { return dp.Humidity }, m.vm.MinHumidity, m.vm.MaxHumidity))
	default:
		sections = append(sections, m.renderMain(width))
	}

	sections = append(sections, m.renderFooter(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) sensorName() string {
	return m.caser.String(m.vm.Type) + " @ " + m.vm.Location
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().Bold(true).Foreground(colorTitleFg).Render("SENSOR DASHBOARD")

	dim := lipgloss.NewStyle().Foreground(colorDim)
	right := dim.Render(fmt.Sprintf("sensors %d │ %s", m.sensors, m.page))

	gap := max(width-lipgloss.Width(logo)-lipgloss.Width(right)-4, 1)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderMain(width int) string {
	label := lipgloss.NewStyle().Foreground(colorDim)
	value := lipgloss.NewStyle().Foreground(colorLabel)

	name := lipgloss.NewStyle().Bold(true).Foreground(colorSensor).Render(m.sensorName())

	readings := lipgloss.NewStyle().Bold(true).Foreground(colorTemp).Render(fmt.Sprintf("%.1f°C", m.vm.Temperature)) +
		"    " +
		lipgloss.NewStyle().Bold(true).Foreground(colorHum).Render(fmt.Sprintf("%.0f%%", m.vm.Humidity))

	battery := "n/a"
	if m.vm.Battery != nil {
		battery = fmt.Sprintf("%d", *m.vm.Battery)
	}

	updated := "never"
	if !m.vm.UpdatedAt.IsZero() {
		updated = m.vm.UpdatedAt.Format("15:04:05")
	}

	rows := []string{
		name,
		"",
		readings,
		"",
		label.Render("Location: ") + value.Render(m.vm.Location),
		label.Render("Counter:  ") + value.Render(fmt.Sprintf("%d", m.counter)),
		label.Render("Temp:     ") + value.Render(fmt.Sprintf("MIN %.1f°C, MAX %.1f°C", m.vm.MinTemperature, m.vm.MaxTemperature)),
		label.Render("Humidity: ") + value.Render(fmt.Sprintf("MIN %.0f%%, MAX %.0f%%", m.vm.MinHumidity, m.vm.MaxHumidity)),
		label.Render("Battery:  ") + value.Render(battery),
		label.Render("History:  ") + value.Render(fmt.Sprintf("%d datapoints, %d pending", len(m.vm.Datapoints), len(m.vm.Pending))),
		label.Render("Updated:  ") + value.Render(updated),
	}

	return panel(width, rows)
}

func (m Model) renderGraph(width int, title, unit string, color lipgloss.Color, pick func(aggregate.Datapoint) float32, lo, hi float32) string {
	dim := lipgloss.NewStyle().Foreground(colorDim)

	values := make([]float32, len(m.vm.Datapoints))
	for i, dp := range m.vm.Datapoints {
		values[i] = pick(dp)
	}

	chartWidth := max(width-6, 10)
	frame := lipgloss.NewStyle().Foreground(colorBorder)

	rows := []string{
		lipgloss.NewStyle().Bold(true).Foreground(colorSensor).Render(m.sensorName()) + dim.Render("  "+title),
		dim.Render(fmt.Sprintf("max %.1f%s", hi, unit)),
		frame.Render("▕") + sparkline(values, chartWidth, lo, hi, color) + frame.Render("▏"),
		dim.Render(fmt.Sprintf("min %.1f%s", lo, unit)),
	}

	if n := len(m.vm.Datapoints); n > 0 {
		first, last := m.vm.Datapoints[0].Time, m.vm.Datapoints[n-1].Time
		if !first.IsZero() && !last.IsZero() {
			rows = append(rows, dim.Render(first.Format("15:04:05")+" → "+last.Format("15:04:05")))
		}
	} else {
		rows = append(rows, dim.Render("no datapoints yet"))
	}

	return panel(width, rows)
}

func (m Model) renderFooter(width int) string {
	dim := lipgloss.NewStyle().Foreground(colorDim)
	text := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dim.Render("q") + text.Render(":quit") +
		dim.Render("  n/→/space") + text.Render(":next sensor") +
		dim.Render("  p/tab") + text.Render(":page")

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys)
}

func panel(width int, rows []string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
