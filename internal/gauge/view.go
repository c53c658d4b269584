package gauge

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/loanwise/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	arcFilled = "█"
	arcEmpty  = "░"
	needleDot = "•"
	hub       = "●"
)

// View draws gauge frames in the terminal.
type View struct {
	bar    progress.Model
	theme  themes.Theme
	low    colorful.Color
	high   colorful.Color
	radius int
	title  bool
}

// NewView creates a gauge view. Radius is in terminal rows.
func NewView(theme themes.Theme, radius int, title bool) View {
	if radius < 3 {
		radius = 3
	}
	low, errLow := colorful.Hex(string(theme.GaugeLow))
	high, errHigh := colorful.Hex(string(theme.GaugeHigh))
	if errLow != nil || errHigh != nil {
		low, _ = colorful.Hex("#f43f5e")
		high, _ = colorful.Hex("#12b886")
	}

	bar := progress.New(
		progress.WithGradient(low.Hex(), high.Hex()),
		progress.WithWidth(radius*4+1),
		progress.WithoutPercentage(),
	)

	return View{
		bar:    bar,
		theme:  theme,
		low:    low,
		high:   high,
		radius: radius,
		title:  title,
	}
}

// Width is the rendered width of the arc in cells.
func (v View) Width() int {
	return v.radius*4 + 1
}

// Render draws the arc, needle, scale labels, readout and progress bar.
func (v View) Render(f Frame) string {
	var sections []string
	if v.title {
		sections = append(sections, v.theme.Bold.Render("Approval Meter"))
	}
	sections = append(sections,
		v.renderScaleTop(),
		v.renderArc(f),
		v.renderScaleBottom(),
		v.theme.Bold.Render(centered(fmt.Sprintf("%d%%", f.Percent), v.Width())),
		v.bar.ViewAs(f.Fill()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderArc rasterizes the half circle. Columns are doubled to compensate for
// terminal cells being roughly twice as tall as they are wide.
func (v View) renderArc(f Frame) string {
	width := v.Width()
	height := v.radius + 1
	grid := make([][]string, height)
	for y := range grid {
		grid[y] = make([]string, width)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	cx, cy := v.radius*2, v.radius
	fill := f.Fill()

	steps := v.radius * 12
	for i := 0; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		theta := math.Pi * (1 - frac)
		x := cx + int(math.Round(math.Cos(theta)*float64(v.radius)*2))
		y := cy - int(math.Round(math.Sin(theta)*float64(v.radius)))
		if y < 0 || y >= height || x < 0 || x >= width {
			continue
		}
		if frac <= fill && fill > 0 {
			color := lipgloss.Color(v.low.BlendLab(v.high, frac).Clamped().Hex())
			grid[y][x] = lipgloss.NewStyle().Foreground(color).Render(arcFilled)
		} else {
			grid[y][x] = lipgloss.NewStyle().Foreground(v.theme.Muted).Render(arcEmpty)
		}
	}

	// Needle: 0 degrees points straight up, positive rotates clockwise.
	rad := f.Angle * math.Pi / 180
	needle := lipgloss.NewStyle().Foreground(v.theme.Needle)
	for r := 1; r < v.radius; r++ {
		x := cx + int(math.Round(math.Sin(rad)*float64(r)*2))
		y := cy - int(math.Round(math.Cos(rad)*float64(r)))
		if y < 0 || y >= height || x < 0 || x >= width {
			continue
		}
		grid[y][x] = needle.Render(needleDot)
	}
	grid[cy][cx] = needle.Render(hub)

	lines := make([]string, height)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func (v View) renderScaleTop() string {
	return v.mutedLine(centered("50%", v.Width()))
}

func (v View) renderScaleBottom() string {
	width := v.Width()
	left, right := "0%", "100%"
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	return v.mutedLine(left + strings.Repeat(" ", gap) + right)
}

func (v View) mutedLine(s string) string {
	return lipgloss.NewStyle().Foreground(v.theme.Muted).Render(s)
}

func centered(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
