package analysis

import (
	"strings"
)

type Point struct{ X, Y float64 }

// PhasePortrait2D pairs two trace columns, e.g. altitude against vertical
// velocity.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// NewPhasePortrait pairs xs and ys up to the shorter length.
func NewPhasePortrait(xLabel string, xs []float64, yLabel string, ys []float64) *PhasePortrait2D {
	n := min(len(xs), len(ys))
	portrait := &PhasePortrait2D{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]Point, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait
}

// Bounds returns the extent of the points padded by 10% on every side. A
// zero-width extent is widened to 1 before padding.
func (p *PhasePortrait2D) Bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points[1:] {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	pad := func(lo, hi float64) (float64, float64) {
		span := hi - lo
		if span == 0 {
			span = 1
		}
		return lo - span*0.1, hi + span*0.1
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)
	return minX, maxX, minY, maxY
}

// ASCII renders the portrait into a width x height character grid with axes
// drawn where zero is visible. The last point is marked with '@'.
func (p *PhasePortrait2D) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := p.Bounds()
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == '│' {
				grid[r][c] = '┼'
			} else {
				grid[r][c] = '─'
			}
		}
	}

	for i, pt := range p.Points {
		mark := '•'
		if i == len(p.Points)-1 {
			mark = '@'
		}
		grid[row(pt.Y)][col(pt.X)] = mark
	}

	var sb strings.Builder
	if p.YLabel != "" {
		sb.WriteString(p.YLabel)
		sb.WriteRune('\n')
	}
	for _, r := range grid {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	if p.XLabel != "" {
		sb.WriteString(strings.Repeat(" ", max(0, width-len(p.XLabel))))
		sb.WriteString(p.XLabel)
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the points of the portrait at which the trigger series
// crosses threshold upward, a Poincaré section of the trajectory.
func (p *PhasePortrait2D) Crossings(trigger []float64, threshold float64) []Point {
	points := make([]Point, 0)
	n := min(len(trigger), len(p.Points))
	for i := 1; i < n; i++ {
		if trigger[i-1] < threshold && trigger[i] >= threshold {
			points = append(points, p.Points[i])
		}
	}
	return points
}
