package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/hoversim/internal/analysis"
	"github.com/san-kum/hoversim/internal/experiment"
	"github.com/san-kum/hoversim/internal/heli"
)

// GroundTrack returns the horizontal x/y path of an episode.
func GroundTrack(result *experiment.Result) []analysis.Point {
	points := make([]analysis.Point, len(result.Snapshots))
	for i, s := range result.Snapshots {
		points[i] = analysis.Point{X: s.State[heli.X], Y: s.State[heli.Y]}
	}
	return points
}

// TrajectoryToSVG draws points as a single polyline with the start marked.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	portrait := analysis.PhasePortrait2D{Points: points}
	minX, maxX, minY, maxY := portrait.Bounds()
	rangeX, rangeY := maxX-minX, maxY-minY

	px := func(p analysis.Point) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width), float64(height) - (p.Y-minY)/rangeY*float64(height)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`, width, height, width, height, strokeColor)

	for i, p := range points {
		x, y := px(p)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")

	x0, y0 := px(points[0])
	fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"#ffffff\"/>\n</svg>", x0, y0)
	return sb.String()
}
