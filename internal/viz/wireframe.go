package viz

import (
	"math"
	"sort"

	"github.com/san-kum/hoversim/internal/quat"
)

// Camera orbits the origin and projects world points with a simple
// perspective divide. Rotations are applied about x, then y, then z.
type Camera struct {
	Distance         float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	// look slightly down onto the rotor plane
	return &Camera{Distance: 12, RotX: -0.5, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p quat.Vec3) quat.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p[1], p[2] = p[1]*cx-p[2]*sx, p[1]*sx+p[2]*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p[0], p[2] = p[0]*cy+p[2]*sy, -p[0]*sy+p[2]*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p[0], p[1] = p[0]*cz-p[1]*sz, p[0]*sz+p[1]*cz
	return p
}

// Project maps a display-frame point (x right, y up, z toward the viewer)
// to dot coordinates on a sw x sh surface. It returns the depth and whether
// the point is in front of the camera and on screen.
func (c *Camera) Project(p quat.Vec3, sw, sh int) (int, int, float64, bool) {
	r := c.rotate(p).Scale(c.Zoom)
	if r[2] >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - r[2])
	unit := float64(min(sw, sh)) / 6.0
	sx := int(r[0]*persp*unit) + sw/2
	sy := int(-r[1]*persp*unit) + sh/2
	return sx, sy, r[2], sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End quat.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0, 32)} }

func (w *Wireframe) AddEdge(s, e quat.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

// Transform returns a copy with every vertex passed through f.
func (w *Wireframe) Transform(f func(quat.Vec3) quat.Vec3) *Wireframe {
	out := &Wireframe{Edges: make([]Edge, len(w.Edges))}
	for i, e := range w.Edges {
		out.Edges[i] = Edge{f(e.Start), f(e.End)}
	}
	return out
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws w far-to-near. Edges with both ends off screen are skipped.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	cw, ch := c.Dots()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// AirframeWireframe is a body-frame outline of a small helicopter: x
// forward, y right, z down, about 1.5 m rotor diameter.
func AirframeWireframe() *Wireframe {
	w := NewWireframe()

	// fuselage box
	const fx, fy, fz = 0.5, 0.15, 0.2
	v := []quat.Vec3{
		{fx, -fy, -fz}, {fx, fy, -fz}, {-fx, fy, -fz}, {-fx, -fy, -fz},
		{fx, -fy, fz}, {fx, fy, fz}, {-fx, fy, fz}, {-fx, -fy, fz},
	}
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}} {
		w.AddEdge(v[e[0]], v[e[1]])
	}

	// tail boom and fin
	tail := quat.Vec3{-1.4, 0, -0.1}
	w.AddEdge(quat.Vec3{-fx, 0, -0.1}, tail)
	w.AddEdge(tail, quat.Vec3{-1.4, 0, -0.45})

	// mast and rotor disc
	hub := quat.Vec3{0, 0, -0.45}
	w.AddEdge(quat.Vec3{0, 0, -fz}, hub)
	const segments = 16
	const radius = 0.75
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / segments
		a1 := 2 * math.Pi * float64(i+1) / segments
		w.AddEdge(
			quat.Vec3{radius * math.Cos(a0), radius * math.Sin(a0), hub[2]},
			quat.Vec3{radius * math.Cos(a1), radius * math.Sin(a1), hub[2]},
		)
	}

	// skids
	for _, y := range []float64{-0.3, 0.3} {
		w.AddEdge(quat.Vec3{0.6, y, 0.35}, quat.Vec3{-0.6, y, 0.35})
	}
	return w
}

// toDisplay converts a north-east-down vector into the camera frame: x
// east, y up, z south.
func toDisplay(v quat.Vec3) quat.Vec3 { return quat.Vec3{v[1], -v[2], -v[0]} }

// AttitudeWireframe returns the airframe rotated by q into the world frame,
// centered at the origin, with the level reference cross drawn below it.
func AttitudeWireframe(q quat.Quat) *Wireframe {
	w := AirframeWireframe().Transform(func(p quat.Vec3) quat.Vec3 {
		return toDisplay(quat.Rotate(p, q))
	})
	ground := 1.0
	w.AddEdge(toDisplay(quat.Vec3{-1.5, 0, ground}), toDisplay(quat.Vec3{1.5, 0, ground}))
	w.AddEdge(toDisplay(quat.Vec3{0, -1.5, ground}), toDisplay(quat.Vec3{0, 1.5, ground}))
	return w
}
