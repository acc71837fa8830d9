// Package render projects the world onto a screen-sized frame. A Frame is a
// self-contained copy, so UIs draw it without holding the world lock.
package render

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"
	"github.com/san-kum/gravity/internal/camera"
	"github.com/san-kum/gravity/internal/dynamo"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

// Trail alpha fades linearly from the newest segment to the oldest.
const (
	TrailAlphaNewest = 200.0
	TrailAlphaOldest = 1.0
)

// Sprite is a projected body. X and Y are pixels from the top left corner.
type Sprite struct {
	Entity ecs.Entity
	Name   string
	X, Y   float64
	Depth  float64
	Color  uint32
	Radius float64
}

type Segment struct {
	X0, Y0 float64
	X1, Y1 float64
	Color  uint32
	Alpha  uint8
}

// Relative is a body's state relative to the camera origin and the velocity
// of whatever the camera follows.
type Relative struct {
	Entity   ecs.Entity
	Name     string
	Position r3.Vec
	Velocity r3.Vec
	Distance float64
	Speed    float64
}

type Frame struct {
	Width, Height int
	Origin        r3.Vec
	Rotation      camera.Rotation
	Matrix        *r3.Mat
	Scale         float64
	ViewRadius    float64
	Follow        camera.Follow
	FollowName    string
	Status        dynamo.Status
	Bodies        []Sprite
	Trails        []Segment
	Relative      []Relative
	// Err is set when the follow policy could not be resolved. The frame is
	// then drawn around the zero origin.
	Err error
}

// Capture builds a frame of the given pixel size under the shared lock.
func Capture(w *world.World, width, height int, log *slog.Logger) Frame {
	if log == nil {
		log = slog.Default()
	}
	f := Frame{Width: width, Height: height, Status: w.Status()}

	w.Read(func(v *world.View) {
		origin, err := v.Origin()
		if err != nil {
			log.Warn("cannot resolve camera origin", "err", err)
			f.Err = err
			origin = r3.Vec{}
		}
		f.Origin = origin
		f.Rotation = v.Rotation()
		f.Matrix = f.Rotation.Matrix()
		f.ViewRadius = v.ViewRadius()
		f.Follow = v.Follow()
		f.FollowName = camera.Name(f.Follow)
		f.Scale = float64(min(width, height)) / 2 / f.ViewRadius

		bodies := v.Bodies()
		frameVel := followVelocity(v, f.Follow, bodies)
		cull := math.Hypot(float64(width), float64(height)) / 2

		for _, b := range bodies {
			rel := r3.Sub(b.Position, origin)
			vel := r3.Sub(b.Velocity, frameVel)
			f.Relative = append(f.Relative, Relative{
				Entity:   b.Entity,
				Name:     b.Name,
				Position: rel,
				Velocity: vel,
				Distance: r3.Norm(rel),
				Speed:    r3.Norm(vel),
			})

			p := f.project(rel)
			if math.Hypot(p.X, p.Y) > cull {
				continue
			}
			f.Bodies = append(f.Bodies, Sprite{
				Entity: b.Entity,
				Name:   b.Name,
				X:      p.X + float64(width)/2,
				Y:      p.Y + float64(height)/2,
				Depth:  p.Z,
				Color:  b.Color,
				Radius: b.PxRadius,
			})
			f.appendTrail(v.Trail(b.Entity), origin, b.Color)
		}
	})
	return f
}

// project rotates a displacement into view space and scales it to pixels.
func (f *Frame) project(rel r3.Vec) r3.Vec {
	return r3.Scale(f.Scale, f.Matrix.MulVec(rel))
}

// ToScreen maps an absolute world position to pixel coordinates.
func (f *Frame) ToScreen(p r3.Vec) (x, y float64) {
	s := f.project(r3.Sub(p, f.Origin))
	return s.X + float64(f.Width)/2, s.Y + float64(f.Height)/2
}

func (f *Frame) appendTrail(points []r3.Vec, origin r3.Vec, color uint32) {
	n := len(points)
	if n < 2 {
		return
	}
	cx, cy := float64(f.Width)/2, float64(f.Height)/2
	prev := f.project(r3.Sub(points[0], origin))
	for i := 1; i < n; i++ {
		cur := f.project(r3.Sub(points[i], origin))
		f.Trails = append(f.Trails, Segment{
			X0:    prev.X + cx,
			Y0:    prev.Y + cy,
			X1:    cur.X + cx,
			Y1:    cur.Y + cy,
			Color: color,
			Alpha: TrailAlpha(i, n),
		})
		prev = cur
	}
}

// TrailAlpha is the opacity of segment i (1-based) of a trail of n points.
func TrailAlpha(i, n int) uint8 {
	t := float64(i) / float64(n)
	return uint8(TrailAlphaNewest + (TrailAlphaOldest-TrailAlphaNewest)*t)
}

// followVelocity is the velocity of the camera's reference frame.
func followVelocity(v *world.View, f camera.Follow, bodies []world.Body) r3.Vec {
	switch f := f.(type) {
	case camera.Target:
		if b, ok := v.Body(f.Entity); ok {
			return b.Velocity
		}
	case camera.CenterOfMass:
		var p r3.Vec
		total := 0.0
		for _, b := range bodies {
			p = r3.Add(p, r3.Scale(b.Mass, b.Velocity))
			total += b.Mass
		}
		if total > 0 {
			return r3.Scale(1/total, p)
		}
	}
	return r3.Vec{}
}
