package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec2 is a 2-D vector. It is encoded as a two element array on the wire.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) Array() [2]float64 { return [2]float64{v.X, v.Y} }

func (v Vec2) String() string { return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y) }

func (v Vec2) MarshalJSON() ([]byte, error) { return json.Marshal(v.Array()) }

func (v *Vec2) UnmarshalJSON(b []byte) error {
	var arr [2]float64
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	v.X, v.Y = arr[0], arr[1]
	return nil
}

// Body is a physics-owned handle to a player's ball. Players reference bodies,
// they never own the physics world.
type Body interface {
	Position() Vec2
	Velocity() Vec2
}

// LevelData is the generated geometry of a hole.
type LevelData struct {
	Points []Vec2  `json:"points"` // terrain polyline, ascending X
	Spawn  Vec2    `json:"spawn"`
	Hole   Vec2    `json:"hole"` // center of the cup floor
	Width  float64 `json:"width"`
	Color  string  `json:"color"`
}

// Level is a hole being played together with its round timing.
type Level struct {
	Data      LevelData
	StartTime int64
	ExpTime   int64
}

// HeightAt returns the terrain height under x by linear interpolation.
// Outside the polyline the nearest endpoint height is used.
func (d LevelData) HeightAt(x float64) float64 {
	pts := d.Points
	if len(pts) == 0 {
		return 0
	}
	if x <= pts[0].X {
		return pts[0].Y
	}
	for i := 1; i < len(pts); i++ {
		if x <= pts[i].X {
			a, b := pts[i-1], pts[i]
			if b.X == a.X {
				return b.Y
			}
			t := (x - a.X) / (b.X - a.X)
			return a.Y + t*(b.Y-a.Y)
		}
	}
	return pts[len(pts)-1].Y
}
