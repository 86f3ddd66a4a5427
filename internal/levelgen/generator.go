// Package levelgen builds random playable holes from 1-D Perlin noise.
package levelgen

import (
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"

	"manygolf/internal/domain"
	"manygolf/internal/physics"
)

const (
	Width      = 100.0
	Segments   = 48
	BaseHeight = 18.0
	Amplitude  = 10.0
	MinHeight  = 3.0
	noiseScale = 0.035
)

// Palette holds the terrain colors a level may use.
var Palette = []string{"#3b8f3e", "#6aa84f", "#93c47d", "#38761d", "#b6a35a", "#7f9c3a"}

// Generator produces levels. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded from seed, or from the clock when seed is 0.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns a new hole: a terrain polyline with the spawn on the left
// third and a carved cup in the right half.
func (g *Generator) Generate() domain.LevelData {
	noise := perlin.NewPerlin(2, 2, 3, g.rng.Int63())
	offset := g.rng.Float64() * 1000

	surface := make([]domain.Vec2, 0, Segments+1)
	for i := 0; i <= Segments; i++ {
		x := Width * float64(i) / Segments
		y := BaseHeight + Amplitude*noise.Noise1D(offset+x*noiseScale)
		surface = append(surface, domain.Vec2{X: x, Y: math.Max(y, MinHeight+physics.CupDepth)})
	}

	spawnX := Width * (0.08 + g.rng.Float64()*0.25)
	holeX := Width * (0.55 + g.rng.Float64()*0.37)

	points, hole := carveCup(surface, holeX)
	surfaceAt := domain.LevelData{Points: points}

	return domain.LevelData{
		Points: points,
		Spawn:  domain.Vec2{X: spawnX, Y: surfaceAt.HeightAt(spawnX)},
		Hole:   hole,
		Width:  Width,
		Color:  Palette[g.rng.Intn(len(Palette))],
	}
}

// carveCup cuts a flat-bottomed cup centred on x into the surface and returns
// the new polyline together with the centre of the cup floor.
func carveCup(surface []domain.Vec2, x float64) ([]domain.Vec2, domain.Vec2) {
	half := physics.CupWidth / 2
	left, right := x-half, x+half
	top := domain.LevelData{Points: surface}.HeightAt(x)
	floor := top - physics.CupDepth

	out := make([]domain.Vec2, 0, len(surface)+4)
	carved := false
	for _, p := range surface {
		if p.X >= left && p.X <= right {
			continue
		}
		if p.X > right && !carved {
			out = append(out,
				domain.Vec2{X: left, Y: top},
				domain.Vec2{X: left, Y: floor},
				domain.Vec2{X: right, Y: floor},
				domain.Vec2{X: right, Y: top},
			)
			carved = true
		}
		out = append(out, p)
	}
	return out, domain.Vec2{X: x, Y: floor}
}
