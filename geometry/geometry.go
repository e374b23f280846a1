// Package geometry derives tank capacity figures from operator-entered
// dimensions. Results are cached on the tank row and recomputed on every
// write; the calculator is the single source of truth for the derivation.
package geometry

import (
	"math"

	"github.com/goliatone/go-hatchery/pkg/types"
)

// Result carries the derived figures for one tank.
type Result struct {
	VolumeLitres float64
	AreaSqm      float64
}

// Compute derives surface area and capacity from the dimensions relevant to
// the shape. Dimensions are meters; volume is liters (area · height · 1000).
// Missing or non-positive inputs contribute 0 so a partially filled form
// yields zeros rather than an error. Unknown shapes also yield zeros.
func Compute(shape types.TankShape, dims types.TankDims) Result {
	area := 0.0
	switch shape {
	case types.ShapeCircle:
		r := nonNegative(dims.RadiusM)
		area = math.Pi * r * r
	case types.ShapeRectangle:
		area = nonNegative(dims.LengthM) * nonNegative(dims.WidthM)
	}
	volume := area * nonNegative(dims.HeightM) * 1000
	return Result{
		VolumeLitres: round2(volume),
		AreaSqm:      round2(area),
	}
}

// Apply stamps the derived figures onto the tank.
func Apply(tank *types.Tank) {
	result := Compute(tank.Shape, tank.Dims)
	tank.VolumeLitres = result.VolumeLitres
	tank.AreaSqm = result.AreaSqm
}

func nonNegative(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
