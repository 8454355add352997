// Package thermo holds the temperature model: how heat converts into cooking
// speed and how temperatures move between ticks.
package thermo

import (
	"fmt"
	"math"
)

// RoomTemperature is the resting temperature of an idle furnace.
const RoomTemperature = 20.0

// Model converts temperatures into processing efficiency.
type Model struct{}

// DefaultModel returns the standard temperature model.
func DefaultModel() Model {
	return Model{}
}

// Efficiency returns the cook-progress multiplier in [0, 1]. Below the
// required temperature nothing cooks; at or above it progress runs at full
// speed. Excess heat never lowers efficiency.
func (Model) Efficiency(current, required float64) float64 {
	if current < required {
		return 0
	}
	return 1
}

// Approach moves current toward target by at most step, never overshooting.
func Approach(current, target, step float64) float64 {
	if step <= 0 || current == target {
		return current
	}
	if math.Abs(target-current) <= step {
		return target
	}
	if target > current {
		return current + step
	}
	return current - step
}

// Format renders a temperature for display.
func Format(t float64) string {
	return fmt.Sprintf("%.1f°C", t)
}
