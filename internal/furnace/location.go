package furnace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errBadLocation = errors.New("location must look like world:x:y:z")

// Location is the block position a furnace instance is bound to.
type Location struct {
	World string `json:"world"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Z     int    `json:"z"`
}

// String renders the key form "world:x:y:z".
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d:%d", l.World, l.X, l.Y, l.Z)
}

// ParseLocation is the inverse of Location.String.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 4 || parts[0] == "" {
		return Location{}, fmt.Errorf("%w: %q", errBadLocation, s)
	}
	var xyz [3]int
	for i, p := range parts[1:] {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Location{}, fmt.Errorf("%w: %q", errBadLocation, s)
		}
		xyz[i] = v
	}
	return Location{World: parts[0], X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// Less orders locations by world, then x, y, z.
func (l Location) Less(o Location) bool {
	if l.World != o.World {
		return l.World < o.World
	}
	if l.X != o.X {
		return l.X < o.X
	}
	if l.Y != o.Y {
		return l.Y < o.Y
	}
	return l.Z < o.Z
}
