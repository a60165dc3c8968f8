package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPlanet is returned when a planet identifier is not one of the eight recognized names.
var ErrUnknownPlanet = errors.New("unknown planet")

// Planet is a lower-case planet identifier.
type Planet string

const (
	Mercury Planet = "mercury"
	Venus   Planet = "venus"
	Earth   Planet = "earth"
	Mars    Planet = "mars"
	Jupiter Planet = "jupiter"
	Saturn  Planet = "saturn"
	Uranus  Planet = "uranus"
	Neptune Planet = "neptune"
)

// Planets is the fixed planet set in rendering order.
var Planets = []Planet{Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune}

// ParsePlanet resolves a case-insensitive planet name.
func ParsePlanet(s string) (Planet, error) {
	p := Planet(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlanet, s)
	}
	return p, nil
}

// Valid reports whether p is one of the recognized planets.
func (p Planet) Valid() bool {
	return p.Index() >= 0
}

// Index returns the position of p in Planets, or -1.
func (p Planet) Index() int {
	for i, known := range Planets {
		if p == known {
			return i
		}
	}
	return -1
}

// DisplayName returns the capitalized name used in legends and hover text.
func (p Planet) DisplayName() string {
	if p == "" {
		return ""
	}
	s := string(p)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (p Planet) String() string {
	return string(p)
}
