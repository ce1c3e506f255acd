// Package settings holds the user's display and behaviour preferences as an
// immutable snapshot, persisted to a YAML file and published to subscribers
// whenever it changes.
package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Appearance is the light/dark choice. Exactly one is active.
type Appearance string

const (
	Light Appearance = "light"
	Dark  Appearance = "dark"
)

// ColorTag is the palette index the settings screen stores for accent colors.
type ColorTag int

const (
	ColorGray ColorTag = iota
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorPurple
)

var colorNames = map[ColorTag]string{
	ColorRed:    "red",
	ColorOrange: "orange",
	ColorYellow: "yellow",
	ColorGreen:  "green",
	ColorBlue:   "blue",
	ColorPurple: "purple",
}

// String returns the color name; unknown tags are gray.
func (c ColorTag) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "gray"
}

// ParseColor accepts a color name or its numeric tag.
func ParseColor(s string) (ColorTag, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return ColorTag(n), nil
	}
	if s == "gray" || s == "grey" {
		return ColorGray, nil
	}
	for tag, name := range colorNames {
		if name == s {
			return tag, nil
		}
	}
	return ColorGray, fmt.Errorf("unknown color %q", s)
}

// Settings is a snapshot. Components receive it by value and never see it
// change underneath them; subscribe to the Store for updates.
type Settings struct {
	Appearance     Appearance    `yaml:"appearance"`
	PrimaryColor   ColorTag      `yaml:"primary-color"`
	SecondaryColor ColorTag      `yaml:"secondary-color"`
	ImageQuality   float64       `yaml:"image-quality"`
	IdleThreshold  time.Duration `yaml:"idle-threshold"`
}

// Defaults mirrors a fresh install.
func Defaults() Settings {
	return Settings{
		Appearance:     Light,
		PrimaryColor:   ColorGreen,
		SecondaryColor: ColorBlue,
		ImageQuality:   0.8,
		IdleThreshold:  10 * time.Second,
	}
}

// Dark reports whether the dark appearance is active.
func (s Settings) Dark() bool { return s.Appearance == Dark }

// normalize clamps out-of-range values instead of rejecting the file.
func (s Settings) normalize() Settings {
	if s.Appearance != Dark {
		s.Appearance = Light
	}
	if s.ImageQuality < 0 {
		s.ImageQuality = 0
	}
	if s.ImageQuality > 1 {
		s.ImageQuality = 1
	}
	if s.IdleThreshold < 0 {
		s.IdleThreshold = 0
	}
	return s
}

// Keys lists the names accepted by Get and Set, in display order.
var Keys = []string{"appearance", "primary-color", "secondary-color", "image-quality", "idle-threshold"}

// Get returns the string form of one setting.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case "appearance":
		return string(s.Appearance), nil
	case "primary-color":
		return s.PrimaryColor.String(), nil
	case "secondary-color":
		return s.SecondaryColor.String(), nil
	case "image-quality":
		return strconv.FormatFloat(s.ImageQuality, 'f', 1, 64), nil
	case "idle-threshold":
		return s.IdleThreshold.String(), nil
	}
	return "", fmt.Errorf("unknown setting %q", key)
}

// With returns a copy of s with key set from its string form. The idle
// threshold takes a Go duration or a bare number of seconds ("10"), which
// is what the settings screen stored.
func (s Settings) With(key, value string) (Settings, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "appearance":
		switch Appearance(strings.ToLower(value)) {
		case Light:
			s.Appearance = Light
		case Dark:
			s.Appearance = Dark
		default:
			return s, fmt.Errorf("appearance must be light or dark, got %q", value)
		}
	case "primary-color", "secondary-color":
		c, err := ParseColor(value)
		if err != nil {
			return s, err
		}
		if key == "primary-color" {
			s.PrimaryColor = c
		} else {
			s.SecondaryColor = c
		}
	case "image-quality":
		q, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return s, fmt.Errorf("image-quality: %w", err)
		}
		s.ImageQuality = q
	case "idle-threshold":
		d, err := parseThreshold(value)
		if err != nil {
			return s, err
		}
		s.IdleThreshold = d
	default:
		return s, fmt.Errorf("unknown setting %q", key)
	}
	return s.normalize(), nil
}

func parseThreshold(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("idle-threshold: %w", err)
	}
	return d, nil
}
