package render

import (
	"strings"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/transition"
)

// FitMode controls how a rectangle with a different aspect ratio fills the
// viewport.
type FitMode int

const (
	FitCenter FitMode = iota
	CenterCrop
)

func (m FitMode) String() string {
	switch m {
	case FitCenter:
		return "fit-center"
	case CenterCrop:
		return "center-crop"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (m FitMode) MarshalText() ([]byte, error) {
	if m != FitCenter && m != CenterCrop {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown fit mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *FitMode) UnmarshalText(b []byte) error {
	parsed, err := ParseFitMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseFitMode resolves a mode name ("fit-center" or "center-crop").
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fit-center", "fit_center", "fitcenter":
		return FitCenter, nil
	case "center-crop", "center_crop", "centercrop":
		return CenterCrop, nil
	}
	return FitCenter, errors.New(errors.ErrCodeInvalidConfig, "unknown fit mode %q (want fit-center or center-crop)", s)
}

// ModeFor returns the fit mode compatible with g.
func ModeFor(g transition.Generator) FitMode {
	if g.IsCroppingImage() {
		return CenterCrop
	}
	return FitCenter
}

// CheckMode fails with INVALID_CONFIG when mode does not match g.
func CheckMode(g transition.Generator, mode FitMode) error {
	if want := ModeFor(g); mode != want {
		return errors.New(errors.ErrCodeInvalidConfig, "fit mode %s does not match generator (want %s)", mode, want)
	}
	return nil
}
