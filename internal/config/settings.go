package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalid marks a settings file that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Highlight categories as stored in the settings file
const (
	PeakFullCombo = iota
	PeakMiss
	PeakSliderBreak
	PeakOther
)

// Settings is the persisted configuration. Optional fields are pointers so
// that an absent value can be told apart from a zero value.
type Settings struct {
	Comment     string `json:"comment"`
	PeakText    string `json:"pearkText"`
	DisplayPeak int    `json:"displayPeark"`
	Filename    string `json:"filename"`

	Accent             *string  `json:"accent,omitempty"`
	Performance        *float64 `json:"pp,omitempty"`
	FallbackBackground *string  `json:"fallbackBackground,omitempty"`
}

// fileSettings mirrors Settings with every field optional, so missing
// required keys can be reported.
type fileSettings struct {
	Comment     *string `json:"comment"`
	PeakText    *string `json:"pearkText"`
	DisplayPeak *int    `json:"displayPeark"`
	Filename    *string `json:"filename"`

	Accent             *string  `json:"accent"`
	Performance        *float64 `json:"pp"`
	FallbackBackground *string  `json:"fallbackBackground"`
}

// Default returns the settings written when no file exists.
func Default() *Settings {
	return &Settings{
		Comment:     "",
		PeakText:    "FC",
		DisplayPeak: PeakFullCombo,
		Filename:    DefaultOutputFile,
	}
}

// Load reads the settings file at path. A missing file is created with
// the defaults and created is reported as true.
func Load(path string) (s *Settings, created bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s = Default()
		if err := Save(path, s); err != nil {
			return nil, false, err
		}
		return s, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}

	s, err = Parse(data)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return s, false, nil
}

// Parse validates and decodes settings JSON.
func Parse(data []byte) (*Settings, error) {
	var raw fileSettings
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON settings object: %v", ErrInvalid, err)
	}

	switch {
	case raw.Comment == nil:
		return nil, fmt.Errorf("%w: comment must be a string", ErrInvalid)
	case raw.PeakText == nil:
		return nil, fmt.Errorf("%w: pearkText must be a string", ErrInvalid)
	case raw.Filename == nil:
		return nil, fmt.Errorf("%w: filename must be a string", ErrInvalid)
	case raw.DisplayPeak == nil:
		return nil, fmt.Errorf("%w: displayPeark must be a number", ErrInvalid)
	case *raw.DisplayPeak < PeakFullCombo || *raw.DisplayPeak > PeakOther:
		return nil, fmt.Errorf("%w: displayPeark must be 0 = FC, 1 = Miss, 2 = SB or 3 = other", ErrInvalid)
	case raw.Performance != nil && *raw.Performance < 0:
		return nil, fmt.Errorf("%w: pp must not be negative", ErrInvalid)
	}

	return &Settings{
		Comment:            *raw.Comment,
		PeakText:           *raw.PeakText,
		DisplayPeak:        *raw.DisplayPeak,
		Filename:           *raw.Filename,
		Accent:             raw.Accent,
		Performance:        raw.Performance,
		FallbackBackground: raw.FallbackBackground,
	}, nil
}

// Save writes settings as indented JSON.
func Save(path string, s *Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// GetAccent returns the accent override, or "" when the colour should be
// extracted from the background.
func (s *Settings) GetAccent() string {
	if s.Accent == nil {
		return ""
	}
	return *s.Accent
}

// GetPerformance returns the fixed performance value, if one is configured.
func (s *Settings) GetPerformance() (float64, bool) {
	if s.Performance == nil {
		return 0, false
	}
	return *s.Performance, true
}

// GetFallbackBackground returns the fallback background path, or "" to use
// the built-in artwork.
func (s *Settings) GetFallbackBackground() string {
	if s.FallbackBackground == nil {
		return ""
	}
	return *s.FallbackBackground
}
