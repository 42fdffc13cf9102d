package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestParse_Valid checks that well-formed settings decode with optional
// fields left nil when absent.
func TestParse_Valid(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		wantPeak int
		wantText string
		wantPP   bool
	}{
		{
			name:     "required fields only",
			input:    `{"comment":"gg","pearkText":"FC","displayPeark":0,"filename":"out.png"}`,
			wantPeak: PeakFullCombo,
			wantText: "FC",
		},
		{
			name:     "slider break with fixed pp",
			input:    `{"comment":"","pearkText":"1xSB","displayPeark":2,"filename":"x.png","pp":412.5}`,
			wantPeak: PeakSliderBreak,
			wantText: "1xSB",
			wantPP:   true,
		},
		{
			name:     "other highlight",
			input:    `{"comment":"","pearkText":"choke","displayPeark":3,"filename":"x.png","accent":"#abc"}`,
			wantPeak: PeakOther,
			wantText: "choke",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Parse([]byte(tc.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if s.DisplayPeak != tc.wantPeak {
				t.Errorf("DisplayPeak = %d, want %d", s.DisplayPeak, tc.wantPeak)
			}
			if s.PeakText != tc.wantText {
				t.Errorf("PeakText = %q, want %q", s.PeakText, tc.wantText)
			}
			if _, ok := s.GetPerformance(); ok != tc.wantPP {
				t.Errorf("GetPerformance() ok = %v, want %v", ok, tc.wantPP)
			}
		})
	}
}

// TestParse_Invalid checks that type and range problems surface as ErrInvalid.
func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `comment=gg`},
		{name: "array", input: `[]`},
		{name: "missing comment", input: `{"pearkText":"FC","displayPeark":0,"filename":"a.png"}`},
		{name: "missing filename", input: `{"comment":"","pearkText":"FC","displayPeark":0}`},
		{name: "missing displayPeark", input: `{"comment":"","pearkText":"FC","filename":"a.png"}`},
		{name: "numeric comment", input: `{"comment":5,"pearkText":"FC","displayPeark":0,"filename":"a.png"}`},
		{name: "string displayPeark", input: `{"comment":"","pearkText":"FC","displayPeark":"0","filename":"a.png"}`},
		{name: "displayPeark out of range", input: `{"comment":"","pearkText":"FC","displayPeark":4,"filename":"a.png"}`},
		{name: "negative displayPeark", input: `{"comment":"","pearkText":"FC","displayPeark":-1,"filename":"a.png"}`},
		{name: "negative pp", input: `{"comment":"","pearkText":"FC","displayPeark":0,"filename":"a.png","pp":-1}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Parse() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	s, created, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !created {
		t.Error("Load() created = false for a missing file")
	}
	if s.Filename != DefaultOutputFile {
		t.Errorf("Filename = %q, want %q", s.Filename, DefaultOutputFile)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default settings not written: %v", err)
	}

	// The written file must load back without being recreated.
	again, created, err := Load(path)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if created {
		t.Error("second Load() created = true")
	}
	if *again != *s {
		t.Errorf("reloaded settings = %+v, want %+v", again, s)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"comment":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

// TestGetters covers the defaults returned for absent optional fields.
func TestGetters(t *testing.T) {
	s := Default()
	if got := s.GetAccent(); got != "" {
		t.Errorf("GetAccent() = %q, want empty", got)
	}
	if got := s.GetFallbackBackground(); got != "" {
		t.Errorf("GetFallbackBackground() = %q, want empty", got)
	}
	if _, ok := s.GetPerformance(); ok {
		t.Error("GetPerformance() ok = true for default settings")
	}

	accent := "#102030"
	pp := 727.0
	bg := "bg.jpg"
	s.Accent, s.Performance, s.FallbackBackground = &accent, &pp, &bg
	if got := s.GetAccent(); got != accent {
		t.Errorf("GetAccent() = %q, want %q", got, accent)
	}
	if got, ok := s.GetPerformance(); !ok || got != pp {
		t.Errorf("GetPerformance() = %v, %v, want %v, true", got, ok, pp)
	}
	if got := s.GetFallbackBackground(); got != bg {
		t.Errorf("GetFallbackBackground() = %q, want %q", got, bg)
	}
}
