package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xvierd/studyflow/internal/domain"
)

func TestProfileFields_Apply(t *testing.T) {
	tests := []struct {
		name    string
		fields  profileFields
		wantErr error
	}{
		{
			name:   "valid",
			fields: profileFields{Name: " Ada ", Wake: "06:30", Sleep: "22:30", Intensity: "High", Theme: "mint"},
		},
		{
			name:    "empty name",
			fields:  profileFields{Name: "  ", Wake: "06:30", Sleep: "22:30", Intensity: "low", Theme: "mint"},
			wantErr: domain.ErrEmptyName,
		},
		{
			name:    "bad wake time",
			fields:  profileFields{Name: "Ada", Wake: "6am", Sleep: "22:30", Intensity: "low", Theme: "mint"},
			wantErr: domain.ErrInvalidTime,
		},
		{
			name:    "bad intensity",
			fields:  profileFields{Name: "Ada", Wake: "06:30", Sleep: "22:30", Intensity: "extreme", Theme: "mint"},
			wantErr: domain.ErrInvalidIntensity,
		},
		{
			name:    "bad theme",
			fields:  profileFields{Name: "Ada", Wake: "06:30", Sleep: "22:30", Intensity: "low", Theme: "neon"},
			wantErr: domain.ErrInvalidTheme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.DefaultProfile()
			err := tt.fields.apply(p)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("apply() error = %v", err)
			}
			if p.Name != "Ada" || p.Intensity != domain.IntensityHigh || p.Theme != domain.ThemeMint {
				t.Errorf("apply() profile = %+v", p)
			}
		})
	}
}

func TestNewProfileFields(t *testing.T) {
	p := domain.DefaultProfile()
	p.Name = "Ada"
	f := newProfileFields(p)
	if f.Name != "Ada" || f.Wake != p.WakeUpTime || f.Intensity != string(p.Intensity) {
		t.Errorf("newProfileFields() = %+v", f)
	}
}

func TestSubjectFields_Request(t *testing.T) {
	req, err := subjectFields{Name: "Physics", Strength: "7", Syllabus: " 12 ", Topic: "Optics"}.request()
	if err != nil {
		t.Fatalf("request() error = %v", err)
	}
	if req.Name != "Physics" || req.Strength != 7 || req.SyllabusSize != 12 || req.CurrentTopic != "Optics" {
		t.Errorf("request() = %+v", req)
	}

	req, err = subjectFields{Name: "Art", Strength: "4"}.request()
	if err != nil || req.SyllabusSize != 0 {
		t.Errorf("blank syllabus: request() = %+v, %v", req, err)
	}

	if _, err := (subjectFields{Name: "Art", Strength: "x"}).request(); !errors.Is(err, domain.ErrInvalidStrength) {
		t.Errorf("bad strength error = %v", err)
	}
	if _, err := (subjectFields{Name: "Art", Strength: "4", Syllabus: "many"}).request(); !errors.Is(err, domain.ErrInvalidSyllabus) {
		t.Errorf("bad syllabus error = %v", err)
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr bool
	}{
		{"required ok", validateRequired, "Ada", false},
		{"required blank", validateRequired, "   ", true},
		{"clock ok", validateClock, "07:15", false},
		{"clock bad", validateClock, "25:00", true},
		{"strength ok", validateStrength, "10", false},
		{"strength zero", validateStrength, "0", true},
		{"strength text", validateStrength, "high", true},
		{"non-negative blank", validateNonNegativeInt, "", false},
		{"non-negative zero", validateNonNegativeInt, "0", false},
		{"non-negative negative", validateNonNegativeInt, "-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validator(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestPrintProfile(t *testing.T) {
	p := &domain.UserProfile{
		Name:       "Ada",
		WakeUpTime: "07:00",
		SleepTime:  "23:00",
		Intensity:  domain.IntensityMedium,
		Theme:      domain.ThemeSky,
		Subjects: []*domain.Subject{
			{ID: "0123456789abcdef", Name: "Calculus", StrengthRating: 3, SyllabusSize: 10, CompletedTopics: 4, CurrentTopic: "Limits"},
		},
	}

	var buf bytes.Buffer
	printProfile(&buf, p)
	out := buf.String()
	for _, want := range []string{"Ada", "07:00 → 23:00 (16h awake)", "medium", "sky", "! Calculus", "4/10", "strength 3/10", "Limits", "[01234567]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	p.Subjects = nil
	printProfile(&buf, p)
	if !strings.Contains(buf.String(), "add-subject") {
		t.Errorf("empty subjects should hint at add-subject:\n%s", buf.String())
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(abc) = %q", got)
	}
	if got := shortID("0123456789"); got != "01234567" {
		t.Errorf("shortID() = %q", got)
	}
}
