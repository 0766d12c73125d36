package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/services"
)

// formTheme returns a huh theme using the configured palette.
func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	accent := lipgloss.Color(app.config.Theme.ColorWork)
	title := lipgloss.Color(app.config.Theme.ColorTitle)
	dim := lipgloss.Color(app.config.Theme.ColorHelp)

	t.Focused.Title = lipgloss.NewStyle().Foreground(title).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(accent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(accent)
	t.Focused.FocusedButton = lipgloss.NewStyle().Background(accent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(dim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(accent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(accent)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(dim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(dim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(dim)

	return t
}

// profileFields holds the editable profile fields as form text.
type profileFields struct {
	Name      string
	Wake      string
	Sleep     string
	Intensity string
	Theme     string
}

func newProfileFields(p *domain.UserProfile) profileFields {
	return profileFields{
		Name:      p.Name,
		Wake:      p.WakeUpTime,
		Sleep:     p.SleepTime,
		Intensity: string(p.Intensity),
		Theme:     string(p.Theme),
	}
}

// apply copies the fields onto p and validates the result.
func (f profileFields) apply(p *domain.UserProfile) error {
	p.Name = strings.TrimSpace(f.Name)
	p.WakeUpTime = strings.TrimSpace(f.Wake)
	p.SleepTime = strings.TrimSpace(f.Sleep)
	p.Intensity = domain.Intensity(strings.ToLower(strings.TrimSpace(f.Intensity)))
	p.Theme = domain.Theme(strings.ToLower(strings.TrimSpace(f.Theme)))
	return p.Validate()
}

func profileForm(f *profileFields) *huh.Form {
	intensities := []huh.Option[string]{
		huh.NewOption("Low · gentle day, long breaks", string(domain.IntensityLow)),
		huh.NewOption("Medium · balanced", string(domain.IntensityMedium)),
		huh.NewOption("High · exam mode", string(domain.IntensityHigh)),
	}
	themes := make([]huh.Option[string], 0, len(domain.ValidThemes))
	for _, t := range domain.ValidThemes {
		themes = append(themes, huh.NewOption(string(t), string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What's your name?").
				Value(&f.Name).
				Validate(validateRequired),
			huh.NewInput().
				Title("Wake-up time").
				Placeholder("07:00").
				Value(&f.Wake).
				Validate(validateClock),
			huh.NewInput().
				Title("Bedtime").
				Placeholder("23:00").
				Value(&f.Sleep).
				Validate(validateClock),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How intense should your days be?").
				Options(intensities...).
				Value(&f.Intensity),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&f.Theme),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

// subjectFields holds a new subject as form text.
type subjectFields struct {
	Name     string
	Strength string
	Syllabus string
	Topic    string
}

// request converts the fields into an AddSubjectRequest.
func (f subjectFields) request() (services.AddSubjectRequest, error) {
	strength, err := strconv.Atoi(strings.TrimSpace(f.Strength))
	if err != nil {
		return services.AddSubjectRequest{}, domain.ErrInvalidStrength
	}
	size := 0
	if s := strings.TrimSpace(f.Syllabus); s != "" {
		size, err = strconv.Atoi(s)
		if err != nil {
			return services.AddSubjectRequest{}, domain.ErrInvalidSyllabus
		}
	}
	return services.AddSubjectRequest{
		Name:         f.Name,
		Strength:     strength,
		SyllabusSize: size,
		CurrentTopic: f.Topic,
	}, nil
}

func subjectForm(f *subjectFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Subject").
				Placeholder("Calculus").
				Value(&f.Name).
				Validate(validateRequired),
			huh.NewInput().
				Title("How strong are you at it? (1-10)").
				Placeholder("5").
				Value(&f.Strength).
				Validate(validateStrength),
			huh.NewInput().
				Title("Topics in the syllabus").
				Placeholder("12").
				Value(&f.Syllabus).
				Validate(validateNonNegativeInt),
			huh.NewInput().
				Title("Current topic (blank for none)").
				Value(&f.Topic),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

func reflectionForm(text *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("How did today go?").
				CharLimit(2000).
				Value(text),
		),
	).WithTheme(formTheme()).WithShowHelp(false)
}

// runOnboarding walks a new user through their profile and first subjects.
func runOnboarding(cmd *cobra.Command, profile *domain.UserProfile) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n  👋 Welcome to studyflow! Let's set up your study profile.")

	fields := newProfileFields(profile)
	if err := profileForm(&fields).Run(); err != nil {
		return formError(err)
	}
	if err := fields.apply(profile); err != nil {
		return err
	}

	for {
		var sf subjectFields
		if err := subjectForm(&sf).Run(); err != nil {
			return formError(err)
		}
		req, err := sf.request()
		if err != nil {
			return err
		}
		subject, err := domain.NewSubject(req.Name, req.Strength, req.SyllabusSize)
		if err != nil {
			return err
		}
		subject.CurrentTopic = strings.TrimSpace(req.CurrentTopic)
		if err := profile.AddSubject(subject); err != nil {
			fmt.Fprintf(out, "  %v\n", err)
			continue
		}

		more := false
		if err := confirmForm("Add another subject?", &more).Run(); err != nil {
			return formError(err)
		}
		if !more {
			break
		}
	}

	if err := app.profiles.CompleteOnboarding(cmd.Context(), profile); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n  ✅ All set, %s. Run \"studyflow plan generate\" to plan your day.\n\n", profile.Name)
	return nil
}

// errCancelled is returned when the user backs out of a form.
var errCancelled = errors.New("cancelled")

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}
	return err
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("this field is required")
	}
	return nil
}

func validateClock(s string) error {
	if _, err := domain.ParseClockTime(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use HH:MM format")
	}
	return nil
}

func validateStrength(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > 10 {
		return fmt.Errorf("enter a number from 1 to 10")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter zero or a positive number")
	}
	return nil
}
