package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xvierd/studyflow/internal/domain"
)

var validCategories = map[domain.ScheduleCategory]bool{
	domain.CategoryStudy:    true,
	domain.CategoryBreak:    true,
	domain.CategoryLife:     true,
	domain.CategoryFrog:     true,
	domain.CategoryMeal:     true,
	domain.CategoryExercise: true,
}

// parseGeneration extracts the JSON object from raw model text and checks it.
func parseGeneration(raw string) (*domain.GenerationResponse, error) {
	jsonStr := extractJSONBlock(stripCodeFences(raw))
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var gen domain.GenerationResponse
	if err := json.Unmarshal([]byte(jsonStr), &gen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if err := normalize(&gen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return &gen, nil
}

// normalize validates schedule items, mapping unknown categories to life.
func normalize(gen *domain.GenerationResponse) error {
	if err := gen.Validate(); err != nil {
		return err
	}
	for i := range gen.Schedule {
		item := &gen.Schedule[i]
		if _, err := domain.ParseClockTime(item.Time); err != nil {
			return fmt.Errorf("schedule item %d: %w", i+1, err)
		}
		if strings.TrimSpace(item.Task) == "" {
			return fmt.Errorf("schedule item %d: empty task", i+1)
		}
		if item.DurationMinutes <= 0 {
			return fmt.Errorf("schedule item %d: duration must be positive", i+1)
		}
		item.Category = domain.ScheduleCategory(strings.ToLower(string(item.Category)))
		if !validCategories[item.Category] {
			item.Category = domain.CategoryLife
		}
		if item.PomodoroCycle < 0 || item.PomodoroCycle > 4 {
			item.PomodoroCycle = 0
		}
	}
	return nil
}

// stripCodeFences removes markdown code fence lines.
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// extractJSONBlock returns the first balanced {...} object in s, honoring
// string literals.
func extractJSONBlock(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
