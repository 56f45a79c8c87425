package importer

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"dramaverse/pkg/models"
)

// Cell coercion is deliberately liberal: import spreadsheets are ragged,
// so every helper here returns a usable value and never an error. The
// only thing that can reject a row is a missing title.

// coerceInt parses a cell as an integer, accepting float spellings like
// "2019.0". Empty or unparseable cells become nil.
func coerceInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// coerceFloat is like coerceInt but substitutes def instead of nil.
func coerceFloat(raw string, def float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return f
}

// coerceEnum lower-cases and trims the cell and falls back to def when
// the value is not a member of valid.
func coerceEnum(raw string, valid []string, def string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	for _, ok := range valid {
		if v == ok {
			return v
		}
	}
	return def
}

// coerceList splits a comma-separated cell, trimming tokens and dropping
// empties. Absent input yields an empty list, never nil.
func coerceList(raw string) []string {
	out := []string{}
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// coerceGenres normalizes comma-separated genre tokens (lower-case,
// spaces to underscores) and keeps only known genres. Unknown tokens are
// dropped silently.
func coerceGenres(raw string) []string {
	known := make(map[string]bool)
	for _, g := range models.Genres() {
		known[g] = true
	}

	out := []string{}
	for _, tok := range coerceList(raw) {
		slug := strings.ReplaceAll(strings.ToLower(tok), " ", "_")
		if known[slug] {
			out = append(out, slug)
		}
	}
	return out
}

// peopleCell is the shape accepted inside a JSON-formatted cast/crew cell.
type peopleCell struct {
	Name         string `json:"name"`
	Character    string `json:"character"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image"`
}

// coercePeople reads a cast/crew cell. A well-formed JSON array of
// objects with a "name" key wins; anything else falls back to treating
// the cell as a comma-separated list of bare names with fallbackRole.
func coercePeople(raw string, fallbackRole string) []models.Person {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []models.Person{}
	}

	var cells []peopleCell
	if err := json.Unmarshal([]byte(raw), &cells); err == nil {
		out := []models.Person{}
		for _, cell := range cells {
			name := strings.TrimSpace(cell.Name)
			if name == "" {
				continue
			}
			role := cell.Character
			if role == "" {
				role = cell.Role
			}
			out = append(out, models.Person{
				ID:           uuid.NewString(),
				Name:         name,
				Role:         role,
				ProfileImage: cell.ProfileImage,
			})
		}
		return out
	}

	out := []models.Person{}
	for _, name := range coerceList(raw) {
		out = append(out, models.Person{
			ID:   uuid.NewString(),
			Name: name,
			Role: fallbackRole,
		})
	}
	return out
}
