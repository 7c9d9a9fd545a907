package seedmodels

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"eduassist/internal/domain"
)

// SeedStudent defines the structure for a student in the JSON seed file.
type SeedStudent struct {
	Name        string `json:"name"`
	ParentName  string `json:"parent_name"`
	ParentEmail string `json:"parent_email"`
	ParentPhone string `json:"parent_phone"`
}

// SeedClass defines the structure for a class and its roster in the JSON seed file.
type SeedClass struct {
	Name     string        `json:"class_name"`
	Teacher  string        `json:"teacher"`
	Students []SeedStudent `json:"students"`
}

// ToDomain returns the roster as domain students of the class.
func (c SeedClass) ToDomain() []*domain.Student {
	out := make([]*domain.Student, 0, len(c.Students))
	for _, s := range c.Students {
		out = append(out, &domain.Student{
			Name:        strings.TrimSpace(s.Name),
			ClassName:   c.Name,
			ParentName:  s.ParentName,
			ParentEmail: s.ParentEmail,
			ParentPhone: s.ParentPhone,
		})
	}
	return out
}

// Load reads a roster file. Classes need a name and every student must
// pass domain validation.
func Load(path string) ([]SeedClass, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	var classes []SeedClass
	if err := json.Unmarshal(raw, &classes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed data: %w", err)
	}
	for i, c := range classes {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("class #%d has no class_name", i+1)
		}
		for _, s := range c.ToDomain() {
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("class %s: student %q: %w", c.Name, s.Name, err)
			}
		}
	}
	return classes, nil
}
