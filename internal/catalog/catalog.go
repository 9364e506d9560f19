package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
)

// ErrExamNotFound is returned when a code has no manifest entry
var ErrExamNotFound = errors.New("exam not found")

// Exam is one manifest entry describing an installed exam
type Exam struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
	LastUpdated   string `json:"lastUpdated"`
}

// Manifest mirrors the viewer's manifest.json document
type Manifest struct {
	Version        string `json:"version"`
	Generated      string `json:"generated"`
	TotalExams     int    `json:"totalExams"`
	TotalQuestions int    `json:"totalQuestions"`
	Exams          []Exam `json:"exams"`
}

// Catalog answers exam lookups against the loaded manifest
type Catalog struct {
	manifest Manifest
	byCode   map[string]Exam
}

// Load reads manifest.json from path. A missing file degrades to an
// empty catalog so the tracker keeps working without exam content.
func Load(path string) (*Catalog, error) {
	cat := &Catalog{byCode: map[string]Exam{}}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Exam manifest %s not found, starting with an empty catalog", path)
		return cat, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exam manifest: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cat.manifest); err != nil {
		return nil, fmt.Errorf("failed to parse exam manifest: %w", err)
	}

	for _, exam := range cat.manifest.Exams {
		cat.byCode[exam.Code] = exam
	}
	return cat, nil
}

// List returns every exam sorted by code
func (c *Catalog) List() []Exam {
	out := make([]Exam, len(c.manifest.Exams))
	copy(out, c.manifest.Exams)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Get returns the manifest entry for code
func (c *Catalog) Get(code string) (Exam, error) {
	exam, ok := c.byCode[code]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return exam, nil
}

// ResolveName returns the display name for code, falling back to the
// code itself when the manifest has no entry for it.
func (c *Catalog) ResolveName(code string) string {
	if c == nil {
		return code
	}
	if exam, ok := c.byCode[code]; ok && exam.Name != "" {
		return exam.Name
	}
	return code
}
