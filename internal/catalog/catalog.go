// Package catalog holds the static learning content: modules, lessons,
// slides and achievement definitions.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yml
var embedded embed.FS

const (
	modulesFile      = "modules.yml"
	achievementsFile = "achievements.yml"
)

// LessonType describes how a lesson is presented.
type LessonType string

const (
	LessonTypeConcept     LessonType = "concept"
	LessonTypeQuiz        LessonType = "quiz"
	LessonTypeScenario    LessonType = "scenario"
	LessonTypeInteractive LessonType = "interactive"
)

type Module struct {
	ID             string   `yaml:"id" validate:"required"`
	Title          string   `yaml:"title" validate:"required"`
	Icon           string   `yaml:"icon"`
	Description    string   `yaml:"description"`
	RequiredModule string   `yaml:"required_module,omitempty"`
	Lessons        []Lesson `yaml:"lessons" validate:"min=1,dive"`
}

type Lesson struct {
	ID       string     `yaml:"id" validate:"required"`
	ModuleID string     `yaml:"-"`
	Title    string     `yaml:"title" validate:"required"`
	Type     LessonType `yaml:"type" validate:"required,oneof=concept quiz scenario interactive"`
	XPReward int        `yaml:"xp_reward" validate:"gte=0"`
	Slides   []Slide    `yaml:"-" validate:"min=1,dive"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (l *Lesson) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ID       string      `yaml:"id"`
		Title    string      `yaml:"title"`
		Type     LessonType  `yaml:"type"`
		XPReward int         `yaml:"xp_reward"`
		Slides   []yaml.Node `yaml:"slides"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	slides := make([]Slide, 0, len(raw.Slides))
	for i := range raw.Slides {
		slide, err := decodeSlide(&raw.Slides[i])
		if err != nil {
			return fmt.Errorf("lesson %s: %w", raw.ID, err)
		}
		slides = append(slides, slide)
	}

	*l = Lesson{
		ID:       raw.ID,
		Title:    raw.Title,
		Type:     raw.Type,
		XPReward: raw.XPReward,
		Slides:   slides,
	}
	return nil
}

// Achievement is the static definition of an achievement. Unlock records
// refer to it by ID.
type Achievement struct {
	ID          string `yaml:"id" validate:"required"`
	Title       string `yaml:"title" validate:"required"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
}

// Catalog is the validated, read-only set of modules and achievements.
type Catalog struct {
	modules      []Module
	achievements []Achievement
}

// New validates modules and achievements and builds a Catalog from them.
func New(modules []Module, achievements []Achievement) (*Catalog, error) {
	for i := range modules {
		for j := range modules[i].Lessons {
			modules[i].Lessons[j].ModuleID = modules[i].ID
		}
	}
	if err := validateCatalog(modules, achievements); err != nil {
		return nil, err
	}
	return &Catalog{
		modules:      modules,
		achievements: achievements,
	}, nil
}

// Load reads modules.yml and achievements.yml from directory, falling back
// to the embedded files for each one that does not exist there.
func Load(directory string) (*Catalog, error) {
	var modulesDoc struct {
		Modules []Module `yaml:"modules"`
	}
	if err := readFileWithFallback(directory, modulesFile, &modulesDoc); err != nil {
		return nil, err
	}

	var achievementsDoc struct {
		Achievements []Achievement `yaml:"achievements"`
	}
	if err := readFileWithFallback(directory, achievementsFile, &achievementsDoc); err != nil {
		return nil, err
	}

	return New(modulesDoc.Modules, achievementsDoc.Achievements)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load("")
}

func readFileWithFallback(directory, name string, v any) error {
	if directory != "" {
		path := filepath.Join(directory, name)
		contents, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(contents, v); err != nil {
				return fmt.Errorf("yaml.Unmarshal(%s) > %w", path, err)
			}
			return nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("os.ReadFile(%s) > %w", path, err)
		}
		slog.Default().Debug("catalog file not found, using the embedded one",
			slog.String("path", path),
		)
	}

	contents, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("embedded.ReadFile(%s) > %w", name, err)
	}
	if err := yaml.Unmarshal(contents, v); err != nil {
		return fmt.Errorf("yaml.Unmarshal(embedded %s) > %w", name, err)
	}
	return nil
}

// Modules returns every module in display order.
func (c *Catalog) Modules() []Module {
	return c.modules
}

// Achievements returns every achievement definition in display order.
func (c *Catalog) Achievements() []Achievement {
	return c.achievements
}

func (c *Catalog) Module(moduleID string) (Module, bool) {
	i := slices.IndexFunc(c.modules, func(m Module) bool {
		return m.ID == moduleID
	})
	if i < 0 {
		return Module{}, false
	}
	return c.modules[i], true
}

// Lesson finds a lesson by ID in any module.
func (c *Catalog) Lesson(lessonID string) (Lesson, bool) {
	for _, m := range c.modules {
		for _, l := range m.Lessons {
			if l.ID == lessonID {
				return l, true
			}
		}
	}
	return Lesson{}, false
}

func (c *Catalog) Achievement(achievementID string) (Achievement, bool) {
	i := slices.IndexFunc(c.achievements, func(a Achievement) bool {
		return a.ID == achievementID
	})
	if i < 0 {
		return Achievement{}, false
	}
	return c.achievements[i], true
}

// IsLocked reports whether the module's prerequisite is not yet completed.
func IsLocked(module Module, completedModules []string) bool {
	return module.RequiredModule != "" && !slices.Contains(completedModules, module.RequiredModule)
}

// LessonIDs returns the IDs of the module's lessons in order.
func (m Module) LessonIDs() []string {
	ids := make([]string, 0, len(m.Lessons))
	for _, l := range m.Lessons {
		ids = append(ids, l.ID)
	}
	return ids
}

// TotalXP is the XP awarded for completing every lesson of the module.
func (m Module) TotalXP() int {
	total := 0
	for _, l := range m.Lessons {
		total += l.XPReward
	}
	return total
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		question, ok := sl.Current().Interface().(Question)
		if !ok {
			return
		}
		if question.CorrectOption().ID == "" {
			sl.ReportError(question.CorrectOption(), "CorrectAnswer", "correct_answer", "oneof_options", "")
		}
	}, QuizSlide{}, ScenarioSlide{})
	return validate
}

func validateCatalog(modules []Module, achievements []Achievement) error {
	validate := newValidator()
	var errs []error

	moduleIDs := make(map[string]struct{}, len(modules))
	lessonIDs := make(map[string]struct{})
	for _, m := range modules {
		if err := validate.Struct(m); err != nil {
			errs = append(errs, fmt.Errorf("module %s: %w", m.ID, err))
		}
		if _, ok := moduleIDs[m.ID]; ok {
			errs = append(errs, fmt.Errorf("duplicate module id %s", m.ID))
		}
		moduleIDs[m.ID] = struct{}{}

		for _, l := range m.Lessons {
			if _, ok := lessonIDs[l.ID]; ok {
				errs = append(errs, fmt.Errorf("duplicate lesson id %s", l.ID))
			}
			lessonIDs[l.ID] = struct{}{}
		}
	}
	for _, m := range modules {
		if m.RequiredModule == "" {
			continue
		}
		if _, ok := moduleIDs[m.RequiredModule]; !ok || m.RequiredModule == m.ID {
			errs = append(errs, fmt.Errorf("module %s requires unknown module %s", m.ID, m.RequiredModule))
		}
	}

	achievementIDs := make(map[string]struct{}, len(achievements))
	for _, a := range achievements {
		if err := validate.Struct(a); err != nil {
			errs = append(errs, fmt.Errorf("achievement %s: %w", a.ID, err))
		}
		if _, ok := achievementIDs[a.ID]; ok {
			errs = append(errs, fmt.Errorf("duplicate achievement id %s", a.ID))
		}
		achievementIDs[a.ID] = struct{}{}
	}
	return errors.Join(errs...)
}
