package catalog

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// SlideType is the tag that selects a Slide variant in the data files.
type SlideType string

const (
	SlideTypeIntroduction SlideType = "introduction"
	SlideTypeConcept      SlideType = "concept"
	SlideTypeQuiz         SlideType = "quiz"
	SlideTypeScenario     SlideType = "scenario"
	SlideTypeCompletion   SlideType = "completion"
)

// Slide is one screen of a lesson. The concrete type is one of
// IntroductionSlide, ConceptSlide, QuizSlide, ScenarioSlide or CompletionSlide.
type Slide interface {
	SlideID() string
	Type() SlideType
	isSlide()
}

type IntroductionSlide struct {
	ID           string `yaml:"id" validate:"required"`
	Title        string `yaml:"title" validate:"required"`
	Text         string `yaml:"text"`
	Illustration string `yaml:"illustration,omitempty"`
}

type ConceptSlide struct {
	ID        string   `yaml:"id" validate:"required"`
	Title     string   `yaml:"title"`
	Text      string   `yaml:"text,omitempty"`
	KeyPoints []string `yaml:"key_points,omitempty"`
}

type QuizSlide struct {
	ID            string       `yaml:"id" validate:"required"`
	Question      string       `yaml:"question" validate:"required"`
	Options       []QuizOption `yaml:"options" validate:"min=2,dive"`
	CorrectAnswer string       `yaml:"correct_answer" validate:"required"`
	Explanation   string       `yaml:"explanation,omitempty"`
}

// ScenarioSlide is a quiz framed by a real-world situation.
type ScenarioSlide struct {
	ID            string       `yaml:"id" validate:"required"`
	Title         string       `yaml:"title,omitempty"`
	Scenario      string       `yaml:"scenario" validate:"required"`
	Options       []QuizOption `yaml:"options" validate:"min=2,dive"`
	CorrectAnswer string       `yaml:"correct_answer" validate:"required"`
	Explanation   string       `yaml:"explanation,omitempty"`
}

type CompletionSlide struct {
	ID        string   `yaml:"id" validate:"required"`
	Title     string   `yaml:"title"`
	Text      string   `yaml:"text,omitempty"`
	KeyPoints []string `yaml:"key_points,omitempty"`
}

type QuizOption struct {
	ID   string `yaml:"id" validate:"required"`
	Text string `yaml:"text" validate:"required"`
}

func (s IntroductionSlide) SlideID() string { return s.ID }
func (s ConceptSlide) SlideID() string      { return s.ID }
func (s QuizSlide) SlideID() string         { return s.ID }
func (s ScenarioSlide) SlideID() string     { return s.ID }
func (s CompletionSlide) SlideID() string   { return s.ID }

func (IntroductionSlide) Type() SlideType { return SlideTypeIntroduction }
func (ConceptSlide) Type() SlideType      { return SlideTypeConcept }
func (QuizSlide) Type() SlideType         { return SlideTypeQuiz }
func (ScenarioSlide) Type() SlideType     { return SlideTypeScenario }
func (CompletionSlide) Type() SlideType   { return SlideTypeCompletion }

func (IntroductionSlide) isSlide() {}
func (ConceptSlide) isSlide()      {}
func (QuizSlide) isSlide()         {}
func (ScenarioSlide) isSlide()     {}
func (CompletionSlide) isSlide()   {}

// Question is implemented by the slides that ask the learner to pick an option.
type Question interface {
	Slide
	Choices() []QuizOption
	IsCorrect(optionID string) bool
	CorrectOption() QuizOption
}

func (s QuizSlide) Choices() []QuizOption     { return s.Options }
func (s ScenarioSlide) Choices() []QuizOption { return s.Options }

func (s QuizSlide) IsCorrect(optionID string) bool     { return optionID == s.CorrectAnswer }
func (s ScenarioSlide) IsCorrect(optionID string) bool { return optionID == s.CorrectAnswer }

func (s QuizSlide) CorrectOption() QuizOption     { return findOption(s.Options, s.CorrectAnswer) }
func (s ScenarioSlide) CorrectOption() QuizOption { return findOption(s.Options, s.CorrectAnswer) }

func findOption(options []QuizOption, optionID string) QuizOption {
	i := slices.IndexFunc(options, func(o QuizOption) bool {
		return o.ID == optionID
	})
	if i < 0 {
		return QuizOption{}
	}
	return options[i]
}

// decodeSlide decodes a YAML mapping into the Slide variant named by its type field.
func decodeSlide(node *yaml.Node) (Slide, error) {
	var header struct {
		Type SlideType `yaml:"type"`
	}
	if err := node.Decode(&header); err != nil {
		return nil, fmt.Errorf("node.Decode() > %w", err)
	}

	var (
		slide Slide
		err   error
	)
	switch header.Type {
	case SlideTypeIntroduction:
		var s IntroductionSlide
		err = node.Decode(&s)
		slide = s
	case SlideTypeConcept:
		var s ConceptSlide
		err = node.Decode(&s)
		slide = s
	case SlideTypeQuiz:
		var s QuizSlide
		err = node.Decode(&s)
		slide = s
	case SlideTypeScenario:
		var s ScenarioSlide
		err = node.Decode(&s)
		slide = s
	case SlideTypeCompletion:
		var s CompletionSlide
		err = node.Decode(&s)
		slide = s
	default:
		return nil, fmt.Errorf("line %d: unknown slide type %q", node.Line, header.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("node.Decode(%s) > %w", header.Type, err)
	}
	return slide, nil
}
