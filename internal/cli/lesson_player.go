package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/learning"
)

// LessonPlayer walks through the slides of a lesson, one slide per session.
// Quiz and scenario slides need an answer before moving on; a wrong
// answer still moves on after the explanation.
type LessonPlayer struct {
	*InteractiveCLI
	lesson   catalog.Lesson
	index    int
	answered int
	correct  int
}

// NewLessonPlayer creates a player positioned on the first slide.
func NewLessonPlayer(cli *InteractiveCLI, lesson catalog.Lesson) *LessonPlayer {
	return &LessonPlayer{
		InteractiveCLI: cli,
		lesson:         lesson,
	}
}

// Finished reports whether every slide was shown.
func (p *LessonPlayer) Finished() bool {
	return p.index >= len(p.lesson.Slides)
}

// Score returns the number of correct answers and of questions answered.
func (p *LessonPlayer) Score() (correct, answered int) {
	return p.correct, p.answered
}

func (p *LessonPlayer) Session(ctx context.Context) error {
	if p.Finished() {
		return errEnd
	}

	slide := p.lesson.Slides[p.index]
	p.printf("\n[%d/%d] ", p.index+1, len(p.lesson.Slides))

	var err error
	back := false
	switch s := slide.(type) {
	case catalog.IntroductionSlide:
		_, _ = p.bold.Fprintln(p.stdoutWriter, s.Title)
		p.printText(s.Text)
		back, err = p.waitForNext()
	case catalog.ConceptSlide:
		_, _ = p.bold.Fprintln(p.stdoutWriter, s.Title)
		p.printText(s.Text)
		p.printKeyPoints(s.KeyPoints)
		back, err = p.waitForNext()
	case catalog.QuizSlide:
		_, _ = p.bold.Fprintln(p.stdoutWriter, s.Question)
		err = p.ask(s, s.Explanation)
	case catalog.ScenarioSlide:
		if s.Title != "" {
			_, _ = p.bold.Fprintln(p.stdoutWriter, s.Title)
		}
		_, _ = p.italic.Fprintln(p.stdoutWriter, s.Scenario)
		err = p.ask(s, s.Explanation)
	case catalog.CompletionSlide:
		_, _ = p.bold.Fprintln(p.stdoutWriter, s.Title)
		p.printText(s.Text)
		p.printKeyPoints(s.KeyPoints)
		back, err = p.waitForNext()
	default:
		return fmt.Errorf("unsupported slide %s of type %T", slide.SlideID(), slide)
	}
	if err != nil {
		return err
	}

	if back {
		p.index = max(p.index-1, 0)
	} else {
		p.index++
	}
	return nil
}

func (p *LessonPlayer) printText(text string) {
	if text == "" {
		return
	}
	p.println(strings.TrimSpace(text))
}

func (p *LessonPlayer) printKeyPoints(points []string) {
	for _, point := range points {
		p.println("  • " + point)
	}
}

// waitForNext reads the navigation key of a text slide. It reports true
// when the user asked for the previous slide.
func (p *LessonPlayer) waitForNext() (bool, error) {
	label := "Continue"
	if p.index == len(p.lesson.Slides)-1 {
		label = "Finish"
	}
	for {
		p.printf("\n[Enter] %s  [b] Previous  [q] Quit: ", label)
		input, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(input) {
		case "":
			return false, nil
		case "b":
			if p.index > 0 {
				return true, nil
			}
			p.println("This is the first slide.")
		case "q":
			return false, ErrQuit
		}
	}
}

func (p *LessonPlayer) ask(question catalog.Question, explanation string) error {
	choices := question.Choices()
	for _, option := range choices {
		p.printf("  %s) %s\n", option.ID, option.Text)
	}

	for {
		p.printf("\nYour answer (or q to quit): ")
		input, err := p.readLine()
		if err != nil {
			return err
		}
		if strings.EqualFold(input, "q") {
			return ErrQuit
		}
		if !slices.ContainsFunc(choices, func(o catalog.QuizOption) bool { return o.ID == input }) {
			p.printf("Choose one of the options shown above.\n")
			continue
		}

		p.answered++
		if question.IsCorrect(input) {
			p.correct++
			_, _ = fmt.Fprint(p.stdoutWriter, "✅ ")
			_, _ = color.New(color.FgGreen).Fprintln(p.stdoutWriter, "Correct!")
		} else {
			correct := question.CorrectOption()
			_, _ = fmt.Fprint(p.stdoutWriter, "❌ ")
			_, _ = color.New(color.FgRed).Fprintf(p.stdoutWriter, "Not quite. The answer is %s) %s\n", correct.ID, correct.Text)
		}
		if explanation != "" {
			p.printf("   %s\n", explanation)
		}
		return nil
	}
}

// PlayLesson plays a lesson and finishes it through service when every
// slide was shown. It returns ErrQuit when the user left early.
func PlayLesson(ctx context.Context, cli *InteractiveCLI, service *learning.Service, lessonID string) (learning.LessonResult, error) {
	lesson, module, err := service.StartLesson(lessonID)
	if err != nil {
		return learning.LessonResult{}, fmt.Errorf("service.StartLesson() > %w", err)
	}

	cli.printf("%s %s › ", module.Icon, module.Title)
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "%s", lesson.Title)
	cli.printf(" (+%d XP)\n", lesson.XPReward)

	player := NewLessonPlayer(cli, lesson)
	if err := cli.Run(ctx, player); err != nil {
		return learning.LessonResult{}, err
	}
	if !player.Finished() {
		return learning.LessonResult{}, ErrQuit
	}

	result, err := service.FinishLesson(ctx, lessonID)
	if err != nil {
		return learning.LessonResult{}, fmt.Errorf("service.FinishLesson() > %w", err)
	}
	correct, answered := player.Score()
	WriteLessonResult(cli, result, correct, answered)
	return result, nil
}

// WriteLessonResult prints the summary shown after a lesson.
func WriteLessonResult(cli *InteractiveCLI, result learning.LessonResult, correct, answered int) {
	cli.println()
	_, _ = cli.bold.Fprintf(cli.stdoutWriter, "Lesson complete: %s\n", result.Lesson.Title)
	if answered > 0 {
		cli.printf("Questions: %d/%d correct\n", correct, answered)
	}
	if result.AlreadyCompleted {
		cli.printf("You had already completed this lesson, so no XP was awarded.\n")
		return
	}
	_, _ = color.New(color.FgGreen).Fprint(cli.stdoutWriter, cli.printer.Sprintf("+%d XP\n", result.XPEarned))
	if result.LeveledUp() {
		_, _ = color.New(color.FgYellow, color.Bold).Fprint(cli.stdoutWriter, cli.printer.Sprintf("Level up! You reached level %d\n", result.LevelAfter))
	}
	if result.ModuleCompleted {
		cli.printf("%s Module completed: %s\n", result.Module.Icon, result.Module.Title)
	}
	for _, a := range result.Achievements {
		cli.printf("%s Achievement unlocked: %s\n", a.Icon, a.Title)
	}
}
