package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	errEnd = errors.New("end of session")
	// ErrQuit is returned by Run when the user leaves a session early.
	ErrQuit = errors.New("quit by user")
)

// InteractiveCLI contains shared logic for the interactive terminal sessions
type InteractiveCLI struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	printer      *message.Printer
	bold         *color.Color
	italic       *color.Color
}

// NewInteractiveCLI creates a CLI reading answers from stdin and writing to stdout.
func NewInteractiveCLI(stdin io.Reader, stdout io.Writer) *InteractiveCLI {
	return &InteractiveCLI{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		printer:      message.NewPrinter(language.English),
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
	}
}

// NewStdCLI creates a CLI on the process's standard streams.
func NewStdCLI() *InteractiveCLI {
	return NewInteractiveCLI(os.Stdin, os.Stdout)
}

//go:generate mockgen -source=interactive_cli.go -destination=../mocks/cli/mock_session.go -package=mock_cli Session

type Session interface {
	Session(context context.Context) error
}

// Run calls session until it ends, fails or the process is interrupted.
func (cli *InteractiveCLI) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(cli.stdoutWriter, "Received interrupt signal, exiting...")
		return ErrQuit
	case err := <-errCh:
		if errors.Is(err, ErrQuit) {
			return err
		}
		if err != nil {
			return fmt.Errorf("session.Session() > %w", err)
		}
	}
	return nil
}

// readLine reads one trimmed line. io.EOF at the end of the input counts as quitting.
func (cli *InteractiveCLI) readLine() (string, error) {
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return "", ErrQuit
		}
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("stdinReader.ReadString() > %w", err)
		}
	}
	return strings.TrimSpace(line), nil
}

func (cli *InteractiveCLI) printf(format string, args ...any) {
	_, _ = cli.printer.Fprintf(cli.stdoutWriter, format, args...)
}

func (cli *InteractiveCLI) println(args ...any) {
	_, _ = fmt.Fprintln(cli.stdoutWriter, args...)
}
