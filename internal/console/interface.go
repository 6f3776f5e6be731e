package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"page-actions/internal/entity"
	"page-actions/internal/script"
	"page-actions/internal/usecase"
	"page-actions/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var errExit = errors.New("exit")

// Interface is a line-oriented REPL: every line that is not a console
// command is dispatched as an action.
type Interface struct {
	logger  *zap.Logger
	usecase *usecase.Service
	in      io.Reader
	out     io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewInterface(params Params) *Interface {
	return newInterface(params, os.Stdin, os.Stdout)
}

func newInterface(params Params, in io.Reader, out io.Writer) *Interface {
	ctx, cancel := context.WithCancel(context.Background())

	return &Interface{
		logger:  params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase: params.Usecase,
		in:      in,
		out:     out,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start reads commands until input ends, "exit" is entered or Stop is called.
func (i *Interface) Start() error {
	i.printBanner()
	i.printHelp()

	scanner := bufio.NewScanner(i.in)

	for i.ctx.Err() == nil {
		fmt.Fprint(i.out, "\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if err := i.handleCommand(input); err != nil {
			if errors.Is(err, errExit) {
				break
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}

func (i *Interface) Stop() error {
	i.once.Do(func() {
		i.logger.Info("Stopping console interface...")
		i.cancel()
		i.usecase.Runner.Stop()
	})

	return nil
}

func (i *Interface) handleCommand(input string) error {
	keyword, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(keyword) {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "state":
		return i.printState()
	case "valid":
		return i.validate(rest)
	case "run":
		return i.runFile(rest)
	default:
		return i.runCommand(input)
	}
}

func (i *Interface) runCommand(command string) error {
	run, err := i.usecase.Runner.Execute(i.ctx, "console", []string{command})
	if run == nil {
		return err
	}

	i.printRun(run)

	return nil
}

func (i *Interface) runFile(path string) error {
	if path == "" {
		return errors.New("usage: run <file>")
	}

	scripts, err := script.Load(path)
	if err != nil {
		return err
	}

	for _, sc := range scripts {
		fmt.Fprintf(i.out, "\n▶ Running script %q (%d actions)\n", sc.Name, len(sc.Actions))

		run, err := i.usecase.Runner.ExecuteScript(i.ctx, sc)
		if run == nil {
			return err
		}

		i.printRun(run)

		if run.Status != entity.RunStatusCompleted {
			return nil
		}
	}

	return nil
}

func (i *Interface) validate(command string) error {
	if command == "" {
		return errors.New("usage: valid <command>")
	}

	for _, v := range i.usecase.Runner.Validate([]string{command}) {
		if v.Valid {
			fmt.Fprintf(i.out, "✅ %q resolves to an action\n", v.Command)
		} else {
			fmt.Fprintf(i.out, "❌ %q does not match any action\n", v.Command)
		}
	}

	return nil
}

func (i *Interface) printState() error {
	state, err := i.usecase.Browser.GetPageState(i.ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(i.out, "URL:   %s\nTitle: %s\n", state.URL, state.Title)

	return nil
}

func (i *Interface) printRun(run *entity.Run) {
	for _, step := range run.Steps {
		if step.Success {
			fmt.Fprintf(i.out, "✅ %s (%s)\n", step.Command, step.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(i.out, "❌ %s\n   %s\n", step.Command, step.Error)
		}
	}

	if run.Status != entity.RunStatusCompleted && run.FailedStep() == nil {
		fmt.Fprintf(i.out, "Run %s: %s\n", run.Status, run.Error)
	}
}

func (i *Interface) printBanner() {
	fmt.Fprintln(i.out, `
╔══════════════════════════════════════════╗
║              page-actions                ║
║   drive a browser page with plain text   ║
╚══════════════════════════════════════════╝`)
}

func (i *Interface) printHelp() {
	fmt.Fprintln(i.out, `
Console commands:
  help, h          - Show this help message
  state            - Print the current page URL and title
  valid <command>  - Check whether a command resolves to an action
  run <file>       - Run an action script (.hcl or one command per line)
  exit, quit, q    - Exit the application

Anything else is run as an action:
  navigate to [url] <url>
  click [element] <selector>
  set [field] <selector> to <value>
  clear [field] <selector>
  (check|uncheck) [field] <selector>
  screen capture [to] <path>
  wait for (fragment|hash|path|url) [to [not] be] <value>
  wait for element <selector> to be (added|removed|visible|hidden)`)
}
