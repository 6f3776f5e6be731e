package cmd

import (
	"fmt"
	"io"
	"os"

	"page-actions/internal/actions"
	"page-actions/internal/bootstrap"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewRootCommand builds the page-actions command tree. Without a subcommand
// it starts the interactive console.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "page-actions",
		Short:         "Drive a browser page with plain-text action commands.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap.NewApp().Run()

			return nil
		},
	}

	root.AddCommand(newConsoleCommand(), newRunCommand(), newValidateCommand(), newActionsCommand())

	return root
}

func newConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Launch the browser and read actions from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap.NewApp().Run()

			return nil
		},
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>...",
		Short: "Launch the browser, run action scripts and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bootstrap.NewScriptApp(args).Run()

			return nil
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <command>...",
		Short: "Check that each argument resolves to an action, without a browser",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validate(cmd.OutOrStdout(), actions.NewDispatcher(actions.DispatcherParams{Logger: zap.NewNop()}), args)
		},
	}
}

func newActionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the registered actions in match order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for i, def := range actions.Default().Definitions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %-24s %s\n", i+1, def.Name, def.Pattern)
			}
		},
	}
}

func validate(out io.Writer, dispatcher *actions.Dispatcher, commands []string) error {
	invalid := 0

	for _, command := range commands {
		if dispatcher.IsValidAction(command) {
			fmt.Fprintf(out, "ok      %s\n", command)

			continue
		}

		invalid++
		fmt.Fprintf(out, "invalid %s\n", command)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d commands do not resolve to an action", invalid, len(commands))
	}

	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
