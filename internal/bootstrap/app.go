package bootstrap

import (
	"time"

	"page-actions/internal/actions"
	"page-actions/internal/browser"
	"page-actions/internal/config"
	"page-actions/internal/console"
	"page-actions/internal/ports"
	"page-actions/internal/usecase"

	"go.uber.org/fx"
)

// providers is the object graph shared by every entry point.
func providers() fx.Option {
	return fx.Options(
		fx.Provide(
			config.GetConfig,
			newLogger,

			fx.Annotate(browser.NewManager, fx.As(new(ports.BrowserManager))),
			actions.NewDispatcher,

			usecase.NewUsecase,
		),

		fx.Invoke(
			setupTracing,
		),

		fx.StartTimeout(2*time.Minute),
	)
}

func consoleOptions() []fx.Option {
	return []fx.Option{
		providers(),
		fx.Provide(console.NewInterface),
		fx.Invoke(runConsole),
	}
}

func scriptOptions(files []string) []fx.Option {
	return []fx.Option{
		providers(),
		fx.Supply(scriptFiles(files)),
		fx.Invoke(runScripts),
	}
}

// NewApp starts the browser and an interactive console.
func NewApp() *fx.App {
	return fx.New(consoleOptions()...)
}

// NewScriptApp starts the browser, runs every script in files and shuts down.
// The process exit code is non-zero when any run did not complete.
func NewScriptApp(files []string) *fx.App {
	return fx.New(scriptOptions(files)...)
}
