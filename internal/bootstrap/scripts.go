package bootstrap

import (
	"context"

	"page-actions/internal/entity"
	"page-actions/internal/ports"
	"page-actions/internal/script"
	"page-actions/internal/usecase"
	"page-actions/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type scriptFiles []string

// runScripts executes every script of every file in order and stops the
// application when done. A failed file does not prevent the next one from running.
func runScripts(lc fx.Lifecycle, shutdowner fx.Shutdowner, files scriptFiles, service *usecase.Service, browser ports.BrowserManager, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := browser.Launch(ctx); err != nil {
				logger.Error("Failed to launch browser", zap.Error(err))

				return err
			}

			go func() {
				code := 0
				if !executeScriptFiles(context.Background(), service, files, logger) {
					code = 1
				}

				if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
					logger.Error("Failed to request shutdown", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			service.Runner.Stop()

			return browser.Close(ctx)
		},
	})
}

// executeScriptFiles reports whether every script of every file completed.
func executeScriptFiles(ctx context.Context, service *usecase.Service, files scriptFiles, logger *zap.Logger) bool {
	ok := true

	for _, file := range files {
		scripts, err := script.Load(file)
		if err != nil {
			logger.Error("Failed to load script file", zap.String(logg.Script, file), zap.Error(err))
			ok = false

			continue
		}

		for _, sc := range scripts {
			run, err := service.Runner.ExecuteScript(ctx, sc)
			if err != nil || run.Status != entity.RunStatusCompleted {
				logger.Error("Script failed", zap.String(logg.Script, sc.Name), zap.Error(err))
				ok = false

				break
			}

			logger.Info("Script completed",
				zap.String(logg.Script, sc.Name),
				zap.String(logg.RunID, run.ID.String()),
				zap.Int("steps", len(run.Steps)))
		}
	}

	return ok
}
