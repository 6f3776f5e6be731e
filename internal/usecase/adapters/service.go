package adapters

import (
	"context"

	"page-actions/internal/entity"
	"page-actions/internal/script"
)

type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	GetPageState(ctx context.Context) (*entity.PageState, error)
	IsReady() bool
}

type RunnerService interface {
	Execute(ctx context.Context, name string, commands []string) (*entity.Run, error)
	ExecuteScript(ctx context.Context, sc *script.Script) (*entity.Run, error)
	Validate(commands []string) []entity.Validation
	Stop()
}
