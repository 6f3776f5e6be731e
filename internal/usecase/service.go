package usecase

import (
	"page-actions/internal/actions"
	"page-actions/internal/ports"
	"page-actions/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Runner  adapters.RunnerService
	Browser adapters.BrowserService
}

type Params struct {
	fx.In

	Logger     *zap.Logger
	Browser    ports.BrowserManager
	Dispatcher *actions.Dispatcher
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Runner:  factory.CreateRunnerService(),
		Browser: factory.CreateBrowserService(),
	}
}
