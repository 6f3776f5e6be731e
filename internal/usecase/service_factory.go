package usecase

import (
	"page-actions/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateRunnerService() adapters.RunnerService {
	return NewRunnerService(RunnerServiceParams{
		Logger:     f.deps.Logger,
		Browser:    f.deps.Browser,
		Dispatcher: f.deps.Dispatcher,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
