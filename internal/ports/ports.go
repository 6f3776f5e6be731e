package ports

import (
	"context"

	"page-actions/internal/entity"
)

// Page is the page-control surface actions are executed against.
// Type writes into whatever element currently has focus.
type Page interface {
	Goto(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Focus(ctx context.Context, selector string) error
	Type(ctx context.Context, text string) error
	Evaluate(ctx context.Context, script string, arg any) (any, error)
	WaitForFunction(ctx context.Context, script string, arg any) error
	Screenshot(ctx context.Context, path string) error
}

type BrowserManager interface {
	Page

	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	GetPageState(ctx context.Context) (*entity.PageState, error)
	IsReady() bool
}
