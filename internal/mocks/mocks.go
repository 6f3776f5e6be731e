// Package mocks holds testify mocks of the ports interfaces.
package mocks

import (
	"context"

	"page-actions/internal/entity"
	"page-actions/internal/ports"

	"github.com/stretchr/testify/mock"
)

var (
	_ ports.Page           = (*MockPage)(nil)
	_ ports.BrowserManager = (*MockBrowserManager)(nil)
)

// -- Page Mock --

// MockPage mocks ports.Page.
type MockPage struct {
	mock.Mock
}

func (m *MockPage) Goto(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockPage) Click(ctx context.Context, selector string) error {
	args := m.Called(ctx, selector)
	return args.Error(0)
}

func (m *MockPage) Focus(ctx context.Context, selector string) error {
	args := m.Called(ctx, selector)
	return args.Error(0)
}

func (m *MockPage) Type(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockPage) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	args := m.Called(ctx, script, arg)
	return args.Get(0), args.Error(1)
}

func (m *MockPage) WaitForFunction(ctx context.Context, script string, arg any) error {
	args := m.Called(ctx, script, arg)
	return args.Error(0)
}

func (m *MockPage) Screenshot(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// -- Browser Manager Mock --

// MockBrowserManager mocks ports.BrowserManager.
type MockBrowserManager struct {
	MockPage
}

func (m *MockBrowserManager) Launch(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBrowserManager) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBrowserManager) GetPageState(ctx context.Context) (*entity.PageState, error) {
	args := m.Called(ctx)

	state, _ := args.Get(0).(*entity.PageState)

	return state, args.Error(1)
}

func (m *MockBrowserManager) IsReady() bool {
	args := m.Called()
	return args.Bool(0)
}
