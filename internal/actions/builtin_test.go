package actions

import (
	"context"
	"errors"
	"testing"

	"page-actions/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var mockCtx = mock.Anything

func runBuiltin(t *testing.T, page *mocks.MockPage, command string) error {
	t.Helper()

	d, opts, _ := setupDispatcher(t, Builtin())

	return d.Run(context.Background(), page, opts, command)
}

func TestBuiltin_Resolution(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"navigate to https://example.com", NameNavigateURL},
		{"navigate to url https://example.com", NameNavigateURL},
		{"click .foo", NameClickElement},
		{"Click Element .foo .bar", NameClickElement},
		{"set .foo to bar", NameSetFieldValue},
		{"SET FIELD .foo TO bar", NameSetFieldValue},
		{"clear field #search", NameClearFieldValue},
		{"check .foo", NameCheckField},
		{"uncheck field .foo .bar", NameCheckField},
		{"screen capture shots/home.png", NameScreenCapture},
		{"capture screen to shots/home.png", NameScreenCapture},
		{"screenshot /tmp/a.png", ""},
		{"wait for url to be https://example.com/", NameWaitForURL},
		{"wait for fragment #done", NameWaitForURL},
		{"Wait For Path To Not Be /login", NameWaitForURL},
		{"wait for element .modal to be visible", NameWaitForElementState},
		{"wait for host to be example.com", ""},
		{"hover .foo", ""},
	}

	registry := Builtin()

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			def, ok := registry.Find(tt.command)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.want, def.Name)
		})
	}
}

func TestBuiltin_Order(t *testing.T) {
	var names []string
	for _, def := range Builtin().Definitions() {
		names = append(names, def.Name)
	}

	assert.Equal(t, []string{
		NameNavigateURL,
		NameClickElement,
		NameSetFieldValue,
		NameClearFieldValue,
		NameCheckField,
		NameScreenCapture,
		NameWaitForURL,
		NameWaitForElementState,
	}, names)
}

func TestClickElement(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("Click", mockCtx, ".foo .bar").Return(nil).Once()

		require.NoError(t, runBuiltin(t, page, "click element .foo .bar"))
		page.AssertExpectations(t)
	})

	t.Run("failure is remapped", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("Click", mockCtx, ".foo").Return(errors.New("timeout 30000ms exceeded")).Once()

		err := runBuiltin(t, page, "click .foo")
		require.Error(t, err)
		assert.Equal(t, `Failed action: no element matching selector ".foo"`, err.Error())

		var failed *ActionFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, NameClickElement, failed.Action)
		assert.Nil(t, errors.Unwrap(err))
	})
}

func TestSetFieldValue(t *testing.T) {
	t.Run("focus then type", func(t *testing.T) {
		page := new(mocks.MockPage)
		mock.InOrder(
			page.On("Focus", mockCtx, ".user").Return(nil).Once(),
			page.On("Type", mockCtx, "alice").Return(nil).Once(),
		)

		require.NoError(t, runBuiltin(t, page, "set field .user to alice"))
		page.AssertExpectations(t)
	})

	t.Run("value keeps spaces", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("Focus", mockCtx, "#bio").Return(nil).Once()
		page.On("Type", mockCtx, "likes to cook").Return(nil).Once()

		require.NoError(t, runBuiltin(t, page, "set #bio to likes to cook"))
		page.AssertExpectations(t)
	})

	t.Run("focus failure stops before type", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("Focus", mockCtx, ".user").Return(errors.New("no node")).Once()

		err := runBuiltin(t, page, "set field .user to alice")
		require.Error(t, err)
		assert.Equal(t, `Failed action: no element matching selector ".user"`, err.Error())
		page.AssertNotCalled(t, "Type", mockCtx, mock.Anything)
	})

	t.Run("type failure is remapped", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("Focus", mockCtx, ".user").Return(nil).Once()
		page.On("Type", mockCtx, "alice").Return(errors.New("keyboard detached")).Once()

		err := runBuiltin(t, page, "set field .user to alice")
		require.Error(t, err)
		assert.Equal(t, `Failed action: no element matching selector ".user"`, err.Error())
	})
}

func TestCheckField(t *testing.T) {
	tests := []struct {
		command  string
		selector string
		checked  bool
	}{
		{"check .foo", ".foo", true},
		{"check field .foo", ".foo", true},
		{"uncheck field .foo .bar", ".foo .bar", false},
		{"UNCHECK .agree", ".agree", false},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			page := new(mocks.MockPage)
			page.On("Evaluate", mockCtx, checkFieldScript, map[string]any{
				"selector": tt.selector,
				"checked":  tt.checked,
			}).Return(nil, nil).Once()

			require.NoError(t, runBuiltin(t, page, tt.command))
			page.AssertExpectations(t)
		})
	}

	t.Run("missing element is remapped", func(t *testing.T) {
		page := new(mocks.MockPage)
		page.On("Evaluate", mockCtx, checkFieldScript, mock.Anything).
			Return(nil, errors.New("Error: No element found")).Once()

		err := runBuiltin(t, page, "uncheck field .agree")
		require.Error(t, err)
		assert.Equal(t, `Failed action: no element matching selector ".agree"`, err.Error())
	})
}

func TestClearFieldValue(t *testing.T) {
	page := new(mocks.MockPage)
	page.On("Evaluate", mockCtx, clearFieldScript, map[string]any{"selector": "#search"}).
		Return(nil, nil).Once()

	require.NoError(t, runBuiltin(t, page, "clear field #search"))
	page.AssertExpectations(t)

	failing := new(mocks.MockPage)
	failing.On("Evaluate", mockCtx, clearFieldScript, mock.Anything).
		Return(nil, errors.New("No element found")).Once()

	err := runBuiltin(t, failing, "clear #search")
	assert.EqualError(t, err, `Failed action: no element matching selector "#search"`)
}

func TestNavigateURL(t *testing.T) {
	page := new(mocks.MockPage)
	page.On("Goto", mockCtx, "https://example.com/login").Return(nil).Once()

	require.NoError(t, runBuiltin(t, page, "navigate to url https://example.com/login"))
	page.AssertExpectations(t)

	failing := new(mocks.MockPage)
	failing.On("Goto", mockCtx, "nowhere").Return(errors.New("net::ERR_NAME_NOT_RESOLVED")).Once()

	err := runBuiltin(t, failing, "navigate to nowhere")
	assert.EqualError(t, err, `Failed action: Could not navigate to "nowhere"`)

	var navErr *NavigationError
	assert.ErrorAs(t, err, &navErr)
}

func TestScreenCapture(t *testing.T) {
	page := new(mocks.MockPage)
	page.On("Screenshot", mockCtx, "shots/home page.png").Return(nil).Once()

	require.NoError(t, runBuiltin(t, page, "screen-capture to shots/home page.png"))
	page.AssertExpectations(t)

	cause := errors.New("disk full")
	failing := new(mocks.MockPage)
	failing.On("Screenshot", mockCtx, "a.png").Return(cause).Once()

	assert.Same(t, cause, runBuiltin(t, failing, "capture screen a.png"))
}

func TestWaitForURL(t *testing.T) {
	tests := []struct {
		command  string
		property string
		expected string
		negated  bool
	}{
		{"wait for path to not be /login", "pathname", "/login", true},
		{"wait for path to be /done", "pathname", "/done", false},
		{"wait for path /done", "pathname", "/done", false},
		{"wait for fragment to be #top", "hash", "#top", false},
		{"wait for hash to not be #top", "hash", "#top", true},
		{"wait for url to be https://example.com/a?b=c", "href", "https://example.com/a?b=c", false},
		{"WAIT FOR URL TO NOT BE https://example.com/", "href", "https://example.com/", true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			page := new(mocks.MockPage)
			page.On("WaitForFunction", mockCtx, locationScript, map[string]any{
				"property": tt.property,
				"expected": tt.expected,
				"negated":  tt.negated,
			}).Return(nil).Once()

			require.NoError(t, runBuiltin(t, page, tt.command))
			page.AssertExpectations(t)
		})
	}

	t.Run("wait failure passes through", func(t *testing.T) {
		cause := errors.New("Timeout 30000ms exceeded")
		page := new(mocks.MockPage)
		page.On("WaitForFunction", mockCtx, locationScript, mock.Anything).Return(cause).Once()

		err := runBuiltin(t, page, "wait for path to be /done")
		assert.Same(t, cause, err)
	})
}

func TestLocationProperty(t *testing.T) {
	assert.Equal(t, "hash", locationProperty("fragment"))
	assert.Equal(t, "hash", locationProperty("HASH"))
	assert.Equal(t, "pathname", locationProperty("path"))
	assert.Equal(t, "href", locationProperty("url"))
	assert.Equal(t, "href", locationProperty("anything"))
}

func TestLocationScript_ComparesAndNegates(t *testing.T) {
	assert.Contains(t, locationScript, "window.location[property] === expected")
	assert.Contains(t, locationScript, "!== negated")
}

func TestWaitForElementState(t *testing.T) {
	page := new(mocks.MockPage)
	page.On("WaitForFunction", mockCtx, elementStateScript, map[string]any{
		"selector": ".modal .body",
		"state":    "removed",
	}).Return(nil).Once()

	require.NoError(t, runBuiltin(t, page, "wait for element .modal .body to be Removed"))
	page.AssertExpectations(t)
}
