package actions

import (
	"context"
	"regexp"
	"strings"

	"page-actions/internal/ports"
)

const (
	NameNavigateURL         = "navigate-url"
	NameClickElement        = "click-element"
	NameSetFieldValue       = "set-field-value"
	NameClearFieldValue     = "clear-field-value"
	NameCheckField          = "check-field"
	NameScreenCapture       = "screen-capture"
	NameWaitForURL          = "wait-for-url"
	NameWaitForElementState = "wait-for-element-state"
)

var (
	navigateURLPattern         = regexp.MustCompile(`(?i)^navigate to( url)? (.+)$`)
	clickElementPattern        = regexp.MustCompile(`(?i)^click( element)? (.+)$`)
	setFieldValuePattern       = regexp.MustCompile(`(?i)^set( field)? (.+?) to (.+)$`)
	clearFieldValuePattern     = regexp.MustCompile(`(?i)^clear( field)? (.+)$`)
	checkFieldPattern          = regexp.MustCompile(`(?i)^(check|uncheck)( field)? (.+)$`)
	screenCapturePattern       = regexp.MustCompile(`(?i)^(screen[ -]?capture|capture screen)( to)? (.+)$`)
	waitForURLPattern          = regexp.MustCompile(`(?i)^wait for (fragment|hash|path|url)( to (not )?be)? (.+)$`)
	waitForElementStatePattern = regexp.MustCompile(`(?i)^wait for element (.+?) to be (added|removed|visible|hidden)$`)
)

// Builtin returns a fresh registry holding the built-in actions in priority order.
func Builtin() *Registry {
	return MustNewRegistry(
		Definition{Name: NameNavigateURL, Pattern: navigateURLPattern, Execute: navigateURL},
		Definition{Name: NameClickElement, Pattern: clickElementPattern, Execute: clickElement},
		Definition{Name: NameSetFieldValue, Pattern: setFieldValuePattern, Execute: setFieldValue},
		Definition{Name: NameClearFieldValue, Pattern: clearFieldValuePattern, Execute: clearFieldValue},
		Definition{Name: NameCheckField, Pattern: checkFieldPattern, Execute: checkField},
		Definition{Name: NameScreenCapture, Pattern: screenCapturePattern, Execute: screenCapture},
		Definition{Name: NameWaitForURL, Pattern: waitForURLPattern, Execute: waitForURL},
		Definition{Name: NameWaitForElementState, Pattern: waitForElementStatePattern, Execute: waitForElementState},
	)
}

func navigateURL(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	url := capture(captures, 2)

	if err := page.Goto(ctx, url); err != nil {
		return &NavigationError{URL: url}
	}

	return nil
}

func clickElement(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	selector := capture(captures, 2)

	if err := page.Click(ctx, selector); err != nil {
		return &ActionFailedError{Action: NameClickElement, Selector: selector}
	}

	return nil
}

func setFieldValue(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	selector := capture(captures, 2)
	value := capture(captures, 3)

	if err := page.Focus(ctx, selector); err != nil {
		return &ActionFailedError{Action: NameSetFieldValue, Selector: selector}
	}

	if err := page.Type(ctx, value); err != nil {
		return &ActionFailedError{Action: NameSetFieldValue, Selector: selector}
	}

	return nil
}

func clearFieldValue(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	selector := capture(captures, 2)

	_, err := page.Evaluate(ctx, clearFieldScript, map[string]any{
		"selector": selector,
	})
	if err != nil {
		return &ActionFailedError{Action: NameClearFieldValue, Selector: selector}
	}

	return nil
}

func checkField(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	checked := !strings.EqualFold(capture(captures, 1), "uncheck")
	selector := capture(captures, 3)

	_, err := page.Evaluate(ctx, checkFieldScript, map[string]any{
		"selector": selector,
		"checked":  checked,
	})
	if err != nil {
		return &ActionFailedError{Action: NameCheckField, Selector: selector}
	}

	return nil
}

func screenCapture(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	return page.Screenshot(ctx, capture(captures, 3))
}

// locationProperty maps a wait-for-url subject to the window.location property it reads.
func locationProperty(subject string) string {
	switch strings.ToLower(subject) {
	case "fragment", "hash":
		return "hash"
	case "path":
		return "pathname"
	default:
		return "href"
	}
}

func waitForURL(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	return page.WaitForFunction(ctx, locationScript, map[string]any{
		"property": locationProperty(capture(captures, 1)),
		"expected": capture(captures, 4),
		"negated":  capture(captures, 3) != "",
	})
}

func waitForElementState(ctx context.Context, page ports.Page, _ RunOptions, captures []string) error {
	return page.WaitForFunction(ctx, elementStateScript, map[string]any{
		"selector": capture(captures, 1),
		"state":    strings.ToLower(capture(captures, 2)),
	})
}
