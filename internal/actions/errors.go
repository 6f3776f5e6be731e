package actions

// UnresolvedActionError is returned when no registered pattern matches a command.
type UnresolvedActionError struct {
	Command string
}

func (e *UnresolvedActionError) Error() string {
	return `Failed action: "` + e.Command + `" cannot be resolved`
}

// ActionFailedError replaces any page-control failure of a selector based
// action. The underlying cause is not kept: every failure is reported as a
// missing element.
type ActionFailedError struct {
	Action   string
	Selector string
}

func (e *ActionFailedError) Error() string {
	return `Failed action: no element matching selector "` + e.Selector + `"`
}

// NavigationError replaces a failed navigate-url action.
type NavigationError struct {
	URL string
}

func (e *NavigationError) Error() string {
	return `Failed action: Could not navigate to "` + e.URL + `"`
}
