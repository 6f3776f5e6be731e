package apperr

import (
	"errors"
	"fmt"
)

const (
	MetaReason   = "reason"
	MetaStage    = "stage"
	MetaField    = "field"
	MetaRunID    = "run_id"
	MetaCommand  = "command"
	MetaSelector = "selector"
	MetaURL      = "url"
	MetaFile     = "file"

	StagePreparation = "preparation"
	StageBrowser     = "browser"
	StageExecution   = "execution"
	StageScreenshot  = "screenshot"
	StagePageState   = "page_state"
	StageNavigation  = "navigation"
	StageInteraction = "interaction"
	StageScript      = "script"

	CodeInternal         = "internal"
	CodeInvalidArgument  = "invalid_argument"
	CodeNotFound         = "not_found"
	CodeTimeout          = "timeout"
	CodeCancelledByUser  = "cancelled_by_user"
	CodeBrowserNotReady  = "browser_not_ready"
	CodeActionFailed     = "action_failed"
	CodeUnresolvedAction = "unresolved_action"
	CodeScriptInvalid    = "script_invalid"
)

type Error struct {
	Op       string
	Code     string
	Err      error
	Metadata map[string]any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Wrap(op, code string, err error, metadata map[string]any) error {
	if metadata == nil {
		metadata = make(map[string]any)
	}

	return &Error{
		Op:       op,
		Code:     code,
		Err:      err,
		Metadata: metadata,
	}
}

func WrapWithReason(op, code string, err error, reason string) error {
	return Wrap(op, code, err, map[string]any{
		MetaReason: reason,
	})
}

func WrapErrorWithReason(op, code, reason string) error {
	return Wrap(op, code, errors.New(reason), map[string]any{
		MetaReason: reason,
	})
}

func InvalidReqError(op, field string, err error) error {
	return Wrap(op, CodeInvalidArgument, err, map[string]any{
		MetaField:  field,
		MetaReason: "invalid_request",
	})
}

// CodeOf returns the code of the outermost *Error in err's chain, or "" if there is none.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return ""
}

// MetaOf returns a metadata value of the outermost *Error in err's chain.
func MetaOf(err error, key string) (any, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return nil, false
	}

	v, ok := appErr.Metadata[key]

	return v, ok
}
