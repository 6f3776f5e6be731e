package logg

// Field keys shared by every layer's zap loggers.
const (
	Layer     = "layer"
	Operation = "op"
	Command   = "command"
	Action    = "action"
	Selector  = "selector"
	URL       = "url"
	RunID     = "run_id"
	StepID    = "step_id"
	Script    = "script"
)
