package ui

// Status symbols for interactive output
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "⚠"
	Info    = "ℹ"
)

// Divider separates sections of console output.
const Divider = "======================================================================"
