package tui

type resizeDoneMsg struct{ seq int }

type minibufferClearMsg struct{ seq int }

const (
	stripRow = 0
	ruleRow  = 1
)
