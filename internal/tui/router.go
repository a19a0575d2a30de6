package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type routeChangedMsg struct{ route string }

// memRouter is an in-memory page router. Navigate only queues the request;
// the route changes when the queued routeChangedMsg is handled.
type memRouter struct {
	current string
	queue   []string
}

func newMemRouter(initial string) *memRouter {
	return &memRouter{current: initial}
}

func (r *memRouter) CurrentRoute() string { return r.current }

func (r *memRouter) Navigate(url string) {
	r.queue = append(r.queue, url)
}

// drain turns queued navigations into commands, in request order.
func (r *memRouter) drain() tea.Cmd {
	if len(r.queue) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(r.queue))
	for _, u := range r.queue {
		route := u
		cmds = append(cmds, func() tea.Msg { return routeChangedMsg{route: route} })
	}
	r.queue = nil
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}
