package ui

import (
	"github.com/ferrovax/gamedesk/internal/session"
)

// sessionResolvedMsg reports the session state found on startup.
type sessionResolvedMsg struct {
	state session.State
}

// loginResultMsg reports the outcome of a login attempt.
type loginResultMsg struct {
	ok bool
}

// listReloadedMsg reports a completed reload for one of the list views.
type listReloadedMsg struct {
	view ViewState
	err  error
}

// deleteDoneMsg reports a completed delete attempt.
type deleteDoneMsg struct {
	view    ViewState
	removed bool
	err     error
}

// saveDoneMsg reports a completed form submission.
type saveDoneMsg struct {
	view ViewState
	err  error
}

// toggleDoneMsg reports a completed subscription toggle.
type toggleDoneMsg struct {
	err error
}

// sessionLostMsg reports that the backend rejected the session mid-use.
type sessionLostMsg struct{}
