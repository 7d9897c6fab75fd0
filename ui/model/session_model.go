package model

import (
	"time"
)

// SessionModel tracks how long capture has been running and how many images
// were added during the current run and across all runs of this window.
// It is decoupled from the UI; presenters should poll Values() and Images().
// The zero value is ready to use.
type SessionModel struct {
	active              bool
	captureStart        time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration

	startTotal    int // counter total when the current run began
	sessionImages int
	earlierImages int // images added by finished runs
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the capture state, the save counter total
// and the current time. Call periodically from a presenter tick.
func (m *SessionModel) OnTick(capturing bool, total int, now time.Time) {
	if m == nil {
		return
	}
	if capturing {
		if !m.active { // off -> on
			m.active = true
			m.captureStart = now
			m.lastSessionDuration = 0
			m.startTotal = total
			m.sessionImages = 0
		}
		m.lastSessionDuration = now.Sub(m.captureStart)
		// a flicker correction may briefly take total below the start value
		m.sessionImages = max(total-m.startTotal, 0)
	} else if m.active { // on -> off
		m.lastSessionDuration = now.Sub(m.captureStart)
		m.accumulated += m.lastSessionDuration
		m.sessionImages = max(total-m.startTotal, 0)
		m.earlierImages += m.sessionImages
		m.active = false
	}
}

// Values returns the current session duration and the total accumulated duration.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Images returns images added by the current (or last) run and by all runs.
func (m *SessionModel) Images() (session, total int) {
	if m == nil {
		return 0, 0
	}
	if m.active {
		return m.sessionImages, m.earlierImages + m.sessionImages
	}
	return m.sessionImages, m.earlierImages
}
