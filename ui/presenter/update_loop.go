package presenter

import (
	"time"

	"github.com/soocke/captol-go/domain/session"
)

// Loop aggregates feature presenters and drives periodic updates.
//
// Each Tick reads the session stats once, hands them to the sub-presenters,
// runs the pump callback and invokes the scheduler callback. The zero value is
// usable (methods are nil-safe).
type Loop struct {
	Stats    func() session.Stats
	Capture  *CapturePresenter
	Session  *SessionPresenter
	Status   *StatusPresenter
	Preview  *PreviewPresenter
	Pump     func()
	Schedule func()
}

func NewLoop(stats func() session.Stats, capture *CapturePresenter, sess *SessionPresenter, status *StatusPresenter, preview *PreviewPresenter, pump, schedule func()) *Loop {
	return &Loop{Stats: stats, Capture: capture, Session: sess, Status: status, Preview: preview, Pump: pump, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	if l.Pump != nil {
		l.Pump()
	}
	if l.Stats != nil {
		now := time.Now()
		st := l.Stats()
		l.Capture.Sync(st.Running)
		l.Status.Tick(st)
		l.Session.Tick(now, st)
		l.Preview.Tick(st)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
