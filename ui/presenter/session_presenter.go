package presenter

import (
	"time"

	"github.com/soocke/captol-go/domain/session"
	"github.com/soocke/captol-go/ui/model"
)

// CaptureEnabledModel reports whether capture is enabled.
type CaptureEnabledModel interface{ Enabled() bool }

// SessionView displays formatted durations and image counts.
type SessionView interface {
	SetSession(session, total time.Duration)
	SetImages(session, total int)
}

// SessionPresenter formats session and total durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	cap  CaptureEnabledModel
	view SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, cap CaptureEnabledModel, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, cap: cap, view: view}
}

// Tick advances the session model with the latest stats and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time, st session.Stats) {
	if p == nil || p.sess == nil || p.cap == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.cap.Enabled(), st.Total, now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
	p.view.SetImages(p.sess.Images())
}
