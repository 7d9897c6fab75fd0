package presenter

import (
	"fmt"

	"github.com/soocke/captol-go/domain/session"
)

// StateView sets the state label in the view.
type StateView interface {
	SetStateLabel(text string, active bool)
}

// StatusPresenter reflects the running state of the capture session in the
// state label. The view is only touched when the text changes.
type StatusPresenter struct {
	view   StateView
	latest string
}

func NewStatusPresenter(view StateView) *StatusPresenter {
	return &StatusPresenter{view: view}
}

// Tick renders st and updates the view on change.
func (p *StatusPresenter) Tick(st session.Stats) {
	if p == nil || p.view == nil {
		return
	}
	text := statusText(st)
	if text == p.latest {
		return
	}
	p.latest = text
	p.view.SetStateLabel(text, st.Running)
}

func statusText(st session.Stats) string {
	text := "State: idle"
	if st.Running {
		text = fmt.Sprintf("State: capturing (%s, every %s)", st.Policy, st.Interval)
	}
	if st.Failed > 0 {
		text += fmt.Sprintf(" - %d failed", st.Failed)
	}
	return text
}
