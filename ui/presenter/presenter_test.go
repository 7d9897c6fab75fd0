package presenter

import (
	"errors"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/soocke/captol-go/domain/session"
	"github.com/soocke/captol-go/ui/model"
)

type mockStateView struct {
	calls  int
	text   string
	active bool
}

func (v *mockStateView) SetStateLabel(text string, active bool) {
	v.calls++
	v.text, v.active = text, active
}

func TestStatusPresenter_UpdatesOnChangeOnly(t *testing.T) {
	view := &mockStateView{}
	p := NewStatusPresenter(view)
	p.Tick(session.Stats{})
	p.Tick(session.Stats{})
	if view.calls != 1 || view.text != "State: idle" || view.active {
		t.Fatalf("idle render: calls=%d text=%q active=%v", view.calls, view.text, view.active)
	}
	p.Tick(session.Stats{Running: true, Policy: "active", Interval: time.Second})
	if view.calls != 2 || !view.active || !strings.Contains(view.text, "active") {
		t.Fatalf("running render: calls=%d text=%q active=%v", view.calls, view.text, view.active)
	}
	p.Tick(session.Stats{Running: true, Policy: "active", Interval: time.Second, Failed: 2})
	if !strings.HasSuffix(view.text, "2 failed") {
		t.Fatalf("failures not shown: %q", view.text)
	}
}

type mockPreviewView struct {
	updates, resets int
	last            image.Image
}

func (v *mockPreviewView) UpdatePreview(img image.Image) { v.updates++; v.last = img }
func (v *mockPreviewView) PreviewReset()                 { v.resets++ }

func TestPreviewPresenter_LoadsOnCommit(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var loaded []string
	load := func(path string) (image.Image, error) {
		loaded = append(loaded, path)
		if path == "gone.png" {
			return nil, errors.New("missing")
		}
		return img, nil
	}
	view := &mockPreviewView{}
	p := NewPreviewPresenter(load, view, nil)

	p.Tick(session.Stats{})
	if view.updates != 0 || len(loaded) != 0 {
		t.Fatalf("nothing saved yet: updates=%d loads=%d", view.updates, len(loaded))
	}
	p.Tick(session.Stats{LastSaved: "1.png", Saved: 1})
	p.Tick(session.Stats{LastSaved: "1.png", Saved: 1})
	if view.updates != 1 || len(loaded) != 1 || view.last != image.Image(img) {
		t.Fatalf("expected a single load: updates=%d loads=%v", view.updates, loaded)
	}
	// A correction rewriting the same path still refreshes.
	p.Tick(session.Stats{LastSaved: "1.png", Saved: 1, Corrected: 1})
	if view.updates != 2 {
		t.Fatalf("correction should refresh preview: updates=%d", view.updates)
	}
	p.Tick(session.Stats{LastSaved: "gone.png", Saved: 2, Corrected: 1})
	if view.resets != 1 || view.updates != 2 {
		t.Fatalf("load failure should reset: resets=%d updates=%d", view.resets, view.updates)
	}
}

type mockSessionView struct {
	session, total time.Duration
	images, all    int
}

func (v *mockSessionView) SetSession(s, t time.Duration) { v.session, v.total = s, t }
func (v *mockSessionView) SetImages(s, t int)            { v.images, v.all = s, t }

func TestSessionPresenter_Tick(t *testing.T) {
	capModel := &model.CaptureModel{}
	view := &mockSessionView{}
	p := NewSessionPresenter(model.NewSessionModel(), capModel, view)
	base := time.Unix(100, 0)

	capModel.SetEnabled(true)
	p.Tick(base, session.Stats{Total: 3})
	p.Tick(base.Add(2*time.Second), session.Stats{Total: 5})
	if view.session != 2*time.Second || view.images != 2 || view.all != 2 {
		t.Fatalf("unexpected view state %+v", view)
	}
}

func TestLoop_TickOrder(t *testing.T) {
	var order []string
	view := &mockStateView{}
	l := NewLoop(
		func() session.Stats { order = append(order, "stats"); return session.Stats{} },
		nil, nil, NewStatusPresenter(view), nil,
		func() { order = append(order, "pump") },
		func() { order = append(order, "schedule") },
	)
	l.Tick()
	if strings.Join(order, ",") != "pump,stats,schedule" {
		t.Fatalf("unexpected order %v", order)
	}
	if view.calls != 1 {
		t.Fatalf("status presenter not driven")
	}
	var nilLoop *Loop
	nilLoop.Tick()
}
