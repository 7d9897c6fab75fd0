package presenter

import (
	"context"
	"errors"
	"testing"
)

type mockModel struct{ enabled bool }

func (m *mockModel) Enabled() bool     { return m.enabled }
func (m *mockModel) SetEnabled(b bool) { m.enabled = b }

type mockService struct {
	started, stopped int
	startErr         error
}

func (s *mockService) Start(context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started++
	return nil
}
func (s *mockService) Stop() { s.stopped++ }

type mockView struct {
	editableCalls int
	lastEditable  bool
}

func (v *mockView) ConfigEditable(b bool) { v.editableCalls++; v.lastEditable = b }

func TestCapturePresenter_EnableDisable_Idempotent(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	view := &mockView{}
	p := NewCapturePresenter(context.Background(), m, svc, view, nil)

	if err := p.Enable(); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !m.Enabled() || svc.started != 1 || view.lastEditable || view.editableCalls != 1 {
		t.Fatalf("enable failed: enabled=%v started=%d editableCalls=%d lastEditable=%v", m.Enabled(), svc.started, view.editableCalls, view.lastEditable)
	}
	_ = p.Enable()
	if svc.started != 1 {
		t.Fatalf("enable not idempotent: started=%d", svc.started)
	}

	p.Disable()
	if m.Enabled() || svc.stopped != 1 || !view.lastEditable || view.editableCalls != 2 {
		t.Fatalf("disable failed: enabled=%v stopped=%d editableCalls=%d lastEditable=%v", m.Enabled(), svc.stopped, view.editableCalls, view.lastEditable)
	}
	p.Disable()
	if svc.stopped != 1 {
		t.Fatalf("disable not idempotent: stopped=%d", svc.stopped)
	}
}

func TestCapturePresenter_Toggle(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	p := NewCapturePresenter(context.Background(), m, svc, &mockView{}, nil)
	_ = p.Toggle() // enable path
	if !m.Enabled() || svc.started != 1 {
		t.Fatalf("toggle enable failed")
	}
	_ = p.Toggle() // disable path
	if m.Enabled() || svc.stopped != 1 {
		t.Fatalf("toggle disable failed")
	}
}

func TestCapturePresenter_StartFailureStaysDisabled(t *testing.T) {
	m := &mockModel{}
	startErr := errors.New("no region registered")
	view := &mockView{}
	p := NewCapturePresenter(context.Background(), m, &mockService{startErr: startErr}, view, nil)
	if err := p.Toggle(); !errors.Is(err, startErr) {
		t.Fatalf("expected start error, got %v", err)
	}
	if m.Enabled() || view.editableCalls != 0 {
		t.Fatalf("failed start must not enable: enabled=%v editableCalls=%d", m.Enabled(), view.editableCalls)
	}
}

func TestCapturePresenter_Sync(t *testing.T) {
	m := &mockModel{}
	view := &mockView{}
	p := NewCapturePresenter(context.Background(), m, &mockService{}, view, nil)
	_ = p.Enable()
	p.Sync(true)
	if !m.Enabled() {
		t.Fatalf("sync with running session should keep capture enabled")
	}
	p.Sync(false)
	if m.Enabled() || !view.lastEditable {
		t.Fatalf("sync with stopped session should disable: enabled=%v editable=%v", m.Enabled(), view.lastEditable)
	}
}
