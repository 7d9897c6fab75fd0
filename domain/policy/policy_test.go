package policy

import (
	"errors"
	"testing"

	"github.com/soocke/captol-go/domain/buffer"
)

// mockComparer answers from a fixed table; a missing step is unavailable.
type mockComparer struct {
	same  map[int]bool
	err   error
	calls int
}

func (m *mockComparer) CompareSimilarity(step int) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	s, ok := m.same[step]
	if !ok {
		return false, buffer.ErrStepUnavailable
	}
	return s, nil
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		same   map[int]bool
		want   Decision
	}{
		{"manual ignores history", Manual{}, map[int]bool{1: true}, Save},
		{"nodup empty history", NoDuplicate{}, nil, Save},
		{"nodup unchanged", NoDuplicate{}, map[int]bool{1: true}, Discard},
		{"nodup changed", NoDuplicate{}, map[int]bool{1: false, 2: true}, Save},
		{"active empty history", Active{}, nil, Save},
		{"active unchanged", Active{}, map[int]bool{1: true, 2: true}, Discard},
		{"active one step history", Active{}, map[int]bool{1: false}, Save},
		{"active flicker", Active{}, map[int]bool{1: false, 2: true}, Correct},
		{"active new content", Active{}, map[int]bool{1: false, 2: false}, Save},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.policy.Decide(&mockComparer{same: tt.same})
			if err != nil {
				t.Fatalf("decide: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestManual_NeverCompares(t *testing.T) {
	m := &mockComparer{same: map[int]bool{1: true}}
	for i := 0; i < 5; i++ {
		if d, _ := (Manual{}).Decide(m); d != Save {
			t.Fatalf("manual decided %v", d)
		}
	}
	if m.calls != 0 {
		t.Fatalf("manual consulted comparer %d times", m.calls)
	}
}

func TestDecide_PropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	for _, p := range []Policy{NoDuplicate{}, Active{}} {
		if _, err := p.Decide(&mockComparer{err: boom}); !errors.Is(err, boom) {
			t.Fatalf("%s: expected boom, got %v", p.Name(), err)
		}
	}
}

func TestForConfig(t *testing.T) {
	if ForConfig(true).Name() != "active" || ForConfig(false).Name() != "no-duplicate" {
		t.Fatalf("unexpected policy selection")
	}
}
