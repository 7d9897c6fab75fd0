package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats updates run durations and saved image counts.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetImages(session, total int)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
	imagesLbl  *LabelWidget
}

// NewSessionStats creates session, total and image count labels in a grid layout.
// Labels occupy (row, startCol) and (row, startCol+1); the image count sits
// below the session label. If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{sessionLbl: Label(Width(14)), totalLbl: Label(Width(14)), imagesLbl: Label(Width(28), Anchor("w"))}
	place := func(w *LabelWidget, r, c, span int) {
		if parent != nil {
			Grid(w, In(parent), Row(r), Column(c), Columnspan(span), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(w, Row(r), Column(c), Columnspan(span), Sticky("w"), Padx("0.2m"))
		}
	}
	place(s.sessionLbl, row, startCol, 1)
	place(s.totalLbl, row, startCol+1, 1)
	place(s.imagesLbl, row+1, startCol, 2)
	s.sessionLbl.Configure(Txt("Session: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	s.imagesLbl.Configure(Txt("Images: 0 (0 total)"))
	return s
}

// SetSession updates the session duration display.
func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Session: " + clock(d)))
}

// SetTotal updates the total duration display.
func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + clock(d)))
}

// SetImages updates the saved image counts.
func (s *sessionStats) SetImages(session, total int) {
	if s == nil || s.imagesLbl == nil {
		return
	}
	s.imagesLbl.Configure(Txt(fmt.Sprintf("Images: %d (%d total)", session, total)))
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	min, sec := seconds/60, seconds%60
	return fmt.Sprintf("%02d:%02d", min, sec)
}
