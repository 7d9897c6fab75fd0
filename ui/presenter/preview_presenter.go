package presenter

import (
	"image"
	"log/slog"

	"github.com/soocke/captol-go/domain/session"
)

// PreviewView shows the last saved image.
type PreviewView interface {
	UpdatePreview(img image.Image)
	PreviewReset()
}

// PreviewPresenter loads the most recently committed image whenever the
// session commits a new one.
type PreviewPresenter struct {
	load   func(path string) (image.Image, error)
	view   PreviewView
	logger *slog.Logger

	path    string
	commits uint64
}

// NewPreviewPresenter returns a presenter reading images with load.
func NewPreviewPresenter(load func(path string) (image.Image, error), view PreviewView, logger *slog.Logger) *PreviewPresenter {
	return &PreviewPresenter{load: load, view: view, logger: logger}
}

// Tick refreshes the preview if a save or correction happened since the last call.
func (p *PreviewPresenter) Tick(st session.Stats) {
	if p == nil || p.load == nil || p.view == nil {
		return
	}
	commits := st.Saved + st.Corrected
	if st.LastSaved == p.path && commits == p.commits {
		return
	}
	p.path, p.commits = st.LastSaved, commits
	if st.LastSaved == "" {
		p.view.PreviewReset()
		return
	}
	img, err := p.load(st.LastSaved)
	if err != nil {
		// a later correction may have removed the file already
		if p.logger != nil {
			p.logger.Debug("preview load failed", "path", st.LastSaved, "error", err)
		}
		p.view.PreviewReset()
		return
	}
	p.view.UpdatePreview(img)
}
