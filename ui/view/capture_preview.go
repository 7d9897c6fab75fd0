package view

import (
	"image"

	"github.com/soocke/captol-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the most recently saved image.
type CapturePreview interface {
	UpdatePreview(img image.Image)
	Reset()
}

type capturePreview struct {
	label     *LabelWidget
	prevPhoto *Img // disposed before replacement so old pixel data is freed
}

const (
	// Max preview dimensions; scaling is proportional.
	maxPreviewW = 400
	maxPreviewH = 225
)

// NewCapturePreview creates the preview label spanning the first five columns of row.
func NewCapturePreview(row int) CapturePreview {
	photo := placeholderPhoto()
	lbl := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(lbl, Row(row), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return &capturePreview{label: lbl, prevPhoto: photo}
}

func placeholderPhoto() *Img {
	placeholder := image.NewRGBA(image.Rect(0, 0, 200, 120))
	return NewPhoto(Data(images.EncodePNG(placeholder)))
}

func (v *capturePreview) UpdatePreview(img image.Image) {
	if v.label == nil || img == nil {
		return
	}
	scaled := images.ScaleToFit(img, maxPreviewW, maxPreviewH)
	v.replace(NewPhoto(Data(images.EncodePNG(scaled))))
}

func (v *capturePreview) Reset() {
	if v.label == nil {
		return
	}
	v.replace(placeholderPhoto())
}

func (v *capturePreview) replace(photo *Img) {
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = photo
	v.label.Configure(Image(photo))
}
