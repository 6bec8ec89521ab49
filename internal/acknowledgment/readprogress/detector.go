// Package readprogress decides whether a client read-progress signal counts
// as "viewed". Signals are untrusted and may repeat; the detector only
// answers whether this one signal meets the bar for the document's rendering.
package readprogress

import (
	"math"
	"time"

	"siteops/internal/acknowledgment/models"
	dErrors "siteops/pkg/domain-errors"
)

type Trigger string

const (
	TriggerScroll   Trigger = "scroll"
	TriggerDwell    Trigger = "dwell"
	TriggerDownload Trigger = "download"
)

// Rendering is how the client presents a document.
type Rendering string

const (
	// RenderingInline: the body is rendered in-page and reports scroll depth.
	RenderingInline Rendering = "inline"
	// RenderingFile: an attached file that cannot report scroll depth.
	RenderingFile Rendering = "file"
)

// RenderingFor picks the rendering from the document shape: anything with a
// content reference is presented as a file.
func RenderingFor(doc *models.Document) Rendering {
	if doc.ContentRef != "" {
		return RenderingFile
	}
	return RenderingInline
}

type Signal struct {
	Trigger Trigger
	// ScrollFraction in [0,1], for TriggerScroll.
	ScrollFraction float64
	// Dwell is the time the document was on screen, for TriggerDwell.
	Dwell time.Duration
}

func (s Signal) Validate() error {
	switch s.Trigger {
	case TriggerScroll:
		if math.IsNaN(s.ScrollFraction) || s.ScrollFraction < 0 || s.ScrollFraction > 1 {
			return dErrors.New(dErrors.CodeValidation, "scroll_fraction must be between 0 and 1")
		}
	case TriggerDwell:
		if s.Dwell < 0 {
			return dErrors.New(dErrors.CodeValidation, "dwell cannot be negative")
		}
	case TriggerDownload:
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown read-progress trigger")
	}
	return nil
}

type Detector struct {
	scrollThreshold float64
	minDwell        time.Duration
}

const (
	DefaultScrollThreshold = 0.95
	DefaultMinDwell        = 10 * time.Second
)

// New returns a detector. Non-positive values fall back to the defaults.
func New(scrollThreshold float64, minDwell time.Duration) *Detector {
	if scrollThreshold <= 0 || scrollThreshold > 1 {
		scrollThreshold = DefaultScrollThreshold
	}
	if minDwell <= 0 {
		minDwell = DefaultMinDwell
	}
	return &Detector{scrollThreshold: scrollThreshold, minDwell: minDwell}
}

// Satisfied reports whether sig counts as viewing a document presented with
// rendering. Inline documents accept scroll depth or dwell; files accept a
// completed download or dwell.
func (d *Detector) Satisfied(rendering Rendering, sig Signal) (bool, error) {
	if err := sig.Validate(); err != nil {
		return false, err
	}
	switch sig.Trigger {
	case TriggerDwell:
		return sig.Dwell >= d.minDwell, nil
	case TriggerScroll:
		if rendering != RenderingInline {
			return false, dErrors.New(dErrors.CodeValidation, "scroll progress is not reported for file documents")
		}
		return sig.ScrollFraction >= d.scrollThreshold, nil
	case TriggerDownload:
		if rendering != RenderingFile {
			return false, dErrors.New(dErrors.CodeValidation, "document has no file to download")
		}
		return true, nil
	}
	return false, nil
}
