package document

import (
	"errors"
	"fmt"

	"lifesaver-qr/internal/domain/entity"
	"lifesaver-qr/internal/infrastructure/spool"
	"lifesaver-qr/pkg/qrcode"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
)

// ErrComposition is matched by every CompositionError.
var ErrComposition = errors.New("document composition failed")

// CompositionError reports why a document could not be produced. No
// partial document accompanies it.
type CompositionError struct {
	Stage string
	Err   error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("compose document: %s: %v", e.Stage, e.Err)
}

func (e *CompositionError) Unwrap() error {
	return e.Err
}

func (e *CompositionError) Is(target error) bool {
	return target == ErrComposition
}

// RasterScale is the number of raster pixels per point of placed code.
const RasterScale = 2

// Composer lays out the sticker sheet for one record.
type Composer struct {
	codes  qrcode.Renderer
	spools spool.Factory
	log    *logrus.Logger
	font   *UTF8Font
}

// ErrUnsupportedFont is returned for font data that is not a TrueType file.
var ErrUnsupportedFont = errors.New("unsupported font: TrueType outlines required")

type Option func(*Composer)

// WithUTF8Font embeds font so names outside cp1252 render as written.
func WithUTF8Font(font UTF8Font) Option {
	return func(c *Composer) {
		if len(font.Regular) > 0 {
			c.font = &font
		}
	}
}

func NewComposer(codes qrcode.Renderer, spools spool.Factory, log *logrus.Logger, opts ...Option) *Composer {
	c := &Composer{
		codes:  codes,
		spools: spools,
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose renders the sticker sheet PDF for record, with every code
// encoding profileURL. Intermediate rasters never outlive the call.
func (c *Composer) Compose(record *entity.EmergencyRecord, profileURL string) ([]byte, error) {
	if err := validate(record); err != nil {
		return nil, &CompositionError{Stage: "validate", Err: err}
	}

	if c.font == nil && !CoreFontCovers(record.Name) {
		c.log.Warnf("Name of record %s has characters outside cp1252 and no UTF-8 font is configured", record.ID)
	}

	sp, err := c.spools.Acquire()
	if err != nil {
		return nil, &CompositionError{Stage: "spool", Err: err}
	}
	defer func() {
		if err := sp.Release(); err != nil {
			c.log.Warnf("Failed to release raster spool: %+v", err)
		}
	}()

	rasters, err := c.renderCodes(sp, profileURL)
	if err != nil {
		return nil, &CompositionError{Stage: "encode", Err: err}
	}

	if c.font != nil {
		if err := c.font.Validate(); err != nil {
			return nil, &CompositionError{Stage: "font", Err: err}
		}
	}
	cv := newCanvas(record.CreatedAt, c.font)
	if err := cv.Err(); err != nil {
		return nil, &CompositionError{Stage: "font", Err: err}
	}
	plan := buildPlan(cv, record)

	out, err := cv.render(plan, rasters)
	if err != nil {
		return nil, &CompositionError{Stage: "render", Err: err}
	}

	c.log.Debugf("Composed document for record %s (%d bytes)", record.ID, len(out))
	return out, nil
}

// renderCodes generates both code sizes before any layout happens.
func (c *Composer) renderCodes(sp spool.Spool, profileURL string) (map[string]spool.Raster, error) {
	targets := []struct {
		name string
		size float64
	}{
		{MainCode, MainCodeSize},
		{StickerCode, StickerCodeSize},
	}
	results := make([]spool.Raster, len(targets))

	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			px := int(t.size) * RasterScale
			data, err := c.codes.Render(profileURL, px, px)
			if err != nil {
				return fmt.Errorf("%s at %dpx: %w", t.name, px, err)
			}
			raster, err := sp.Put(t.name, data)
			if err != nil {
				return err
			}
			results[i] = raster
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rasters := make(map[string]spool.Raster, len(targets))
	for i, t := range targets {
		rasters[t.name] = results[i]
	}
	return rasters, nil
}

// CoreFontCovers reports whether the built-in PDF fonts can draw s.
func CoreFontCovers(s string) bool {
	_, err := charmap.Windows1252.NewEncoder().String(s)
	return err == nil
}

func validate(record *entity.EmergencyRecord) error {
	if record == nil {
		return errors.New("record is nil")
	}
	switch {
	case record.Name == "":
		return &entity.InvalidFieldError{Field: "name", Reason: "is required"}
	case record.Phone == "":
		return &entity.InvalidFieldError{Field: "phone", Reason: "is required"}
	case record.BloodGroup.IsZero():
		return &entity.InvalidFieldError{Field: "blood_group", Reason: "is required"}
	}
	return nil
}
