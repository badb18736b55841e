package document

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"lifesaver-qr/internal/infrastructure/spool"

	"github.com/go-pdf/fpdf"
)

var pngOptions = fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}

// embeddedFamily names the UTF-8 TrueType font registered by WithUTF8Font.
const embeddedFamily = "Body"

// UTF8Font is a TrueType face embedded in place of the core fonts. Bold
// falls back to Regular when empty.
type UTF8Font struct {
	Regular []byte
	Bold    []byte
}

// Validate reports whether Regular and Bold look like TrueType outlines,
// the only flavour fpdf embeds.
func (f UTF8Font) Validate() error {
	if !isTrueType(f.Regular) {
		return fmt.Errorf("regular: %w", ErrUnsupportedFont)
	}
	if len(f.Bold) > 0 && !isTrueType(f.Bold) {
		return fmt.Errorf("bold: %w", ErrUnsupportedFont)
	}
	return nil
}

func isTrueType(b []byte) bool {
	if len(b) < 12 {
		return false
	}
	magic := string(b[:4])
	return magic == "\x00\x01\x00\x00" || magic == "true"
}

// canvas is one fpdf page. Core fonts are cp1252, so without an embedded
// font all text goes through the translator before measuring or drawing.
type canvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	family string
}

func newCanvas(createdAt time.Time, font *UTF8Font) *canvas {
	pdf := fpdf.New(fpdf.OrientationPortrait, fpdf.UnitPoint, fpdf.PageSizeA4, "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(createdAt)
	pdf.SetModificationDate(createdAt)
	pdf.SetCreator("LifeLine", true)
	pdf.SetAuthor("LifeLine", true)

	if font == nil {
		return &canvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	}

	bold := font.Bold
	if len(bold) == 0 {
		bold = font.Regular
	}
	pdf.AddUTF8FontFromBytes(embeddedFamily, styleNone, font.Regular)
	pdf.AddUTF8FontFromBytes(embeddedFamily, styleBold, bold)
	return &canvas{pdf: pdf, tr: func(s string) string { return s }, family: embeddedFamily}
}

func (c *canvas) setFont(font Font) {
	family := font.Family
	if c.family != "" {
		family = c.family
	}
	c.pdf.SetFont(family, font.Style, font.Size)
}

func (c *canvas) Width(font Font, text string) float64 {
	c.setFont(font)
	return c.pdf.GetStringWidth(c.tr(text))
}

// Err reports font loading and drawing failures.
func (c *canvas) Err() error {
	return c.pdf.Error()
}

func (c *canvas) register(rasters map[string]spool.Raster) error {
	names := make([]string, 0, len(rasters))
	for name := range rasters {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raster := rasters[name]
		rc, err := raster.Open()
		if err != nil {
			return fmt.Errorf("open raster %s: %w", name, err)
		}
		c.pdf.RegisterImageOptionsReader(name, pngOptions, rc)
		rc.Close()
		if err := c.pdf.Error(); err != nil {
			return fmt.Errorf("register raster %s: %w", name, err)
		}
	}
	return nil
}

func (c *canvas) render(plan Plan, rasters map[string]spool.Raster) ([]byte, error) {
	c.pdf.SetTitle(plan.Title, true)
	c.pdf.AddPage()

	if err := c.register(rasters); err != nil {
		return nil, err
	}

	c.pdf.SetLineWidth(1)
	for _, op := range plan.Ops {
		switch op.Kind {
		case OpText:
			c.setFont(op.Font)
			c.pdf.Text(op.X, op.Y, c.tr(op.Text))
		case OpImage:
			if _, ok := rasters[op.Raster]; !ok {
				return nil, fmt.Errorf("raster %s not available", op.Raster)
			}
			c.pdf.ImageOptions(op.Raster, op.X, op.Y, op.W, op.H, false, pngOptions, 0, "")
		case OpLine:
			c.pdf.Line(op.X, op.Y, op.X2, op.Y2)
		case OpRect:
			c.pdf.Rect(op.X, op.Y, op.W, op.H, "D")
		}
	}

	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
