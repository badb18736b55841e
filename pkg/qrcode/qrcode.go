package qrcode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrCapacityExceeded = errors.New("content exceeds QR code capacity")
	ErrEmptyContent     = errors.New("no content to encode")
	ErrInvalidSize      = errors.New("image dimensions must be positive")
	ErrInvalidLevel     = errors.New("unknown recovery level")
)

// MaxVersion is the largest symbol version the QR standard defines.
const MaxVersion = 40

// Config controls symbol density. It is fixed for the lifetime of a Generator.
type Config struct {
	RecoveryLevel string
	MaxVersion    int
}

// Renderer produces a PNG of text encoded as a QR code.
type Renderer interface {
	Render(text string, widthPx, heightPx int) ([]byte, error)
}

// Generator renders QR codes. It holds no mutable state and is safe for
// concurrent use.
type Generator struct {
	level      goqrcode.RecoveryLevel
	maxVersion int
}

func NewGenerator(cfg Config) (*Generator, error) {
	level, err := ParseRecoveryLevel(cfg.RecoveryLevel)
	if err != nil {
		return nil, err
	}

	maxVersion := cfg.MaxVersion
	if maxVersion <= 0 || maxVersion > MaxVersion {
		maxVersion = MaxVersion
	}

	return &Generator{level: level, maxVersion: maxVersion}, nil
}

// ParseRecoveryLevel accepts low, medium, high or highest. Empty means low.
func ParseRecoveryLevel(s string) (goqrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "low", "l":
		return goqrcode.Low, nil
	case "medium", "m":
		return goqrcode.Medium, nil
	case "high", "q":
		return goqrcode.High, nil
	case "highest", "h":
		return goqrcode.Highest, nil
	default:
		return goqrcode.Low, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Render encodes text and returns a widthPx by heightPx PNG. Non-square
// requests get a square code of the smaller side centered on white.
func (g *Generator) Render(text string, widthPx, heightPx int) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}
	if widthPx <= 0 || heightPx <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, widthPx, heightPx)
	}

	code, err := goqrcode.New(text, g.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %v", ErrCapacityExceeded, len(text), err)
	}
	if code.VersionNumber > g.maxVersion {
		return nil, fmt.Errorf("%w: %d bytes needs version %d, limit is %d",
			ErrCapacityExceeded, len(text), code.VersionNumber, g.maxVersion)
	}

	side := min(widthPx, heightPx)
	symbol := code.Image(side)
	if symbol.Bounds().Dx() > side {
		return nil, fmt.Errorf("%w: version %d symbol does not fit in %dpx",
			ErrCapacityExceeded, code.VersionNumber, side)
	}

	var img image.Image = symbol
	if widthPx != heightPx {
		canvas := image.NewRGBA(image.Rect(0, 0, widthPx, heightPx))
		draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
		offset := image.Pt((widthPx-side)/2, (heightPx-side)/2)
		draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(side, side))}, symbol, symbol.Bounds().Min, draw.Src)
		img = canvas
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
