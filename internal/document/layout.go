package document

import (
	"unicode/utf8"

	"lifesaver-qr/internal/domain/entity"
)

// Page geometry in points, A4 portrait, origin top-left, y grows downward.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 50.0

	MainCodeSize    = 180.0
	StickerCodeSize = 120.0

	panelWidth  = 200.0
	panelHeight = 160.0
	panelTop    = 515.0
	panelGap    = 35.28

	separatorY = 475.0
)

// Raster names used by image operations.
const (
	MainCode    = "main-code"
	StickerCode = "sticker-code"
)

const (
	fontFamily = "Helvetica"
	styleBold  = "B"
	styleNone  = ""

	minDynamicFontSize = 12.0
	ellipsis           = "..."
)

var privacyNotice = []string{
	"Your Data is Safe with Us. We value your privacy. All your personal and",
	"medical details are stored securely in our database and will never be",
	"disclosed without your consent.",
}

var howToUse = []line{
	{322, "This PDF contains two QR stickers along with your details. Once you"},
	{335, "download and print this file:"},
	{352, "• Cut the Stickers - Carefully cut out the two QR stickers."},
	{366, "• Sticker 1 - Place it on your vehicle where it can be easily seen in case"},
	{379, "   of an emergency."},
	{393, "• Sticker 2 - Place it on your helmet or personal items (wallet, ID, bag)."},
}

var whyItMatters = []line{
	{437, "In case of an accident, first responders can scan your QR to access your"},
	{450, "essential details (Blood group, Emergency contacts)."},
}

var footer = []string{
	"Thanks for using our platform",
	"@ copyrights by LifeLine",
}

type line struct {
	y    float64
	text string
}

// Font selects a core PDF font.
type Font struct {
	Family string
	Style  string
	Size   float64
}

type OpKind int

const (
	OpText OpKind = iota
	OpImage
	OpLine
	OpRect
)

// Op is one drawing instruction with fully resolved coordinates. Text ops
// use X,Y as the baseline start; images and rects use X,Y,W,H; lines run
// from X,Y to X2,Y2.
type Op struct {
	Kind   OpKind
	X, Y   float64
	W, H   float64
	X2, Y2 float64
	Font   Font
	Text   string
	Raster string
}

// Plan is the ordered list of operations for the single page.
type Plan struct {
	Title string
	Ops   []Op
}

// Texts returns the text of every text op in drawing order.
func (p Plan) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// Images returns every image op in drawing order.
func (p Plan) Images() []Op {
	var out []Op
	for _, op := range p.Ops {
		if op.Kind == OpImage {
			out = append(out, op)
		}
	}
	return out
}

// measurer reports the rendered width of text in a given font.
type measurer interface {
	Width(font Font, text string) float64
}

type planBuilder struct {
	m   measurer
	ops []Op
}

func (b *planBuilder) text(x, y float64, font Font, text string) {
	b.ops = append(b.ops, Op{Kind: OpText, X: x, Y: y, Font: font, Text: text})
}

func (b *planBuilder) rightText(right, y float64, font Font, text string) {
	b.text(right-b.m.Width(font, text), y, font, text)
}

func (b *planBuilder) centeredText(left, width, y float64, font Font, text string) {
	b.text(left+(width-b.m.Width(font, text))/2, y, font, text)
}

func (b *planBuilder) image(raster string, x, y, size float64) {
	b.ops = append(b.ops, Op{Kind: OpImage, X: x, Y: y, W: size, H: size, Raster: raster})
}

// fit shrinks font down to minDynamicFontSize until text fits maxWidth, then
// trims runes and appends an ellipsis if it still does not fit.
func (b *planBuilder) fit(font Font, text string, maxWidth float64) (Font, string) {
	for font.Size > minDynamicFontSize && b.m.Width(font, text) > maxWidth {
		font.Size--
	}
	if b.m.Width(font, text) <= maxWidth {
		return font, text
	}

	trimmed := text
	for trimmed != "" && b.m.Width(font, trimmed+ellipsis) > maxWidth {
		_, size := utf8.DecodeLastRuneInString(trimmed)
		trimmed = trimmed[:len(trimmed)-size]
	}
	return font, trimmed + ellipsis
}

func buildPlan(m measurer, record *entity.EmergencyRecord) Plan {
	b := &planBuilder{m: m}

	mainCodeX := PageWidth - Margin - MainCodeSize
	textColumn := mainCodeX - 20 - Margin

	title := record.Name + " - Life Saver"
	font, text := b.fit(Font{fontFamily, styleBold, 24}, title, textColumn)
	b.text(Margin, 70, font, text)

	details := []string{
		"Name: " + record.Name,
		"Phone: " + record.Phone,
		"Blood Group: " + record.BloodGroup.String(),
	}
	for i, d := range details {
		font, text := b.fit(Font{fontFamily, styleBold, 14}, d, textColumn)
		b.text(Margin, 120+float64(i)*22, font, text)
	}

	b.image(MainCode, mainCodeX, Margin, MainCodeSize)

	small := Font{fontFamily, styleNone, 10}
	for i, l := range privacyNotice {
		b.text(Margin, 250+float64(i)*13, small, l)
	}

	heading := Font{fontFamily, styleBold, 14}
	b.text(Margin, 305, heading, "How to Use Your Stickers")
	for _, l := range howToUse {
		b.text(Margin, l.y, small, l.text)
	}
	b.text(Margin, 420, heading, "Why is this Important?")
	for _, l := range whyItMatters {
		b.text(Margin, l.y, small, l.text)
	}

	b.ops = append(b.ops, Op{Kind: OpLine, X: Margin, Y: separatorY, X2: PageWidth - Margin, Y2: separatorY})

	left := (PageWidth - 2*panelWidth - panelGap) / 2
	for i, label := range []string{"Sticker 1", "Sticker 2"} {
		x := left + float64(i)*(panelWidth+panelGap)
		b.centeredText(x, panelWidth, panelTop-10, heading, label)
		b.ops = append(b.ops, Op{Kind: OpRect, X: x, Y: panelTop, W: panelWidth, H: panelHeight})
		b.image(StickerCode, x+(panelWidth-StickerCodeSize)/2, panelTop+10, StickerCodeSize)

		font, name := b.fit(Font{fontFamily, styleNone, 12}, record.Name, panelWidth-20)
		b.centeredText(x, panelWidth, panelTop+10+StickerCodeSize+18, font, name)
	}

	for i, l := range footer {
		b.rightText(PageWidth-Margin, PageHeight-40+float64(i)*15, small, l)
	}

	return Plan{Title: title, Ops: b.ops}
}
