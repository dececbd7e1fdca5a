package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS command bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Align is a text alignment, used both for the printer and for table cells.
type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// Character size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // double width + double height
	FontWide   = 0x10
	FontTall   = 0x01
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document builds an ESC/POS byte stream for thermal printers.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument creates a document for the given character width. A width of
// zero or less selects 58mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = Width58mm
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// Width returns the line width in characters.
func (d *Document) Width() int {
	return d.width
}

// Init sends ESC @ (initialize printer).
func (d *Document) Init() *Document {
	d.buf.Write([]byte{ESC, '@'})
	return d
}

func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align Align) *Document {
	d.buf.Write([]byte{ESC, 'a', byte(align)})
	return d
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.buf.Write([]byte{ESC, 'E', b})
	return d
}

// SetFontSize sets the character size. Use FontNormal, FontDouble, FontWide or FontTall.
func (d *Document) SetFontSize(size byte) *Document {
	d.buf.Write([]byte{GS, '!', size})
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// Separator prints a full-width line of char.
func (d *Document) Separator(char rune) *Document {
	return d.Text(strings.Repeat(string(char), d.width))
}

// KeyValue prints key on the left and value on the right of one line.
func (d *Document) KeyValue(key, value string) *Document {
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	return d.Text(key + strings.Repeat(" ", spaces) + value)
}

// Column is one cell of a table row. Text longer than Width is truncated.
type Column struct {
	Text  string
	Width int
	Align Align
}

// Row prints cells side by side. The last column takes whatever width is
// left on the line when its Width is zero.
func (d *Document) Row(cols ...Column) *Document {
	var line strings.Builder
	used := 0
	for i, col := range cols {
		w := col.Width
		if i == len(cols)-1 && w == 0 {
			w = d.width - used
		}
		if w <= 0 {
			continue
		}
		line.WriteString(Pad(col.Text, w, col.Align))
		used += w
	}
	return d.Text(strings.TrimRight(line.String(), " "))
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.buf.Write([]byte{GS, 'V', 0x01})
	return d
}

// Bytes returns the accumulated byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Pad fits s into exactly width characters, truncating when it is longer.
func Pad(s string, width int, align Align) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	gap := width - n
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
