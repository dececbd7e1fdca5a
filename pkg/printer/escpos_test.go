package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocument_StartsWithInit(t *testing.T) {
	d := NewDocument(0)
	assert.Equal(t, Width58mm, d.Width())
	assert.Equal(t, []byte{ESC, '@'}, d.Bytes())
}

func TestDocument_KeyValue(t *testing.T) {
	d := NewDocument(20)
	d.KeyValue("Subtotal", "7.00")

	line := string(d.Bytes()[2:])
	assert.Equal(t, "Subtotal        7.00\n", line)
}

func TestDocument_KeyValueOverflowKeepsOneSpace(t *testing.T) {
	d := NewDocument(10)
	d.KeyValue("Subtotal", "1000.00")
	assert.Equal(t, "Subtotal 1000.00\n", string(d.Bytes()[2:]))
}

func TestDocument_Row(t *testing.T) {
	d := NewDocument(24)
	d.Row(
		Column{Text: "Chocolate cake", Width: 10},
		Column{Text: "2", Width: 4, Align: AlignRight},
		Column{Text: "9.50", Align: AlignRight},
	)

	line := strings.TrimSuffix(string(d.Bytes()[2:]), "\n")
	assert.Equal(t, "Chocolate    2      9.50", line)
	assert.Len(t, line, 24)
}

func TestDocument_SeparatorAndCommands(t *testing.T) {
	d := NewDocument(4)
	d.SetBold(true).Separator('=').SetBold(false).SetAlign(AlignCenter).PartialCut()

	out := d.Bytes()
	assert.True(t, bytes.Contains(out, []byte{ESC, 'E', 1}))
	assert.True(t, bytes.Contains(out, []byte("====\n")))
	assert.True(t, bytes.Contains(out, []byte{ESC, 'a', 1}))
	assert.True(t, bytes.HasSuffix(out, []byte{GS, 'V', 0x01}))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab  ", Pad("ab", 4, AlignLeft))
	assert.Equal(t, "  ab", Pad("ab", 4, AlignRight))
	assert.Equal(t, " ab ", Pad("ab", 4, AlignCenter))
	assert.Equal(t, "abc", Pad("abcdef", 3, AlignLeft))
	assert.Equal(t, "café", Pad("café au lait", 4, AlignLeft))
}
