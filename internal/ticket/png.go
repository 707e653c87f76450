package ticket

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	imageWidth = 440
	padding    = 20
	lineHeight = 18
)

var (
	background = color.RGBA{R: 0xfb, G: 0xf8, B: 0xf1, A: 0xff}
	header     = color.RGBA{R: 0x0b, G: 0x5f, B: 0x8a, A: 0xff}
	ink        = color.RGBA{R: 0x1d, G: 0x1d, B: 0x1f, A: 0xff}
	muted      = color.RGBA{R: 0x6b, G: 0x6b, B: 0x70, A: 0xff}
)

type row struct {
	left, right string
	clr         color.Color
}

// RenderPNG draws t as a PNG image. The bitmap face has no Vietnamese glyphs, so text
// is folded to unaccented Latin.
func RenderPNG(w io.Writer, t Ticket) error {
	rows := layout(t)
	height := 2*padding + (len(rows)+2)*lineHeight

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, imageWidth, padding+lineHeight+6), image.NewUniform(header), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	title := fold(label(t.Language, "title"))
	d.Src = image.NewUniform(color.White)
	d.Dot = fixed.P(padding, padding+lineHeight-4)
	d.DrawString(title)

	y := padding + 3*lineHeight
	for _, r := range rows {
		d.Src = image.NewUniform(r.clr)
		d.Dot = fixed.P(padding, y)
		d.DrawString(fold(r.left))
		if r.right != "" {
			right := fold(r.right)
			width := d.MeasureString(right).Ceil()
			d.Dot = fixed.P(imageWidth-padding-width, y)
			d.DrawString(right)
		}
		y += lineHeight
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode ticket png: %w", err)
	}
	return nil
}

func layout(t Ticket) []row {
	lang := t.Language
	kv := func(key, value string) row {
		return row{left: label(lang, key), right: value, clr: ink}
	}

	rows := []row{
		kv("code", t.Code),
		kv("status", string(t.Status)),
		kv("location", t.Location),
		kv("date", t.Date),
		kv("time", t.TimeSlot),
		kv("contact", strings.TrimSpace(t.Phone+"  "+t.Email)),
	}
	if t.PickupLocation != "" {
		rows = append(rows, kv("pickup", t.PickupLocation))
	}
	rows = append(rows, row{left: fmt.Sprintf("%s (%d)", label(lang, "guests"), t.GuestsCount), clr: ink})
	for i, name := range t.Guests {
		rows = append(rows, row{left: fmt.Sprintf("  %d. %s", i+1, name), clr: muted})
	}
	rows = append(rows, row{clr: ink})
	for _, l := range t.Lines {
		rows = append(rows, row{left: l.Label, right: l.Amount, clr: muted})
	}
	rows = append(rows, row{left: label(lang, "total"), right: t.Total, clr: header})
	return rows
}

func fold(s string) string {
	t := transform.Chain(
		runes.Map(func(r rune) rune {
			switch r {
			case 'đ':
				return 'd'
			case 'Đ':
				return 'D'
			}
			return r
		}),
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
