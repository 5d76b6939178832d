package tray

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
)

const iconSize = 64

var (
	colorConnected    = color.NRGBA{R: 0xFF, G: 0x5A, B: 0x1F, A: 0xFF} // OP-1 orange
	colorDisconnected = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
)

// Icons holds the two tray states
type Icons struct {
	Connected    fyne.Resource
	Disconnected fyne.Resource
}

// LoadIcons renders both tray icons with the theme's bold font
func LoadIcons() (Icons, error) {
	font := theme.DefaultTextBoldFont().Content()
	on, err := RenderIcon("1", colorConnected, font)
	if err != nil {
		return Icons{}, err
	}
	off, err := RenderIcon("1", colorDisconnected, font)
	if err != nil {
		return Icons{}, err
	}
	return Icons{
		Connected:    fyne.NewStaticResource("op1nput-connected.png", on),
		Disconnected: fyne.NewStaticResource("op1nput-disconnected.png", off),
	}, nil
}

// RenderIcon draws text centred in a filled disc and returns it as PNG
func RenderIcon(text string, fill color.Color, fontData []byte) ([]byte, error) {
	f, err := freetype.ParseFont(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	drawDisc(img, fill)

	fontSize := float64(iconSize) * 0.6
	dpi := float64(72)

	opts := truetype.Options{Size: fontSize, DPI: dpi}
	face := truetype.NewFace(f, &opts)
	defer face.Close()

	textWidth := 0
	for _, r := range text {
		if adv, ok := face.GlyphAdvance(r); ok {
			textWidth += adv.Round()
		}
	}
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textHeight := (metrics.Ascent + metrics.Descent).Ceil()

	c := freetype.NewContext()
	c.SetFont(f)
	c.SetFontSize(fontSize)
	c.SetDPI(dpi)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.NewUniform(color.White))

	pt := freetype.Pt((iconSize-textWidth)/2, (iconSize-textHeight)/2+ascent)
	if _, err := c.DrawString(text, pt); err != nil {
		return nil, fmt.Errorf("draw %q: %w", text, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode icon: %w", err)
	}
	return buf.Bytes(), nil
}

func drawDisc(img draw.Image, fill color.Color) {
	r := float64(iconSize)/2 - 1
	cx, cy := float64(iconSize)/2, float64(iconSize)/2
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, fill)
			}
		}
	}
}
