// internal/ui/text.go
package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Face — общий шрифт интерфейса
var Face text.Face = text.NewGoXFace(basicfont.Face7x13)

// DrawText draws s with its top-left corner at (x, y).
func DrawText(dst *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, Face, op)
}

// DrawTextCentered centers s on (cx, cy).
func DrawTextCentered(dst *ebiten.Image, s string, cx, cy float64, c color.Color) {
	w, h := text.Measure(s, Face, 0)
	DrawText(dst, s, cx-w/2, cy-h/2, c)
}

// DrawTextOutlined рисует текст с обводкой толщиной thickness пикселей.
func DrawTextOutlined(dst *ebiten.Image, s string, cx, cy float64, fill, outline color.Color, thickness int) {
	for y := -thickness; y <= thickness; y++ {
		for x := -thickness; x <= thickness; x++ {
			if x == 0 && y == 0 {
				continue
			}
			DrawTextCentered(dst, s, cx+float64(x), cy+float64(y), outline)
		}
	}
	DrawTextCentered(dst, s, cx, cy, fill)
}

var whiteImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img
}()

// whiteSubImage avoids sampling the texture edge.
var whiteSubImage = whiteImage.SubImage(whiteImage.Bounds().Inset(1)).(*ebiten.Image)

// fillPath fills a closed path with a solid color.
func fillPath(dst *ebiten.Image, path *vector.Path, c color.Color) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	colorVertices(vs, c)
	dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func strokePath(dst *ebiten.Image, path *vector.Path, width float32, c color.Color) {
	vs, is := path.AppendVerticesAndIndicesForStroke(nil, nil, &vector.StrokeOptions{Width: width})
	colorVertices(vs, c)
	dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func colorVertices(vs []ebiten.Vertex, c color.Color) {
	r, g, b, a := c.RGBA()
	for i := range vs {
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
}

func triangle(x1, y1, x2, y2, x3, y3 float32) *vector.Path {
	p := &vector.Path{}
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)
	p.LineTo(x3, y3)
	p.Close()
	return p
}
