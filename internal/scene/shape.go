package scene

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/heart-rain/internal/util"
)

// The heart outline is tessellated once in a heartUnit x heartUnit box and
// scaled per draw.
const heartUnit = 64

var (
	shapeOnce    sync.Once
	heartVerts   []ebiten.Vertex
	heartIndices []uint16
	whiteSubImg  *ebiten.Image

	vertScratch []ebiten.Vertex
)

func initShapes() {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	// Sampling the middle pixel keeps edges from bleeding.
	whiteSubImg = white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	heartVerts, heartIndices = heartPath().AppendVerticesAndIndicesForFilling(nil, nil)
}

func heartPath() *vector.Path {
	const u = heartUnit
	var p vector.Path
	p.MoveTo(0.5*u, 0.3*u)
	p.CubicTo(0.5*u, 0.27*u, 0.45*u, 0.15*u, 0.25*u, 0.15*u)
	p.CubicTo(0, 0.15*u, 0, 0.45*u, 0, 0.45*u)
	p.CubicTo(0, 0.6*u, 0.2*u, 0.8*u, 0.5*u, 0.95*u)
	p.CubicTo(0.8*u, 0.8*u, 1*u, 0.6*u, 1*u, 0.45*u)
	p.CubicTo(1*u, 0.45*u, 1*u, 0.15*u, 0.75*u, 0.15*u)
	p.CubicTo(0.6*u, 0.15*u, 0.5*u, 0.27*u, 0.5*u, 0.3*u)
	p.Close()
	return &p
}

// drawHeart fills a heart into the size x size box at (left, top). The
// opacity rides on the vertices of this one call, so nothing carries over to
// later draws.
func drawHeart(dst *ebiten.Image, left, top, size float64, c color.RGBA, opacity float64) {
	shapeOnce.Do(initShapes)

	scale := float32(size / heartUnit)
	r := float32(c.R) / 0xff
	g := float32(c.G) / 0xff
	b := float32(c.B) / 0xff
	a := float32(util.Clamp01(opacity))

	vertScratch = append(vertScratch[:0], heartVerts...)
	for i := range vertScratch {
		v := &vertScratch[i]
		v.DstX = float32(left) + v.DstX*scale
		v.DstY = float32(top) + v.DstY*scale
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}

	op := &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		FillRule:  ebiten.FillRuleNonZero,
	}
	dst.DrawTriangles(vertScratch, heartIndices, whiteSubImg, op)
}
