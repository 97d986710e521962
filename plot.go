package scgo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GridOptions configures comparison grid rendering.
type GridOptions struct {
	// PanelWidth and PanelHeight are the pixel dimensions of each panel.
	// Defaults: 560×420.
	PanelWidth, PanelHeight int
}

func (o *GridOptions) withDefaults() GridOptions {
	out := GridOptions{PanelWidth: 560, PanelHeight: 420}
	if o != nil {
		if o.PanelWidth > 0 {
			out.PanelWidth = o.PanelWidth
		}
		if o.PanelHeight > 0 {
			out.PanelHeight = o.PanelHeight
		}
	}
	return out
}

// clusterPalette is a tab10-style categorical palette; panels with more
// clusters than colors cycle through it.
var clusterPalette = []drawing.Color{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

func clusterColor(i int) drawing.Color {
	return clusterPalette[i%len(clusterPalette)]
}

// pointStyle returns a style that renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    3,
		DotColor:    col,
	}
}

// RenderComparisonGrid renders one scatter panel per clustering result on
// the shared embedding and composes them into a single near-square grid
// image (two columns, ceil(n/2) rows). All panels share the same axis
// ranges so cluster shapes are directly comparable. For odd result counts
// the final grid cell is left blank. The returned image is owned by the
// caller; nothing is written to shared rendering state.
//
// Every result's labels must be index-aligned with the embedding; any
// length mismatch fails before drawing starts.
func RenderComparisonGrid(algorithm, param string, results []ParamResult, emb *Embedding, opts *GridOptions) (image.Image, error) {
	panels, err := BuildPanels(algorithm, param, results, emb)
	if err != nil {
		return nil, err
	}
	opt := opts.withDefaults()
	spec := GridLayout(len(panels))

	canvas := image.NewRGBA(image.Rect(0, 0, spec.Cols*opt.PanelWidth, spec.Rows*opt.PanelHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	xRange, yRange := sharedRanges(emb)

	for _, cell := range spec.Active {
		img, err := renderPanel(panels[cell], emb, xRange, yRange, opt)
		if err != nil {
			return nil, fmt.Errorf("scgo: rendering panel %d: %w", cell, err)
		}
		row := cell / spec.Cols
		col := cell % spec.Cols
		target := image.Rect(
			col*opt.PanelWidth, row*opt.PanelHeight,
			(col+1)*opt.PanelWidth, (row+1)*opt.PanelHeight,
		)
		draw.Draw(canvas, target, img, img.Bounds().Min, draw.Src)
	}

	return canvas, nil
}

// sharedRanges pads the embedding extent by 5% per side so points at the
// extremes are not clipped, and guards against zero-span axes.
func sharedRanges(emb *Embedding) (x, y *chart.ContinuousRange) {
	return paddedRange(emb.X), paddedRange(emb.Y)
}

func paddedRange(vs []float64) *chart.ContinuousRange {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// renderPanel draws one scatter panel with one colored series per cluster
// and a legend, returning it as an image.
func renderPanel(p Panel, emb *Embedding, xRange, yRange *chart.ContinuousRange, opt GridOptions) (image.Image, error) {
	series := make([]chart.Series, len(p.Groups))
	for gi, group := range p.Groups {
		series[gi] = chart.ContinuousSeries{
			Name:    fmt.Sprintf("cluster %d", group.Label),
			XValues: group.X,
			YValues: group.Y,
			Style:   pointStyle(clusterColor(gi)),
		}
	}

	ch := chart.Chart{
		Title:      p.Title,
		Width:      opt.PanelWidth,
		Height:     opt.PanelHeight,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 12}},
		XAxis:      chart.XAxis{Name: emb.XName, Range: xRange},
		YAxis:      chart.YAxis{Name: emb.YName, Range: yRange},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}
