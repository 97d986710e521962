package scgo

import (
	"errors"
	"image/color"
	"testing"
)

// --- RenderComparisonGrid tests ---

func TestRenderComparisonGrid_TwoPanels(t *testing.T) {
	emb := testEmbedding6()
	results := []ParamResult{
		{Value: 2, Labels: []int{0, 0, 0, 1, 1, 1}},
		{Value: 5, Labels: []int{0, 1, 2, 3, 4, 0}},
	}
	opts := &GridOptions{PanelWidth: 300, PanelHeight: 200}

	img, err := RenderComparisonGrid("KMeans", "k", results, emb, opts)
	if err != nil {
		t.Fatal(err)
	}
	// Two panels fill one row of two columns.
	b := img.Bounds()
	if b.Dx() != 600 || b.Dy() != 200 {
		t.Errorf("image is %dx%d, want 600x200", b.Dx(), b.Dy())
	}
}

func TestRenderComparisonGrid_OddCountBlankCell(t *testing.T) {
	emb := testEmbedding6()
	results := []ParamResult{
		{Value: 2, Labels: []int{0, 0, 0, 1, 1, 1}},
		{Value: 3, Labels: []int{0, 1, 2, 0, 1, 2}},
		{Value: 4, Labels: []int{0, 1, 2, 3, 0, 1}},
	}
	opts := &GridOptions{PanelWidth: 200, PanelHeight: 150}

	img, err := RenderComparisonGrid("KMeans", "k", results, emb, opts)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("image is %dx%d, want 400x300", b.Dx(), b.Dy())
	}

	// The fourth cell (bottom-right) holds no panel and stays uniformly white.
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, pt := range [][2]int{{210, 160}, {300, 225}, {399, 299}} {
		r, g, bl, a := img.At(pt[0], pt[1]).RGBA()
		wr, wg, wb, wa := white.RGBA()
		if r != wr || g != wg || bl != wb || a != wa {
			t.Errorf("pixel (%d,%d) in the blank cell is not white", pt[0], pt[1])
		}
	}
}

func TestRenderComparisonGrid_SingleResult(t *testing.T) {
	emb := testEmbedding6()
	results := []ParamResult{{Value: 2, Labels: []int{0, 0, 0, 1, 1, 1}}}
	opts := &GridOptions{PanelWidth: 200, PanelHeight: 150}

	img, err := RenderComparisonGrid("KMeans", "k", results, emb, opts)
	if err != nil {
		t.Fatal(err)
	}
	// One panel still gets a full 1x2 grid, second cell blank.
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 150 {
		t.Errorf("image is %dx%d, want 400x150", b.Dx(), b.Dy())
	}
}

func TestRenderComparisonGrid_EmptyResults(t *testing.T) {
	_, err := RenderComparisonGrid("KMeans", "k", nil, testEmbedding6(), nil)
	if !errors.Is(err, ErrNoResults) {
		t.Errorf("got %v, want ErrNoResults", err)
	}
}

func TestRenderComparisonGrid_EmptyEmbedding(t *testing.T) {
	results := []ParamResult{{Value: 2, Labels: []int{}}}

	img, err := RenderComparisonGrid("KMeans", "k", results, &Embedding{}, nil)
	if err == nil {
		t.Fatal("expected error for an embedding with no points")
	}
	if img != nil {
		t.Error("no image should be returned for an empty embedding")
	}
}

func TestRenderComparisonGrid_MismatchFailsWithoutRendering(t *testing.T) {
	emb := testEmbedding6()
	results := []ParamResult{{Value: 2, Labels: []int{0, 1}}}

	img, err := RenderComparisonGrid("KMeans", "k", results, emb, nil)
	if err == nil {
		t.Fatal("expected error for label length mismatch")
	}
	if img != nil {
		t.Error("no image should be returned on validation failure")
	}
}

func TestRenderComparisonGrid_DefaultOptions(t *testing.T) {
	emb := testEmbedding6()
	results := []ParamResult{
		{Value: 2, Labels: []int{0, 0, 0, 1, 1, 1}},
		{Value: 3, Labels: []int{0, 1, 2, 0, 1, 2}},
	}

	img, err := RenderComparisonGrid("Louvain", "resolution", results, emb, nil)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 2*560 || b.Dy() != 420 {
		t.Errorf("image is %dx%d, want default 1120x420", b.Dx(), b.Dy())
	}
}

func TestRenderComparisonGrid_ConstantEmbeddingAxis(t *testing.T) {
	// All points share one y value; the padded range guard must keep the
	// axis non-degenerate.
	emb := &Embedding{
		X:     []float64{0, 1, 2, 3},
		Y:     []float64{5, 5, 5, 5},
		XName: "EMB1",
		YName: "EMB2",
	}
	results := []ParamResult{{Value: 2, Labels: []int{0, 0, 1, 1}}}
	opts := &GridOptions{PanelWidth: 200, PanelHeight: 150}

	if _, err := RenderComparisonGrid("KMeans", "k", results, emb, opts); err != nil {
		t.Fatalf("rendering with a flat axis failed: %v", err)
	}
}

// --- Palette tests ---

func TestClusterColor_CyclesPalette(t *testing.T) {
	n := len(clusterPalette)
	if clusterColor(0) != clusterColor(n) {
		t.Error("palette should cycle after exhausting its colors")
	}
	if clusterColor(1) == clusterColor(2) {
		t.Error("adjacent palette entries should differ")
	}
}

func TestPaddedRange_ExpandsExtent(t *testing.T) {
	r := paddedRange([]float64{0, 10})
	if r.Min >= 0 || r.Max <= 10 {
		t.Errorf("range [%v, %v] should strictly contain [0, 10]", r.Min, r.Max)
	}
}

func TestPaddedRange_ZeroSpanGuard(t *testing.T) {
	r := paddedRange([]float64{5, 5, 5})
	if r.Max <= r.Min {
		t.Errorf("range [%v, %v] must be non-degenerate", r.Min, r.Max)
	}
}
