package scgo

import (
	"errors"
	"fmt"
	"strconv"
)

// gridColumns fixes comparison grids at two panels per row, matching the
// side-by-side reading the grids are meant for.
const gridColumns = 2

// ErrNoResults is returned when a comparison grid is requested for an empty
// result list.
var ErrNoResults = errors.New("scgo: no clustering results to plot")

// ParamResult is one clustering run under one hyperparameter setting:
// the hyperparameter value and the per-cell cluster labels it produced.
type ParamResult struct {
	Value  float64
	Labels []int
}

// GridSpec is the computed layout of a comparison grid: a fixed two-column
// grid with enough rows for every panel. Cells are numbered row-major;
// Active lists the cells that carry a panel, so for odd panel counts the
// final cell is absent from Active and stays blank.
type GridSpec struct {
	Rows, Cols int
	Active     []int
}

// GridLayout computes the grid shape for the given panel count:
// rows = ceil(count/2) with a minimum of one row, always two columns.
// Zero and single-panel counts are legal here and yield a one-row grid;
// rejecting empty result lists is the renderer's job.
func GridLayout(count int) GridSpec {
	rows := (count + gridColumns - 1) / gridColumns
	if rows < 1 {
		rows = 1
	}
	active := make([]int, count)
	for i := range active {
		active[i] = i
	}
	return GridSpec{Rows: rows, Cols: gridColumns, Active: active}
}

// PanelGroup is the points of one cluster within one panel, ready to plot
// as a single colored series.
type PanelGroup struct {
	Label int
	X, Y  []float64
}

// Panel is one scatter panel of a comparison grid: a title and the
// embedding points grouped by cluster label.
type Panel struct {
	Title  string
	Groups []PanelGroup
}

// panelTitle formats a panel title from the algorithm name, hyperparameter
// name and value, and the observed cluster count, e.g.
// "KMeans (k=3): 3 clusters".
func panelTitle(algorithm, param string, value float64, clusters int) string {
	return fmt.Sprintf("%s (%s=%s): %d clusters",
		algorithm, param, formatParamValue(value), clusters)
}

// formatParamValue renders a hyperparameter value compactly: integral
// values without a decimal point ("2"), others in shortest form ("0.5").
func formatParamValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// BuildPanels validates a result list against the shared embedding and
// groups each result's points by cluster label. Every result's label slice
// must be exactly as long as the embedding; any mismatch fails before
// anything is drawn. An empty result list returns ErrNoResults; an
// embedding with no points is rejected.
func BuildPanels(algorithm, param string, results []ParamResult, emb *Embedding) ([]Panel, error) {
	if len(results) == 0 {
		return nil, ErrNoResults
	}
	n := emb.Len()
	if n == 0 {
		return nil, fmt.Errorf("scgo: embedding has no points")
	}
	if len(emb.Y) != n {
		return nil, fmt.Errorf("scgo: embedding has %d x but %d y coordinates", n, len(emb.Y))
	}
	for r, res := range results {
		if len(res.Labels) != n {
			return nil, fmt.Errorf("scgo: result %d (%s=%s) has %d labels for %d embedded points",
				r, param, formatParamValue(res.Value), len(res.Labels), n)
		}
	}

	panels := make([]Panel, len(results))
	for r, res := range results {
		distinct := DistinctLabels(res.Labels)
		groupIdx := make(map[int]int, len(distinct))
		groups := make([]PanelGroup, len(distinct))
		for gi, l := range distinct {
			groups[gi] = PanelGroup{Label: l}
			groupIdx[l] = gi
		}
		for i, l := range res.Labels {
			gi := groupIdx[l]
			groups[gi].X = append(groups[gi].X, emb.X[i])
			groups[gi].Y = append(groups[gi].Y, emb.Y[i])
		}
		panels[r] = Panel{
			Title:  panelTitle(algorithm, param, res.Value, len(distinct)),
			Groups: groups,
		}
	}
	return panels, nil
}
