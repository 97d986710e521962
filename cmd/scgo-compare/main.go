// Command scgo-compare runs the standard single-cell clustering comparison
// workflow end to end: load (or synthesize) an expression matrix, preprocess,
// reduce with PCA, build a kNN graph, embed in 2D, then sweep k for k-means
// and resolution for Louvain, writing one comparison grid PNG per algorithm.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scgo/scgo"
)

func main() {
	input := flag.String("input", "", "Expression matrix: a CellRanger directory, .mtx(.gz) or .csv(.gz) file. Empty runs on synthetic blobs.")
	cells := flag.Int("cells", 600, "Number of synthetic cells (only without -input)")
	genes := flag.Int("genes", 40, "Number of synthetic genes (only without -input)")
	blobs := flag.Int("blobs", 4, "Number of synthetic populations (only without -input)")
	hvg := flag.Int("hvg", 2000, "Number of highly variable genes to keep (0 keeps all)")
	pcs := flag.Int("pcs", 50, "Number of principal components")
	neighbors := flag.Int("neighbors", 15, "Neighbors per cell in the kNN graph")
	ks := flag.String("ks", "2,3,4,5", "Comma-separated k values for the k-means sweep")
	resolutions := flag.String("resolutions", "0.25,0.5,1.0,2.0", "Comma-separated resolutions for the Louvain sweep")
	seed := flag.Uint64("seed", 1, "Random seed")
	outDir := flag.String("out", ".", "Output directory for the comparison grids")

	flag.Parse()

	m, err := loadOrSynthesize(*input, *cells, *genes, *blobs, *seed)
	if err != nil {
		log.Fatalf("loading matrix: %v", err)
	}
	log.Printf("matrix: %d cells × %d genes", m.Rows, m.Cols)

	if err := scgo.NormalizeTotal(m, 1e4); err != nil {
		log.Fatalf("normalizing: %v", err)
	}
	scgo.Log1p(m)
	if *hvg > 0 && *hvg < m.Cols {
		m, err = scgo.SelectHighlyVariable(m, *hvg)
		if err != nil {
			log.Fatalf("selecting variable genes: %v", err)
		}
		log.Printf("kept %d highly variable genes", m.Cols)
	}
	scgo.Scale(m, 10)

	nPCs := *pcs
	if limit := min(m.Rows, m.Cols); nPCs > limit {
		nPCs = limit
	}
	pca, err := scgo.PCA(m, nPCs)
	if err != nil {
		log.Fatalf("PCA: %v", err)
	}
	log.Printf("PCA: %d components, %.1f%% variance explained",
		nPCs, 100*sum(pca.ExplainedVarianceRatio))

	ncfg := scgo.DefaultNeighborConfig()
	ncfg.Neighbors = *neighbors
	knn, err := scgo.KNNGraph(pca.Projection, ncfg)
	if err != nil {
		log.Fatalf("kNN graph: %v", err)
	}
	if comps := knn.ConnectedComponents(); comps > 1 {
		log.Printf("warning: kNN graph has %d connected components", comps)
	}

	ecfg := scgo.DefaultEmbedConfig()
	ecfg.Seed = *seed
	emb, err := scgo.EmbedGraph(knn, ecfg)
	if err != nil {
		log.Fatalf("embedding: %v", err)
	}

	kValues, err := parseInts(*ks)
	if err != nil {
		log.Fatalf("parsing -ks: %v", err)
	}
	var kmResults []scgo.ParamResult
	for _, k := range kValues {
		cfg := scgo.DefaultKMeansConfig()
		cfg.K = k
		cfg.Seed = *seed
		r, err := scgo.KMeans(pca.Projection, cfg)
		if err != nil {
			log.Fatalf("k-means (k=%d): %v", cfg.K, err)
		}
		log.Printf("k-means k=%d: inertia %.1f", cfg.K, r.Inertia)
		kmResults = append(kmResults, scgo.ParamResult{Value: float64(k), Labels: r.Labels})
	}

	resValues, err := parseFloats(*resolutions)
	if err != nil {
		log.Fatalf("parsing -resolutions: %v", err)
	}
	var lvResults []scgo.ParamResult
	for _, res := range resValues {
		cfg := scgo.DefaultLouvainConfig()
		cfg.Resolution = res
		cfg.Seed = *seed
		r, err := scgo.Louvain(knn, cfg)
		if err != nil {
			log.Fatalf("louvain (resolution=%g): %v", res, err)
		}
		log.Printf("louvain resolution=%g: %d communities, modularity %.3f",
			res, len(r.Communities), r.Modularity)
		lvResults = append(lvResults, scgo.ParamResult{Value: res, Labels: r.Labels})
	}

	if err := writeGrid(*outDir, "kmeans_grid.png", "KMeans", "k", kmResults, emb); err != nil {
		log.Fatalf("rendering k-means grid: %v", err)
	}
	if err := writeGrid(*outDir, "louvain_grid.png", "Louvain", "resolution", lvResults, emb); err != nil {
		log.Fatalf("rendering louvain grid: %v", err)
	}
}

func loadOrSynthesize(input string, cells, genes, blobs int, seed uint64) (*scgo.Matrix, error) {
	if input == "" {
		log.Printf("no -input given; generating %d cells from %d synthetic populations", cells, blobs)
		m, _, err := scgo.MakeBlobs(cells, genes, blobs, 1.0, seed)
		return m, err
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return scgo.LoadMTXDir(input)
	}
	return scgo.OpenMatrix(input)
}

func writeGrid(dir, name, algorithm, param string, results []scgo.ParamResult, emb *scgo.Embedding) error {
	img, err := scgo.RenderComparisonGrid(algorithm, param, results, emb, nil)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := writePNG(path, img); err != nil {
		return err
	}
	log.Printf("wrote %s", path)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}

// parseInts parses a comma-separated list of integers. Fractional values are
// rejected rather than truncated, so a sweep like "2.5" cannot silently run a
// different k than its panel title reports.
func parseInts(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}

func sum(vs []float64) float64 {
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}
