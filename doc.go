// Package scgo provides building blocks for exploratory single-cell RNA-seq
// analysis: expression matrix loading, standard preprocessing, linear and
// graph-based dimensionality reduction, two clustering algorithms (k-means
// and Louvain community detection), and a multi-panel renderer for comparing
// clusterings across hyperparameter settings on a shared 2D embedding.
//
// A typical analysis mirrors the classic notebook workflow:
//
//	m, err := scgo.LoadMTXDir("filtered_gene_bc_matrices/hg19")
//	scgo.NormalizeTotal(m, 1e4)
//	scgo.Log1p(m)
//	hvg, _ := scgo.SelectHighlyVariable(m, 2000)
//	pca, _ := scgo.PCA(hvg, 50)
//	knn, _ := scgo.KNNGraph(pca.Projection, scgo.DefaultNeighborConfig())
//	emb, _ := scgo.EmbedGraph(knn, scgo.DefaultEmbedConfig())
//
// Clustering runs are collected per hyperparameter value and compared
// visually on the shared embedding:
//
//	var results []scgo.ParamResult
//	for _, k := range []int{2, 3, 4, 5} {
//		cfg := scgo.DefaultKMeansConfig()
//		cfg.K = k
//		r, _ := scgo.KMeans(pca.Projection, cfg)
//		results = append(results, scgo.ParamResult{Value: float64(k), Labels: r.Labels})
//	}
//	img, _ := scgo.RenderComparisonGrid("KMeans", "k", results, emb, nil)
//
// The heavy numerics (SVD for PCA, modularity optimization for Louvain,
// force-directed graph layout for the 2D embedding) are delegated to gonum.
// Chart rendering uses go-chart; the composed figure is returned as an
// image.Image that the caller owns.
package scgo
