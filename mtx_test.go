package scgo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const sampleMTX = `%%MatrixMarket matrix coordinate real general
% 3 genes x 2 cells
3 2 4
1 1 5
2 1 1
3 2 2.5
1 2 7
`

// --- ReadMTX tests ---

func TestReadMTX_TransposesToCellsByGenes(t *testing.T) {
	m, err := ReadMTX(strings.NewReader(sampleMTX))
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 2 || m.Cols != 3 {
		t.Fatalf("got %dx%d, want 2 cells x 3 genes", m.Rows, m.Cols)
	}
	// Entry "1 1 5" is gene 1, cell 1 → m[0,0].
	if m.At(0, 0) != 5 {
		t.Errorf("At(0,0) = %v, want 5", m.At(0, 0))
	}
	// Entry "3 2 2.5" is gene 3, cell 2 → m[1,2].
	if m.At(1, 2) != 2.5 {
		t.Errorf("At(1,2) = %v, want 2.5", m.At(1, 2))
	}
	// Unlisted entries are zero.
	if m.At(1, 1) != 0 {
		t.Errorf("At(1,1) = %v, want 0", m.At(1, 1))
	}
}

func TestReadMTX_IntegerValueType(t *testing.T) {
	in := "%%MatrixMarket matrix coordinate integer general\n2 2 1\n1 2 3\n"
	m, err := ReadMTX(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if m.At(1, 0) != 3 {
		t.Errorf("At(1,0) = %v, want 3", m.At(1, 0))
	}
}

func TestReadMTX_RejectsPatternType(t *testing.T) {
	in := "%%MatrixMarket matrix coordinate pattern general\n2 2 1\n1 1\n"
	if _, err := ReadMTX(strings.NewReader(in)); err == nil {
		t.Error("expected error for pattern value type")
	}
}

func TestReadMTX_RejectsSymmetric(t *testing.T) {
	in := "%%MatrixMarket matrix coordinate real symmetric\n2 2 1\n1 1 1\n"
	if _, err := ReadMTX(strings.NewReader(in)); err == nil {
		t.Error("expected error for symmetric storage")
	}
}

func TestReadMTX_EntryCountMismatch(t *testing.T) {
	in := "%%MatrixMarket matrix coordinate real general\n2 2 3\n1 1 1\n"
	if _, err := ReadMTX(strings.NewReader(in)); err == nil {
		t.Error("expected error when fewer entries than declared")
	}
}

func TestReadMTX_OutOfBoundsEntry(t *testing.T) {
	in := "%%MatrixMarket matrix coordinate real general\n2 2 1\n3 1 1\n"
	if _, err := ReadMTX(strings.NewReader(in)); err == nil {
		t.Error("expected error for out-of-bounds gene index")
	}
}

// --- LoadMTXDir tests ---

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeGzipFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMTXDir_PlainFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "matrix.mtx"), sampleMTX)
	writeFile(t, filepath.Join(dir, "genes.tsv"), "ENSG1\tCD3D\nENSG2\tCD8A\nENSG3\tMS4A1\n")
	writeFile(t, filepath.Join(dir, "barcodes.tsv"), "AAAC-1\nAAAG-1\n")

	m, err := LoadMTXDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 2 || m.Cols != 3 {
		t.Fatalf("got %dx%d, want 2x3", m.Rows, m.Cols)
	}
	if m.ColNames[1] != "CD8A" {
		t.Errorf("ColNames[1] = %q, want CD8A", m.ColNames[1])
	}
	if m.RowNames[0] != "AAAC-1" {
		t.Errorf("RowNames[0] = %q, want AAAC-1", m.RowNames[0])
	}
}

func TestLoadMTXDir_GzippedFiles(t *testing.T) {
	dir := t.TempDir()
	writeGzipFile(t, filepath.Join(dir, "matrix.mtx.gz"), sampleMTX)
	writeGzipFile(t, filepath.Join(dir, "features.tsv.gz"), "ENSG1\tCD3D\nENSG2\tCD8A\nENSG3\tMS4A1\n")
	writeGzipFile(t, filepath.Join(dir, "barcodes.tsv.gz"), "AAAC-1\nAAAG-1\n")

	m, err := LoadMTXDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 2 || m.Cols != 3 {
		t.Fatalf("got %dx%d, want 2x3", m.Rows, m.Cols)
	}
	if m.ColNames[2] != "MS4A1" {
		t.Errorf("ColNames[2] = %q, want MS4A1", m.ColNames[2])
	}
	if m.At(0, 0) != 5 {
		t.Errorf("At(0,0) = %v, want 5", m.At(0, 0))
	}
}

func TestLoadMTXDir_MissingMatrix(t *testing.T) {
	if _, err := LoadMTXDir(t.TempDir()); err == nil {
		t.Error("expected error for directory without matrix.mtx")
	}
}

func TestLoadMTXDir_GeneCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "matrix.mtx"), sampleMTX)
	writeFile(t, filepath.Join(dir, "genes.tsv"), "ENSG1\tCD3D\n")

	if _, err := LoadMTXDir(dir); err == nil {
		t.Error("expected error for gene count mismatch")
	}
}

// --- OpenMatrix tests ---

func TestOpenMatrix_MTX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counts.mtx")
	writeFile(t, path, sampleMTX)

	m, err := OpenMatrix(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 2 || m.Cols != 3 {
		t.Fatalf("got %dx%d, want 2x3", m.Rows, m.Cols)
	}
}

func TestOpenMatrix_GzippedCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counts.csv.gz")
	writeGzipFile(t, path, "1,2\n3,4\n")

	m, err := OpenMatrix(path)
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 2 || m.Cols != 2 || m.At(1, 1) != 4 {
		t.Errorf("unexpected matrix: %dx%d %v", m.Rows, m.Cols, m.Data)
	}
}

func TestOpenMatrix_UnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counts.bin")
	writeFile(t, path, "junk")

	if _, err := OpenMatrix(path); err == nil {
		t.Error("expected error for unrecognized extension")
	}
}
