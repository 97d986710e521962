package scgo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// ReadMTX parses a MatrixMarket coordinate file in the CellRanger
// orientation (genes as rows, cells as columns) and returns the transposed
// cells×genes dense matrix. Supported banners are "coordinate real" and
// "coordinate integer" with symmetry "general".
func ReadMTX(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<22)

	if !sc.Scan() {
		return nil, fmt.Errorf("scgo: empty MatrixMarket input")
	}
	banner := strings.Fields(strings.ToLower(sc.Text()))
	if len(banner) < 4 || banner[0] != "%%matrixmarket" || banner[1] != "matrix" || banner[2] != "coordinate" {
		return nil, fmt.Errorf("scgo: unsupported MatrixMarket banner %q", sc.Text())
	}
	switch banner[3] {
	case "real", "integer":
	default:
		return nil, fmt.Errorf("scgo: unsupported MatrixMarket value type %q", banner[3])
	}
	if len(banner) >= 5 && banner[4] != "general" {
		return nil, fmt.Errorf("scgo: unsupported MatrixMarket symmetry %q", banner[4])
	}

	// Skip comment lines, then read the size line: genes cells nnz.
	var genes, cells, nnz int
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if _, err := fmt.Sscan(line, &genes, &cells, &nnz); err != nil {
			return nil, fmt.Errorf("scgo: parsing MatrixMarket size line %q: %w", line, err)
		}
		break
	}
	if genes <= 0 || cells <= 0 {
		return nil, fmt.Errorf("scgo: invalid MatrixMarket dimensions %d×%d", genes, cells)
	}

	m := NewMatrix(cells, genes)
	seen := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("scgo: malformed MatrixMarket entry %q", line)
		}
		g, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("scgo: MatrixMarket entry %q: %w", line, err)
		}
		c, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("scgo: MatrixMarket entry %q: %w", line, err)
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("scgo: MatrixMarket entry %q: %w", line, err)
		}
		if g < 1 || g > genes || c < 1 || c > cells {
			return nil, fmt.Errorf("scgo: MatrixMarket entry %q out of bounds %d×%d", line, genes, cells)
		}
		// 1-based gene/cell indices, transposed into cells×genes.
		m.Set(c-1, g-1, v)
		seen++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scgo: reading MatrixMarket input: %w", err)
	}
	if seen != nnz {
		return nil, fmt.Errorf("scgo: MatrixMarket input has %d entries, header declared %d", seen, nnz)
	}
	return m, nil
}

// LoadMTXDir loads a CellRanger-style directory containing matrix.mtx,
// genes.tsv (or features.tsv) and barcodes.tsv, any of which may be
// gzip-compressed with a .gz suffix. Gene symbols become column names and
// barcodes become row names.
func LoadMTXDir(dir string) (*Matrix, error) {
	mtxPath, err := findFile(dir, "matrix.mtx")
	if err != nil {
		return nil, err
	}
	r, err := openMaybeGzip(mtxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m, err := ReadMTX(r)
	if err != nil {
		return nil, err
	}

	// genes.tsv rows are "<id>\t<symbol>"; prefer the symbol column.
	if genesPath, err := findFile(dir, "genes.tsv", "features.tsv"); err == nil {
		lines, err := readLines(genesPath)
		if err != nil {
			return nil, err
		}
		if len(lines) != m.Cols {
			return nil, fmt.Errorf("scgo: %s has %d entries, matrix has %d genes", genesPath, len(lines), m.Cols)
		}
		names := make([]string, len(lines))
		for i, line := range lines {
			fields := strings.Split(line, "\t")
			if len(fields) >= 2 {
				names[i] = fields[1]
			} else {
				names[i] = fields[0]
			}
		}
		m.ColNames = names
	}

	if barcodesPath, err := findFile(dir, "barcodes.tsv"); err == nil {
		lines, err := readLines(barcodesPath)
		if err != nil {
			return nil, err
		}
		if len(lines) != m.Rows {
			return nil, fmt.Errorf("scgo: %s has %d entries, matrix has %d cells", barcodesPath, len(lines), m.Rows)
		}
		m.RowNames = lines
	}

	return m, nil
}

// OpenMatrix loads a matrix from a single file, dispatching on extension:
// .mtx for MatrixMarket, .csv for dense CSV, with an optional .gz suffix.
func OpenMatrix(path string) (*Matrix, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz"))) {
	case ".mtx":
		return ReadMTX(r)
	case ".csv":
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("scgo: unrecognized matrix file extension on %q", path)
	}
}

// findFile returns the first of the candidate names that exists in dir,
// checking both plain and .gz variants.
func findFile(dir string, names ...string) (string, error) {
	for _, name := range names {
		for _, candidate := range []string{name, name + ".gz"} {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("scgo: none of %v found in %s", names, dir)
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g gzipReadCloser) Close() error {
	gerr := g.Reader.Close()
	ferr := g.file.Close()
	if gerr != nil {
		return gerr
	}
	return ferr
}

// openMaybeGzip opens path, transparently decompressing .gz files.
func openMaybeGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scgo: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("scgo: opening gzip %s: %w", path, err)
	}
	return gzipReadCloser{Reader: gz, file: f}, nil
}

// readLines reads a (possibly gzipped) file into trimmed non-empty lines.
func readLines(path string) ([]string, error) {
	r, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<22)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scgo: reading %s: %w", path, err)
	}
	return lines, nil
}
