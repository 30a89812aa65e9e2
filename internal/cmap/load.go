package cmap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/james-bowman/sparse"

	"github.com/Captaincapture/chromosight/internal/smat"
)

var (
	// ErrEmptyMatrix is returned when a matrix file holds no entries.
	ErrEmptyMatrix = errors.New("matrix file holds no entries")

	// ErrBadKernel is returned when a kernel file is not a square matrix
	// with an odd dimension.
	ErrBadKernel = errors.New("kernel must be square with an odd dimension")
)

// LoadBg2 reads a sparse matrix from 3-column bedgraph2-like text: bin1,
// bin2 and contact count, whitespace separated, one entry per line. Lines
// starting with '#' are skipped. The matrix dimension is the largest bin
// index seen plus one, or dim if larger.
func LoadBg2(r io.Reader, dim int) (*sparse.CSR, error) {
	var rows, cols []int
	var vals []float64
	maxBin := 0

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 columns, got %d", line, len(fields))
		}
		b1, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad bin1 %q: %w", line, fields[0], err)
		}
		b2, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad bin2 %q: %w", line, fields[1], err)
		}
		v, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad count %q: %w", line, fields[2], err)
		}
		if b1 < 0 || b2 < 0 || v < 0 {
			return nil, fmt.Errorf("line %d: negative bin or count", line)
		}
		// canonicalize to the upper triangle
		if b1 > b2 {
			b1, b2 = b2, b1
		}
		if b2 > maxBin {
			maxBin = b2
		}
		rows = append(rows, b1)
		cols = append(cols, b2)
		vals = append(vals, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrEmptyMatrix
	}

	n := maxBin + 1
	if dim > n {
		n = dim
	}
	return smat.FromTriplets(n, n, rows, cols, vals), nil
}

// WriteBg2 writes a sparse matrix in the same 3-column text format read by
// LoadBg2.
func WriteBg2(w io.Writer, m *sparse.CSR) error {
	bw := bufio.NewWriter(w)
	var werr error
	m.DoNonZero(func(i, j int, v float64) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bw, "%d\t%d\t%g\n", i, j, v)
	})
	if werr != nil {
		return werr
	}
	return bw.Flush()
}
