package cmap

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// LoadKernel reads a pattern template from whitespace-delimited text, one
// matrix row per line. The kernel must be square with an odd dimension so it
// has a center pixel. No header or metadata is expected.
func LoadKernel(r io.Reader) (*mat.Dense, error) {
	var values []float64
	var width int
	rows := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if rows == 0 {
			width = len(fields)
		} else if len(fields) != width {
			return nil, fmt.Errorf("kernel row %d: expected %d values, got %d", rows+1, width, len(fields))
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("kernel row %d: bad value %q: %w", rows+1, f, err)
			}
			values = append(values, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if rows == 0 || rows != width || rows%2 == 0 {
		return nil, ErrBadKernel
	}
	return mat.NewDense(rows, width, values), nil
}

// WriteKernel writes a kernel in the text format read by LoadKernel.
func WriteKernel(w io.Writer, kernel *mat.Dense) error {
	bw := bufio.NewWriter(w)
	r, c := kernel.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if j > 0 {
				if _, err := fmt.Fprint(bw, "\t"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(bw, "%g", kernel.At(i, j)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}
	return bw.Flush()
}
