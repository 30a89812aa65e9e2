package detect

import (
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// WritePatterns writes the pattern table as CSV with a header row: bin1,
// bin2 and the correlation score of each detection.
func WritePatterns(w io.Writer, patterns []Pattern) error {
	bin1 := make([]int, len(patterns))
	bin2 := make([]int, len(patterns))
	scores := make([]float64, len(patterns))
	for i, p := range patterns {
		bin1[i] = p.Bin1
		bin2[i] = p.Bin2
		scores[i] = p.Score
	}

	df := dataframe.New(
		series.New(bin1, series.Int, "bin1"),
		series.New(bin2, series.Int, "bin2"),
		series.New(scores, series.Float, "score"),
	)
	return df.WriteCSV(w, dataframe.WriteHeader(true))
}
