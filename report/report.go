// Package report summarizes a loaded dataset: per-split length statistics,
// the padding overhead of minibatching it, and length histograms.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/expf/batch"
	"github.com/Noofbiz/expf/datasets"
)

// SplitSummary describes one split and the cost of padding it.
type SplitSummary struct {
	datasets.Stats

	// Batches is the number of consecutive minibatches of the requested size.
	Batches int
	// PaddedCells is the total number of cells of all padded x arrays.
	PaddedCells int
	// Efficiency is Tokens / PaddedCells, 1 when no padding is needed.
	Efficiency float64
}

// Summarize computes a SplitSummary for every split, in archive order. The
// minibatches are taken in the split's current order, so a length-sorted
// split shows how much padding sorting saves.
func Summarize(ds *datasets.Dataset, batchSize int) []SplitSummary {
	out := make([]SplitSummary, 0, 4)
	for _, s := range ds.Splits() {
		out = append(out, summarize(s, batchSize))
	}
	return out
}

func summarize(s *datasets.Split, batchSize int) SplitSummary {
	sum := SplitSummary{Stats: s.Stats()}
	lengths := s.Lengths()
	for _, idx := range batch.Minibatches(len(lengths), batchSize, nil) {
		longest := 0
		for _, i := range idx {
			longest = max(longest, lengths[i])
		}
		sum.PaddedCells += longest * len(idx)
		sum.Batches++
	}
	sum.Efficiency = 1
	if sum.PaddedCells > 0 {
		sum.Efficiency = float64(sum.Tokens) / float64(sum.PaddedCells)
	}
	return sum
}

// String formats the summary on one line.
func (s SplitSummary) String() string {
	return fmt.Sprintf("%-6s samples=%d tokens=%d len=[%d,%d] mean=%.2f unk=%d batches=%d padding-efficiency=%.3f",
		s.Name, s.Samples, s.Tokens, s.MinLen, s.MaxLen, s.MeanLen, s.Unknowns, s.Batches, s.Efficiency)
}

// LengthHistogram writes a histogram of the primary sequence lengths of split
// to path. The image format follows the path extension (png, svg, pdf...).
func LengthHistogram(split *datasets.Split, bins int, path string) error {
	if split.Len() == 0 {
		return errors.Errorf("split %s is empty", split.Name)
	}
	if bins <= 0 {
		bins = 20
	}

	values := make(plotter.Values, split.Len())
	for i, l := range split.Lengths() {
		values[i] = float64(l)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s sequence lengths", split.Name)
	p.X.Label.Text = "length"
	p.Y.Label.Text = "samples"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return errors.Wrapf(err, "failed to build histogram for %s", split.Name)
	}
	p.Add(h)
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", path)
	}
	return nil
}

// WriteHistograms writes one "<split>_lengths.png" per non-empty split into
// dir and returns the written paths.
func WriteHistograms(ds *datasets.Dataset, dir string, bins int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create plot dir %s", dir)
	}
	var paths []string
	for _, s := range ds.Splits() {
		if s.Len() == 0 {
			klog.V(1).Infof("skipping histogram of empty split %s", s.Name)
			continue
		}
		path := filepath.Join(dir, s.Name+"_lengths.png")
		if err := LengthHistogram(s, bins, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
