package datasets

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// This file defines the in-memory form of a pre-split sequence-labeling
// dataset, as produced by Load.
//
// Layout and intended usage:
//
// Dataset
//   - Four splits, loaded together and processed independently:
//     train, vtrain (validation on train), valid and test.
//   - Read-only once loaded. Minibatches are built from index slices of a
//     split (see Split.Subset) and handed to the batch package.
//
// Split
//   - Three parallel sequence lists of the same length N.
//   - X holds the primary token sequences. For train, U and Y hold the ug/ub
//     auxiliary sequences; for the other splits they hold users and labels.
//   - Every filter or permutation is applied to X, U and Y in lockstep.

// Reserved IDs. Real vocabulary IDs start at FirstRegularID.
const (
	// PadID fills padded cells of a batch.
	PadID int64 = 0
	// UnknownID replaces every token at or beyond the vocabulary cutoff.
	UnknownID int64 = 1
	// FirstRegularID is the smallest ID that is neither padding nor unknown.
	FirstRegularID int64 = 2
)

// Split names, in archive order.
const (
	TrainName  = "train"
	VTrainName = "vtrain"
	ValidName  = "valid"
	TestName   = "test"
)

var (
	// ErrMismatchedLengths is returned when parallel sequence lists differ in length.
	ErrMismatchedLengths = errors.New("parallel sequence lists have different lengths")
	// ErrIndexOutOfRange is returned by Subset for an index outside the split.
	ErrIndexOutOfRange = errors.New("sample index out of range")
)

// Sequence is an ordered list of non-negative token, user or label IDs.
type Sequence []int64

// Split is one of the four dataset partitions.
type Split struct {
	Name string
	X    []Sequence
	U    []Sequence
	Y    []Sequence
}

// Dataset holds the four splits of an archive.
type Dataset struct {
	Train  *Split
	VTrain *Split
	Valid  *Split
	Test   *Split
}

// Splits returns the splits in archive order.
func (d *Dataset) Splits() []*Split {
	return []*Split{d.Train, d.VTrain, d.Valid, d.Test}
}

// Split returns the split with the given name, or nil.
func (d *Dataset) Split(name string) *Split {
	for _, s := range d.Splits() {
		if s != nil && s.Name == name {
			return s
		}
	}
	return nil
}

// Len returns the number of samples in the split.
func (s *Split) Len() int {
	return len(s.X)
}

// Validate checks that X, U and Y are index-aligned.
func (s *Split) Validate() error {
	if len(s.U) != len(s.X) || len(s.Y) != len(s.X) {
		return errors.Wrapf(ErrMismatchedLengths, "split %s: x=%d u=%d y=%d",
			s.Name, len(s.X), len(s.U), len(s.Y))
	}
	return nil
}

// Lengths returns the primary sequence length of every sample.
func (s *Split) Lengths() []int {
	return Lengths(s.X)
}

// Lengths returns len(seq) for every sequence.
func Lengths(seqs []Sequence) []int {
	return lo.Map(seqs, func(seq Sequence, _ int) int { return len(seq) })
}

// Subset returns a new split holding the samples at indices, in that order.
// The sequences themselves are shared with s, not copied.
func (s *Split) Subset(indices []int) (*Split, error) {
	out := &Split{
		Name: s.Name,
		X:    make([]Sequence, len(indices)),
		U:    make([]Sequence, len(indices)),
		Y:    make([]Sequence, len(indices)),
	}
	for pos, idx := range indices {
		if idx < 0 || idx >= s.Len() {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", idx, s.Len())
		}
		out.X[pos] = s.X[idx]
		out.U[pos] = s.U[idx]
		out.Y[pos] = s.Y[idx]
	}
	return out, nil
}

// permute is Subset for indices already known to be a valid permutation.
func (s *Split) permute(indices []int) *Split {
	out, err := s.Subset(indices)
	if err != nil {
		panic(err)
	}
	return out
}

// FilterMaxLength returns a split without the samples whose primary sequence
// length is >= maxLength. A maxLength <= 0 keeps everything.
func (s *Split) FilterMaxLength(maxLength int) *Split {
	if maxLength <= 0 {
		return s.permute(lo.Range(s.Len()))
	}
	keep := make([]int, 0, s.Len())
	for i, x := range s.X {
		if len(x) < maxLength {
			keep = append(keep, i)
		}
	}
	return s.permute(keep)
}
