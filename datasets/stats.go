package datasets

import (
	"github.com/samber/lo"
)

// Stats summarizes the primary sequences of a split.
type Stats struct {
	Name     string
	Samples  int
	Tokens   int
	MinLen   int
	MaxLen   int
	MeanLen  float64
	Unknowns int
}

// Stats computes length statistics of the split's primary sequences.
func (s *Split) Stats() Stats {
	lengths := s.Lengths()
	st := Stats{
		Name:     s.Name,
		Samples:  len(lengths),
		Tokens:   lo.Sum(lengths),
		Unknowns: CountUnknown(s.X),
	}
	if len(lengths) > 0 {
		st.MinLen = lo.Min(lengths)
		st.MaxLen = lo.Max(lengths)
		st.MeanLen = float64(st.Tokens) / float64(len(lengths))
	}
	return st
}
