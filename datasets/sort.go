package datasets

import (
	"math/rand"
	"sort"

	"github.com/samber/lo"
)

// LengthArgsort returns the permutation that orders seqs by non-decreasing
// length. Sequences of equal length keep their original relative order.
func LengthArgsort(seqs []Sequence) []int {
	idx := lo.Range(len(seqs))
	sort.SliceStable(idx, func(a, b int) bool {
		return len(seqs[idx[a]]) < len(seqs[idx[b]])
	})
	return idx
}

// SortByLength returns a copy of the split ordered by primary sequence length.
// Sorting reduces padding once consecutive samples are grouped into
// minibatches; randomizing the order for each epoch is left to the caller (see
// Shuffled and batch.Minibatches).
func (s *Split) SortByLength() *Split {
	return s.permute(LengthArgsort(s.X))
}

// Shuffled returns a copy of the split in a random order derived from seed.
func (s *Split) Shuffled(seed int64) *Split {
	rng := rand.New(rand.NewSource(seed))
	return s.permute(rng.Perm(s.Len()))
}
