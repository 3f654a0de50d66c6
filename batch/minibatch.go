package batch

import (
	"io"
	"math/rand"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/Noofbiz/expf/datasets"
)

// Minibatches splits the indices [0, n) into consecutive chunks of size
// elements; the last chunk may be shorter. The indices are shuffled first
// when rng is not nil.
func Minibatches(n, size int, rng *rand.Rand) [][]int {
	if n <= 0 || size <= 0 {
		return nil
	}
	order := lo.Range(n)
	if rng != nil {
		rng.Shuffle(n, func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	return lo.Chunk(order, size)
}

// SplitDataset provides a gomlx train.Dataset over one split. Every Yield
// prepares the next minibatch with PrepareTest and returns
// inputs [x, x_mask, u, u_mask] and labels [y, y_mask]. The split order is
// kept unless Shuffle is called, in which case every epoch is reshuffled.
//
// A SplitDataset is consumed by a single training loop and is not safe for
// concurrent use.
type SplitDataset struct {
	split     *datasets.Split
	prep      *Preparer
	batchSize int

	// Random generator for shuffling, nil when the order is kept.
	rng *rand.Rand

	batches [][]int
	next    int
}

var _ train.Dataset = (*SplitDataset)(nil)

// NewSplitDataset creates a dataset yielding minibatches of batchSize samples.
func NewSplitDataset(split *datasets.Split, prep *Preparer, batchSize int) (*SplitDataset, error) {
	if split == nil {
		return nil, errors.New("split is nil")
	}
	if prep == nil {
		return nil, errors.New("preparer is nil")
	}
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size must be > 0, got %d", batchSize)
	}
	if err := split.Validate(); err != nil {
		return nil, err
	}
	d := &SplitDataset{split: split, prep: prep, batchSize: batchSize}
	d.Reset()
	return d, nil
}

// Shuffle enables per-epoch shuffling seeded with seed and restarts the epoch.
func (d *SplitDataset) Shuffle(seed int64) {
	d.rng = rand.New(rand.NewSource(seed))
	d.Reset()
}

// NumBatches returns the number of minibatches in an epoch.
func (d *SplitDataset) NumBatches() int {
	return len(d.batches)
}

// Name implements train.Dataset.
func (d *SplitDataset) Name() string {
	return d.split.Name
}

// Reset implements train.Dataset. It starts a new epoch.
func (d *SplitDataset) Reset() {
	d.batches = Minibatches(d.split.Len(), d.batchSize, d.rng)
	d.next = 0
}

// Yield implements train.Dataset. It returns io.EOF at the end of the epoch.
func (d *SplitDataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	if d.next >= len(d.batches) {
		return nil, nil, nil, io.EOF
	}
	indices := d.batches[d.next]
	d.next++

	sub, err := d.split.Subset(indices)
	if err != nil {
		return nil, nil, nil, err
	}
	tb, err := d.prep.PrepareTest(sub.X, sub.U, sub.Y)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "failed to prepare %s minibatch %d", d.Name(), d.next-1)
	}
	return d.Name(), tb.Inputs(), tb.Targets(), nil
}
