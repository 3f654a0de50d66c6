// Package batch turns minibatches of variable-length ID sequences into the
// padded, time-major arrays and masks consumed by a training loop.
//
// For a batch of N sequences whose longest has length L, the data array and
// its mask both have shape [L, N]: the leading axis is the sequence position
// and the trailing axis the sample. Sequences are left aligned, the tail is
// filled with datasets.PadID and masked with 0.
//
// Preparer methods are pure functions of their inputs: they never modify the
// input slices and always allocate fresh outputs, so they can be called
// concurrently on disjoint inputs.
package batch

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/Noofbiz/expf/datasets"
)

// ErrNoSamples is returned by PrepareTest when given an empty batch.
var ErrNoSamples = errors.New("batch has no samples")

// Preparer builds padded batches with a fixed configuration.
type Preparer struct {
	cfg Config
}

// New creates a Preparer. An empty FloatWidth defaults to Float32.
func New(cfg Config) (*Preparer, error) {
	if cfg.FloatWidth == "" {
		cfg.FloatWidth = Float32
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Preparer{cfg: cfg}, nil
}

// Config returns the configuration used by the preparer.
func (p *Preparer) Config() Config {
	return p.cfg
}

// Batch is a padded minibatch with one scalar label per sample.
type Batch struct {
	X *Padded
	// Labels are in the column order of X, unpadded.
	Labels []int64
}

// Tensors returns the data, mask and labels as gomlx tensors shaped
// [L, N], [L, N] and [N].
func (b *Batch) Tensors() (x, mask, labels *tensors.Tensor) {
	x, mask = b.X.Tensors()
	return x, mask, tensors.FromFlatDataAndDimensions(b.Labels, len(b.Labels))
}

// Prepare pads seqs into a time-major batch. If maxLength > 0, samples whose
// sequence length is >= maxLength are dropped together with their label
// first. When no sample is left, Prepare returns ok == false and a nil batch:
// the caller should skip this minibatch.
func (p *Preparer) Prepare(seqs []datasets.Sequence, labels []int64, maxLength int) (b *Batch, ok bool, err error) {
	if len(seqs) != len(labels) {
		return nil, false, errors.Wrapf(datasets.ErrMismatchedLengths,
			"sequences=%d labels=%d", len(seqs), len(labels))
	}

	if maxLength > 0 {
		keptSeqs := make([]datasets.Sequence, 0, len(seqs))
		keptLabels := make([]int64, 0, len(labels))
		for i, seq := range seqs {
			if len(seq) < maxLength {
				keptSeqs = append(keptSeqs, seq)
				keptLabels = append(keptLabels, labels[i])
			}
		}
		if dropped := len(seqs) - len(keptSeqs); dropped > 0 {
			klog.V(3).Infof("dropped %d of %d samples with length >= %d", dropped, len(seqs), maxLength)
		}
		seqs, labels = keptSeqs, keptLabels
	}
	if len(seqs) == 0 {
		return nil, false, nil
	}

	out := make([]int64, len(labels))
	copy(out, labels)
	return &Batch{X: pad(seqs, p.cfg.FloatWidth), Labels: out}, true, nil
}

// TestBatch holds the three independently padded fields of an evaluation
// minibatch. Each field has its own row count.
type TestBatch struct {
	X *Padded
	U *Padded
	Y *Padded
}

// Inputs returns x, x_mask, u and u_mask as gomlx tensors.
func (b *TestBatch) Inputs() []*tensors.Tensor {
	x, xMask := b.X.Tensors()
	u, uMask := b.U.Tensors()
	return []*tensors.Tensor{x, xMask, u, uMask}
}

// Targets returns y and y_mask as gomlx tensors.
func (b *TestBatch) Targets() []*tensors.Tensor {
	y, yMask := b.Y.Tensors()
	return []*tensors.Tensor{y, yMask}
}

// PrepareTest pads sequences, users and labels independently, each to its
// own longest length. No sample is ever dropped.
func (p *Preparer) PrepareTest(seqs, users, labels []datasets.Sequence) (*TestBatch, error) {
	if len(users) != len(seqs) || len(labels) != len(seqs) {
		return nil, errors.Wrapf(datasets.ErrMismatchedLengths,
			"sequences=%d users=%d labels=%d", len(seqs), len(users), len(labels))
	}
	if len(seqs) == 0 {
		return nil, ErrNoSamples
	}
	return &TestBatch{
		X: pad(seqs, p.cfg.FloatWidth),
		U: pad(users, p.cfg.FloatWidth),
		Y: pad(labels, p.cfg.FloatWidth),
	}, nil
}
