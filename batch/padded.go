package batch

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/samber/lo"

	"github.com/Noofbiz/expf/datasets"
)

// Padded stores a batch of variable-length sequences in one flat, time-major
// buffer: row t holds position t of every sample, column i holds sample i.
// Sequences are left aligned and padded with datasets.PadID at the tail.
type Padded struct {
	// Rows is the longest sequence length in the batch.
	Rows int
	// Cols is the number of samples.
	Cols int
	// Data is row-major [Rows][Cols].
	Data []int64
	// Mask marks the cells of Data holding real tokens.
	Mask *Mask
	// Lengths of the original sequences, in column order.
	Lengths []int
}

// pad builds the time-major array and mask for seqs. The row count is the
// longest sequence in seqs, recomputed for every call.
func pad(seqs []datasets.Sequence, width FloatWidth) *Padded {
	lengths := datasets.Lengths(seqs)
	rows := 0
	if len(lengths) > 0 {
		rows = lo.Max(lengths)
	}
	cols := len(seqs)

	p := &Padded{
		Rows:    rows,
		Cols:    cols,
		Data:    make([]int64, rows*cols),
		Mask:    newMask(width, rows, cols),
		Lengths: lengths,
	}
	for i, seq := range seqs {
		for t, id := range seq {
			p.Data[t*cols+i] = id
		}
		p.Mask.fillPrefix(i, len(seq))
	}
	return p
}

// At returns the value at position t of sample i.
func (p *Padded) At(t, i int) int64 {
	return p.Data[t*p.Cols+i]
}

// Column returns the unpadded sequence of sample i.
func (p *Padded) Column(i int) datasets.Sequence {
	seq := make(datasets.Sequence, p.Lengths[i])
	for t := range seq {
		seq[t] = p.At(t, i)
	}
	return seq
}

// Matrix returns the data as a [Rows][Cols] slice of slices.
func (p *Padded) Matrix() [][]int64 {
	m := make([][]int64, p.Rows)
	for t := range m {
		m[t] = p.Data[t*p.Cols : (t+1)*p.Cols]
	}
	return m
}

// Tensors converts the data and mask to gomlx tensors shaped [Rows, Cols].
func (p *Padded) Tensors() (x *tensors.Tensor, mask *tensors.Tensor) {
	return tensors.FromFlatDataAndDimensions(p.Data, p.Rows, p.Cols), p.Mask.Tensor()
}

// Mask is a time-major array of 1.0 (real token) and 0.0 (padding) values,
// stored with the configured float width.
type Mask struct {
	Width FloatWidth
	Rows  int
	Cols  int

	f32 []float32
	f64 []float64
}

func newMask(width FloatWidth, rows, cols int) *Mask {
	m := &Mask{Width: width, Rows: rows, Cols: cols}
	if width == Float64 {
		m.f64 = make([]float64, rows*cols)
	} else {
		m.f32 = make([]float32, rows*cols)
	}
	return m
}

// fillPrefix sets the first n rows of column i to 1.
func (m *Mask) fillPrefix(i, n int) {
	for t := 0; t < n; t++ {
		if m.Width == Float64 {
			m.f64[t*m.Cols+i] = 1
		} else {
			m.f32[t*m.Cols+i] = 1
		}
	}
}

// At returns the mask value at position t of sample i.
func (m *Mask) At(t, i int) float64 {
	if m.Width == Float64 {
		return m.f64[t*m.Cols+i]
	}
	return float64(m.f32[t*m.Cols+i])
}

// ColumnSum returns the number of real tokens in column i.
func (m *Mask) ColumnSum(i int) float64 {
	var sum float64
	for t := 0; t < m.Rows; t++ {
		sum += m.At(t, i)
	}
	return sum
}

// Float32 returns the flat row-major data of a float32 mask, or nil.
func (m *Mask) Float32() []float32 {
	return m.f32
}

// Float64 returns the flat row-major data of a float64 mask, or nil.
func (m *Mask) Float64() []float64 {
	return m.f64
}

// Tensor converts the mask to a gomlx tensor shaped [Rows, Cols].
func (m *Mask) Tensor() *tensors.Tensor {
	if m.Width == Float64 {
		return tensors.FromFlatDataAndDimensions(m.f64, m.Rows, m.Cols)
	}
	return tensors.FromFlatDataAndDimensions(m.f32, m.Rows, m.Cols)
}
