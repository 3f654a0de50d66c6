package datasets

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// LoadOptions configures Load and Decode.
type LoadOptions struct {
	// VocabSize is the vocabulary cutoff: every primary token ID >= VocabSize
	// is replaced by UnknownID. It must be greater than FirstRegularID.
	VocabSize int

	// MaxLength, if > 0, drops train samples whose primary sequence length is
	// >= MaxLength. The other splits are never filtered.
	MaxLength int

	// SortByLength orders every split by primary sequence length (stable).
	SortByLength bool

	// RejectPadTokens fails the load if a primary sequence contains PadID.
	RejectPadTokens bool

	// Format overrides the suffix-based format detection of Load.
	Format Format
}

// DefaultLoadOptions returns the options used when nothing else is known
// about the archive: a 100000 token vocabulary, no length filter and sorted
// splits.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		VocabSize:    100000,
		SortByLength: true,
	}
}

// Load reads the archive at path and returns its four splits after unknown
// token remapping, the optional train length filter and the optional length
// sort. A ".gz" suffix enables transparent gzip decompression.
//
// Any I/O or decoding error is returned wrapped with the archive path; the
// cause is kept so errors.Is and errors.Cause still reach it.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	if err := ValidateVocabSize(opts.VocabSize); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dataset archive %s", path)
	}
	defer file.Close()

	var r io.Reader = file
	if hasGzipSuffix(path) {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open gzip stream %s", path)
		}
		defer gz.Close()
		r = gz
	}

	if opts.Format == FormatAuto {
		opts.Format = FormatFromPath(path)
	}

	ds, err := Decode(bufio.NewReader(r), opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	klog.V(1).Infof("loaded %s (%s): train=%d vtrain=%d valid=%d test=%d", path, opts.Format,
		ds.Train.Len(), ds.VTrain.Len(), ds.Valid.Len(), ds.Test.Len())
	return ds, nil
}

// Decode reads an archive from r and applies the same processing as Load.
// opts.Format must not be FormatAuto since there is no path to inspect.
func Decode(r io.Reader, opts LoadOptions) (*Dataset, error) {
	if err := ValidateVocabSize(opts.VocabSize); err != nil {
		return nil, err
	}

	var (
		raw *Dataset
		err error
	)
	switch opts.Format {
	case FormatPickle:
		raw, err = decodePickle(r)
	case FormatGob:
		raw, err = decodeGob(r)
	default:
		return nil, errors.Errorf("cannot decode archive with format %s", opts.Format)
	}
	if err != nil {
		return nil, err
	}
	return process(raw, opts)
}

// process validates the decoded splits, then filters train, remaps unknown
// tokens and sorts, in that order.
func process(raw *Dataset, opts LoadOptions) (*Dataset, error) {
	for _, s := range raw.Splits() {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if err := s.checkIDs(opts.RejectPadTokens); err != nil {
			return nil, err
		}
	}

	ds := &Dataset{Train: raw.Train, VTrain: raw.VTrain, Valid: raw.Valid, Test: raw.Test}
	if opts.MaxLength > 0 {
		before := ds.Train.Len()
		ds.Train = ds.Train.FilterMaxLength(opts.MaxLength)
		klog.V(2).Infof("dropped %d of %d train samples with length >= %d",
			before-ds.Train.Len(), before, opts.MaxLength)
	}

	for _, s := range ds.Splits() {
		s.X = RemapUnknown(s.X, opts.VocabSize)
	}

	if opts.SortByLength {
		ds.Train = ds.Train.SortByLength()
		ds.VTrain = ds.VTrain.SortByLength()
		ds.Valid = ds.Valid.SortByLength()
		ds.Test = ds.Test.SortByLength()
	}
	return ds, nil
}
