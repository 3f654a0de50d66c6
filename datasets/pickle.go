package datasets

import (
	"io"
	"math/big"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
	"github.com/pkg/errors"
)

// ErrMalformedArchive is returned when an archive decodes but does not hold
// four splits of three sequence lists each.
var ErrMalformedArchive = errors.New("malformed dataset archive")

var splitNames = []string{TrainName, VTrainName, ValidName, TestName}

// decodePickle reads the pickled 4-tuple (train, vtrain, valid, test), each a
// 3-tuple of lists of integer lists. Train fields are (x, ug, ub); the others
// are (x, users, labels).
func decodePickle(r io.Reader) (*Dataset, error) {
	u := pickle.NewUnpickler(r)
	obj, err := u.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpickle dataset archive")
	}

	top, err := pySlice(obj, "archive")
	if err != nil {
		return nil, err
	}
	if len(top) != len(splitNames) {
		return nil, errors.Wrapf(ErrMalformedArchive, "expected %d splits, got %d", len(splitNames), len(top))
	}

	splits := make([]*Split, len(splitNames))
	for i, name := range splitNames {
		if splits[i], err = pickleSplit(name, top[i]); err != nil {
			return nil, err
		}
	}
	return &Dataset{Train: splits[0], VTrain: splits[1], Valid: splits[2], Test: splits[3]}, nil
}

func pickleSplit(name string, obj interface{}) (*Split, error) {
	fields, err := pySlice(obj, name)
	if err != nil {
		return nil, err
	}
	if len(fields) != 3 {
		return nil, errors.Wrapf(ErrMalformedArchive, "split %s: expected 3 fields, got %d", name, len(fields))
	}
	s := &Split{Name: name}
	dst := []*[]Sequence{&s.X, &s.U, &s.Y}
	for i, field := range fields {
		seqs, err := pySequences(field, name)
		if err != nil {
			return nil, err
		}
		*dst[i] = seqs
	}
	return s, nil
}

func pySequences(obj interface{}, where string) ([]Sequence, error) {
	items, err := pySlice(obj, where)
	if err != nil {
		return nil, err
	}
	seqs := make([]Sequence, len(items))
	for i, item := range items {
		ids, err := pySlice(item, where)
		if err != nil {
			return nil, err
		}
		seq := make(Sequence, len(ids))
		for j, id := range ids {
			if seq[j], err = pyInt(id); err != nil {
				return nil, errors.Wrapf(err, "split %s sample %d position %d", where, i, j)
			}
		}
		seqs[i] = seq
	}
	return seqs, nil
}

// pySlice unwraps the list and tuple types produced by the unpickler.
func pySlice(obj interface{}, where string) ([]interface{}, error) {
	switch v := obj.(type) {
	case *types.List:
		return []interface{}(*v), nil
	case types.List:
		return []interface{}(v), nil
	case *types.Tuple:
		return []interface{}(*v), nil
	case types.Tuple:
		return []interface{}(v), nil
	case []interface{}:
		return v, nil
	}
	return nil, errors.Wrapf(ErrMalformedArchive, "%s: expected list or tuple, got %T", where, obj)
}

func pyInt(obj interface{}) (int64, error) {
	switch v := obj.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case *big.Int:
		if !v.IsInt64() {
			return 0, errors.Wrapf(ErrMalformedArchive, "integer %s overflows int64", v)
		}
		return v.Int64(), nil
	}
	return 0, errors.Wrapf(ErrMalformedArchive, "expected integer, got %T", obj)
}
