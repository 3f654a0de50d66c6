package datasets

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// ArchiveVersion is incremented when the gob archive layout changes.
const ArchiveVersion = 1

// Archive is the gob envelope for datasets produced by Go tooling. The splits
// carry the same fields, in the same order, as the pickled form.
type Archive struct {
	Version int
	Train   *Split
	VTrain  *Split
	Valid   *Split
	Test    *Split
}

// NewArchive wraps ds in a versioned envelope ready for gob encoding.
func NewArchive(ds *Dataset) *Archive {
	return &Archive{
		Version: ArchiveVersion,
		Train:   ds.Train,
		VTrain:  ds.VTrain,
		Valid:   ds.Valid,
		Test:    ds.Test,
	}
}

func decodeGob(r io.Reader) (*Dataset, error) {
	var a Archive
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, errors.Wrap(err, "failed to decode gob dataset archive")
	}
	if a.Version != ArchiveVersion {
		return nil, errors.Wrapf(ErrMalformedArchive, "archive version mismatch: archive=%d expected=%d",
			a.Version, ArchiveVersion)
	}
	splits := []*Split{a.Train, a.VTrain, a.Valid, a.Test}
	for i, s := range splits {
		if s == nil {
			// gob omits empty structs entirely.
			s = &Split{}
			splits[i] = s
		}
		s.Name = splitNames[i]
	}
	return &Dataset{Train: splits[0], VTrain: splits[1], Valid: splits[2], Test: splits[3]}, nil
}
