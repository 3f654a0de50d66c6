package datasets

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidVocabSize is returned when the vocabulary cutoff leaves no
	// room for regular IDs above the reserved ones.
	ErrInvalidVocabSize = errors.New("vocabulary size must be greater than the reserved IDs")
	// ErrNegativeID is returned when a sequence contains a negative ID.
	ErrNegativeID = errors.New("negative ID in sequence")
	// ErrPadToken is returned when a primary sequence contains PadID and the
	// caller asked for pad tokens to be rejected.
	ErrPadToken = errors.New("pad ID inside a primary sequence")
)

// ValidateVocabSize checks that vocabSize keeps at least one regular ID.
func ValidateVocabSize(vocabSize int) error {
	if int64(vocabSize) <= FirstRegularID {
		return errors.Wrapf(ErrInvalidVocabSize, "got %d, need > %d", vocabSize, FirstRegularID)
	}
	return nil
}

// RemapUnknown returns a copy of seqs where every ID >= vocabSize is replaced
// by UnknownID. Applying it twice gives the same result as applying it once.
func RemapUnknown(seqs []Sequence, vocabSize int) []Sequence {
	cutoff := int64(vocabSize)
	out := make([]Sequence, len(seqs))
	for i, seq := range seqs {
		mapped := make(Sequence, len(seq))
		for j, id := range seq {
			if id >= cutoff {
				id = UnknownID
			}
			mapped[j] = id
		}
		out[i] = mapped
	}
	return out
}

// CountUnknown returns how many IDs in seqs equal UnknownID.
func CountUnknown(seqs []Sequence) int {
	n := 0
	for _, seq := range seqs {
		for _, id := range seq {
			if id == UnknownID {
				n++
			}
		}
	}
	return n
}

// checkIDs rejects negative IDs in every field, and pad IDs in X when
// rejectPad is set.
func (s *Split) checkIDs(rejectPad bool) error {
	fields := []struct {
		name string
		seqs []Sequence
	}{{"x", s.X}, {"u", s.U}, {"y", s.Y}}
	for _, f := range fields {
		for i, seq := range f.seqs {
			for j, id := range seq {
				if id < 0 {
					return errors.Wrapf(ErrNegativeID, "split %s %s[%d][%d]=%d", s.Name, f.name, i, j, id)
				}
				if rejectPad && f.name == "x" && id == PadID {
					return errors.Wrapf(ErrPadToken, "split %s x[%d][%d]", s.Name, i, j)
				}
			}
		}
	}
	return nil
}
