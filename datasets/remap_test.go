package datasets

import (
	"reflect"
	"testing"
)

func TestRemapUnknown(t *testing.T) {
	in := seqs([]int64{0, 1, 2, 9, 10, 11}, []int64{}, []int64{250})
	got := RemapUnknown(in, 10)
	want := seqs([]int64{0, 1, 2, 9, 1, 1}, []int64{}, []int64{1})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("RemapUnknown: got %v want %v", got, want)
	}
	// inputs are not modified
	if in[0][4] != 10 {
		t.Fatalf("RemapUnknown modified its input: %v", in)
	}
}

func TestRemapUnknown_Idempotent(t *testing.T) {
	inVocab := seqs([]int64{2, 3, 9}, []int64{0, 1})
	if got := RemapUnknown(inVocab, 10); !reflect.DeepEqual(got, inVocab) {
		t.Fatalf("remap of in-vocabulary IDs should be a no-op: %v", got)
	}

	mixed := seqs([]int64{2, 30, 9, 12}, []int64{11})
	once := RemapUnknown(mixed, 10)
	twice := RemapUnknown(once, 10)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("remap twice differs from once: %v vs %v", once, twice)
	}
}

func TestValidateVocabSize(t *testing.T) {
	for _, v := range []int{-1, 0, 1, 2} {
		if err := ValidateVocabSize(v); err == nil {
			t.Fatalf("ValidateVocabSize(%d) should fail", v)
		}
	}
	if err := ValidateVocabSize(3); err != nil {
		t.Fatalf("ValidateVocabSize(3): %v", err)
	}
}
