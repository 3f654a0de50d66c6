package datasets

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"testing"
)

// rawArchive is the nested layout of a pickled archive: four splits of three
// fields of integer lists.
type rawArchive [4][3][][]int64

// sampleArchive returns a small archive whose train, vtrain, valid and test
// splits each hold out-of-vocabulary IDs (for vocab size 10) and unsorted
// lengths.
func sampleArchive() rawArchive {
	return rawArchive{
		{ // train: x, ug, ub
			{{3, 4, 5}, {12}, {2, 11}},
			{{1}, {2}, {3}},
			{{7}, {8}, {9}},
		},
		{ // vtrain
			{{2, 3}, {4}},
			{{10}, {11}},
			{{20}, {21}},
		},
		{ // valid
			{{5, 5, 5, 5}, {6}},
			{{1}, {2}},
			{{3}, {4}},
		},
		{ // test
			{{}, {15, 2}},
			{{1}, {2}},
			{{1, 2}, {3}},
		},
	}
}

// pickleArchive serializes a rawArchive the way Python's pickle module does.
// Protocol 0 uses the text opcodes produced by cPickle.dump with defaults;
// protocol 2 uses the binary opcodes.
func pickleArchive(a rawArchive, protocol int) []byte {
	var b bytes.Buffer
	if protocol >= 2 {
		b.Write([]byte{0x80, byte(protocol)})
	}
	b.WriteByte('(') // MARK
	for _, split := range a {
		if protocol >= 2 {
			for _, field := range split {
				pickleList(&b, field, protocol)
			}
			b.WriteByte(0x87) // TUPLE3
		} else {
			b.WriteByte('(')
			for _, field := range split {
				pickleList(&b, field, protocol)
			}
			b.WriteByte('t') // TUPLE
		}
	}
	b.WriteByte('t')
	b.WriteByte('.') // STOP
	return b.Bytes()
}

func pickleList(b *bytes.Buffer, seqs [][]int64, protocol int) {
	if protocol < 2 {
		b.WriteString("(l") // MARK, LIST
		for _, seq := range seqs {
			b.WriteString("(l")
			for _, id := range seq {
				fmt.Fprintf(b, "I%d\na", id) // INT, APPEND
			}
			b.WriteByte('a')
		}
		return
	}
	b.WriteByte(']') // EMPTY_LIST
	if len(seqs) == 0 {
		return
	}
	b.WriteByte('(')
	for _, seq := range seqs {
		b.WriteByte(']')
		if len(seq) > 0 {
			b.WriteByte('(')
			for _, id := range seq {
				pickleInt(b, id)
			}
			b.WriteByte('e') // APPENDS
		}
	}
	b.WriteByte('e')
}

func pickleInt(b *bytes.Buffer, v int64) {
	if v >= 0 && v < 256 {
		b.WriteByte('K') // BININT1
		b.WriteByte(byte(v))
		return
	}
	b.WriteByte('J') // BININT
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
	b.Write(buf[:])
}

// writeArchive writes data to path, gzip-compressed when gz is set.
func writeArchive(t *testing.T, path string, data []byte, gz bool) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive %s: %v", path, err)
	}
	defer f.Close()

	if !gz {
		if _, err := f.Write(data); err != nil {
			t.Fatalf("failed to write archive: %v", err)
		}
		return
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("failed to write gzip archive: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
}

// toDataset converts a rawArchive into the in-memory form, unprocessed.
func toDataset(a rawArchive) *Dataset {
	splits := make([]*Split, 4)
	for i, raw := range a {
		s := &Split{Name: splitNames[i]}
		for f, dst := range []*[]Sequence{&s.X, &s.U, &s.Y} {
			for _, seq := range raw[f] {
				*dst = append(*dst, Sequence(seq))
			}
		}
		splits[i] = s
	}
	return &Dataset{Train: splits[0], VTrain: splits[1], Valid: splits[2], Test: splits[3]}
}

func gobArchive(t *testing.T, a *Archive) []byte {
	t.Helper()
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(a); err != nil {
		t.Fatalf("failed to encode gob archive: %v", err)
	}
	return b.Bytes()
}
