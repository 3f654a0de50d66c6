package main

// Command inspect loads a pre-split sequence archive, prints per-split
// statistics, prepares one time-major minibatch of the valid split as gomlx
// tensors and writes length histograms.
//
// Usage:
//   go run ./cmd/inspect -archive data/expf.pkl.gz -vocab 100000 -plots plots
//
// If -archive is empty the command looks for an archive under the usual
// data directories.

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"k8s.io/klog/v2"

	"github.com/Noofbiz/expf/batch"
	"github.com/Noofbiz/expf/datasets"
	"github.com/Noofbiz/expf/report"
)

func main() {
	klog.InitFlags(nil)

	archiveFlag := flag.String("archive", "", "path to the dataset archive (.pkl, .gob, optionally .gz)")
	vocabFlag := flag.Int("vocab", 100000, "vocabulary size; primary IDs >= vocab become the unknown ID")
	maxLenFlag := flag.Int("maxlen", 0, "drop train samples with length >= maxlen (0 = keep all)")
	sortFlag := flag.Bool("sort", true, "sort every split by sequence length")
	rejectPadFlag := flag.Bool("reject-pad", false, "fail if a primary sequence contains the pad ID")
	batchSizeFlag := flag.Int("batch-size", 16, "minibatch size used for the summary and the sample batch")
	floatFlag := flag.String("float", "float32", "mask float width: float32 or float64")
	plotsFlag := flag.String("plots", "", "if set, write length histograms to this directory")
	binsFlag := flag.Int("bins", 30, "number of histogram bins")
	seedFlag := flag.Int64("seed", time.Now().UnixNano(), "seed for shuffling the sample minibatch")
	flag.Parse()

	path := *archiveFlag
	if path == "" {
		found, err := datasets.AutoFindArchive([]string{
			"data/*.pkl.gz", "data/*.pkl", "data/*.gob",
			"../data/*.pkl.gz", "../data/*.pkl", "expf.pkl",
		})
		if err != nil {
			log.Fatalf("no -archive given and auto-discovery failed: %v", err)
		}
		path = found
	}

	width, err := batch.ParseFloatWidth(*floatFlag)
	if err != nil {
		log.Fatalf("invalid -float: %v", err)
	}

	opts := datasets.LoadOptions{
		VocabSize:       *vocabFlag,
		MaxLength:       *maxLenFlag,
		SortByLength:    *sortFlag,
		RejectPadTokens: *rejectPadFlag,
	}
	start := time.Now()
	ds, err := datasets.Load(path, opts)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}
	log.Printf("Loaded %s in %v", path, time.Since(start).Round(time.Millisecond))

	for _, s := range report.Summarize(ds, *batchSizeFlag) {
		fmt.Println(s)
	}

	prep, err := batch.New(batch.Config{FloatWidth: width})
	if err != nil {
		log.Fatalf("failed to create batch preparer: %v", err)
	}

	if ds.Valid.Len() > 0 {
		it, err := batch.NewSplitDataset(ds.Valid, prep, *batchSizeFlag)
		if err != nil {
			log.Fatalf("failed to create valid iterator: %v", err)
		}
		it.Shuffle(*seedFlag)
		_, inputs, labels, err := it.Yield()
		if err != nil {
			log.Fatalf("failed to prepare valid minibatch: %v", err)
		}
		fmt.Printf("\nSample %s minibatch (%d per epoch):\n", it.Name(), it.NumBatches())
		for i, name := range []string{"x", "x_mask", "u", "u_mask"} {
			fmt.Printf("  %-7s %s\n", name, inputs[i].Shape())
		}
		for i, name := range []string{"y", "y_mask"} {
			fmt.Printf("  %-7s %s\n", name, labels[i].Shape())
		}
	}

	if *plotsFlag != "" {
		paths, err := report.WriteHistograms(ds, *plotsFlag, *binsFlag)
		if err != nil {
			log.Fatalf("failed to write histograms: %v", err)
		}
		for _, p := range paths {
			abs, _ := filepath.Abs(p)
			log.Printf("Wrote %s", abs)
		}
	}
	klog.Flush()
}
