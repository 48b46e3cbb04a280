// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/record"
	"github.com/shenwei356/ProRefine/prorefine/spliced"
	"github.com/shenwei356/ProRefine/prorefine/trim"
	"github.com/twotwotwo/sorts"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Refiner finds good parts of alignment records and refines their exons.
type Refiner struct {
	cfg *Config

	// also refining the exons, not just finding good parts
	RefineExons bool
	// checking the residues of the dna and protein rows
	ValidateResidues bool
}

// NewRefiner creates a Refiner with a config returned by loadConfig.
func NewRefiner(cfg *Config) *Refiner {
	return &Refiner{cfg: cfg, RefineExons: true}
}

// Result is the result of one record.
type Result struct {
	idx  int // index of the record in all input
	File string

	Record *record.Record
	Text   *alntext.Text // the alignment text before masking
	Masked *alntext.Text // columns out of good parts are masked
	Pieces []trim.Piece
	Scores spliced.Scores
	Aln    *spliced.Alignment // refined alignment, nil if RefineExons is false

	Err error
}

var poolResult = &sync.Pool{New: func() interface{} {
	return &Result{}
}}

// Reset clears all fields of a result.
func (r *Result) Reset() {
	*r = Result{}
}

// Process handles one record. Errors are saved in the result.
func (rf *Refiner) Process(rec *record.Record, res *Result) {
	res.Record = rec

	text, err := rec.Text()
	if err != nil {
		res.Err = err
		return
	}
	if rf.ValidateResidues {
		if err = text.ValidateResidues(); err != nil {
			res.Err = errors.Wrapf(err, "%s", rec.Name())
			return
		}
	}
	res.Text = text

	res.Pieces, err = trim.FindGoodParts(text, &rf.cfg.Trim, &rf.cfg.Scoring)
	if err != nil {
		res.Err = errors.Wrapf(err, "%s: finding good parts", rec.Name())
		return
	}
	res.Masked = text.Mask(trim.Ranges(res.Pieces))
	res.Scores = spliced.ComputeScores(res.Masked)

	if !rf.RefineExons {
		return
	}

	aln, err := rec.Alignment()
	if err != nil {
		res.Err = err
		return
	}
	if err = spliced.Refine(aln, res.Pieces); err != nil {
		res.Err = errors.Wrapf(err, "%s: refining exons", rec.Name())
		return
	}
	spliced.SetScores(aln, res.Masked)
	res.Aln = aln
}

type resultsByIdx []*Result

func (s resultsByIdx) Len() int           { return len(s) }
func (s resultsByIdx) Less(i, j int) bool { return s[i].idx < s[j].idx }
func (s resultsByIdx) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Run processes records of all files with opt.NumCPUs workers, and calls
// output for every result in the input order. Results are recycled after
// output returns. It returns the number of records and failed ones.
func (rf *Refiner) Run(files []string, opt *Options, output func(*Result)) (total, failed int, err error) {
	type job struct {
		idx  int
		file string
		rec  *record.Record
	}

	jobs := make([]job, 0, 1024)
	for _, file := range files {
		recs, err := record.Read(file)
		if err != nil {
			return 0, 0, errors.Wrapf(err, "reading records: %s", file)
		}
		for _, rec := range recs {
			jobs = append(jobs, job{idx: len(jobs), file: file, rec: rec})
		}
	}
	total = len(jobs)
	if opt.Verbose || opt.Log2File {
		log.Infof("  %s alignment records loaded from %d file(s)", humanize.Comma(int64(total)), len(files))
	}
	if total == 0 {
		return 0, 0, nil
	}

	// progress bar
	showProgressBar := opt.Verbose
	var pbs *mpb.Progress
	var bar *mpb.Bar
	var chDuration chan time.Duration
	var doneDuration chan int
	if showProgressBar {
		pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
		bar = pbs.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("processed records: ", decor.WC{W: len("processed records: "), C: decor.DindentRight}),
				decor.Name("", decor.WCSyncSpaceR),
				decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(
				decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
				decor.EwmaETA(decor.ET_STYLE_GO, 10),
				decor.OnComplete(decor.Name(""), ". done"),
			),
		)

		chDuration = make(chan time.Duration, opt.NumCPUs)
		doneDuration = make(chan int)
		go func() {
			for t := range chDuration {
				bar.EwmaIncrBy(1, t)
			}
			doneDuration <- 1
		}()
	}

	// collecting results
	results := make([]*Result, 0, total)
	ch := make(chan *Result, opt.NumCPUs)
	done := make(chan int)
	go func() {
		for res := range ch {
			if res.Err != nil {
				failed++
			}
			results = append(results, res)
		}
		done <- 1
	}()

	var wg sync.WaitGroup
	tokens := make(chan int, opt.NumCPUs)
	for _, j := range jobs {
		tokens <- 1
		wg.Add(1)

		go func(j job) {
			defer func() {
				<-tokens
				wg.Done()
			}()
			timeStart := time.Now()

			res := poolResult.Get().(*Result)
			res.idx = j.idx
			res.File = j.file
			rf.Process(j.rec, res)

			ch <- res

			if showProgressBar {
				chDuration <- time.Since(timeStart)
			}
		}(j)
	}
	wg.Wait()
	close(ch)
	<-done

	if showProgressBar {
		close(chDuration)
		<-doneDuration
		pbs.Wait()
	}

	sorts.Quicksort(resultsByIdx(results))
	for _, res := range results {
		output(res)
		res.Reset()
		poolResult.Put(res)
	}

	return total, failed, nil
}
