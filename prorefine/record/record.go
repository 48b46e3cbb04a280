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

// Package record reads and writes alignment records in TOML.
//
//	[[alignment]]
//	id = "aln1"
//	genomic_id = "chr1"
//	product_id = "P12345"
//	strand = "+"
//	compartment = 3
//	dna = "..."
//	translation = "..."
//	match = "..."
//	protein = "..."
//
//	  [[alignment.exon]]
//	  genomic_start = 100
//	  genomic_end = 159
//	  product_start = 0
//	  product_end = 59
//	  donor_after = "GT"
//	  parts = "30M3D27M"
//
// Coordinates are 0-based and inclusive, product positions are in
// nucleotide units. parts is a CIGAR string, see spliced.ParseChunks.
package record

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/spliced"
	"github.com/shenwei356/ProRefine/prorefine/trim"
	"github.com/shenwei356/xopen"
)

// ErrInvalidRecord means a record misses fields or has invalid values.
var ErrInvalidRecord = errors.New("record: invalid record")

// Exon is an exon of an alignment record.
type Exon struct {
	GenomicStart   int    `toml:"genomic_start"`
	GenomicEnd     int    `toml:"genomic_end"`
	ProductStart   int    `toml:"product_start"`
	ProductEnd     int    `toml:"product_end"`
	Partial        bool   `toml:"partial"`
	AcceptorBefore string `toml:"acceptor_before,omitempty"`
	DonorAfter     string `toml:"donor_after,omitempty"`
	Parts          string `toml:"parts"`
}

// Record is an alignment with its text form.
type Record struct {
	ID          string `toml:"id"`
	GenomicID   string `toml:"genomic_id"`
	ProductID   string `toml:"product_id"`
	Strand      string `toml:"strand"`
	Compartment int    `toml:"compartment"`

	// genomic range of the text, the range of exons if not given
	GenomicFrom *int `toml:"genomic_from,omitempty"`
	GenomicTo   *int `toml:"genomic_to,omitempty"`

	DNA         string `toml:"dna"`
	Translation string `toml:"translation"`
	Match       string `toml:"match"`
	Protein     string `toml:"protein"`

	GoodParts [][]int        `toml:"good_parts,omitempty"`
	Scores    map[string]int `toml:"scores,omitempty"`

	Exons []*Exon `toml:"exon"`
}

// File is the content of a record file.
type File struct {
	Alignments []*Record `toml:"alignment"`
}

// Name returns a name for logging.
func (r *Record) Name() string {
	if r.ID != "" {
		return r.ID
	}
	return fmt.Sprintf("%s vs %s (%s)", r.ProductID, r.GenomicID, r.Strand)
}

// Text returns the alignment text of the record.
func (r *Record) Text() (*alntext.Text, error) {
	if r.Protein == "" {
		return nil, fmt.Errorf("%w: %s: empty alignment text", ErrInvalidRecord, r.Name())
	}
	return alntext.New([]byte(r.DNA), []byte(r.Translation), []byte(r.Match), []byte(r.Protein))
}

// Alignment returns the structured alignment of the record.
func (r *Record) Alignment() (*spliced.Alignment, error) {
	aln := &spliced.Alignment{
		ID:          r.ID,
		GenomicID:   r.GenomicID,
		ProductID:   r.ProductID,
		Compartment: r.Compartment,
		Exons:       make([]*spliced.Exon, 0, len(r.Exons)),
	}
	switch r.Strand {
	case "+", "":
		aln.Plus = true
	case "-":
		aln.Plus = false
	default:
		return nil, fmt.Errorf("%w: %s: invalid strand: %s", ErrInvalidRecord, r.Name(), r.Strand)
	}

	if (r.GenomicFrom == nil) != (r.GenomicTo == nil) {
		return nil, fmt.Errorf("%w: %s: genomic_from and genomic_to should be given together",
			ErrInvalidRecord, r.Name())
	}
	if r.GenomicFrom != nil {
		if *r.GenomicFrom > *r.GenomicTo {
			return nil, fmt.Errorf("%w: %s: genomic_from (%d) > genomic_to (%d)",
				ErrInvalidRecord, r.Name(), *r.GenomicFrom, *r.GenomicTo)
		}
		aln.SetBounds(*r.GenomicFrom, *r.GenomicTo)
	}

	for i, e := range r.Exons {
		chunks, err := spliced.ParseChunks(e.Parts)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: exon #%d: %s", ErrInvalidRecord, r.Name(), i+1, err)
		}
		exon := &spliced.Exon{
			GenomicStart:   e.GenomicStart,
			GenomicEnd:     e.GenomicEnd,
			ProductStart:   e.ProductStart,
			ProductEnd:     e.ProductEnd,
			Partial:        e.Partial,
			AcceptorBefore: e.AcceptorBefore,
			DonorAfter:     e.DonorAfter,
			Chunks:         chunks,
		}
		if err = exon.Check(); err != nil {
			return nil, fmt.Errorf("%s: exon #%d: %w", r.Name(), i+1, err)
		}
		aln.Exons = append(aln.Exons, exon)
	}

	if len(r.Scores) > 0 {
		aln.Scores = make(map[string]int, len(r.Scores))
		for k, v := range r.Scores {
			aln.Scores[k] = v
		}
	}
	return aln, nil
}

// Update replaces the exons and scores with the ones of aln, saves good
// pieces, and replaces the match row with the one of text. The genomic
// bounds of aln are always written, as the exons may no longer span the
// text.
func (r *Record) Update(aln *spliced.Alignment, good []trim.Piece, text *alntext.Text) {
	if from, to, ok := aln.Bounds(); ok {
		r.GenomicFrom, r.GenomicTo = &from, &to
	}

	r.Exons = make([]*Exon, 0, len(aln.Exons))
	for _, e := range aln.Exons {
		r.Exons = append(r.Exons, &Exon{
			GenomicStart:   e.GenomicStart,
			GenomicEnd:     e.GenomicEnd,
			ProductStart:   e.ProductStart,
			ProductEnd:     e.ProductEnd,
			Partial:        e.Partial,
			AcceptorBefore: e.AcceptorBefore,
			DonorAfter:     e.DonorAfter,
			Parts:          spliced.FormatChunks(e.Chunks),
		})
	}

	r.GoodParts = make([][]int, 0, len(good))
	for _, p := range good {
		r.GoodParts = append(r.GoodParts, []int{p.Beg, p.End})
	}

	if aln.Scores != nil {
		r.Scores = make(map[string]int, len(aln.Scores))
		for k, v := range aln.Scores {
			r.Scores[k] = v
		}
	}

	if text != nil {
		r.Match = string(text.Match)
	}
}

// Read reads all records from a file, which could be gzipped.
func Read(file string) ([]*Record, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return Decode(fh)
}

// Decode decodes records from a reader. Unknown keys are not allowed.
func Decode(r io.Reader) ([]*Record, error) {
	var f File
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRecord, err)
	}
	return f.Alignments, nil
}

// Write writes records to a file, which is gzipped if the name ends with ".gz".
func Write(file string, recs []*Record) error {
	outfh, err := xopen.Wopen(file)
	if err != nil {
		return err
	}
	defer outfh.Close()

	return Encode(outfh, recs)
}

// Encode writes records in TOML.
func Encode(w io.Writer, recs []*Record) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(File{Alignments: recs})
}
