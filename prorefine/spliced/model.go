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

// Package spliced holds the structured form of a protein-to-genome spliced
// alignment, projects good parts of the text form onto it, and computes
// alignment scores.
//
// Genomic coordinates are 0-based and inclusive. Product coordinates are
// in nucleotide units, i.e., 3*aa+frame-1, also 0-based and inclusive.
package spliced

import (
	"errors"
	"fmt"
)

// ErrInconsistentExon means the lengths of chunks do not match the exon span.
var ErrInconsistentExon = errors.New("spliced: inconsistent exon")

// ChunkKind is the type of a chunk.
type ChunkKind uint8

const (
	Diag       ChunkKind = iota // aligned, match state unknown
	Match                       // identical
	Mismatch                    // aligned, not identical
	ProductIns                  // product bases with no genomic counterpart
	GenomicIns                  // genomic bases with no product counterpart
)

var chunkKindNames = [...]string{"diag", "match", "mismatch", "product-ins", "genomic-ins"}

func (k ChunkKind) String() string {
	if int(k) < len(chunkKindNames) {
		return chunkKindNames[k]
	}
	return fmt.Sprintf("ChunkKind(%d)", uint8(k))
}

// Chunk is a part of an exon.
type Chunk struct {
	Kind ChunkKind
	Len  int
}

// GenomicLen returns the number of genomic bases of the chunk.
func (c Chunk) GenomicLen() int {
	if c.Kind == ProductIns {
		return 0
	}
	return c.Len
}

// ProductLen returns the number of product bases of the chunk.
func (c Chunk) ProductLen() int {
	if c.Kind == GenomicIns {
		return 0
	}
	return c.Len
}

// Columns returns the number of alignment columns the chunk takes.
func (c Chunk) Columns() int { return c.Len }

// Exon is an exon of a spliced alignment.
type Exon struct {
	GenomicStart int
	GenomicEnd   int
	ProductStart int
	ProductEnd   int

	Partial        bool
	AcceptorBefore string // the two bases before the exon, empty for none
	DonorAfter     string // the two bases after the exon, empty for none

	Chunks []Chunk
}

// Check checks if the lengths of chunks match the exon span.
func (e *Exon) Check() error {
	var gl, pl int
	for _, c := range e.Chunks {
		gl += c.GenomicLen()
		pl += c.ProductLen()
	}
	if gl != e.GenomicEnd-e.GenomicStart+1 {
		return fmt.Errorf("%w: genomic %d-%d, sum of chunk lengths: %d",
			ErrInconsistentExon, e.GenomicStart, e.GenomicEnd, gl)
	}
	if pl != e.ProductEnd-e.ProductStart+1 {
		return fmt.Errorf("%w: product %d-%d, sum of chunk lengths: %d",
			ErrInconsistentExon, e.ProductStart, e.ProductEnd, pl)
	}
	return nil
}

// Alignment is a spliced alignment of a protein to a genomic sequence.
type Alignment struct {
	ID          string
	GenomicID   string
	ProductID   string
	Compartment int
	Plus        bool // genomic strand

	Exons  []*Exon
	Scores map[string]int

	genomicFrom, genomicTo int
	hasBounds              bool
}

// SetBounds sets the genomic range covered by the alignment text.
func (a *Alignment) SetBounds(from, to int) {
	a.genomicFrom, a.genomicTo = from, to
	a.hasBounds = true
}

// Bounds returns the genomic range covered by the alignment text, which
// is the range of exons if not set.
func (a *Alignment) Bounds() (from, to int, ok bool) {
	if a.hasBounds {
		return a.genomicFrom, a.genomicTo, true
	}
	if len(a.Exons) == 0 {
		return 0, 0, false
	}
	from, to = a.Exons[0].GenomicStart, a.Exons[0].GenomicEnd
	for _, e := range a.Exons[1:] {
		if e.GenomicStart < from {
			from = e.GenomicStart
		}
		if e.GenomicEnd > to {
			to = e.GenomicEnd
		}
	}
	return from, to, true
}

// Strand returns "+" or "-".
func (a *Alignment) Strand() string {
	if a.Plus {
		return "+"
	}
	return "-"
}

// Check checks all exons.
func (a *Alignment) Check() error {
	for i, e := range a.Exons {
		if err := e.Check(); err != nil {
			return fmt.Errorf("exon #%d: %w", i+1, err)
		}
	}
	return nil
}

// ProductPos converts a product position in nucleotide units to the
// 0-based amino acid position and the frame (1, 2, or 3).
func ProductPos(n int) (amin int, frame int) {
	return n / 3, n%3 + 1
}
