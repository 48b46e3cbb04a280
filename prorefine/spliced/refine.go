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

package spliced

import (
	"fmt"
	"sync"

	"github.com/shenwei356/ProRefine/prorefine/trim"
)

// aliChunk is a chunk placed on the alignment columns.
type aliChunk struct {
	from, to int // alignment columns, inclusive
	nucPos   int // genomic position of the first base, the last one on the minus strand
	protPos  int // product position of the first base
	exon     int // index of the exon
	chunk    Chunk
	bad      bool
}

func (c *aliChunk) splittable() bool {
	return c.chunk.Kind != ProductIns && c.chunk.Kind != GenomicIns
}

// split splits a diagonal chunk into [from, at-1] and [at, to].
func (c aliChunk) split(at int, plus bool) (first, second aliChunk) {
	n := at - c.from
	first, second = c, c

	first.to = at - 1
	first.chunk.Len = n

	second.from = at
	second.chunk.Len = c.chunk.Len - n
	if plus {
		second.nucPos += n
	} else {
		second.nucPos -= n
	}
	second.protPos += n
	return first, second
}

var poolAliChunks = &sync.Pool{New: func() interface{} {
	tmp := make([]aliChunk, 0, 64)
	return &tmp
}}

// extractChunks places all chunks on the alignment columns. The first
// column is the start of the genomic bounds and product position 0.
func extractChunks(aln *Alignment, chunks []aliChunk) ([]aliChunk, error) {
	nucFrom, nucTo, ok := aln.Bounds()
	if !ok {
		return chunks, nil
	}
	var protFrom, pos int

	for i, e := range aln.Exons {
		if aln.Plus {
			pos += max(e.ProductStart-protFrom, e.GenomicStart-nucFrom)
			nucFrom = e.GenomicStart
		} else {
			pos += max(e.ProductStart-protFrom, nucTo-e.GenomicEnd)
			nucTo = e.GenomicEnd
		}
		protFrom = e.ProductStart

		for _, c := range e.Chunks {
			if c.Len <= 0 {
				return chunks, fmt.Errorf("%w: exon #%d has a %s chunk of length %d",
					ErrInconsistentExon, i+1, c.Kind, c.Len)
			}
			ac := aliChunk{
				from:    pos,
				to:      pos + c.Columns() - 1,
				protPos: protFrom,
				exon:    i,
				chunk:   c,
			}
			if aln.Plus {
				ac.nucPos = nucFrom
				nucFrom += c.GenomicLen()
			} else {
				ac.nucPos = nucTo
				nucTo -= c.GenomicLen()
			}
			protFrom += c.ProductLen()
			pos = ac.to + 1

			chunks = append(chunks, ac)
		}

		if err := e.Check(); err != nil {
			return chunks, fmt.Errorf("exon #%d: %w", i+1, err)
		}
	}
	return chunks, nil
}

// badRanges returns the inclusive column ranges in [from, to] not covered
// by good pieces.
func badRanges(good []trim.Piece, from, to int) [][2]int {
	bads := make([][2]int, 0, len(good)+1)
	beg := from
	for _, p := range good {
		if beg < p.Beg {
			bads = append(bads, [2]int{beg, p.Beg - 1})
		}
		beg = p.End
	}
	if beg <= to {
		bads = append(bads, [2]int{beg, to})
	}
	return bads
}

// markBad splits diagonal chunks at the boundaries of bad ranges and marks
// chunks overlapping bad ranges. Insertions are never split, an insertion
// partly in a bad range is bad as a whole.
func markBad(chunks []aliChunk, bads [][2]int, plus bool, out []aliChunk) []aliChunk {
	var first aliChunk
	j := 0
	for _, c := range chunks {
		for j < len(bads) && bads[j][1] < c.from {
			j++
		}
		for {
			if j >= len(bads) || bads[j][0] > c.to {
				out = append(out, c)
				break
			}
			b := bads[j]
			if c.splittable() && c.from < b[0] { // good head
				first, c = c.split(b[0], plus)
				out = append(out, first)
				continue
			}
			if c.splittable() && b[1] < c.to { // bad head
				first, c = c.split(b[1]+1, plus)
				first.bad = true
				out = append(out, first)
				j++
				continue
			}
			c.bad = true
			out = append(out, c)
			break
		}
	}
	return out
}

// rebuildExons keeps maximal runs of good chunks of every exon as exons.
func rebuildExons(aln *Alignment, chunks []aliChunk) []*Exon {
	exons := make([]*Exon, 0, len(aln.Exons))
	var i, j, k, nl, pl int
	for i < len(chunks) {
		// chunks[i:j] belong to the same exon
		e := chunks[i].exon
		for j = i; j < len(chunks) && chunks[j].exon == e; j++ {
		}
		orig := aln.Exons[e]

		var hasBad bool
		for k = i; k < j; k++ {
			if chunks[k].bad {
				hasBad = true
				break
			}
		}
		if !hasBad {
			exons = append(exons, orig)
			i = j
			continue
		}

		for k = i; k < j; {
			if chunks[k].bad {
				k++
				continue
			}
			beg := k
			nl, pl = 0, 0
			for ; k < j && !chunks[k].bad; k++ {
				nl += chunks[k].chunk.GenomicLen()
				pl += chunks[k].chunk.ProductLen()
			}
			if nl == 0 || pl == 0 {
				continue
			}

			head := &chunks[beg]
			exon := &Exon{
				ProductStart:   head.protPos,
				ProductEnd:     head.protPos + pl - 1,
				Partial:        orig.Partial,
				AcceptorBefore: orig.AcceptorBefore,
				DonorAfter:     orig.DonorAfter,
				Chunks:         make([]Chunk, 0, k-beg),
			}
			if aln.Plus {
				exon.GenomicStart = head.nucPos
				exon.GenomicEnd = head.nucPos + nl - 1
			} else {
				exon.GenomicEnd = head.nucPos
				exon.GenomicStart = head.nucPos - nl + 1
			}
			if beg > i { // trimmed head
				exon.Partial = true
				exon.AcceptorBefore = ""
			}
			if k < j { // trimmed tail
				exon.Partial = true
				exon.DonorAfter = ""
			}
			for _, c := range chunks[beg:k] {
				exon.Chunks = append(exon.Chunks, c.chunk)
			}
			exons = append(exons, exon)
		}

		i = j
	}
	return exons
}

// Refine keeps the parts of the alignment covered by good pieces of its
// text form. Chunks are split at piece boundaries. Exons are dropped,
// shrunk, or split into several partial exons. Splice sites next to a
// removed part are cleared.
//
// The genomic bounds of the text are kept, so that the columns of the
// refined alignment stay those of its text.
//
// Pieces must be sorted and non-overlapping. An error wrapping
// ErrInconsistentExon is returned if an exon does not match its chunks,
// before or after refinement.
func Refine(aln *Alignment, good []trim.Piece) error {
	bufChunks := poolAliChunks.Get().(*[]aliChunk)
	bufMarked := poolAliChunks.Get().(*[]aliChunk)
	defer func() {
		poolAliChunks.Put(bufChunks)
		poolAliChunks.Put(bufMarked)
	}()

	chunks, err := extractChunks(aln, (*bufChunks)[:0])
	*bufChunks = chunks
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}
	from, to, _ := aln.Bounds()
	aln.SetBounds(from, to)

	bads := badRanges(good, chunks[0].from, chunks[len(chunks)-1].to)
	marked := markBad(chunks, bads, aln.Plus, (*bufMarked)[:0])
	*bufMarked = marked

	aln.Exons = rebuildExons(aln, marked)

	return aln.Check()
}
