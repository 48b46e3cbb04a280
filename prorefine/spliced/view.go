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
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rdleal/intervalst/interval"
	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/trim"
)

// DefaultTextWidth is the default number of columns in a block.
var DefaultTextWidth = 60

var textSep = strings.Repeat("*", 72)

// WriteText writes an alignment text in blocks of width columns, with the
// genomic positions of every block. A row below the protein marks columns
// in good pieces with '*'. Match characters outside good pieces are blank.
func WriteText(w io.Writer, aln *Alignment, text *alntext.Text, good []trim.Piece, width int) error {
	if width <= 0 {
		width = DefaultTextWidth
	}

	from, to, _ := aln.Bounds()
	nucFrom, nucTo := from+1, to+1

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "\n%s\n%s\n%s\n", textSep, textSep, textSep)
	fmt.Fprintf(&buf, "%d\t%s\t%s\t%d\t%d\t%s\n",
		aln.Compartment, aln.GenomicID, aln.ProductID, nucFrom, nucTo, aln.Strand())

	protBeg, protEnd, ok := text.ProteinSpan()
	if !ok {
		_, err := w.Write(buf.Bytes())
		return err
	}

	// pieces with inclusive columns
	cmpFn := func(x, y int) int { return x - y }
	tree := interval.NewSearchTree[trim.Piece, int](cmpFn)
	for _, p := range good {
		if err := tree.Insert(p.Beg, p.End-1, p); err != nil {
			return err
		}
	}

	dna := text.DNA
	match := make([]byte, 0, width)
	marks := make([]byte, 0, width)

	npos1 := nucFrom
	if !aln.Plus {
		npos1 = nucTo
	}
	var apos, realBases, npos2 int
	for i := 0; i < protEnd; i += width {
		apos = i + width - 1
		if apos >= len(dna) {
			apos = len(dna) - 1
			width = apos - i + 1
		}

		realBases = width - bytes.Count(dna[i:i+width], []byte{alntext.GapChar})
		if aln.Plus {
			npos2 = npos1 + realBases - 1
		} else {
			npos2 = npos1 - (realBases - 1)
		}

		// skip head lines with gaps only
		if apos > protBeg {
			match = match[:0]
			marks = marks[:0]
			for j := 0; j < width; j++ {
				match = append(match, ' ')
				marks = append(marks, ' ')
			}
			if ps, found := tree.AllIntersections(i, apos); found {
				for _, p := range ps {
					for j := max(p.Beg, i); j < min(p.End, apos+1); j++ {
						if text.Match[j] == alntext.BadChar {
							continue
						}
						match[j-i] = text.Match[j]
						marks[j-i] = '*'
					}
				}
			}

			if realBases > 0 {
				fmt.Fprintf(&buf, "%-12d%s   %d\n", npos1, dna[i:i+width], npos2)
			} else {
				fmt.Fprintf(&buf, "%-12s%s   %s\n", "-", dna[i:i+width], "-")
			}
			fmt.Fprintf(&buf, "%-12s%s\n", " ", text.Translation[i:i+width])
			fmt.Fprintf(&buf, "%-12s%s\n", " ", match)
			fmt.Fprintf(&buf, "%-12s%s\n", " ", text.Protein[i:i+width])
			fmt.Fprintf(&buf, "%-12s%s\n", " ", marks)
		}

		if aln.Plus {
			npos1 = npos2 + 1
		} else {
			npos1 = npos2 - 1
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteExons writes one line per exon, with 1-based genomic positions and
// product positions as amino acid.frame.
func WriteExons(w io.Writer, aln *Alignment) error {
	var buf bytes.Buffer
	var aa1, f1, aa2, f2 int
	for i, e := range aln.Exons {
		aa1, f1 = ProductPos(e.ProductStart)
		aa2, f2 = ProductPos(e.ProductEnd)
		fmt.Fprintf(&buf, "exon\t%d\t%d\t%d\t%d.%d\t%d.%d\t%v\t%s\t%s\t%s\n",
			i+1, e.GenomicStart+1, e.GenomicEnd+1, aa1+1, f1, aa2+1, f2,
			e.Partial, e.AcceptorBefore, e.DonorAfter, FormatChunks(e.Chunks))
	}
	_, err := w.Write(buf.Bytes())
	return err
}
