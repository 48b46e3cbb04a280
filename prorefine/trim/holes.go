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

package trim

import "github.com/shenwei356/ProRefine/prorefine/alntext"

// FillHoles replaces pieces with one piece from the beginning of the first
// to the end of the last.
func FillHoles(ps []Piece) []Piece {
	if len(ps) == 0 {
		return ps
	}
	return []Piece{{Beg: ps[0].Beg, End: ps[len(ps)-1].End}}
}

// StitchHoles joins neighbouring pieces separated by fewer than minHoleLen
// bases and fewer than minHoleLen residues.
func StitchHoles(ps []Piece, dna, protein []byte, minHoleLen int) []Piece {
	if minHoleLen <= 0 || len(ps) < 2 {
		return ps
	}
	out := ps[:0]
	cur := ps[0]
	for _, next := range ps[1:] {
		var nucCnt, protCnt int
		for i := cur.End; i < next.Beg; i++ {
			if dna[i] != alntext.GapChar && dna[i] != alntext.IntronChar {
				nucCnt++
			}
			if protein[i] != alntext.GapChar && protein[i] != alntext.IntronChar {
				protCnt++
			}
		}
		if nucCnt < minHoleLen && protCnt < minHoleLen {
			cur.End = next.End
			cur.Posit += next.Posit
			cur.EffLen += next.EffLen
			continue
		}
		out = append(out, cur)
		cur = next
	}
	return append(out, cur)
}
