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

// Package trim finds the reliable parts ("good pieces") of a protein-to-genome
// spliced alignment in its text form.
//
// Pieces are half-open column ranges. Posit and EffLen are only meaningful
// during segmentation: trimming moves Beg and End but leaves them stale.
package trim

import "fmt"

// Piece is a column range [Beg, End) of the alignment text.
type Piece struct {
	Beg    int
	End    int
	Posit  int // positive columns credited to the piece
	EffLen int // effective length, an intron run counts as the splice cost
}

func (p Piece) String() string {
	return fmt.Sprintf("[%d, %d) posit:%d efflen:%d", p.Beg, p.End, p.Posit, p.EffLen)
}

// Len returns the number of columns.
func (p Piece) Len() int { return p.End - p.Beg }

// join merges ps[i:j+1] into one piece.
func join(ps []Piece, i, j int) Piece {
	p := ps[j]
	for k := i; k < j; k++ {
		p.Posit += ps[k].Posit
		p.EffLen += ps[k].EffLen
	}
	p.Beg = ps[i].Beg
	return p
}

// Ranges converts pieces to [beg, end) pairs.
func Ranges(ps []Piece) [][2]int {
	rs := make([][2]int, len(ps))
	for i, p := range ps {
		rs[i] = [2]int{p.Beg, p.End}
	}
	return rs
}
