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

import (
	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/util"
)

// Segment splits the columns of pc into runs of positive and non-positive
// match characters, joins runs while the fraction of positives stays high
// enough, and returns the good pieces left.
//
// match is the match row with the match character put on all three columns
// of a full codon, see alntext.Text.AllPositiveMatch.
func Segment(pc Piece, match, protein []byte, opt *Options) []Piece {
	n := pc.Beg
	for ; n < pc.End; n++ {
		if alntext.IsPositive(match[n]) {
			break
		}
	}
	if n >= pc.End {
		return nil
	}

	var efflen int
	if match[n] == alntext.MatchChar && n+1 < len(protein) &&
		util.FirstNotOf(protein, alntext.GapChar) == n && protein[n+1] == 'M' {
		efflen += opt.StartBonus
	}

	spliceCost := opt.SpliceCost()
	ps := make([]Piece, 0, 8)
	good := true
	inIntron := false
	beg := n
	for ; n < pc.End; n++ {
		if alntext.IsPositive(match[n]) {
			if !good {
				good = true
				ps = append(ps, Piece{Beg: beg, End: n, Posit: 0, EffLen: efflen})
				beg = n
				efflen = 0
			}
		} else if good {
			good = false
			ps = append(ps, Piece{Beg: beg, End: n, Posit: efflen, EffLen: efflen})
			beg = n
			efflen = 0
		}

		if protein[n] != alntext.IntronChar {
			efflen++
			inIntron = false
		} else if !inIntron {
			efflen += spliceCost
			inIntron = true
		}
	}
	if good {
		ps = append(ps, Piece{Beg: beg, End: n, Posit: efflen, EffLen: efflen})
	}
	// a trailing bad run is dropped, pieces alternate and start and end with good ones

	for num := len(ps) + 1; num > len(ps); {
		num = len(ps)
		ps = opt.joinForward(ps)
		ps = opt.joinBackward(ps)
	}

	// throw out bad pieces
	j := 0
	for _, p := range ps {
		if p.Posit == 0 || p.EffLen < opt.MinGoodLen {
			continue
		}
		ps[j] = p
		j++
	}
	return ps[:j]
}

// joinForward joins every good piece with the farthest good piece after it
// that keeps enough positives.
func (o *Options) joinForward(ps []Piece) []Piece {
	for b := 0; b < len(ps); b += 2 {
		e := b
		var slen, spos int
		for c := b + 1; c < len(ps); c++ { // c points to a bad piece
			if o.bad(&ps[c]) {
				break
			}
			slen += ps[c].EffLen
			spos += ps[c].Posit
			if o.dropoff(slen, spos, &ps[b]) {
				break
			}
			c++ // good one
			if o.perc(&ps[c], slen, spos, &ps[b]) && o.backCheck(ps, b, c) {
				e = c
			}
			slen += ps[c].EffLen
			spos += ps[c].Posit
		}
		if e != b {
			ps[e] = join(ps, b, e)
			ps = append(ps[:b], ps[e:]...)
		}
	}
	return ps
}

// joinBackward is the mirror of joinForward.
func (o *Options) joinBackward(ps []Piece) []Piece {
	for b := len(ps) - 1; b > 0; b -= 2 {
		e := b
		var slen, spos int
		for c := b - 1; c > 0; c-- { // c points to a bad piece
			if o.bad(&ps[c]) {
				break
			}
			slen += ps[c].EffLen
			spos += ps[c].Posit
			if o.dropoff(slen, spos, &ps[b]) {
				break
			}
			c-- // good one
			if o.perc(&ps[c], slen, spos, &ps[b]) && o.forwCheck(ps, c, b) {
				e = c
			}
			slen += ps[c].EffLen
			spos += ps[c].Posit
		}
		if e != b {
			ps[b] = join(ps, e, b)
			ps = append(ps[:e], ps[b:]...)
			b = e
		}
	}
	return ps
}

// ExcludeBadExons splits pc at the exons with too few positives or
// identities. The columns between a bad exon and the nearest positive
// column at both sides are removed too.
func ExcludeBadExons(pc Piece, match, protein []byte, opt *Options) []Piece {
	var exons [][2]int
	inExon := false
	for n := pc.Beg; n < pc.End; {
		if protein[n] != alntext.IntronChar && !inExon {
			inExon = true
			exons = append(exons, [2]int{n, 0})
		}
		n++
		if inExon && (n == pc.End || protein[n] == alntext.IntronChar) {
			inExon = false
			exons[len(exons)-1][1] = n
		}
	}

	ps := make([]Piece, 0, 2)
	curBeg := pc.Beg
	for _, exon := range exons {
		var pos, id int
		length := exon[1] - exon[0]
		for i := exon[0]; i < exon[1]; i++ {
			switch match[i] {
			case alntext.PositChar:
				pos++
			case alntext.MatchChar:
				id++
				pos++
			}
		}
		if 100*pos >= length*opt.MinExonPos && 100*id >= opt.MinExonID*length {
			continue
		}

		// previous positive column
		n := exon[0] - 1
		for ; n > curBeg; n-- {
			if alntext.IsPositive(match[n]) {
				break
			}
		}
		n++
		if n > curBeg {
			ps = append(ps, Piece{Beg: curBeg, End: n})
		}

		// next positive column
		for n = exon[1]; n < pc.End; n++ {
			if alntext.IsPositive(match[n]) {
				break
			}
		}
		curBeg = n
	}
	if curBeg < pc.End {
		ps = append(ps, Piece{Beg: curBeg, End: pc.End})
	}
	return ps
}
