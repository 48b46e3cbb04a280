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

// FindGoodParts returns the good pieces of an alignment, sorted and
// non-overlapping.
//
// Steps:
//
//  1. Segmenting the whole alignment.
//  2. Removing bad exons and segmenting again.
//  3. Trimming the outer flanks with a positives dropoff.
//  4. Filling or stitching holes between pieces.
//  5. Trimming tails with negative scores.
//  6. Removing trailing Ns and partial codons.
//  7. Restoring short outer flanks.
func FindGoodParts(text *alntext.Text, opt *Options, sc Scorer) ([]Piece, error) {
	protein := text.Protein
	if opt.PassThrough {
		first, last, ok := text.ProteinSpan()
		if !ok {
			return nil, nil
		}
		return []Piece{{Beg: first, End: last + 1}}, nil
	}

	match := text.AllPositiveMatch()
	trimmer := NewTrimmer(text)

	ps := Segment(Piece{Beg: 0, End: text.Len()}, match, protein, opt)

	ps = expand(ps, func(p Piece) []Piece { return ExcludeBadExons(p, match, protein, opt) })
	ps = expand(ps, func(p Piece) []Piece { return Segment(p, match, protein, opt) })
	if len(ps) == 0 {
		return ps, nil
	}

	ps[0].Beg = trimmer.CutFromLeft(ps[0], opt)
	ps[len(ps)-1].End = trimmer.CutFromRight(ps[len(ps)-1], opt)

	if opt.FillHoles {
		ps = FillHoles(ps)
	}
	ps = StitchHoles(ps, text.DNA, protein, opt.MinHoleLen)

	var err error
	ps, err = trimTails(ps, text, match, sc)
	if err != nil {
		return nil, err
	}

	if opt.CutNs {
		ps = CutNs(ps, text.DNA)
	}
	if opt.CutFlankPartialCodons {
		ps = CutPartialCodons(ps, protein)
	}

	if len(ps) > 0 {
		ps[0].Beg = trimmer.RestoreFivePrime(ps[0].Beg)
		ps[len(ps)-1].End = trimmer.RestoreThreePrime(ps[len(ps)-1].End)
	}
	return ps, nil
}

// expand replaces every piece with the pieces f returns for it.
func expand(ps []Piece, f func(Piece) []Piece) []Piece {
	out := make([]Piece, 0, len(ps))
	for _, p := range ps {
		out = append(out, f(p)...)
	}
	return out
}

// trimTails trims negative tails of the last piece, iteratively, moving its
// end right after a positive column. Pieces trimmed completely are removed.
func trimTails(ps []Piece, text *alntext.Text, match []byte, sc Scorer) ([]Piece, error) {
	for len(ps) > 0 {
		pc := &ps[len(ps)-1]
		keep, err := TrimNegativeTail(pc, text, sc)
		if err != nil {
			return nil, err
		}

		n := pc.End - 1
		for ; n >= pc.Beg; n-- {
			if alntext.IsPositive(match[n]) {
				break
			}
		}
		pc.End = n + 1
		if pc.Beg >= pc.End {
			ps = ps[:len(ps)-1]
		}

		if !keep {
			break
		}
	}
	return ps, nil
}

// CutNs removes trailing Ns of every piece. Pieces of Ns are removed.
func CutNs(ps []Piece, dna []byte) []Piece {
	j := 0
	for _, p := range ps {
		pos := p.End - 1
		for ; pos >= p.Beg && dna[pos] == 'N'; pos-- {
		}
		if pos < p.Beg {
			continue
		}
		p.End = pos + 1
		ps[j] = p
		j++
	}
	return ps[:j]
}

// CutPartialCodons removes a full codon cut at the end of a piece, then
// partial codons and intron columns at both ends. Pieces left empty are
// removed.
func CutPartialCodons(ps []Piece, protein []byte) []Piece {
	partial := func(b byte) bool {
		return util.IsLower(b) || b == alntext.IntronChar
	}

	j := 0
	for _, p := range ps {
		// the middle column of a codon, whose last column was cut
		pos := p.End - 1
		if util.IsUpper(protein[pos]) {
			pos -= 2
			if pos < p.Beg {
				continue
			}
			p.End = pos + 1
		}

		pos = p.End - 1
		for ; pos >= p.Beg && partial(protein[pos]); pos-- {
		}
		if pos < p.Beg {
			continue
		}
		p.End = pos + 1

		pos = p.Beg
		for ; pos < p.End && partial(protein[pos]); pos++ {
		}
		if pos == p.End {
			continue
		}
		p.Beg = pos

		ps[j] = p
		j++
	}
	return ps[:j]
}
