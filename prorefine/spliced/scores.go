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
	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/util"
)

// Names of scores.
const (
	ScoreIdent              = "num_ident"
	ScorePositives          = "num_positives"
	ScoreNegatives          = "num_negatives"
	ScoreProductGap         = "product_gap_length"
	ScoreGenomicGap         = "genomic_gap_length"
	ScoreAlignLength        = "align_length"
	ScoreProductInternalGap = "product_internal_gap_length"
)

// ScoreNames lists names of all scores in output order.
var ScoreNames = []string{
	ScoreIdent,
	ScorePositives,
	ScoreNegatives,
	ScoreProductGap,
	ScoreGenomicGap,
	ScoreAlignLength,
	ScoreProductInternalGap,
}

// Scores are counted over the columns of an alignment text, skipping
// introns and masked columns. A full codon counts as three.
// An identity is also a positive.
type Scores struct {
	Ident              int
	Positives          int
	Negatives          int
	ProductGap         int
	GenomicGap         int
	AlignLength        int
	ProductInternalGap int // product gap columns between the first and the last aligned column
}

// Named returns the scores with their names.
func (s *Scores) Named() map[string]int {
	return map[string]int{
		ScoreIdent:              s.Ident,
		ScorePositives:          s.Positives,
		ScoreNegatives:          s.Negatives,
		ScoreProductGap:         s.ProductGap,
		ScoreGenomicGap:         s.GenomicGap,
		ScoreAlignLength:        s.AlignLength,
		ScoreProductInternalGap: s.ProductInternalGap,
	}
}

// PIdent returns the percentage of identities among aligned residues.
func (s *Scores) PIdent() float64 {
	if s.Positives+s.Negatives == 0 {
		return 0
	}
	return float64(s.Ident) * 100 / float64(s.Positives+s.Negatives)
}

func skipped(prot, match byte) bool {
	return prot == alntext.IntronChar || match == alntext.BadChar
}

// ComputeScores computes the scores of an alignment text, in which columns
// outside good parts are masked, see alntext.Text.Mask.
func ComputeScores(text *alntext.Text) Scores {
	var s Scores
	prot := text.Protein
	dna := text.DNA
	match := text.Match

	var w int
	for i := range match {
		if skipped(prot[i], match[i]) {
			continue
		}
		s.AlignLength++
		if prot[i] == alntext.GapChar {
			s.ProductGap++
		} else if dna[i] == alntext.GapChar {
			s.GenomicGap++
		} else if util.IsAlpha(prot[i]) {
			w = 1
			if util.IsUpper(prot[i]) {
				w = 3
			}
			switch match[i] {
			case alntext.MatchChar:
				s.Ident += w
				s.Positives += w
			case alntext.PositChar:
				s.Positives += w
			default:
				s.Negatives += w
			}
		}
	}

	beg := 0
	for ; beg < len(prot) && (skipped(prot[beg], match[beg]) || prot[beg] == alntext.GapChar); beg++ {
	}
	end := len(prot) - 1
	for ; end >= 0 && (skipped(prot[end], match[end]) || prot[end] == alntext.GapChar); end-- {
	}
	for i := beg; i <= end; i++ {
		if !skipped(prot[i], match[i]) && prot[i] == alntext.GapChar {
			s.ProductInternalGap++
		}
	}
	return s
}

// SetScores computes the scores of an alignment text and saves them as
// named scores of the alignment.
func SetScores(aln *Alignment, text *alntext.Text) Scores {
	s := ComputeScores(text)
	if aln.Scores == nil {
		aln.Scores = make(map[string]int, len(ScoreNames))
	}
	for name, v := range s.Named() {
		aln.Scores[name] = v
	}
	return s
}
