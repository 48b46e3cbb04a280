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
	"fmt"

	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/util"
)

// Scorer provides scaled substitution scores and gap costs.
type Scorer interface {
	ScaledScore(a, b byte) int
	GapOpen() int
	GapExtend() int
}

// only the last tailCheckLen bases and residues are checked
const tailCheckLen = 18

// TrimNegativeTail walks the last columns of pc backward, scoring them,
// and moves pc.End to where the score goes negative. It returns true if
// pc was trimmed. The walk stops at an intron, or once both the dna and
// the protein have consumed tailCheckLen columns.
func TrimNegativeTail(pc *Piece, text *alntext.Text, sc Scorer) (bool, error) {
	nuc := text.DNA
	prot := text.Protein
	tran := text.Translation

	var score int
	var state int // 0: diagonal, 1: gap in dna, 2: gap in protein
	var cnuc, cprot int
	n := pc.End - 1
	for ; n >= pc.Beg; n-- {
		// close gaps
		if (state == 1 && nuc[n] != alntext.GapChar) || (state == 2 && prot[n] != alntext.GapChar) {
			score -= sc.GapOpen()
			state = 0
		}
		if score < 0 { // trim at the beginning of the gap
			pc.End = n + 1
			return true, nil
		}
		if prot[n] == alntext.IntronChar {
			return false, nil
		}

		if prot[n] == alntext.GapChar {
			score -= sc.GapExtend()
			state = 2
			cnuc++
		} else if nuc[n] == alntext.GapChar {
			score -= sc.GapExtend()
			state = 1
			cprot++
		} else {
			cnuc++
			cprot++
			if util.IsLower(tran[n]) {
				if !util.IsLower(prot[n]) {
					return false, fmt.Errorf("%w: partial codon at column %d has a full protein residue",
						alntext.ErrFormat, n)
				}
				score += sc.ScaledScore(util.ToUpper(prot[n]), util.ToUpper(tran[n])) / 3
			} else if util.IsUpper(prot[n]) && util.IsUpper(tran[n]) {
				score += sc.ScaledScore(prot[n], tran[n])
			}
		}
		if score < 0 {
			pc.End = n
			return true, nil
		}
		if cnuc >= tailCheckLen && cprot >= tailCheckLen {
			break
		}
	}
	if state != 0 {
		score -= sc.GapOpen()
		if score < 0 {
			pc.End = n + 1
			return true, nil
		}
	}
	return false, nil
}
