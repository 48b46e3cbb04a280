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

// the longest flank that could be restored
const maxRestoreLen = 36

// Trimmer trims or restores the flanks of the outermost pieces.
type Trimmer struct {
	text  *alntext.Text
	posit []byte
}

// NewTrimmer creates a Trimmer for an alignment text.
func NewTrimmer(text *alntext.Text) *Trimmer {
	return &Trimmer{text: text, posit: text.Posit()}
}

func (t *Trimmer) positive(i int) bool {
	return t.posit[i] == alntext.PositChar
}

// pseudoCounter accumulates the pseudo length and positives of a flank.
// A positive, a mismatch and the first three columns of a gap run add ratio,
// the remaining gap columns add 1.
type pseudoCounter struct {
	ratio   int
	len     int
	pos     int
	dnaGap  int
	protGap int
}

func (c *pseudoCounter) add(positive bool, dna, prot byte) {
	if positive {
		c.len += c.ratio
		c.pos += c.ratio
		c.dnaGap, c.protGap = 0, 0
	} else if dna == alntext.GapChar {
		if c.dnaGap < 3 {
			c.len += c.ratio
		} else {
			c.len++
		}
		c.dnaGap++
		c.protGap = 0
	} else if prot == alntext.GapChar {
		if c.protGap < 3 {
			c.len += c.ratio
		} else {
			c.len++
		}
		c.protGap++
		c.dnaGap = 0
	} else {
		c.len += c.ratio
		c.dnaGap, c.protGap = 0, 0
	}
}

func (c *pseudoCounter) frac() float64 {
	return float64(c.pos) / float64(c.len)
}

// CutFromLeft trims the left flank of pc where the fraction of positives
// drops, compared with the following window, by at least the dropoff.
// It repeats until no cut is found and returns the new beginning.
// The piece is never removed completely.
func (t *Trimmer) CutFromLeft(pc Piece, opt *Options) int {
	if !opt.CutFlanksWithPositDrop {
		return pc.Beg
	}
	prot := t.text.Protein
	dna := t.text.DNA
	dropoff := float64(opt.Dropoff) / 100
	window := opt.WindowSize

	for {
		begpos, endpos := pc.Beg, pc.End
		var curMaxDrop float64
		cut := begpos
		curPos := begpos
		curEnd := begpos + window
		if curEnd >= endpos {
			return pc.Beg
		}

		var rposit int // positives in the window [curPos, curEnd)
		for i := curPos; i < curEnd; i++ {
			if prot[i] == alntext.IntronChar {
				return pc.Beg
			}
			if t.positive(i) {
				rposit++
			}
		}

		ps := pseudoCounter{ratio: opt.GapRatio}
		for {
			if prot[curEnd] == alntext.IntronChar {
				break
			}
			if opt.MaxCutLen < curPos-begpos+1 {
				break
			}

			if t.positive(curPos) {
				rposit--
			}
			if t.positive(curEnd) {
				rposit++
			}

			ps.add(t.positive(curPos), dna[curPos], prot[curPos])
			curPos++
			curEnd++

			drop := float64(rposit)/float64(window) - ps.frac()
			if drop >= dropoff && (drop > curMaxDrop || cut == begpos) {
				curMaxDrop = drop
				cut = curPos
			}

			if curEnd >= endpos {
				break
			}
		}

		if cut == begpos {
			return pc.Beg
		}

		// move to a positive
		for ; cut < endpos; cut++ {
			if t.positive(cut) {
				break
			}
		}
		if cut >= endpos {
			return pc.Beg
		}
		// take back the positives before it
		for ; cut >= begpos; cut-- {
			if !t.positive(cut) {
				cut++
				break
			}
		}
		if cut <= begpos {
			return pc.Beg
		}

		pc.Beg = cut
	}
}

// CutFromRight is the mirror of CutFromLeft and returns the new end.
func (t *Trimmer) CutFromRight(pc Piece, opt *Options) int {
	if !opt.CutFlanksWithPositDrop {
		return pc.End
	}
	prot := t.text.Protein
	dna := t.text.DNA
	dropoff := float64(opt.Dropoff) / 100
	window := opt.WindowSize

	for {
		begpos, endpos := pc.Beg, pc.End
		var curMaxDrop float64
		cut := endpos
		winEnd := endpos
		if begpos+window > winEnd {
			return pc.End
		}
		winBeg := winEnd - window

		var wposit int // positives in the window [winBeg, winEnd)
		for i := winBeg; i < winEnd; i++ {
			if prot[i] == alntext.IntronChar {
				return pc.End
			}
			if t.positive(i) {
				wposit++
			}
		}

		ps := pseudoCounter{ratio: opt.GapRatio}
		for winBeg > begpos {
			winEnd--
			winBeg--

			if opt.MaxCutLen < endpos-winEnd {
				break
			}
			if prot[winBeg] == alntext.IntronChar {
				break
			}

			if t.positive(winEnd) {
				wposit--
			}
			if t.positive(winBeg) {
				wposit++
			}

			ps.add(t.positive(winEnd), dna[winEnd], prot[winEnd])

			drop := float64(wposit)/float64(window) - ps.frac()
			if drop >= dropoff && (drop > curMaxDrop || cut == endpos) {
				curMaxDrop = drop
				cut = winEnd
			}
		}

		if cut == endpos {
			return pc.End
		}

		// move to right after a positive
		for cut--; cut >= begpos; cut-- {
			if t.positive(cut) {
				cut++
				break
			}
		}
		if cut <= begpos {
			return pc.End
		}
		// take back the positives after it
		for ; cut < endpos; cut++ {
			if !t.positive(cut) {
				break
			}
		}
		if cut >= endpos {
			return pc.End
		}

		pc.End = cut
	}
}

// flankStats counts gap runs, positives and mismatches of columns [beg, end).
// ok is false if an intron, or a stop codon when stops is true, is found.
func (t *Trimmer) flankStats(beg, end int, stops bool) (gaps, posit, mismatch int, ok bool) {
	prot := t.text.Protein
	dna := t.text.DNA
	tran := t.text.Translation
	var inGap int // 0: no gap, -1: gap in protein, 1: gap in dna
	for i := beg; i < end; i++ {
		if prot[i] == alntext.IntronChar {
			return 0, 0, 0, false
		}
		if stops && tran[i] == alntext.StopChar {
			return 0, 0, 0, false
		}
		if prot[i] == alntext.GapChar {
			if inGap != -1 {
				inGap = -1
				gaps++
			}
		} else if dna[i] == alntext.GapChar {
			if inGap != 1 {
				inGap = 1
				gaps++
			}
		} else {
			inGap = 0
			if t.positive(i) {
				posit++
			} else {
				mismatch++
			}
		}
	}
	return gaps, posit, mismatch, true
}

func restorable(gaps, posit, mismatch, length int) bool {
	if gaps == 0 && mismatch < 10 {
		return true
	}
	if gaps < 3 && 100*posit >= 60*length {
		return true
	}
	if gaps < 2 && 100*posit >= 50*length {
		return true
	}
	return false
}

// RestoreFivePrime returns the first aligned protein column if the short
// flank before beg is good enough to be kept, or beg itself.
func (t *Trimmer) RestoreFivePrime(beg int) int {
	pbeg := util.FirstNotOf(t.text.Protein, alntext.IntronChar, alntext.GapChar)
	if pbeg < 0 || pbeg >= beg {
		return beg
	}
	length := beg - pbeg
	if !t.positive(pbeg) || length > maxRestoreLen {
		return beg
	}
	gaps, posit, mismatch, ok := t.flankStats(pbeg, beg, false)
	if ok && restorable(gaps, posit, mismatch, length) {
		return pbeg
	}
	return beg
}

// RestoreThreePrime returns the end of the last aligned protein column if
// the short flank after end is good enough to be kept, or end itself.
// Flanks with a stop codon are never restored.
func (t *Trimmer) RestoreThreePrime(end int) int {
	pend := util.LastNotOf(t.text.Protein, alntext.IntronChar, alntext.GapChar)
	if pend < 0 || !t.positive(pend) {
		return end
	}
	pend++
	if end >= pend {
		return end
	}
	length := pend - end
	if length > maxRestoreLen {
		return end
	}
	gaps, posit, mismatch, ok := t.flankStats(end, pend, true)
	if ok && restorable(gaps, posit, mismatch, length) {
		return pend
	}
	return end
}
