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

// Package alntext holds the four-row text form of a protein-to-genome
// spliced alignment and the column classes derived from it.
//
//	dna        : GATGAAACAGCACTAGTGACAGGTAAA
//	translation:  D  E  T  A  L  V  T  G  K
//	match      :  |  |     +        |  |  |
//	protein    :  D  E  Q  S  F --- T  G  K
//
// An upper-case protein character stands for a full codon and sits in the
// middle of three columns, the two neighbours being blank. Lower-case
// characters are single columns of a codon split by an intron.
package alntext

import (
	"errors"
	"fmt"

	"github.com/shenwei356/ProRefine/prorefine/util"
	"github.com/shenwei356/bio/seq"
)

// Characters used in the rows.
const (
	GapChar     = '-' // dna and protein
	IntronChar  = '.' // protein
	SpaceChar   = ' ' // translation and protein
	BadChar     = 'X' // match, masked column
	MismatchChr = ' ' // match
	MatchChar   = '|' // match, identity
	PositChar   = '+' // match, positive substitution
	StopChar    = '*' // translation
)

// ErrFormat means the alignment text violates the row format.
var ErrFormat = errors.New("alignment text: format error")

// Text is the text form of an alignment. All rows have the same length.
type Text struct {
	DNA         []byte
	Translation []byte
	Match       []byte
	Protein     []byte

	posit []byte // PositChar at all positive positions, computed lazily
}

// New creates a Text from the four rows and checks the row format.
func New(dna, translation, match, protein []byte) (*Text, error) {
	t := &Text{
		DNA:         dna,
		Translation: translation,
		Match:       match,
		Protein:     protein,
	}
	if err := t.check(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Text) check() error {
	n := len(t.DNA)
	if len(t.Translation) != n || len(t.Match) != n || len(t.Protein) != n {
		return fmt.Errorf("%w: rows of unequal length: dna %d, translation %d, match %d, protein %d",
			ErrFormat, len(t.DNA), len(t.Translation), len(t.Match), len(t.Protein))
	}
	p := t.Protein
	for i := 0; i < n; i++ {
		if util.IsUpper(p[i]) {
			if i == 0 || i == n-1 || p[i-1] != SpaceChar || p[i+1] != SpaceChar {
				return fmt.Errorf("%w: full codon at column %d is not flanked by blanks", ErrFormat, i)
			}
			i++
		}
	}
	return nil
}

// Len returns the number of columns.
func (t *Text) Len() int { return len(t.Match) }

// ValidateResidues checks the bases of the dna row and the residues of the
// protein row, skipping gaps, introns and blanks.
func (t *Text) ValidateResidues() error {
	var err error
	_, err = seq.NewSeq(seq.DNAredundant, residues(t.DNA))
	if err != nil {
		return fmt.Errorf("%w: dna row: %s", ErrFormat, err)
	}
	_, err = seq.NewSeq(seq.Protein, residues(t.Protein))
	if err != nil {
		return fmt.Errorf("%w: protein row: %s", ErrFormat, err)
	}
	return nil
}

func residues(row []byte) []byte {
	s := make([]byte, 0, len(row))
	for _, b := range row {
		switch b {
		case GapChar, IntronChar, SpaceChar:
		default:
			s = append(s, b)
		}
	}
	return s
}

// IsPositive tells if a match character is an identity or a positive.
func IsPositive(m byte) bool {
	return m == MatchChar || m == PositChar
}

// AllPositiveMatch returns a copy of the match row in which the match
// character of every full codon is also put on its two blank neighbours.
func (t *Text) AllPositiveMatch() []byte {
	match := make([]byte, len(t.Match))
	copy(match, t.Match)
	p := t.Protein
	for i := 1; i < len(match)-1; i++ {
		if util.IsUpper(p[i]) {
			match[i-1] = match[i]
			match[i+1] = match[i]
			i++
		}
	}
	return match
}

// Posit returns a row with PositChar at every column of a positive codon,
// and positive partial codons. Other columns keep the match characters.
//
//	match   :  |  |     +        |  |  |
//	protein :  D  E  Q  S  F --- T  G  K
//	posit   : ++++++   +++      +++++++++
func (t *Text) Posit() []byte {
	if t.posit != nil {
		return t.posit
	}
	match := t.Match
	p := t.Protein
	posit := make([]byte, len(match))
	copy(posit, match)
	for i := 1; i < len(match)-1; i++ {
		if util.IsUpper(p[i]) {
			if IsPositive(match[i]) {
				posit[i-1] = PositChar
				posit[i] = PositChar
				posit[i+1] = PositChar
				i++
			}
		} else if util.IsLower(p[i]) {
			if IsPositive(match[i]) {
				posit[i] = PositChar
			}
		}
	}
	t.posit = posit
	return posit
}

// Mask returns a copy of the text with every column outside the given
// half-open ranges marked as BadChar in the match row.
// Ranges must be sorted and non-overlapping.
func (t *Text) Mask(ranges [][2]int) *Text {
	match := make([]byte, len(t.Match))
	for i := range match {
		match[i] = BadChar
	}
	for _, r := range ranges {
		copy(match[r[0]:r[1]], t.Match[r[0]:r[1]])
	}
	return &Text{
		DNA:         t.DNA,
		Translation: t.Translation,
		Match:       match,
		Protein:     t.Protein,
	}
}

// ProteinSpan returns the first and last column with a non-gap character in
// the protein row. ok is false if the row is all gaps.
func (t *Text) ProteinSpan() (first, last int, ok bool) {
	first = util.FirstNotOf(t.Protein, GapChar)
	if first < 0 {
		return 0, 0, false
	}
	return first, util.LastNotOf(t.Protein, GapChar), true
}
