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

// Package scoring provides the substitution scores and gap costs used when
// walking an alignment tail.
package scoring

import (
	"fmt"

	"github.com/BurntSushi/cablastp/blosum"
)

// Matrix is a substitution matrix with a byte lookup table.
type Matrix struct {
	scores [][]int
	lookup [256]int // residue -> row/column, -1 for unknown residues
}

// NewMatrix creates a Matrix from an alphabet and the scores ordered by it.
// Residues are matched case-insensitively. Residues out of the alphabet are
// scored as 'X' if the alphabet has it, or 0.
func NewMatrix(alphabet string, scores [][]int) *Matrix {
	m := &Matrix{scores: scores}
	for i := range m.lookup {
		m.lookup[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		m.lookup[c] = i
		if c >= 'A' && c <= 'Z' {
			m.lookup[c+32] = i
		}
	}
	if x := m.lookup['X']; x >= 0 {
		for i := range m.lookup {
			if m.lookup[i] < 0 && i != '-' {
				m.lookup[i] = x
			}
		}
	}
	return m
}

// Blosum62 returns the BLOSUM62 matrix.
func Blosum62() *Matrix {
	return NewMatrix(blosum.Alphabet62, blosum.Matrix62)
}

// Score returns the substitution score of two residues.
func (m *Matrix) Score(a, b byte) int {
	i, j := m.lookup[a], m.lookup[b]
	if i < 0 || j < 0 {
		return 0
	}
	return m.scores[i][j]
}

// Scoring contains the matrix and the gap costs. Scores and costs are
// multiplied by Scale, so that a third of a codon score stays an integer.
type Scoring struct {
	Matrix *Matrix `toml:"-"`

	Scale        int `toml:"scale"`
	GapOpening   int `toml:"gap-opening"`
	GapExtension int `toml:"gap-extension"`
}

// DefaultScoring is the default value of Scoring, without the matrix.
var DefaultScoring = Scoring{
	Scale:        30,
	GapOpening:   10,
	GapExtension: 1,
}

// NewScoring returns a Scoring with the BLOSUM62 matrix and the given costs.
func NewScoring(scale, gapOpening, gapExtension int) *Scoring {
	return &Scoring{
		Matrix:       Blosum62(),
		Scale:        scale,
		GapOpening:   gapOpening,
		GapExtension: gapExtension,
	}
}

// ScaledScore returns the scaled substitution score of two residues.
func (s *Scoring) ScaledScore(a, b byte) int {
	return s.Matrix.Score(a, b) * s.Scale
}

// GapOpen returns the scaled gap opening cost.
func (s *Scoring) GapOpen() int { return s.GapOpening * s.Scale }

// GapExtend returns the scaled gap extension cost, for every gap column.
func (s *Scoring) GapExtend() int { return s.GapExtension * s.Scale }

// Validate checks the scale and the gap costs.
func (s *Scoring) Validate() error {
	if s.Scale <= 0 {
		return fmt.Errorf("the value of scale should be positive: %d", s.Scale)
	}
	if s.GapOpening < 0 || s.GapExtension < 0 {
		return fmt.Errorf("gap costs should not be negative: %d, %d", s.GapOpening, s.GapExtension)
	}
	return nil
}
