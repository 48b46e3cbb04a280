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

import "fmt"

// Options contains all options of finding good parts of an alignment.
// Percentages are integers in [0, 100].
type Options struct {
	// keep one piece from the first to the last aligned protein column
	PassThrough bool `toml:"pass-through"`

	// stitching
	FillHoles  bool `toml:"fill-holes"`   // keep everything between the first and the last piece
	MinHoleLen int  `toml:"min-hole-len"` // stitch pieces separated by fewer residues or bases than this, 0 for off

	// flank editing
	CutNs                 bool `toml:"cut-ns"`                   // remove trailing Ns
	CutFlankPartialCodons bool `toml:"cut-flank-partial-codons"` // remove partial codons at piece ends

	// segmentation
	MinGoodLen         int `toml:"min-good-len"`          // minimum effective length of a good piece
	MaxBadLen          int `toml:"max-bad-len"`           // a bad piece longer than this is never bridged
	TotalPositives     int `toml:"total-positives"`       // minimum percentage of positives in a merged piece
	FlankPositives     int `toml:"flank-positives"`       // minimum percentage of positives of a joined part
	MinFlankingExonLen int `toml:"min-flanking-exon-len"` // used to compute the splice cost
	StartBonus         int `toml:"start-bonus"`           // bonus for a putative start codon

	// bad exons
	MinExonID  int `toml:"min-exon-id"`  // minimum percentage of identities in an exon
	MinExonPos int `toml:"min-exon-pos"` // minimum percentage of positives in an exon

	// flank trimming with positives dropoff
	CutFlanksWithPositDrop bool `toml:"cut-flanks-with-posit-drop"`
	Dropoff                int  `toml:"dropoff"`     // percentage
	WindowSize             int  `toml:"window-size"` // columns
	MaxCutLen              int  `toml:"max-cut-len"` // columns
	GapRatio               int  `toml:"gap-ratio"`   // pseudo length of a match, a mismatch or a gap opening
}

// DefaultOptions is the default value of Options, keeping holes between good pieces.
var DefaultOptions = Options{
	PassThrough: false,

	FillHoles:  false,
	MinHoleLen: 200,

	CutNs:                 true,
	CutFlankPartialCodons: true,

	MinGoodLen:         59,
	MaxBadLen:          45,
	TotalPositives:     70,
	FlankPositives:     55,
	MinFlankingExonLen: 15,
	StartBonus:         8,

	MinExonID:  30,
	MinExonPos: 55,

	CutFlanksWithPositDrop: true,
	Dropoff:                35,
	WindowSize:             45,
	MaxCutLen:              1000,
	GapRatio:               1,
}

// PassThroughOptions keeps the whole alignment.
var PassThroughOptions = Options{
	PassThrough: true,

	MinGoodLen:         DefaultOptions.MinGoodLen,
	MaxBadLen:          DefaultOptions.MaxBadLen,
	TotalPositives:     DefaultOptions.TotalPositives,
	FlankPositives:     DefaultOptions.FlankPositives,
	MinFlankingExonLen: DefaultOptions.MinFlankingExonLen,
	StartBonus:         DefaultOptions.StartBonus,
	MinExonID:          DefaultOptions.MinExonID,
	MinExonPos:         DefaultOptions.MinExonPos,
	Dropoff:            DefaultOptions.Dropoff,
	WindowSize:         DefaultOptions.WindowSize,
	MaxCutLen:          DefaultOptions.MaxCutLen,
	GapRatio:           DefaultOptions.GapRatio,
}

// Drop is the part of TotalPositives a joined part is allowed to lose.
func (o *Options) Drop() int {
	return o.TotalPositives - o.FlankPositives
}

// SpliceCost is the effective length added once for every intron.
func (o *Options) SpliceCost() int {
	if o.FlankPositives == 0 {
		return 0
	}
	return (100 - o.FlankPositives) * o.MinFlankingExonLen / o.FlankPositives
}

// Validate checks the values of options.
func (o *Options) Validate() error {
	for _, p := range []struct {
		name  string
		value int
	}{
		{"total-positives", o.TotalPositives},
		{"flank-positives", o.FlankPositives},
		{"min-exon-id", o.MinExonID},
		{"min-exon-pos", o.MinExonPos},
		{"dropoff", o.Dropoff},
	} {
		if p.value < 0 || p.value > 100 {
			return fmt.Errorf("the value of %s should be in range of [0, 100]: %d", p.name, p.value)
		}
	}
	if o.FlankPositives > o.TotalPositives {
		return fmt.Errorf("the value of flank-positives (%d) should not be greater than total-positives (%d)",
			o.FlankPositives, o.TotalPositives)
	}
	for _, p := range []struct {
		name  string
		value int
	}{
		{"min-hole-len", o.MinHoleLen},
		{"min-good-len", o.MinGoodLen},
		{"max-bad-len", o.MaxBadLen},
		{"min-flanking-exon-len", o.MinFlankingExonLen},
		{"start-bonus", o.StartBonus},
		{"max-cut-len", o.MaxCutLen},
	} {
		if p.value < 0 {
			return fmt.Errorf("the value of %s should not be negative: %d", p.name, p.value)
		}
	}
	if o.CutFlanksWithPositDrop {
		if o.WindowSize <= 0 {
			return fmt.Errorf("the value of window-size should be positive: %d", o.WindowSize)
		}
		if o.GapRatio <= 0 {
			return fmt.Errorf("the value of gap-ratio should be positive: %d", o.GapRatio)
		}
	}
	return nil
}

// "really bad", never bridged
func (o *Options) bad(p *Piece) bool {
	return p.EffLen > o.MaxBadLen
}

// dropoff tells if a part with the given counts plus p loses too many positives.
func (o *Options) dropoff(efflen, posit int, p *Piece) bool {
	return (o.TotalPositives-o.Drop())*(efflen+p.EffLen) > 100*(posit+p.Posit)
}

// perc tells if cur joined with add and the part between them has enough positives.
func (o *Options) perc(add *Piece, efflen, posit int, cur *Piece) bool {
	if o.dropoff(efflen, posit, add) {
		return false
	}
	if o.TotalPositives*(efflen+cur.EffLen+add.EffLen) > 100*(posit+cur.Posit+add.Posit) {
		return false
	}
	return true
}

// forwCheck checks every part ending right before a bad piece in ps[i:j+1], going forward.
func (o *Options) forwCheck(ps []Piece, i, j int) bool {
	efflen, posit := ps[i].EffLen, ps[i].Posit
	for i != j {
		i++
		if o.dropoff(efflen, posit, &ps[i]) {
			return false
		}
		efflen += ps[i].EffLen
		posit += ps[i].Posit
		i++
		efflen += ps[i].EffLen
		posit += ps[i].Posit
	}
	return true
}

// backCheck is the mirror of forwCheck, going backward from ps[j].
func (o *Options) backCheck(ps []Piece, i, j int) bool {
	efflen, posit := ps[j].EffLen, ps[j].Posit
	for i != j {
		j--
		if o.dropoff(efflen, posit, &ps[j]) {
			return false
		}
		efflen += ps[j].EffLen
		posit += ps[j].Posit
		j--
		efflen += ps[j].EffLen
		posit += ps[j].Posit
	}
	return true
}
