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
	"errors"
	"strings"
	"testing"

	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/scoring"
)

func newText(t *testing.T, dna, tran, match, protein string) *alntext.Text {
	text, err := alntext.New([]byte(dna), []byte(tran), []byte(match), []byte(protein))
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func equalRanges(ps []Piece, expected [][2]int) bool {
	if len(ps) != len(expected) {
		return false
	}
	for i, p := range ps {
		if p.Beg != expected[i][0] || p.End != expected[i][1] {
			return false
		}
	}
	return true
}

func TestSegment(t *testing.T) {
	match := []byte("  ||||   ++|||  ")
	protein := []byte(strings.Repeat("a", len(match)))

	opt := DefaultOptions
	opt.MinGoodLen = 3
	opt.TotalPositives = 80
	opt.FlankPositives = 55

	ps := Segment(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if !equalRanges(ps, [][2]int{{2, 6}, {9, 14}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}

	// loose thresholds, pieces are joined
	opt.TotalPositives = 30
	opt.FlankPositives = 0
	ps = Segment(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if !equalRanges(ps, [][2]int{{2, 14}}) {
		t.Fatalf("unexpected pieces: %v", ps)
	}
	if ps[0].Posit != 9 || ps[0].EffLen != 12 {
		t.Errorf("unexpected counts of joined piece: %s", ps[0])
	}

	// a long bad piece is never bridged
	opt.MaxBadLen = 2
	ps = Segment(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if !equalRanges(ps, [][2]int{{2, 6}, {9, 14}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}
}

func TestSegmentNoPositives(t *testing.T) {
	match := []byte("XXXXXXXX")
	protein := []byte("aaaaaaaa")
	if ps := Segment(Piece{0, len(match), 0, 0}, match, protein, &DefaultOptions); len(ps) != 0 {
		t.Errorf("no pieces expected, returned: %v", ps)
	}
}

func TestSegmentStartBonus(t *testing.T) {
	// 20 positive columns starting with a methionine
	match := []byte(" " + strings.Repeat("|", 20))
	protein := []byte(" M" + strings.Repeat("a", 19))

	opt := DefaultOptions
	opt.MinGoodLen = 1
	ps := Segment(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if len(ps) != 1 {
		t.Fatalf("one piece expected, returned: %v", ps)
	}
	// no bonus, the first positive column is not the first protein column
	if ps[0].EffLen != 20 {
		t.Errorf("unexpected efflen: %d", ps[0].EffLen)
	}

	match = []byte(strings.Repeat("|", 21))
	ps = Segment(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if len(ps) != 1 || ps[0].EffLen != 21+opt.StartBonus {
		t.Errorf("start bonus expected: %v", ps)
	}
}

func TestSegmentSpliceCost(t *testing.T) {
	match := []byte("||||||      ||||||")
	protein := []byte("aaaaaa......aaaaaa")

	opt := DefaultOptions
	opt.MinGoodLen = 1
	opt.TotalPositives = 30
	opt.FlankPositives = 20
	opt.MinFlankingExonLen = 10
	// splice cost: (100-20)*10/20 = 40
	if opt.SpliceCost() != 40 {
		t.Fatalf("unexpected splice cost: %d", opt.SpliceCost())
	}
	ps := Segment(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if len(ps) != 2 {
		t.Errorf("the intron should not be bridged: %v", ps)
	}
}

func TestExcludeBadExons(t *testing.T) {
	intron := "..."
	exon := strings.Repeat("a", 10)
	protein := []byte(exon + intron + exon + intron + exon)
	match := []byte(strings.Repeat("|", 10) + "   " + strings.Repeat(" ", 10) + "   " + strings.Repeat("|", 10))

	opt := DefaultOptions
	opt.MinExonPos = 50
	opt.MinExonID = 0

	ps := ExcludeBadExons(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if !equalRanges(ps, [][2]int{{0, 10}, {26, 36}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}

	// all exons are good
	opt.MinExonPos = 0
	ps = ExcludeBadExons(Piece{0, len(match), 0, 0}, match, protein, &opt)
	if !equalRanges(ps, [][2]int{{0, 36}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}
}

func TestTrimNegativeTail(t *testing.T) {
	sc := scoring.NewScoring(30, 10, 1)

	text := &alntext.Text{
		DNA:         []byte("ATGTGG"),
		Translation: []byte(" M  P "),
		Match:       []byte(" |    "),
		Protein:     []byte(" M  W "),
	}
	pc := Piece{Beg: 0, End: 6}
	trimmed, err := TrimNegativeTail(&pc, text, sc)
	if err != nil {
		t.Fatal(err)
	}
	if !trimmed || pc.End != 4 {
		t.Errorf("the mismatched codon should be trimmed: %v, %s", trimmed, pc)
	}

	text.Translation = []byte(" M  W ")
	pc = Piece{Beg: 0, End: 6}
	trimmed, err = TrimNegativeTail(&pc, text, sc)
	if err != nil {
		t.Fatal(err)
	}
	if trimmed || pc.End != 6 {
		t.Errorf("nothing should be trimmed: %s", pc)
	}

	// intron
	text.Protein = []byte(" M ...")
	pc = Piece{Beg: 0, End: 6}
	if trimmed, _ = TrimNegativeTail(&pc, text, sc); trimmed {
		t.Errorf("should stop at the intron")
	}

	// partial codon of translation against a full residue
	text.Protein = []byte("    W ")
	text.Translation = []byte("    p ")
	pc = Piece{Beg: 0, End: 6}
	if _, err = TrimNegativeTail(&pc, text, sc); !errors.Is(err, alntext.ErrFormat) {
		t.Errorf("ErrFormat expected, returned: %v", err)
	}
}

func TestCutFlanks(t *testing.T) {
	opt := DefaultOptions

	n := 90
	dna := strings.Repeat("A", n)
	protein := strings.Repeat("a", n)

	text := newText(t, dna, protein, strings.Repeat(" ", 30)+strings.Repeat("|", 60), protein)
	trimmer := NewTrimmer(text)
	if beg := trimmer.CutFromLeft(Piece{Beg: 0, End: n}, &opt); beg != 30 {
		t.Errorf("left flank: expected 30, returned %d", beg)
	}

	text = newText(t, dna, protein, strings.Repeat("|", 60)+strings.Repeat(" ", 30), protein)
	trimmer = NewTrimmer(text)
	if end := trimmer.CutFromRight(Piece{Beg: 0, End: n}, &opt); end != 60 {
		t.Errorf("right flank: expected 60, returned %d", end)
	}

	// short piece
	if end := trimmer.CutFromRight(Piece{Beg: 20, End: 60}, &opt); end != 60 {
		t.Errorf("a piece shorter than the window should not be trimmed: %d", end)
	}

	opt.CutFlanksWithPositDrop = false
	if end := trimmer.CutFromRight(Piece{Beg: 0, End: n}, &opt); end != n {
		t.Errorf("trimming is disabled, returned %d", end)
	}
}

func TestRestoreFlanks(t *testing.T) {
	text := newText(t,
		"ATGGCGAAAGGG",
		" M  A  K  G ",
		" |  |  |  | ",
		" M  A  K  G ")
	trimmer := NewTrimmer(text)
	if beg := trimmer.RestoreFivePrime(6); beg != 0 {
		t.Errorf("5' flank should be restored: %d", beg)
	}
	if end := trimmer.RestoreThreePrime(6); end != 12 {
		t.Errorf("3' flank should be restored: %d", end)
	}

	// stop codon
	text = newText(t,
		"ATGGCGTAAGGG",
		" M  A  *  G ",
		" |  |     | ",
		" M  A  K  G ")
	trimmer = NewTrimmer(text)
	if end := trimmer.RestoreThreePrime(6); end != 6 {
		t.Errorf("3' flank with a stop codon should not be restored: %d", end)
	}

	// intron
	text = newText(t,
		"ATGGTAAGGCGAAAGG",
		" M .... A  K  G ",
		" |      |  |  | ",
		" M .... A  K  G ")
	trimmer = NewTrimmer(text)
	if beg := trimmer.RestoreFivePrime(8); beg != 8 {
		t.Errorf("5' flank with an intron should not be restored: %d", beg)
	}
}

func TestCutPartialCodons(t *testing.T) {
	protein := []byte("ab A  B cd")
	ps := CutPartialCodons([]Piece{{Beg: 0, End: 10}, {Beg: 8, End: 10}}, protein)
	if !equalRanges(ps, [][2]int{{2, 8}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}

	// the last column of a codon was cut
	ps = CutPartialCodons([]Piece{{Beg: 2, End: 7}}, protein)
	if !equalRanges(ps, [][2]int{{2, 5}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}
}

func TestCutNs(t *testing.T) {
	dna := []byte("ACGTNNNNNN")
	ps := CutNs([]Piece{{Beg: 0, End: 7}, {Beg: 5, End: 10}}, dna)
	if !equalRanges(ps, [][2]int{{0, 4}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}
}

func TestStitchHoles(t *testing.T) {
	dna := []byte("AAAA----AAAAAAAA")
	protein := []byte("aaaaa...aaaaaaaa")
	ps := []Piece{{Beg: 0, End: 4}, {Beg: 8, End: 12}, {Beg: 14, End: 16}}
	ps = StitchHoles(ps, dna, protein, 2)
	if !equalRanges(ps, [][2]int{{0, 12}, {14, 16}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}

	if ps = FillHoles(ps); !equalRanges(ps, [][2]int{{0, 16}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}
}

func codons(aa string, codon string) (dna, row, match string) {
	var d, r, m strings.Builder
	for i := 0; i < len(aa); i++ {
		d.WriteString(codon)
		r.WriteString(" " + aa[i:i+1] + " ")
		m.WriteString(" | ")
	}
	return d.String(), r.String(), m.String()
}

func TestFindGoodParts(t *testing.T) {
	sc := scoring.NewScoring(30, 10, 1)

	dna, row, match := codons("M"+strings.Repeat("A", 29), "GCT")
	text := newText(t, dna, row, match, row)
	ps, err := FindGoodParts(text, &DefaultOptions, sc)
	if err != nil {
		t.Fatal(err)
	}
	if !equalRanges(ps, [][2]int{{0, 90}}) {
		t.Errorf("the whole alignment should be kept: %v", ps)
	}

	// mismatched tail
	tdna := dna + strings.Repeat("CCT", 5)
	tran := row + strings.Repeat(" P ", 5)
	tmatch := match + strings.Repeat(" ", 15)
	prot := row + strings.Repeat(" W ", 5)
	text = newText(t, tdna, tran, tmatch, prot)
	ps, err = FindGoodParts(text, &DefaultOptions, sc)
	if err != nil {
		t.Fatal(err)
	}
	if !equalRanges(ps, [][2]int{{0, 90}}) {
		t.Errorf("the mismatched tail should be removed: %v", ps)
	}

	// nothing good
	text = newText(t, tdna, tran, strings.Repeat(" ", len(tmatch)), prot)
	ps, err = FindGoodParts(text, &DefaultOptions, sc)
	if err != nil {
		t.Fatal(err)
	}
	if len(ps) != 0 {
		t.Errorf("no pieces expected: %v", ps)
	}
}

func TestFindGoodPartsPassThrough(t *testing.T) {
	text := newText(t, "--ACG-", "-- A -", "   |  ", "-- A -")
	ps, err := FindGoodParts(text, &PassThroughOptions, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !equalRanges(ps, [][2]int{{2, 5}}) {
		t.Errorf("unexpected pieces: %v", ps)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions.Validate(); err != nil {
		t.Errorf("default options should be valid: %s", err)
	}
	opt := DefaultOptions
	opt.FlankPositives = opt.TotalPositives + 1
	if err := opt.Validate(); err == nil {
		t.Errorf("error expected for flank-positives > total-positives")
	}
	opt = DefaultOptions
	opt.Dropoff = 101
	if err := opt.Validate(); err == nil {
		t.Errorf("error expected for dropoff out of range")
	}
}
