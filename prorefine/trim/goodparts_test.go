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
	"math/rand"
	"strings"
	"testing"

	"github.com/shenwei356/ProRefine/prorefine/alntext"
	"github.com/shenwei356/ProRefine/prorefine/scoring"
)

// randomText builds a valid alignment text of blocks of good and bad
// codons, with genomic and protein insertions, Ns, and codons split by
// introns.
func randomText(t *testing.T, r *rand.Rand, blocks int) *alntext.Text {
	var dna, tran, match, prot strings.Builder
	add := func(d, tr, m, p string) {
		dna.WriteString(d)
		tran.WriteString(tr)
		match.WriteString(m)
		prot.WriteString(p)
	}

	for b := 0; b < blocks; b++ {
		good := r.Intn(3) > 0
		n := 5 + r.Intn(40)
		for i := 0; i < n; i++ {
			x := r.Intn(100)
			if !good {
				x = 100 - x
			}
			switch {
			case x < 75:
				add("GCT", " A ", " | ", " A ")
			case x < 85:
				add("AAA", " K ", " + ", " R ")
			case x < 88:
				k := 1 + r.Intn(6)
				add(strings.Repeat("G", k), strings.Repeat(" ", k), strings.Repeat(" ", k), strings.Repeat("-", k))
			case x < 91:
				add("---", "   ", "   ", " A ")
			case x < 93:
				add("NNN", " X ", "   ", " A ")
			case x < 95:
				add("TAA", " * ", "   ", " W ")
			default:
				add("CCT", " P ", "   ", " W ")
			}
		}

		if b < blocks-1 && r.Intn(3) == 0 {
			// a codon split by an intron
			k := 10 + r.Intn(30)
			add("G"+strings.Repeat("g", k)+"CT",
				"a"+strings.Repeat(" ", k)+"aa",
				"|"+strings.Repeat(" ", k)+"||",
				"a"+strings.Repeat(string(alntext.IntronChar), k)+"aa")
		}
	}

	text, err := alntext.New([]byte(dna.String()), []byte(tran.String()),
		[]byte(match.String()), []byte(prot.String()))
	if err != nil {
		t.Fatal(err)
	}
	return text
}

type namedOptions struct {
	name string
	opt  Options
}

func optionSets() []namedOptions {
	sets := make([]namedOptions, 0, 6)
	sets = append(sets, namedOptions{"default", DefaultOptions})

	opt := DefaultOptions
	opt.FillHoles = true
	sets = append(sets, namedOptions{"fill holes", opt})

	opt = DefaultOptions
	opt.MinHoleLen = 0
	opt.CutFlanksWithPositDrop = false
	sets = append(sets, namedOptions{"no stitching", opt})

	opt = DefaultOptions
	opt.MinGoodLen = 10
	opt.TotalPositives = 50
	opt.FlankPositives = 30
	opt.MaxBadLen = 10
	sets = append(sets, namedOptions{"loose", opt})

	opt = DefaultOptions
	opt.MinGoodLen = 90
	opt.TotalPositives = 90
	opt.FlankPositives = 80
	opt.Dropoff = 10
	opt.WindowSize = 15
	opt.MaxCutLen = 30
	sets = append(sets, namedOptions{"strict", opt})

	opt = DefaultOptions
	opt.CutNs = false
	opt.CutFlankPartialCodons = false
	opt.StartBonus = 0
	opt.GapRatio = 3
	sets = append(sets, namedOptions{"no flank editing", opt})

	return sets
}

func checkPieces(t *testing.T, name string, ps []Piece, beg, end int) {
	t.Helper()
	for i, p := range ps {
		if p.Beg < beg || p.End > end || p.Beg >= p.End {
			t.Errorf("%s: piece %s out of [%d, %d)", name, p, beg, end)
		}
		if i > 0 && ps[i-1].End > p.Beg {
			t.Errorf("%s: pieces overlap or are not sorted: %s, %s", name, ps[i-1], p)
		}
	}
}

func TestGoodPartsInvariants(t *testing.T) {
	sc := scoring.NewScoring(30, 10, 1)
	r := rand.New(rand.NewSource(11))

	for round := 0; round < 50; round++ {
		text := randomText(t, r, 1+r.Intn(8))
		n := text.Len()
		match := text.AllPositiveMatch()

		for _, o := range optionSets() {
			name, opt := o.name, o.opt
			if err := opt.Validate(); err != nil {
				t.Fatalf("%s: %s", name, err)
			}

			ps, err := FindGoodParts(text, &opt, sc)
			if err != nil {
				t.Fatalf("%s: %s", name, err)
			}
			checkPieces(t, name, ps, 0, n)
			if opt.FillHoles && len(ps) > 1 {
				t.Errorf("%s: at most one piece expected with filled holes: %v", name, ps)
			}

			// segmenting the whole text and a part of it
			sub := Piece{Beg: r.Intn(n), End: n}
			sub.End = sub.Beg + 1 + r.Intn(n-sub.Beg)
			for _, pc := range []Piece{{Beg: 0, End: n}, sub} {
				ps = Segment(pc, match, text.Protein, &opt)
				checkPieces(t, name+": segment", ps, pc.Beg, pc.End)
				for _, p := range ps {
					if p.Posit <= 0 || p.EffLen < opt.MinGoodLen {
						t.Errorf("%s: bad piece returned by segmenting %s: %s", name, pc, p)
					}
				}

				ps = ExcludeBadExons(pc, match, text.Protein, &opt)
				checkPieces(t, name+": bad exons", ps, pc.Beg, pc.End)
			}
		}
	}
}

func TestHolesTwice(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		text := randomText(t, r, 1+r.Intn(8))
		match := text.AllPositiveMatch()

		opt := DefaultOptions
		opt.MinGoodLen = 10
		ps := Segment(Piece{Beg: 0, End: text.Len()}, match, text.Protein, &opt)

		once := FillHoles(append([]Piece{}, ps...))
		twice := FillHoles(append([]Piece{}, once...))
		if !equalRanges(twice, Ranges(once)) {
			t.Errorf("filling holes twice: %v, once: %v", twice, once)
		}
		if len(ps) > 0 && (len(once) != 1 || once[0].Beg != ps[0].Beg || once[0].End != ps[len(ps)-1].End) {
			t.Errorf("unexpected filled pieces: %v, from %v", once, ps)
		}

		for _, minHoleLen := range []int{0, 5, 30, 200} {
			once = StitchHoles(append([]Piece{}, ps...), text.DNA, text.Protein, minHoleLen)
			checkPieces(t, "stitch", once, 0, text.Len())
			twice = StitchHoles(append([]Piece{}, once...), text.DNA, text.Protein, minHoleLen)
			if !equalRanges(twice, Ranges(once)) {
				t.Errorf("stitching holes twice (%d): %v, once: %v", minHoleLen, twice, once)
			}
		}
	}
}
