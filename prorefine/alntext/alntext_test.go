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

package alntext

import (
	"errors"
	"testing"
)

// the example in the package document
var (
	exDNA     = "GATGAAACAGCACTAGTGACAGGTAAA"
	exTran    = " D  E  T  A  L  V  T  G  K "
	exMatch   = " |  |     +        |  |  | "
	exProtein = " D  E  Q  S  F --- T  G  K "
)

func example(t *testing.T) *Text {
	text, err := New([]byte(exDNA), []byte(exTran), []byte(exMatch), []byte(exProtein))
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func TestPosit(t *testing.T) {
	text := example(t)
	expected := "++++++   +++      +++++++++"
	if s := string(text.Posit()); s != expected {
		t.Errorf("expected:\n%s\nreturned:\n%s", expected, s)
	}
}

func TestAllPositiveMatch(t *testing.T) {
	text := example(t)
	expected := "||||||   +++      |||||||||"
	if s := string(text.AllPositiveMatch()); s != expected {
		t.Errorf("expected:\n%s\nreturned:\n%s", expected, s)
	}
	if string(text.Match) != exMatch {
		t.Errorf("the match row should not be modified")
	}
}

func TestFormatErrors(t *testing.T) {
	_, err := New([]byte("ACG"), []byte(" A "), []byte(" | "), []byte(" A"))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("unequal rows: expected ErrFormat, returned %v", err)
	}

	_, err = New([]byte("ACGT"), []byte(" AA "), []byte(" || "), []byte(" AA "))
	if !errors.Is(err, ErrFormat) {
		t.Errorf("codon pairing: expected ErrFormat, returned %v", err)
	}

	// full codons at the edges of the text
	for _, protein := range []string{"A     ", "     A", "A  -- "} {
		_, err = New([]byte("ACGTAC"), []byte("      "), []byte("      "), []byte(protein))
		if !errors.Is(err, ErrFormat) {
			t.Errorf("codon at an edge %q: expected ErrFormat, returned %v", protein, err)
		}
	}

	// lowercase residues of partial codons are allowed at the edges
	if _, err = New([]byte("ACGTAC"), []byte("      "), []byte("      "), []byte("a  -- ")); err != nil {
		t.Errorf("partial codon at an edge: unexpected error %v", err)
	}
}

func TestMask(t *testing.T) {
	text := example(t)
	m := text.Mask([][2]int{{0, 6}, {18, 24}})
	expected := " |  | XXXXXXXXXXXX |  | XXX"
	if s := string(m.Match); s != expected {
		t.Errorf("expected:\n%s\nreturned:\n%s", expected, s)
	}
}

func TestProteinSpan(t *testing.T) {
	text, err := New([]byte("--ACG-"), []byte("-- A -"), []byte("   |  "), []byte("-- A -"))
	if err != nil {
		t.Fatal(err)
	}
	first, last, ok := text.ProteinSpan()
	if !ok || first != 2 || last != 4 {
		t.Errorf("unexpected span: %d, %d, %v", first, last, ok)
	}

	text, _ = New([]byte("AC"), []byte("  "), []byte("  "), []byte("--"))
	if _, _, ok = text.ProteinSpan(); ok {
		t.Errorf("all-gap protein row should have no span")
	}
}

func TestValidateResidues(t *testing.T) {
	text := example(t)
	if err := text.ValidateResidues(); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
