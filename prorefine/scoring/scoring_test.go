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

package scoring

import "testing"

func TestBlosum62(t *testing.T) {
	m := Blosum62()

	// a few well-known BLOSUM62 values
	for _, c := range []struct {
		a, b  byte
		score int
	}{
		{'A', 'A', 4},
		{'W', 'W', 11},
		{'C', 'C', 9},
		{'A', 'R', -1},
		{'L', 'I', 2},
		{'W', 'G', -2},
	} {
		if s := m.Score(c.a, c.b); s != c.score {
			t.Errorf("%c-%c: expected %d, returned %d", c.a, c.b, c.score, s)
		}
		if s := m.Score(c.b, c.a); s != c.score {
			t.Errorf("%c-%c: the matrix should be symmetric", c.b, c.a)
		}
	}

	if m.Score('a', 'a') != m.Score('A', 'A') {
		t.Errorf("lookup should be case-insensitive")
	}
}

func TestScaled(t *testing.T) {
	s := NewScoring(30, 10, 1)
	if s.ScaledScore('A', 'A') != 120 {
		t.Errorf("unexpected scaled score: %d", s.ScaledScore('A', 'A'))
	}
	if s.GapOpen() != 300 || s.GapExtend() != 30 {
		t.Errorf("unexpected gap costs: %d, %d", s.GapOpen(), s.GapExtend())
	}
}
