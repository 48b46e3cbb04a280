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

package util

import "slices"

// IsUpper tells if a byte is an upper-case ASCII letter.
func IsUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// IsLower tells if a byte is a lower-case ASCII letter.
func IsLower(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// IsAlpha tells if a byte is an ASCII letter.
func IsAlpha(b byte) bool {
	return IsUpper(b) || IsLower(b)
}

// ToUpper converts an ASCII letter to upper case.
func ToUpper(b byte) byte {
	if IsLower(b) {
		return b - 32
	}
	return b
}

// FirstNotOf returns the index of the first byte not in chars, or -1.
func FirstNotOf(s []byte, chars ...byte) int {
	for i, b := range s {
		if !slices.Contains(chars, b) {
			return i
		}
	}
	return -1
}

// LastNotOf returns the index of the last byte not in chars, or -1.
func LastNotOf(s []byte, chars ...byte) int {
	for i := len(s) - 1; i >= 0; i-- {
		if !slices.Contains(chars, s[i]) {
			return i
		}
	}
	return -1
}
