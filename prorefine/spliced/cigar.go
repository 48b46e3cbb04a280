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

package spliced

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// The product is treated as the query and the genomic sequence as the
// reference:
//
//	M  Diag
//	=  Match
//	X  Mismatch
//	I  ProductIns
//	D  GenomicIns
var kind2op = map[ChunkKind]sam.CigarOpType{
	Diag:       sam.CigarMatch,
	Match:      sam.CigarEqual,
	Mismatch:   sam.CigarMismatch,
	ProductIns: sam.CigarInsertion,
	GenomicIns: sam.CigarDeletion,
}

var op2kind = map[sam.CigarOpType]ChunkKind{
	sam.CigarMatch:     Diag,
	sam.CigarEqual:     Match,
	sam.CigarMismatch:  Mismatch,
	sam.CigarInsertion: ProductIns,
	sam.CigarDeletion:  GenomicIns,
}

// ParseChunks parses chunks from a CIGAR string.
func ParseChunks(s string) ([]Chunk, error) {
	cigar, err := sam.ParseCigar([]byte(s))
	if err != nil {
		return nil, err
	}
	chunks := make([]Chunk, 0, len(cigar))
	for _, op := range cigar {
		kind, ok := op2kind[op.Type()]
		if !ok {
			return nil, fmt.Errorf("unsupported CIGAR operation: %s", op)
		}
		if op.Len() <= 0 {
			return nil, fmt.Errorf("invalid CIGAR operation length: %s", op)
		}
		chunks = append(chunks, Chunk{Kind: kind, Len: op.Len()})
	}
	return chunks, nil
}

// FormatChunks formats chunks as a CIGAR string.
func FormatChunks(chunks []Chunk) string {
	cigar := make(sam.Cigar, len(chunks))
	for i, c := range chunks {
		cigar[i] = sam.NewCigarOp(kind2op[c.Kind], c.Len)
	}
	return cigar.String()
}
