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

package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var piecesCmd = &cobra.Command{
	Use:   "pieces",
	Short: "Output good parts of alignments",
	Long: `Output good parts of alignments

Exons are not refined.

Output format:
  Tab-delimited format with 8 columns:

    1. id,       Alignment ID.
    2. genomic,  Genomic sequence ID.
    3. product,  Product (protein) ID.
    4. strand,   Genomic strand.
    5. piece,    Index of the good part, 1-based.
    6. beg,      Start column in the alignment text, 1-based.
    7. end,      End column in the alignment text, 1-based and inclusive.
    8. len,      Number of columns.

  Alignments without good parts have one line with empty piece columns.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		outFile := getFlagString(cmd, "out-file")

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}

		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		cfg, err := loadConfig(cmd, opt.ConfigFile)
		checkError(err)

		noHeader := getFlagBool(cmd, "no-header-row")

		files := getInputFiles(cmd, args, opt.NumCPUs)
		checkOutFile(outFile, files, opt)

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		if !noHeader {
			fmt.Fprintln(outfh, "id\tgenomic\tproduct\tstrand\tpiece\tbeg\tend\tlen")
		}

		rf := NewRefiner(cfg)
		rf.RefineExons = false

		var nPieces int
		total, failed, err := rf.Run(files, opt, func(res *Result) {
			if res.Err != nil {
				log.Warningf("%s: %s", res.File, res.Err)
				return
			}
			rec := res.Record
			if len(res.Pieces) == 0 {
				fmt.Fprintf(outfh, "%s\t%s\t%s\t%s\t\t\t\t\n", rec.Name(), rec.GenomicID, rec.ProductID, rec.Strand)
				return
			}
			for i, p := range res.Pieces {
				fmt.Fprintf(outfh, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
					rec.Name(), rec.GenomicID, rec.ProductID, rec.Strand,
					i+1, p.Beg+1, p.End, p.Len())
			}
			nPieces += len(res.Pieces)
		})
		checkError(err)

		if outputLog {
			log.Infof("processed records: %s, failed: %s, good parts: %s",
				humanize.Comma(int64(total)), humanize.Comma(int64(failed)), humanize.Comma(int64(nPieces)))
		}
	},
}

func init() {
	RootCmd.AddCommand(piecesCmd)

	piecesCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	piecesCmd.Flags().BoolP("no-header-row", "H", false,
		formatFlagUsage(`Do not output header row.`))

	addInputFlags(piecesCmd)
	addTrimFlags(piecesCmd)

	piecesCmd.SetUsageTemplate(usageTemplate("[alignments.toml.gz ...] [-o pieces.tsv]"))
}
