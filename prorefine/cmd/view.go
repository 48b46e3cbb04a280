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
	"os"
	"strings"
	"time"

	"github.com/shenwei356/ProRefine/prorefine/spliced"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "View alignment texts with good parts marked",
	Long: `View alignment texts with good parts marked

Each alignment is shown in blocks of -w/--width columns, with genomic
positions at both ends of the dna row. Match characters out of good parts
are hidden, and columns of good parts are marked with "*" below the
protein row.

With -e/--exons, refined exons are listed after each alignment, one per
line: "exon", index, genomic start and end (1-based), product start and
end as amino_acid.frame, partial, acceptor, donor, and the CIGAR string.

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

		width := getFlagPositiveInt(cmd, "width")
		showExons := getFlagBool(cmd, "exons")

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

		rf := NewRefiner(cfg)
		rf.RefineExons = showExons

		total, failed, err := rf.Run(files, opt, func(res *Result) {
			if res.Err != nil {
				log.Warningf("%s: %s", res.File, res.Err)
				return
			}
			aln, err := res.Record.Alignment()
			if err != nil {
				log.Warningf("%s: %s", res.File, err)
				return
			}
			checkError(spliced.WriteText(outfh, aln, res.Text, res.Pieces, width))
			if showExons {
				checkError(spliced.WriteExons(outfh, res.Aln))
			}
		})
		checkError(err)

		if outputLog {
			log.Infof("processed records: %d, failed: %d", total, failed)
		}
	},
}

func init() {
	RootCmd.AddCommand(viewCmd)

	viewCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	viewCmd.Flags().IntP("width", "w", spliced.DefaultTextWidth,
		formatFlagUsage(`Number of columns in a block.`))

	viewCmd.Flags().BoolP("exons", "e", false,
		formatFlagUsage(`List refined exons after each alignment.`))

	addInputFlags(viewCmd)
	addTrimFlags(viewCmd)

	viewCmd.SetUsageTemplate(usageTemplate("[alignments.toml.gz ...] [-o alignments.txt]"))
}
