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
	"github.com/shenwei356/ProRefine/prorefine/record"
	"github.com/spf13/cobra"
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Trim alignments to good parts and refine exons",
	Long: `Trim alignments to good parts and refine exons

Input:
  Alignment records in TOML format, with the four-row alignment text and
  the exons of each alignment. Files can be gzipped.

Steps:
  1. Finding good parts of the alignment text:
     segmenting by positives, removing bad exons, trimming flanks with
     a positives dropoff, stitching holes, trimming tails with negative
     scores, removing Ns and partial codons, and restoring short flanks.
  2. Projecting good parts onto the exons: exons are split at bad parts,
     and exons without good parts are removed. Splice sites are cleared
     at trimmed ends, which are marked as partial.
  3. Recomputing scores of the alignment, on good parts only.

Output:
  Alignment records in TOML format, with refined exons, good parts
  (0-based, half-open column ranges), scores, and a match row in which
  columns out of good parts are marked as "X".
  Records failing to be processed are reported and skipped.

Options:
  Default values come from built-in defaults, a config file (-c/--config),
  and explicitly given flags, the later ones having higher priority.
  Use "prorefine utils defaults" to output the default config.

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

		keepFailed := getFlagBool(cmd, "keep-failed")

		if outputLog {
			log.Infof("ProRefine v%s", VERSION)
			log.Info("  https://github.com/shenwei356/ProRefine")
			log.Info()
		}

		// ---------------------------------------------------------------
		// input files

		if outputLog {
			log.Info("checking input files ...")
		}

		files := getInputFiles(cmd, args, opt.NumCPUs)
		checkOutFile(outFile, files, opt)

		if outputLog {
			if len(files) == 1 {
				if isStdin(files[0]) {
					log.Info("  no files given, reading from stdin")
				} else {
					log.Infof("  %d input file given: %s", len(files), files[0])
				}
			} else {
				log.Infof("  %d input file(s) given", len(files))
			}
			if cfg.Trim.PassThrough {
				log.Info("  pass-through mode: keeping whole alignments")
			}
		}

		// ---------------------------------------------------------------
		// refining

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
		rf.ValidateResidues = getFlagBool(cmd, "validate-seq")

		recs := make([]*record.Record, 0, 1024)
		var nExons, nExonsRefined int
		total, failed, err := rf.Run(files, opt, func(res *Result) {
			if res.Err != nil {
				log.Warningf("%s: %s", res.File, res.Err)
				if keepFailed {
					recs = append(recs, res.Record)
				}
				return
			}
			nExons += len(res.Record.Exons)
			res.Record.Update(res.Aln, res.Pieces, res.Masked)
			nExonsRefined += len(res.Record.Exons)
			recs = append(recs, res.Record)
		})
		checkError(err)

		checkError(record.Encode(outfh, recs))

		if outputLog {
			log.Info()
			log.Infof("processed records: %s, failed: %s", humanize.Comma(int64(total)), humanize.Comma(int64(failed)))
			log.Infof("exons: %s -> %s", humanize.Comma(int64(nExons)), humanize.Comma(int64(nExonsRefined)))
			if outFile != "-" {
				log.Infof("refined alignments saved to: %s", outFile)
			}
		}
		if failed > 0 && failed == total {
			checkError(fmt.Errorf("all %d records failed", total))
		}
	},
}

func init() {
	RootCmd.AddCommand(refineCmd)

	refineCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	refineCmd.Flags().BoolP("keep-failed", "k", false,
		formatFlagUsage(`Output records failed to be processed as they are.`))

	refineCmd.Flags().BoolP("validate-seq", "", false,
		formatFlagUsage(`Validate bases of the dna row and residues of the protein row.`))

	addInputFlags(refineCmd)
	addTrimFlags(refineCmd)

	refineCmd.SetUsageTemplate(usageTemplate("[alignments.toml.gz ...] [-o refined.toml.gz]"))
}
