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
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/ProRefine/prorefine/spliced"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute scores of good parts of alignments",
	Long: `Compute scores of good parts of alignments

Scores are computed on columns of good parts only. Columns of partial
codons count as a third of a codon, so all counts except alignment
length and gaps are in units of a third residue.

Output format:
  Tab-delimited format with 12 columns:

    1.  id,          Alignment ID.
    2.  genomic,     Genomic sequence ID.
    3.  product,     Product (protein) ID.
    4.  strand,      Genomic strand.
    5.  pieces,      Number of good parts.
    6.  ident,       Identities.
    7.  positives,   Positives, identities included.
    8.  negatives,   Negatives.
    9.  pgaps,       Gap columns in the product.
    10. ggaps,       Gap columns in the genomic sequence.
    11. alen,        Alignment length.
    12. pident,      Percentage of identities.

  Summary of pident is written to the log. With -p/--plot, a histogram
  of pident is saved.

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
		plotFile := getFlagString(cmd, "plot")
		bins := getFlagPositiveInt(cmd, "bins")

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
			fmt.Fprintln(outfh, "id\tgenomic\tproduct\tstrand\tpieces\tident\tpositives\tnegatives\tpgaps\tggaps\talen\tpident")
		}

		rf := NewRefiner(cfg)
		rf.RefineExons = false

		pidents := make([]float64, 0, 1024)
		var s *spliced.Scores
		var pident float64
		total, failed, err := rf.Run(files, opt, func(res *Result) {
			if res.Err != nil {
				log.Warningf("%s: %s", res.File, res.Err)
				return
			}
			rec := res.Record
			s = &res.Scores
			pident = s.PIdent()
			fmt.Fprintf(outfh, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.3f\n",
				rec.Name(), rec.GenomicID, rec.ProductID, rec.Strand, len(res.Pieces),
				s.Ident, s.Positives, s.Negatives, s.ProductGap, s.GenomicGap, s.AlignLength, pident)
			if s.AlignLength > 0 {
				pidents = append(pidents, pident)
			}
		})
		checkError(err)

		if outputLog {
			log.Infof("processed records: %d, failed: %d", total, failed)
			if len(pidents) > 0 {
				mean, std := stat.MeanStdDev(pidents, nil)
				sorts.Quicksort(sort.Float64Slice(pidents))
				median := stat.Quantile(0.5, stat.Empirical, pidents, nil)
				log.Infof("pident of %d alignments: mean %.3f, std %.3f, median %.3f, min %.3f, max %.3f",
					len(pidents), mean, std, median, pidents[0], pidents[len(pidents)-1])
			}
		}

		if plotFile != "" {
			if len(pidents) == 0 {
				log.Warningf("no alignments with good parts, skip plotting")
				return
			}
			checkError(plotHist(pidents, bins, plotFile))
			if outputLog {
				log.Infof("histogram of pident saved to: %s", plotFile)
			}
		}
	},
}

// plotHist saves a histogram of values. The format is decided by the file extension.
func plotHist(values []float64, bins int, file string) error {
	p := plot.New()
	p.Title.Text = "Percentage of identities in good parts"
	p.X.Label.Text = "pident"
	p.Y.Label.Text = "alignments"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return errors.Wrap(err, "plotting histogram")
	}
	p.Add(h)

	return errors.Wrapf(p.Save(6*vg.Inch, 4*vg.Inch, file), "saving plot: %s", file)
}

func init() {
	RootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	scoreCmd.Flags().BoolP("no-header-row", "H", false,
		formatFlagUsage(`Do not output header row.`))

	scoreCmd.Flags().StringP("plot", "p", "",
		formatFlagUsage(`Save a histogram of pident to a file, supported formats: .png, .jpg, .svg, .pdf, .eps, .tif.`))

	scoreCmd.Flags().IntP("bins", "b", 50,
		formatFlagUsage(`Number of bins of the histogram.`))

	addInputFlags(scoreCmd)
	addTrimFlags(scoreCmd)

	scoreCmd.SetUsageTemplate(usageTemplate("[alignments.toml.gz ...] [-o scores.tsv] [-p pident.png]"))
}
