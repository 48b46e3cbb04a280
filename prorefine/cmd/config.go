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
	"io"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/ProRefine/prorefine/scoring"
	"github.com/shenwei356/ProRefine/prorefine/trim"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

// Config contains options of trimming and scoring.
type Config struct {
	Trim    trim.Options    `toml:"trim"`
	Scoring scoring.Scoring `toml:"scoring"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Trim:    trim.DefaultOptions,
		Scoring: scoring.DefaultScoring,
	}
}

// decodeConfig overwrites values of cfg with the ones in r.
// Missing keys keep their values, unknown keys are not allowed.
func decodeConfig(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func encodeConfig(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(cfg)
}

func readConfig(file string, cfg *Config) error {
	file, err := homedir.Expand(file)
	if err != nil {
		return errors.Wrapf(err, "expanding path: %s", file)
	}
	fh, err := xopen.Ropen(file)
	if err != nil {
		return errors.Wrapf(err, "reading config file: %s", file)
	}
	defer fh.Close()

	if err = decodeConfig(fh, cfg); err != nil {
		return errors.Wrapf(err, "parsing config file: %s", file)
	}
	return nil
}

type intFlag struct {
	name, short string
	field       func(*Config) *int
	usage       string
}

type boolFlag struct {
	name  string
	field func(*Config) *bool
	usage string
}

var trimIntFlags = []intFlag{
	{"min-hole-len", "", func(c *Config) *int { return &c.Trim.MinHoleLen },
		`Stitch good parts separated by holes shorter than this value (0 for off).`},
	{"min-good-len", "", func(c *Config) *int { return &c.Trim.MinGoodLen },
		`Minimum effective length of a good part.`},
	{"max-bad-len", "", func(c *Config) *int { return &c.Trim.MaxBadLen },
		`Bad parts longer than this value are never bridged.`},
	{"total-positives", "", func(c *Config) *int { return &c.Trim.TotalPositives },
		`Minimum percentage of positives in a good part.`},
	{"flank-positives", "", func(c *Config) *int { return &c.Trim.FlankPositives },
		`Minimum percentage of positives in a part joined to a good part.`},
	{"min-flanking-exon-len", "", func(c *Config) *int { return &c.Trim.MinFlankingExonLen },
		`Minimum length of an exon next to an intron, used to compute the cost of a splice.`},
	{"start-bonus", "", func(c *Config) *int { return &c.Trim.StartBonus },
		`Bonus for a start codon aligned to the first residue of the protein.`},
	{"min-exon-id", "", func(c *Config) *int { return &c.Trim.MinExonID },
		`Minimum percentage of identities in an exon.`},
	{"min-exon-pos", "", func(c *Config) *int { return &c.Trim.MinExonPos },
		`Minimum percentage of positives in an exon.`},
	{"dropoff", "", func(c *Config) *int { return &c.Trim.Dropoff },
		`Percentage of positives dropoff for trimming flanks.`},
	{"window-size", "", func(c *Config) *int { return &c.Trim.WindowSize },
		`Window size for trimming flanks.`},
	{"max-cut-len", "", func(c *Config) *int { return &c.Trim.MaxCutLen },
		`Maximum length to cut from a flank.`},
	{"gap-ratio", "", func(c *Config) *int { return &c.Trim.GapRatio },
		`Pseudo length of a match, a mismatch or a gap opening, when trimming flanks.`},
}

var trimBoolFlags = []boolFlag{
	{"pass-through", func(c *Config) *bool { return &c.Trim.PassThrough },
		`Keep the whole alignment, from the first to the last aligned residue.`},
	{"fill-holes", func(c *Config) *bool { return &c.Trim.FillHoles },
		`Keep everything between the first and the last good part.`},
	{"cut-ns", func(c *Config) *bool { return &c.Trim.CutNs },
		`Remove Ns at both ends of good parts.`},
	{"cut-flank-partial-codons", func(c *Config) *bool { return &c.Trim.CutFlankPartialCodons },
		`Remove partial codons at both ends of good parts.`},
	{"cut-flanks-with-posit-drop", func(c *Config) *bool { return &c.Trim.CutFlanksWithPositDrop },
		`Trim outer flanks with the positives dropoff.`},
}

var scoringIntFlags = []intFlag{
	{"gap-opening", "", func(c *Config) *int { return &c.Scoring.GapOpening },
		`Gap opening cost, when trimming tails with negative scores.`},
	{"gap-extension", "", func(c *Config) *int { return &c.Scoring.GapExtension },
		`Gap extension cost, when trimming tails with negative scores.`},
}

// addTrimFlags adds flags of trimming and scoring options, with default values.
func addTrimFlags(cmd *cobra.Command) {
	def := DefaultConfig()
	for _, f := range append(trimIntFlags, scoringIntFlags...) {
		cmd.Flags().IntP(f.name, f.short, *f.field(def), formatFlagUsage(f.usage))
	}
	for _, f := range trimBoolFlags {
		cmd.Flags().BoolP(f.name, "", *f.field(def), formatFlagUsage(f.usage))
	}
}

// applyFlags overwrites values of cfg with flags explicitly given.
func applyFlags(cmd *cobra.Command, cfg *Config) error {
	var err error
	for _, f := range append(trimIntFlags, scoringIntFlags...) {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if *f.field(cfg), err = cmd.Flags().GetInt(f.name); err != nil {
			return err
		}
	}
	for _, f := range trimBoolFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if *f.field(cfg), err = cmd.Flags().GetBool(f.name); err != nil {
			return err
		}
	}
	return nil
}

// loadConfig returns the config of a command. Values come from defaults
// (trim.PassThroughOptions with --pass-through), the config file, and
// explicitly given flags, the later ones having higher priority.
func loadConfig(cmd *cobra.Command, file string) (*Config, error) {
	cfg := DefaultConfig()
	if cmd.Flags().Changed("pass-through") {
		if passThrough, _ := cmd.Flags().GetBool("pass-through"); passThrough {
			cfg.Trim = trim.PassThroughOptions
		}
	}
	if file != "" {
		if err := readConfig(file, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Trim.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid trimming options")
	}
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scoring options")
	}
	cfg.Scoring.Matrix = scoring.Blosum62()
	return cfg, nil
}
