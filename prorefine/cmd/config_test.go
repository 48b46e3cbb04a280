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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shenwei356/ProRefine/prorefine/trim"
	"github.com/spf13/cobra"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addTrimFlags(cmd)
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(newTestCmd(), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trim != trim.DefaultOptions {
		t.Errorf("unexpected trimming options: %+v", cfg.Trim)
	}
	if cfg.Scoring.Matrix == nil || cfg.Scoring.Scale != 30 {
		t.Errorf("unexpected scoring: %+v", cfg.Scoring)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prorefine.toml")
	data := `
[trim]
min-good-len = 30
dropoff = 20

[scoring]
gap-opening = 11
`
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCmd()
	if err := cmd.ParseFlags([]string{"--dropoff", "40", "--fill-holes"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(cmd, file)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Trim.MinGoodLen != 30 {
		t.Errorf("min-good-len from config file: expected 30, returned %d", cfg.Trim.MinGoodLen)
	}
	if cfg.Trim.Dropoff != 40 {
		t.Errorf("dropoff from flag: expected 40, returned %d", cfg.Trim.Dropoff)
	}
	if !cfg.Trim.FillHoles {
		t.Errorf("fill-holes from flag expected")
	}
	if cfg.Trim.MaxBadLen != trim.DefaultOptions.MaxBadLen {
		t.Errorf("max-bad-len should keep the default value, returned %d", cfg.Trim.MaxBadLen)
	}
	if cfg.Scoring.GapOpening != 11 || cfg.Scoring.GapExtension != 1 {
		t.Errorf("unexpected scoring: %+v", cfg.Scoring)
	}
}

func TestLoadConfigPassThrough(t *testing.T) {
	cmd := newTestCmd()
	if err := cmd.ParseFlags([]string{"--pass-through"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Trim != trim.PassThroughOptions {
		t.Errorf("unexpected trimming options: %+v", cfg.Trim)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(file, []byte("[trim]\nfoo = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(newTestCmd(), file); err == nil {
		t.Errorf("unknown key: error expected")
	}

	cmd := newTestCmd()
	if err := cmd.ParseFlags([]string{"--total-positives", "101"}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cmd, ""); err == nil {
		t.Errorf("invalid value: error expected")
	}

	if _, err := loadConfig(newTestCmd(), filepath.Join(dir, "missing.toml")); err == nil {
		t.Errorf("missing file: error expected")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := encodeConfig(&buf, DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "min-good-len = 59") {
		t.Errorf("unexpected config:\n%s", buf.String())
	}

	cfg := &Config{}
	if err := decodeConfig(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Trim != trim.DefaultOptions || cfg.Scoring.GapOpening != 10 {
		t.Errorf("unexpected config after decoding: %+v", cfg)
	}
}
