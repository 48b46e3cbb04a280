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
	"path/filepath"
	"regexp"
	"runtime"
	"sort"

	"github.com/iafan/cwalk"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

// Options contains the global flags
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool

	ConfigFile string

	CompressionLevel int
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",

		ConfigFile: getFlagString(cmd, "config"),

		CompressionLevel: -1,
	}
}

// getInputFiles collects input files from positional arguments, the file
// list (--infile-list) and the directory (--in-dir).
func getInputFiles(cmd *cobra.Command, args []string, threads int) []string {
	inDir := getFlagString(cmd, "in-dir")
	if inDir == "" {
		return getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)
	}

	if len(args) > 0 {
		checkError(fmt.Errorf("no positional arguments are allowed when using --in-dir"))
	}
	isDir, err := pathutil.DirExists(inDir)
	checkError(errors.Wrap(err, inDir))
	if !isDir {
		checkError(fmt.Errorf("directory not found: %s", inDir))
	}

	reFileStr := getFlagString(cmd, "file-regexp")
	reFile, err := regexp.Compile(reFileStr)
	if err != nil {
		checkError(errors.Errorf("failed to parse regular expression for matching file: %s", reFileStr))
	}

	files, err := getFileListFromDir(inDir, reFile, threads)
	checkError(errors.Wrapf(err, "walking dir: %s", inDir))
	if len(files) == 0 {
		checkError(fmt.Errorf("no files found in: %s", inDir))
	}
	return files
}

func getFileListFromDir(path string, pattern *regexp.Regexp, threads int) ([]string, error) {
	files := make([]string, 0, 512)
	ch := make(chan string, threads)
	done := make(chan int)
	go func() {
		for file := range ch {
			files = append(files, file)
		}
		done <- 1
	}()

	cwalk.NumWorkers = threads
	err := cwalk.WalkWithSymlinks(path, func(_path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && pattern.MatchString(info.Name()) {
			ch <- filepath.Join(path, _path)
		}
		return nil
	})
	close(ch)
	<-done
	if err != nil {
		return nil, err
	}

	sorts.Quicksort(sort.StringSlice(files))
	return files, err
}

// addInputFlags adds flags for specifying input files.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("infile-list", "X", "",
		formatFlagUsage(`File of input files list (one file per line). If given, they are appended to files from CLI arguments.`))

	cmd.Flags().StringP("in-dir", "I", "",
		formatFlagUsage(`Input directory containing alignment files. Directory and file symlinks are followed.`))

	cmd.Flags().StringP("file-regexp", "r", `\.toml(\.gz|\.xz|\.zst|\.bz2)?$`,
		formatFlagUsage(`Regular expression for matching files in -I/--in-dir.`))
}

// checkOutFile makes sure the output file is not one of the input files or the log file.
func checkOutFile(outFile string, files []string, opt *Options) {
	if isStdin(outFile) {
		return
	}
	outFileClean := filepath.Clean(outFile)
	for _, file := range files {
		if !isStdin(file) && filepath.Clean(file) == outFileClean {
			checkError(fmt.Errorf("out file should not be one of the input file"))
		}
	}
	if opt.Log2File {
		ro, err := filepath.Abs(outFile)
		if err != nil {
			checkError(fmt.Errorf("failed to check output file: %s", err))
		}
		rl, err := filepath.Abs(opt.LogFile)
		if err != nil {
			checkError(fmt.Errorf("failed to check log file: %s", err))
		}
		if ro == rl {
			checkError(fmt.Errorf("output file and log file should not be the same: %s", outFile))
		}
	}
}
