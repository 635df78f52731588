// vcf2pyhla: a tool for converting imputed HLA genotype calls to PyHLA tables.
// Copyright (c) 2021 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/exascience/vcf2pyhla/internal"
	"github.com/exascience/vcf2pyhla/phenotype"
	"github.com/exascience/vcf2pyhla/pyhla"
	"github.com/exascience/vcf2pyhla/vcf"
)

// ConvertHelp is the help string for this command.
const ConvertHelp = "vcf2pyhla parameters:\n" +
	"vcf2pyhla vcf-file\n" +
	"[--phe phenotype-file]\n" +
	"[--output pyhla-file]\n" +
	"[--fill-unresolved]\n" +
	"[--keep-going]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--profile file]\n" +
	"[--log-path path]\n"

type convertOptions struct {
	phe, output, profile string
	timed                bool
	pyhla.Options
}

// Convert implements the vcf2pyhla command.
func Convert() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	var (
		opts        convertOptions
		logPath     string
		nrOfThreads int
	)

	var flags flag.FlagSet
	flags.StringVar(&opts.phe, "phe", "", "phenotype file with IID and LLI columns")
	flags.StringVar(&opts.output, "output", "", "write the PyHLA table to the specified file instead of stdout")
	flags.BoolVar(&opts.FillUnresolved, "fill-unresolved", cfg.FillUnresolved, "report NA NA for genes without a determinable call")
	flags.BoolVar(&opts.KeepGoing, "keep-going", cfg.KeepGoing, "convert the remaining samples when a sample fails")
	flags.IntVar(&nrOfThreads, "nr-of-threads", cfg.NrOfThreads, "number of worker threads")
	flags.BoolVar(&opts.timed, "timed", cfg.Timed, "measure the runtime")
	flags.StringVar(&opts.profile, "profile", "", "write a runtime profile to the specified file(s)")
	flags.StringVar(&logPath, "log-path", cfg.LogPath, "write log files to the specified directory")

	parseFlags(&flags, 2, ConvertHelp)

	input := getFilename(os.Args[1], ConvertHelp)

	if logPath != "" {
		if err := setLogOutput(logPath); err != nil {
			return err
		}
	}

	// sanity checks

	var sanityChecksFailed bool

	if input != "/dev/stdin" && !checkExist("", input) {
		sanityChecksFailed = true
	}
	if opts.phe != "" && !checkExist("--phe", opts.phe) {
		sanityChecksFailed = true
	}
	if opts.output != "" && !checkCreate("--output", opts.output) {
		sanityChecksFailed = true
	}
	if opts.profile != "" && !checkCreate("--profile", opts.profile) {
		sanityChecksFailed = true
	}
	if nrOfThreads < 0 {
		sanityChecksFailed = true
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, ConvertHelp)
		os.Exit(1)
	}

	// building final command line

	var command strings.Builder

	fmt.Fprint(&command, os.Args[0], " ", input)
	if opts.phe != "" {
		fmt.Fprint(&command, " --phe ", opts.phe)
	}
	if opts.output != "" {
		fmt.Fprint(&command, " --output ", opts.output)
	}
	if opts.FillUnresolved {
		fmt.Fprint(&command, " --fill-unresolved")
	}
	if opts.KeepGoing {
		fmt.Fprint(&command, " --keep-going")
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if opts.timed {
		fmt.Fprint(&command, " --timed")
	}
	if opts.profile != "" {
		fmt.Fprint(&command, " --profile ", opts.profile)
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	if opts.output == "" {
		return convert(input, os.Stdout, opts)
	}
	out, err := internal.CreateFile(opts.output)
	if err != nil {
		return err
	}
	err = convert(input, out, opts)
	if nerr := out.Close(); err == nil {
		err = nerr
	}
	return err
}

func convert(input string, out io.Writer, opts convertOptions) error {
	var phenotypes *phenotype.Table
	if opts.phe != "" {
		err := timedRun(opts.timed, opts.profile, "Reading phenotype file.", 1, func() (err error) {
			pathname, err := internal.FullPathname(opts.phe)
			if err != nil {
				return err
			}
			phenotypes, err = phenotype.ReadFile(pathname)
			return err
		})
		if err != nil {
			return err
		}
	}

	var table *vcf.Table
	err := timedRun(opts.timed, opts.profile, "Reading VCF file.", 2, func() (err error) {
		pathname, err := internal.FullPathname(input)
		if err != nil {
			return err
		}
		table, err = vcf.ReadFile(pathname)
		return err
	})
	if err != nil {
		return err
	}

	var records []pyhla.Record
	var convertErr error
	err = timedRun(opts.timed, opts.profile, "Resolving HLA alleles.", 3, func() error {
		records, convertErr = pyhla.Convert(table, phenotypes, opts.Options)
		if batchErr, ok := convertErr.(*pyhla.BatchError); ok {
			for _, e := range batchErr.Errors {
				log.Println("Error:", e)
			}
			return nil
		}
		return convertErr
	})
	if err != nil {
		return err
	}

	err = timedRun(opts.timed, opts.profile, "Writing PyHLA table.", 4, func() error {
		return pyhla.Write(out, records)
	})
	if err != nil {
		return err
	}
	return convertErr
}
