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

// vcf2pyhla converts the imputed HLA alleles of a VCF file to the
// per-sample allele table of PyHLA, written to standard output.
//
// The input is typically obtained from an SNP2HLA or Beagle imputation
// run:
//
//  grep "#CHR" IMPUTED.vcf > HLA.vcf
//  grep "HLA_" IMPUTED.vcf >> HLA.vcf
//
// although rows without an HLA_ ID are ignored, so that the imputed VCF
// file can also be used directly.
//
// Please see https://godoc.org/github.com/exascience/vcf2pyhla/hla for
// the allele resolution rules.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/exascience/vcf2pyhla/cmd"
	"github.com/exascience/vcf2pyhla/utils"
)

func printHelp() {
	fmt.Fprint(os.Stderr, "\n", cmd.ConvertHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage)
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	case "version", "-version", "--version":
		fmt.Println(utils.ProgramName, utils.ProgramVersion)
	default:
		err = cmd.Convert()
	}
	if err != nil {
		log.Fatal(err)
	}
}
