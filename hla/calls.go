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

package hla

import "strings"

// Genotype markers as they appear in phased VCF sample columns.
const (
	NoCall     = "0|0"
	Homozygous = "1|1"
	Missing    = "."
)

// NA is the sentinel emitted for an allele slot that cannot be
// determined.
const NA = "NA"

// A Call is a single HLA allele row of a VCF file, restricted to one
// sample: the allele name without its HLA_ prefix, and the raw sample
// column of that row.
type Call struct {
	Name     string
	Genotype string
}

// IsNoCall returns true if the genotype string does not call the
// allele on either haplotype, or if the genotype is missing.
func IsNoCall(genotype string) bool {
	return genotype == "" || genotype == Missing || strings.Contains(genotype, NoCall)
}

// FilterCalls returns the calls that are present in a sample, in their
// original order. The given slice is not modified.
func FilterCalls(calls []Call) []Call {
	result := make([]Call, 0, len(calls))
	for _, call := range calls {
		if !IsNoCall(call.Genotype) {
			result = append(result, call)
		}
	}
	return result
}

// IsHomozygous returns true if the genotype calls the allele on both
// haplotypes.
func IsHomozygous(genotype string) bool {
	return strings.Contains(genotype, Homozygous)
}
