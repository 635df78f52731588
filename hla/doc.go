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

// Package hla resolves per-sample HLA allele calls to diploid PyHLA
// genotypes.
//
// Imputation tools such as SNP2HLA report every called allele at
// several resolution levels, for example both A*02 and A*02:01:01:01,
// each as a separate VCF row. The functions in this package first drop
// the rows that are not called for a sample (FilterCalls), and then
// select at most two alleles per gene from the remaining calls
// (NewAlleleList and AlleleList.Alleles), preferring the most specific
// allele names, homozygous calls, and higher imputation scores.
package hla
