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

package vcf

import "strings"

// The fixed columns of a VCF header line, in order. All remaining
// columns are sample columns.
var DefaultHeaderColumns = []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT"}

const (
	metaPrefix   = "##"
	headerPrefix = "#CHROM"
	idColumn     = 2
)

// IDPrefix marks the ID of a VCF row that holds an imputed HLA allele,
// as written by SNP2HLA and Beagle.
const IDPrefix = "HLA_"

type (
	// Header section of a VCF file.
	Header struct {
		Meta    []string // ## lines, without the ## prefix
		Columns []string
	}

	// Row is an HLA allele line in a VCF file. Genotypes holds the raw
	// sample columns, in header order.
	Row struct {
		ID        string // without IDPrefix
		Genotypes []string
	}

	// Table holds the HLA allele rows of a VCF file.
	Table struct {
		Header *Header
		Rows   []Row
	}
)

// Samples returns the sample identifiers of the header, in column
// order.
func (header *Header) Samples() []string {
	return header.Columns[len(DefaultHeaderColumns):]
}

// IsHLA returns true if the VCF ID names an HLA allele.
func IsHLA(id string) bool {
	return strings.HasPrefix(id, IDPrefix)
}

// AlleleName strips the HLA_ prefix from a VCF ID.
func AlleleName(id string) string {
	return strings.TrimPrefix(id, IDPrefix)
}

// Column returns the genotypes of the sample with the given column
// index, keyed by allele name, in row order.
func (table *Table) Column(sample int) (names, genotypes []string) {
	names = make([]string, len(table.Rows))
	genotypes = make([]string, len(table.Rows))
	for i, row := range table.Rows {
		names[i] = row.ID
		genotypes[i] = row.Genotypes[sample]
	}
	return names, genotypes
}
