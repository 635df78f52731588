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

package pyhla

import (
	"io"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// Write outputs one tab-separated line per successfully converted
// record: the sample, its phenotype, and its alleles. Records with an
// error are left out.
func Write(w io.Writer, records []Record) error {
	out := tsv.NewWriter(w)
	for _, record := range records {
		if record.Err != nil {
			continue
		}
		out.WriteString(record.Sample)
		out.WriteString(strconv.Itoa(record.Phenotype))
		if len(record.Alleles) == 0 {
			out.WriteString("")
		}
		for _, allele := range record.Alleles {
			out.WriteString(allele)
		}
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}
