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

// Package pyhla converts the HLA rows of a VCF file to the per-sample
// allele table read by PyHLA.
//
// Samples are resolved independently of each other, in parallel, using
// the pargo library. See
// https://godoc.org/github.com/ExaScience/pargo/parallel for details.
package pyhla

import (
	"fmt"
	"sort"

	"github.com/exascience/pargo/parallel"
	psync "github.com/exascience/pargo/sync"
	"github.com/pkg/errors"

	"github.com/exascience/vcf2pyhla/hla"
	"github.com/exascience/vcf2pyhla/internal"
	"github.com/exascience/vcf2pyhla/phenotype"
	"github.com/exascience/vcf2pyhla/vcf"
)

// Options for Convert.
type Options struct {
	// FillUnresolved reports NA NA for genes that have no determinable
	// call in a sample. All rows then cover the same genes: every gene
	// with a high-resolution call in at least one sample.
	FillUnresolved bool

	// KeepGoing converts all samples even if some of them fail. Failed
	// samples are reported in a BatchError.
	KeepGoing bool
}

// A Record is one line of a PyHLA table.
type Record struct {
	Sample    string
	Phenotype int
	Alleles   []string
	Err       error // non-nil if the sample could not be converted
}

// A BatchError collects the errors of all failed samples.
type BatchError struct {
	Errors  []error
	Samples int
}

func (err *BatchError) Error() string {
	return fmt.Sprintf("%v of %v samples failed, first error: %v", len(err.Errors), err.Samples, err.Errors[0])
}

// Calls returns the HLA calls of the sample with the given column
// index.
func Calls(table *vcf.Table, sample int) []hla.Call {
	names, genotypes := table.Column(sample)
	calls := make([]hla.Call, len(names))
	for i, name := range names {
		calls[i] = hla.Call{Name: name, Genotype: genotypes[i]}
	}
	return calls
}

// Convert resolves the alleles of all samples of the given VCF table,
// and looks up their phenotypes. The records are in VCF sample column
// order. A nil phenotype table assigns phenotype.Default to all
// samples.
//
// Without opts.KeepGoing, Convert returns the error of the first failed
// sample and no records.
func Convert(table *vcf.Table, phenotypes *phenotype.Table, opts Options) ([]Record, error) {
	samples := table.Header.Samples()
	records := make([]Record, len(samples))
	lists := make([]*hla.AlleleList, len(samples))
	genes := psync.NewMap(0)
	parallel.Range(0, len(samples), 0, func(low, high int) {
		for s := low; s < high; s++ {
			records[s].Sample = samples[s]
			list, err := hla.NewAlleleList(hla.FilterCalls(Calls(table, s)))
			if err != nil {
				records[s].Err = errors.Wrapf(err, "sample %v", samples[s])
				continue
			}
			lists[s] = list
			for _, gene := range list.Genes() {
				genes.LoadOrStore(geneName(gene), gene)
			}
			label, err := phenotypes.Lookup(samples[s])
			if err != nil {
				records[s].Err = err
				continue
			}
			records[s].Phenotype = label
		}
	})

	hlaOpts := hla.Options{FillUnresolved: opts.FillUnresolved}
	if opts.FillUnresolved {
		hlaOpts.Genes = sortedGenes(genes)
	}
	parallel.Range(0, len(samples), 0, func(low, high int) {
		for s := low; s < high; s++ {
			if records[s].Err == nil {
				records[s].Alleles = lists[s].Alleles(hlaOpts)
			}
		}
	})

	var errs []error
	for _, record := range records {
		if record.Err != nil {
			if !opts.KeepGoing {
				return nil, record.Err
			}
			errs = append(errs, record.Err)
		}
	}
	if len(errs) > 0 {
		return records, &BatchError{Errors: errs, Samples: len(samples)}
	}
	return records, nil
}

type geneName string

func (g geneName) Hash() uint64 {
	return internal.StringHash(string(g))
}

// sortedGenes returns the genes seen in any sample, in sorted order.
func sortedGenes(genes *psync.Map) []string {
	var result []string
	genes.Range(func(_, value interface{}) bool {
		result = append(result, value.(string))
		return true
	})
	sort.Strings(result)
	return result
}
