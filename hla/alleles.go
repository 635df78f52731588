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

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

var (
	scorePattern = regexp.MustCompile(`:(([0-9]*[.])?[0-9]+):`)
	genePattern  = regexp.MustCompile(`([A-Z0-9]+)\*`)
)

// ParseScore returns the first colon-delimited decimal number in the
// genotype string, for example 0.998 in 1|1:0.998:0,0,1.
func ParseScore(genotype string) (float64, error) {
	match := scorePattern.FindStringSubmatch(genotype)
	if match == nil {
		return 0, ErrScoreParse
	}
	return strconv.ParseFloat(match[1], 64)
}

// GeneOf returns the gene of an allele name, which is the run of
// upper-case letters and digits in front of the first '*', for example
// DQB1 for DQB1*06:02. It returns false if the name has no gene.
func GeneOf(name string) (gene string, ok bool) {
	match := genePattern.FindStringSubmatch(name)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// An AlleleCall is a Call together with the attributes derived from it.
type AlleleCall struct {
	Call
	Gene       string // "" if the name has no gene
	Score      float64
	Homozygous bool

	// HighRes is false if the allele name occurs within the name of
	// another call of the same sample, which means that the call is a
	// lower-resolution reading of that other call.
	HighRes bool
}

// An AlleleList holds all calls of a single sample, grouped by gene.
type AlleleList struct {
	Calls []AlleleCall
	genes map[string][]int // indices into Calls, in input order
}

// NewAlleleList derives the score, zygosity, resolution and gene of
// each call. The calls are expected to be filtered with FilterCalls.
//
// NewAlleleList returns a *ScoreParseError for the first call whose
// genotype has no score, and a wrapped *strconv.NumError for a score
// that is out of range.
func NewAlleleList(calls []Call) (*AlleleList, error) {
	list := &AlleleList{
		Calls: make([]AlleleCall, len(calls)),
		genes: make(map[string][]int),
	}
	dominated := findDominated(calls)
	for i, call := range calls {
		score, err := ParseScore(call.Genotype)
		if err == ErrScoreParse {
			return nil, &ScoreParseError{Allele: call.Name, Genotype: call.Genotype}
		} else if err != nil {
			return nil, errors.Wrapf(err, "invalid score for allele %v", call.Name)
		}
		gene, _ := GeneOf(call.Name)
		list.Calls[i] = AlleleCall{
			Call:       call,
			Gene:       gene,
			Score:      score,
			Homozygous: IsHomozygous(call.Genotype),
			HighRes:    !dominated.Test(uint(i)),
		}
		if gene != "" {
			list.genes[gene] = append(list.genes[gene], i)
		}
	}
	return list, nil
}

// findDominated marks each call whose name is contained in the name of
// another call.
//
// TODO: replace the pairwise comparison with a suffix index if per-sample
// call counts grow beyond a few hundred.
func findDominated(calls []Call) *bitset.BitSet {
	dominated := bitset.New(uint(len(calls)))
	for i, x := range calls {
		for j, y := range calls {
			if i != j && strings.Contains(y.Name, x.Name) {
				dominated.Set(uint(i))
				break
			}
		}
	}
	return dominated
}

// Genes returns the sorted genes that have at least one high-resolution
// call.
func (list *AlleleList) Genes() []string {
	genes := make([]string, 0, len(list.genes))
	for gene, indices := range list.genes {
		for _, i := range indices {
			if list.Calls[i].HighRes {
				genes = append(genes, gene)
				break
			}
		}
	}
	sort.Strings(genes)
	return genes
}

// Resolve selects the diploid call for a gene. It returns exactly two
// allele names, or nil if no call can be determined.
//
// A single homozygous high-resolution call is reported twice.
// Otherwise, the two high-resolution calls with the highest scores are
// reported in descending score order, with ties kept in input order.
// A single high-resolution call is padded with NA.
func (list *AlleleList) Resolve(gene string) []string {
	var highRes, homozygous []AlleleCall
	for _, i := range list.genes[gene] {
		if call := list.Calls[i]; call.HighRes {
			highRes = append(highRes, call)
			if call.Homozygous {
				homozygous = append(homozygous, call)
			}
		}
	}
	if len(homozygous) == 1 {
		return []string{homozygous[0].Name, homozygous[0].Name}
	}
	sort.SliceStable(highRes, func(i, j int) bool {
		return highRes[i].Score > highRes[j].Score
	})
	switch {
	case len(highRes) >= 2:
		return []string{highRes[0].Name, highRes[1].Name}
	case len(highRes) == 1:
		return []string{highRes[0].Name, NA}
	default:
		return nil
	}
}

// Options for AlleleList.Alleles.
type Options struct {
	// Genes to report, in order. If nil, the result of Genes is used.
	Genes []string

	// FillUnresolved reports NA twice for a gene without a determinable
	// call, instead of leaving the gene out.
	FillUnresolved bool
}

// Alleles returns the concatenated diploid calls of all genes, two
// slots per reported gene.
func (list *AlleleList) Alleles(opts Options) []string {
	genes := opts.Genes
	if genes == nil {
		genes = list.Genes()
	}
	result := make([]string, 0, 2*len(genes))
	for _, gene := range genes {
		if alleles := list.Resolve(gene); alleles != nil {
			result = append(result, alleles...)
		} else if opts.FillUnresolved {
			result = append(result, NA, NA)
		}
	}
	return result
}
