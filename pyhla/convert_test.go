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
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/vcf2pyhla/hla"
	"github.com/exascience/vcf2pyhla/phenotype"
	"github.com/exascience/vcf2pyhla/vcf"
)

func makeTable(samples []string, rows ...vcf.Row) *vcf.Table {
	columns := append(append([]string(nil), vcf.DefaultHeaderColumns...), samples...)
	return &vcf.Table{Header: &vcf.Header{Columns: columns}, Rows: rows}
}

var testTable = makeTable([]string{"S1", "S2"},
	vcf.Row{ID: "A*02", Genotypes: []string{"1|0:0.5:0,1,0", "1|1:0.9:0,0,1"}},
	vcf.Row{ID: "A*02:01:01:01", Genotypes: []string{"1|0:0.99:0,1,0", "0|0:0.01:1,0,0"}},
	vcf.Row{ID: "B*07:02", Genotypes: []string{"0|0:0.02:1,0,0", "1|0:0.9:0,1,0"}},
	vcf.Row{ID: "B*08:01", Genotypes: []string{"0|0:0.03:1,0,0", "0|1:0.7:0,1,0"}},
)

func TestConvert(t *testing.T) {
	records, err := Convert(testTable, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{Sample: "S1", Phenotype: phenotype.Default, Alleles: []string{"A*02:01:01:01", hla.NA}},
		{Sample: "S2", Phenotype: phenotype.Default, Alleles: []string{"A*02", "A*02", "B*07:02", "B*08:01"}},
	}, records)
}

func TestConvertFillUnresolved(t *testing.T) {
	records, err := Convert(testTable, nil, Options{FillUnresolved: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"A*02:01:01:01", hla.NA, hla.NA, hla.NA}, records[0].Alleles)
	assert.Equal(t, []string{"A*02", "A*02", "B*07:02", "B*08:01"}, records[1].Alleles)
}

func TestConvertPhenotypes(t *testing.T) {
	phenotypes, err := phenotype.Read(strings.NewReader("FID IID LLI\nF1 S1 1\nF2 S2 2\n"))
	require.NoError(t, err)
	records, err := Convert(testTable, phenotypes, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, records[0].Phenotype)
	assert.Equal(t, 2, records[1].Phenotype)

	phenotypes, err = phenotype.Read(strings.NewReader("FID IID LLI\nF1 S1 1\n"))
	require.NoError(t, err)
	_, err = Convert(testTable, phenotypes, Options{})
	require.Error(t, err)
	assert.Equal(t, phenotype.ErrLookup, errors.Cause(err))
}

func TestConvertScoreError(t *testing.T) {
	table := makeTable([]string{"S1", "S2", "S3"},
		vcf.Row{ID: "A*01:01", Genotypes: []string{"1|0:0.5:0,1,0", "1|0", "1|1:0.8:0,0,1"}},
		vcf.Row{ID: "C*07:01", Genotypes: []string{"0|1", "0|1:0.6:0,1,0", "0|0:0.1:1,0,0"}},
	)
	records, err := Convert(table, nil, Options{})
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Equal(t, hla.ErrScoreParse, errors.Cause(err))
	assert.Contains(t, err.Error(), "sample S1")

	records, err = Convert(table, nil, Options{KeepGoing: true})
	require.Error(t, err)
	batchErr, ok := err.(*BatchError)
	require.True(t, ok)
	assert.Len(t, batchErr.Errors, 2)
	assert.Equal(t, 3, batchErr.Samples)
	require.Len(t, records, 3)
	assert.Error(t, records[0].Err)
	assert.Error(t, records[1].Err)
	assert.NoError(t, records[2].Err)
	assert.Equal(t, []string{"A*01:01", "A*01:01"}, records[2].Alleles)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Record{
		{Sample: "S1", Phenotype: 1, Alleles: []string{"A*02:01:01:01", "NA", "C*07:01", "C*07:01"}},
		{Sample: "S2", Phenotype: 2, Err: hla.ErrScoreParse},
		{Sample: "S3", Phenotype: 1},
	}))
	assert.Equal(t, "S1\t1\tA*02:01:01:01\tNA\tC*07:01\tC*07:01\nS3\t1\t\n", buf.String())
}
