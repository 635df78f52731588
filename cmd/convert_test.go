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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exascience/vcf2pyhla/hla"
	"github.com/exascience/vcf2pyhla/pyhla"
)

const testVcf = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\n" +
	"6\t29910247\tHLA_A*02\tA\tT\t.\tPASS\t.\tGT:DS:GP\t1|0:0.5:0,1,0\t0|0:0.01:1,0,0\n" +
	"6\t29910247\tHLA_A*02:01:01:01\tA\tT\t.\tPASS\t.\tGT:DS:GP\t1|0:0.99:0,1,0\t0|0:0.01:1,0,0\n" +
	"6\t31237115\tHLA_C*07:01\tA\tT\t.\tPASS\t.\tGT:DS:GP\t0|0:0.02:1,0,0\t1|1:0.97:0,0,1\n"

func writeFile(t *testing.T, name, data string) string {
	name = filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(name, []byte(data), 0600))
	return name
}

func TestConvertDefaultPhenotype(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, convert(writeFile(t, "hla.vcf", testVcf), &out, convertOptions{}))
	assert.Equal(t, "S1\t1\tA*02:01:01:01\tNA\n"+"S2\t1\tC*07:01\tC*07:01\n", out.String())
}

func TestConvertWithPhenotypes(t *testing.T) {
	var out bytes.Buffer
	opts := convertOptions{phe: writeFile(t, "pheno.txt", "## cohort\nFID IID LLI\nF1 S1 2\nF2 S2 1\n")}
	opts.FillUnresolved = true
	require.NoError(t, convert(writeFile(t, "hla.vcf", testVcf), &out, opts))
	assert.Equal(t, "S1\t2\tA*02:01:01:01\tNA\tNA\tNA\n"+"S2\t1\tNA\tNA\tC*07:01\tC*07:01\n", out.String())
}

func TestConvertMissingPhenotype(t *testing.T) {
	var out bytes.Buffer
	opts := convertOptions{phe: writeFile(t, "pheno.txt", "FID IID LLI\nF1 S1 2\n")}
	assert.Error(t, convert(writeFile(t, "hla.vcf", testVcf), &out, opts))
	assert.Empty(t, out.String())
}

func TestConvertKeepGoing(t *testing.T) {
	data := strings.Replace(testVcf, "1|1:0.97:0,0,1", "1|1", 1)
	var out bytes.Buffer
	err := convert(writeFile(t, "hla.vcf", data), &out, convertOptions{})
	assert.Error(t, err)
	assert.Empty(t, out.String())

	out.Reset()
	opts := convertOptions{}
	opts.KeepGoing = true
	err = convert(writeFile(t, "hla.vcf", data), &out, opts)
	require.Error(t, err)
	assert.IsType(t, &pyhla.BatchError{}, err)
	assert.Equal(t, "S1\t1\tA*02:01:01:01\t"+hla.NA+"\n", out.String())
}

func TestLoadConfig(t *testing.T) {
	require.NoError(t, os.Setenv("VCF2PYHLA_NR_OF_THREADS", "4"))
	require.NoError(t, os.Setenv("VCF2PYHLA_FILL_UNRESOLVED", "true"))
	defer func() {
		_ = os.Unsetenv("VCF2PYHLA_NR_OF_THREADS")
		_ = os.Unsetenv("VCF2PYHLA_FILL_UNRESOLVED")
	}()
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{NrOfThreads: 4, FillUnresolved: true}, cfg)

	require.NoError(t, os.Setenv("VCF2PYHLA_NR_OF_THREADS", "many"))
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestCreateLogFilename(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	name := createLogFilename(time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC), id)
	assert.Equal(t, "logs/vcf2pyhla/vcf2pyhla-2021-03-04-05-06-07-UTC-6ba7b810-9dad-11d1-80b4-00c04fd430c8.log", name)
}
