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

// Package phenotype reads PLINK-style phenotype files that label each
// sample with an integer trait value.
package phenotype

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// Default is the phenotype of every sample when no phenotype file is
// given.
const Default = 1

// ErrLookup is the cause of every LookupError.
var ErrLookup = errors.New("sample not in phenotype table")

// A LookupError reports a sample that is missing from a phenotype
// table.
type LookupError struct {
	Sample string
}

func (err *LookupError) Error() string {
	return fmt.Sprintf("%v: %v", ErrLookup, err.Sample)
}

// Cause returns ErrLookup, for use with errors.Cause.
func (err *LookupError) Cause() error {
	return ErrLookup
}

// A Table maps sample identifiers (IID) to phenotypes (LLI).
//
// The zero Table has no entries. A nil *Table assigns Default to every
// sample.
type Table struct {
	labels map[string]int
}

type row struct {
	IID string `tsv:"IID"`
	LLI string `tsv:"LLI"`
}

// Read parses a space-separated phenotype file with a header row that
// names at least the IID and LLI columns. Fields are separated by
// exactly one space, so a trailing space adds an empty field and fails
// the row. Lines starting with ## are comments; a header such as
// #FID IID LLI is still read as the header row.
func Read(r io.Reader) (*Table, error) {
	data, err := stripComments(r)
	if err != nil {
		return nil, errors.Wrap(err, "while reading phenotype table")
	}
	reader := tsv.NewReader(data)
	reader.Comma = ' '
	reader.HasHeaderRow = true
	reader.UseHeaderNames = true
	table := &Table{labels: make(map[string]int)}
	for {
		var entry row
		if err := reader.Read(&entry); err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrap(err, "while parsing phenotype table")
		}
		label, err := parseLabel(entry.LLI)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid LLI value for sample %v", entry.IID)
		}
		if _, found := table.labels[entry.IID]; found {
			return nil, errors.Errorf("duplicate sample %v in phenotype table", entry.IID)
		}
		table.labels[entry.IID] = label
	}
	return table, nil
}

const commentPrefix = "##"

// stripComments drops the ## lines. csv.Reader only supports single
// character comments, which would also drop a #FID header.
func stripComments(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if !strings.HasPrefix(line, commentPrefix) {
			buf.WriteString(line)
		}
		if err == io.EOF {
			return &buf, nil
		} else if err != nil {
			return nil, err
		}
	}
}

// parseLabel accepts integers, and decimals without a fractional part
// as written by tools that store phenotypes as floating point values.
func parseLabel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if label, err := strconv.Atoi(s); err == nil {
		return label, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.Errorf("%v is not an integer", s)
	}
	return int(f), nil
}

// ReadFile reads the named phenotype file.
func ReadFile(name string) (table *Table, err error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := file.Close(); nerr != nil && err == nil {
			table = nil
			err = nerr
		}
	}()
	table, err = Read(file)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %v", name)
	}
	return table, nil
}

// Lookup returns the phenotype of a sample.
func (table *Table) Lookup(sample string) (int, error) {
	if table == nil {
		return Default, nil
	}
	if label, found := table.labels[sample]; found {
		return label, nil
	}
	return 0, &LookupError{Sample: sample}
}

// Len returns the number of samples in the table.
func (table *Table) Len() int {
	if table == nil {
		return 0
	}
	return len(table.labels)
}
