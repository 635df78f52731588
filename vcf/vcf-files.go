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

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/exascience/pargo/pipeline"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/exascience/vcf2pyhla/internal"
)

// A RowParseWarning describes a malformed VCF row. Such rows are
// skipped.
type RowParseWarning struct {
	ID       string
	Columns  int
	Expected int
}

func (w RowParseWarning) Error() string {
	return fmt.Sprintf("VCF row %v has %v columns instead of %v", w.ID, w.Columns, w.Expected)
}

func getLine(reader *bufio.Reader) (line string, err error) {
	line, err = reader.ReadString('\n')
	switch {
	case err == nil:
		line = line[:len(line)-1]
	case err == io.EOF && line != "":
		err = nil
	}
	return strings.TrimSuffix(line, "\r"), err
}

// ParseHeader parses a VCF header.
//
// Meta-information lines are optional, so that the output of
//
//  grep "#CHR" IMPUTED.vcf > HLA.vcf
//  grep "HLA_" IMPUTED.vcf >> HLA.vcf
//
// is accepted as well.
func ParseHeader(reader *bufio.Reader) (hdr *Header, lines int, err error) {
	hdr = new(Header)
	for {
		line, err := getLine(reader)
		if err == io.EOF {
			return nil, lines, errors.New("missing #CHROM line in a VCF file")
		} else if err != nil {
			return nil, lines, err
		}
		lines++
		if strings.HasPrefix(line, metaPrefix) {
			hdr.Meta = append(hdr.Meta, line[len(metaPrefix):])
			continue
		}
		if !strings.HasPrefix(line, headerPrefix) {
			return nil, lines, errors.Errorf("invalid header line %v in a VCF file", lines)
		}
		var sc StringScanner
		sc.Reset(line)
		hdr.Columns = sc.Columns(len(DefaultHeaderColumns))
		break
	}
	if len(hdr.Columns) < len(DefaultHeaderColumns) {
		return nil, lines, errors.Errorf("VCF header line has %v columns, expected at least %v", len(hdr.Columns), len(DefaultHeaderColumns))
	}
	for i, column := range DefaultHeaderColumns {
		if hdr.Columns[i] != column {
			return nil, lines, errors.Errorf("VCF header column %v is %v instead of %v", i+1, hdr.Columns[i], column)
		}
	}
	return hdr, lines, nil
}

// ParseRow parses a VCF data line. It returns false for lines that do
// not hold an HLA allele.
func (sc *StringScanner) ParseRow(hdr *Header) (row Row, ok bool, err error) {
	columns := sc.Columns(len(hdr.Columns))
	if len(columns) <= idColumn || !IsHLA(columns[idColumn]) {
		return Row{}, false, nil
	}
	if len(columns) != len(hdr.Columns) {
		return Row{}, false, RowParseWarning{ID: columns[idColumn], Columns: len(columns), Expected: len(hdr.Columns)}
	}
	return Row{
		ID:        AlleleName(columns[idColumn]),
		Genotypes: columns[len(DefaultHeaderColumns):],
	}, true, nil
}

// Sample columns make VCF lines of large cohorts much longer than
// bufio.MaxScanTokenSize.
const maxLineLength = 1 << 28

type rowBatch struct {
	rows     []Row
	warnings []error
	skipped  int
}

// ReadRows parses the remaining VCF data lines in parallel. Malformed
// HLA rows are logged as warnings and skipped, as are rows that do not
// hold an HLA allele.
func ReadRows(reader *bufio.Reader, hdr *Header) (rows []Row, err error) {
	scanner := pipeline.NewScanner(reader)
	scanner.Buffer(nil, maxLineLength)
	var p pipeline.Pipeline
	p.Source(scanner)
	p.Add(pipeline.LimitedPar(0, func(_ *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
		receiver = func(_ int, data interface{}) interface{} {
			lines := data.([]string)
			var batch rowBatch
			var sc StringScanner
			for _, line := range lines {
				line = strings.TrimSuffix(line, "\r")
				if line == "" {
					continue
				}
				sc.Reset(line)
				row, ok, err := sc.ParseRow(hdr)
				switch {
				case err != nil:
					batch.warnings = append(batch.warnings, err)
				case ok:
					batch.rows = append(batch.rows, row)
				default:
					batch.skipped++
				}
			}
			return batch
		}
		return
	}))
	skipped := 0
	p.Add(pipeline.Ord(pipeline.Receive(func(_ int, data interface{}) interface{} {
		batch := data.(rowBatch)
		for _, warning := range batch.warnings {
			log.Printf("Warning: %v, skipped.\n", warning)
		}
		rows = append(rows, batch.rows...)
		skipped += batch.skipped
		return data
	})))
	if err := internal.RunPipeline(&p); err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("Ignored %v VCF rows without %v ID.\n", skipped, IDPrefix)
	}
	return rows, nil
}

// ReadFile reads the header and all HLA rows of a VCF file.
func ReadFile(name string) (table *Table, err error) {
	input, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		if nerr := input.Close(); nerr != nil && err == nil {
			table = nil
			err = nerr
		}
	}()
	hdr, _, err := ParseHeader(input.Reader)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %v", name)
	}
	rows, err := ReadRows(input.Reader, hdr)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading %v", name)
	}
	return &Table{Header: hdr, Rows: rows}, nil
}

// The possible file extensions for VCF or BCF files, or gz-compressed VCF files
const (
	VcfExt = ".vcf"
	BcfExt = ".bcf"
	GzExt  = ".gz"
)

// InputFile represents a VCF or BCF file for input.
type InputFile struct {
	rc io.ReadCloser
	gz *gzip.Reader
	*bufio.Reader
	*exec.Cmd
}

// Open a VCF file for input.
//
// If the filename extension is .gz, the file is decompressed while
// reading. If the filename extension is .bcf, use bcftools view for
// input. bcftools must be visible in the directories named by the
// PATH environment variable for .bcf input.
//
// Otherwise, .vcf is always assumed.
//
// If the name is "/dev/stdin", then the input is read from os.Stdin
func Open(name string) (*InputFile, error) {
	switch filepath.Ext(name) {
	case BcfExt:
		if _, err := os.Stat(name); err != nil {
			return nil, err
		}
		args := []string{"view", "--threads", strconv.FormatInt(int64(runtime.GOMAXPROCS(0)), 10), name}
		cmd := exec.Command("bcftools", args...)
		outPipe, err := cmd.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err = cmd.Start(); err != nil {
			return nil, err
		}
		return &InputFile{rc: outPipe, Reader: bufio.NewReader(outPipe), Cmd: cmd}, nil
	case GzExt:
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		gz, err := gzip.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, errors.Wrapf(err, "while opening %v", name)
		}
		return &InputFile{rc: file, gz: gz, Reader: bufio.NewReader(gz)}, nil
	default:
		if name == "/dev/stdin" {
			return &InputFile{rc: os.Stdin, Reader: bufio.NewReader(os.Stdin)}, nil
		}
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		return &InputFile{rc: file, Reader: bufio.NewReader(file)}, nil
	}
}

// Close the VCF input file. If bcftools view is used for input, wait
// for its process to finish.
func (input *InputFile) Close() error {
	if input.gz != nil {
		if err := input.gz.Close(); err != nil {
			return err
		}
	}
	if input.rc != os.Stdin {
		if err := input.rc.Close(); err != nil {
			return err
		}
	}
	if input.Cmd != nil {
		if err := input.Wait(); err != nil {
			return err
		}
	}
	return nil
}
