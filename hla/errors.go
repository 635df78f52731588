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
	"fmt"

	"github.com/pkg/errors"
)

// ErrScoreParse is the cause of every ScoreParseError.
var ErrScoreParse = errors.New("no numeric score in genotype")

// A ScoreParseError reports a genotype string without an embedded
// imputation score.
type ScoreParseError struct {
	Allele   string
	Genotype string
}

func (err *ScoreParseError) Error() string {
	return fmt.Sprintf("%v for allele %v: %q", ErrScoreParse, err.Allele, err.Genotype)
}

// Cause returns ErrScoreParse, for use with errors.Cause.
func (err *ScoreParseError) Cause() error {
	return ErrScoreParse
}
