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

import "github.com/kelseyhightower/envconfig"

// EnvPrefix is the prefix of the environment variables that provide
// defaults for command line flags, for example VCF2PYHLA_LOG_PATH.
const EnvPrefix = "VCF2PYHLA"

// Config holds the defaults of the command line flags.
type Config struct {
	LogPath        string `envconfig:"LOG_PATH"`
	NrOfThreads    int    `envconfig:"NR_OF_THREADS"`
	FillUnresolved bool   `envconfig:"FILL_UNRESOLVED"`
	KeepGoing      bool   `envconfig:"KEEP_GOING"`
	Timed          bool   `envconfig:"TIMED"`
}

// LoadConfig reads the flag defaults from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process(EnvPrefix, &cfg)
	return cfg, err
}
