/*
Copyright © 2026 the amscrown authors.
This file is part of amscrown.

amscrown is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

amscrown is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with amscrown.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cliutil wires together the amscrown command-line interface:
// flag and config-file binding (viper + pflag), a BurntSushi/toml
// config reader, and the Configuration the core library consumes.
package cliutil

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"

	"github.com/Lenostatos/meanshiftr-improved"
)

// Cfg wraps a viper instance carrying every amscrown flag/config-file
// value, the way the teacher package's Cfg wraps its own.
type Cfg struct {
	*viper.Viper
}

// option describes one bindable flag, mirroring the teacher package's
// table-driven flag registration.
type option struct {
	name, usage string
	defaultVal  interface{}
}

var options = []option{
	{"ConfigFile", "path to a TOML configuration file", ""},
	{"Input", "path to the input point cloud CSV", ""},
	{"Output", "path to the output labeled point cloud CSV", ""},
	{"CrownDiameterToHeight", "ratio of kernel diameter to point height", 0.6},
	{"CrownHeightToHeight", "ratio of kernel height to point height", 0.8},
	{"MaxIterations", "maximum mean-shift iterations per point", 200},
	{"ConvergenceEpsilon", "convergence threshold, in input units", 0.01},
	{"Variant", "kernel variant: classic or improved", "classic"},
	{"MinHeight", "points below this height above ground are dropped", 2.0},
	{"CoreWidth", "tile core width, in input units", 30.0},
	{"BufferWidth", "tile buffer width, in input units", 5.0},
	{"ClusterEps", "density-clustering neighbor radius", 1.0},
	{"ClusterMinPts", "density-clustering minimum neighbor count", 2},
	{"ClusterStrategy", "tile-stitching rule: cluster-center or rounded-mode", "cluster-center"},
	{"Compact", "renumber surviving crown IDs to a dense range", false},
	{"WorkerFraction", "fraction of available CPUs used by the tile worker pool", 1.0},
}

// InitializeConfig builds a Cfg with every option's default value set.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}
	for _, o := range options {
		cfg.SetDefault(o.name, o.defaultVal)
	}
	return cfg
}

// ReadConfigFile loads path into cfg using a BurntSushi/toml decoder,
// overriding any defaults and flags already set, the way the teacher
// package's setConfig loads its configuration file.
func (cfg *Cfg) ReadConfigFile(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cliutil: opening configuration file: %w", err)
	}
	defer f.Close()

	var values map[string]interface{}
	if _, err := toml.DecodeReader(f, &values); err != nil {
		return fmt.Errorf("cliutil: parsing configuration file: %w", err)
	}
	for k, v := range values {
		cfg.Set(k, v)
	}
	return nil
}

// kernelVariant parses the Variant flag into an amscrown.KernelVariant.
func kernelVariant(s string) (amscrown.KernelVariant, error) {
	switch s {
	case "classic", "":
		return amscrown.Classic, nil
	case "improved":
		return amscrown.Improved, nil
	default:
		return 0, fmt.Errorf("cliutil: unrecognized kernel variant %q (want classic or improved)", s)
	}
}

// clusterStrategy parses the ClusterStrategy flag into an
// amscrown.ClusterStrategy.
func clusterStrategy(s string) (amscrown.ClusterStrategy, error) {
	switch s {
	case "cluster-center", "":
		return amscrown.ClusterCenter, nil
	case "rounded-mode":
		return amscrown.RoundedMode, nil
	default:
		return 0, fmt.Errorf("cliutil: unrecognized cluster strategy %q (want cluster-center or rounded-mode)", s)
	}
}

// Configuration builds an amscrown.Configuration from cfg's bound
// values.
func (cfg *Cfg) Configuration() (amscrown.Configuration, error) {
	variant, err := kernelVariant(cfg.GetString("Variant"))
	if err != nil {
		return amscrown.Configuration{}, err
	}
	strategy, err := clusterStrategy(cfg.GetString("ClusterStrategy"))
	if err != nil {
		return amscrown.Configuration{}, err
	}
	return amscrown.Configuration{
		CrownDiameterToHeight: cfg.GetFloat64("CrownDiameterToHeight"),
		CrownHeightToHeight:   cfg.GetFloat64("CrownHeightToHeight"),
		MaxIterations:         cfg.GetInt("MaxIterations"),
		ConvergenceEpsilon:    cfg.GetFloat64("ConvergenceEpsilon"),
		Variant:               variant,
		MinHeight:             cfg.GetFloat64("MinHeight"),
		CoreWidth:             cfg.GetFloat64("CoreWidth"),
		BufferWidth:           cfg.GetFloat64("BufferWidth"),
		ClusterEps:            cfg.GetFloat64("ClusterEps"),
		ClusterMinPts:         cfg.GetInt("ClusterMinPts"),
		ClusterStrategy:       strategy,
		Compact:               cfg.GetBool("Compact"),
		WorkerFraction:        cfg.GetFloat64("WorkerFraction"),
	}, nil
}
