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

package cliutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Lenostatos/meanshiftr-improved"
	"github.com/Lenostatos/meanshiftr-improved/csvio"
)

// Version is the amscrown release version, set at build time with
// -ldflags.
var Version = "dev"

// Root builds the amscrown command tree: a root command with global
// flags, a "run" subcommand that segments a cloud end to end, and a
// "version" subcommand, following the teacher package's Root/subcommand
// layout.
func Root() *cobra.Command {
	cfg := InitializeConfig()

	root := &cobra.Command{
		Use:   "amscrown",
		Short: "A tree-crown segmentation tool for airborne LiDAR point clouds.",
		Long: `amscrown delineates individual tree crowns from airborne LiDAR point
clouds using Adaptive Mean Shift 3D (AMS3D).

Configuration can be set with flags or a TOML configuration file
(--ConfigFile); environment variables are not read.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.ReadConfigFile(cfg.GetString("ConfigFile"))
		},
	}
	bindFlags(root.PersistentFlags(), cfg)

	root.AddCommand(versionCmd(), runCmd(cfg))
	return root
}

// bindFlags registers every option in the options table as a persistent
// flag and binds it to cfg, the way the teacher package binds its own
// option table to pflag.FlagSets.
func bindFlags(flags *pflag.FlagSet, cfg *Cfg) {
	for _, o := range options {
		switch v := o.defaultVal.(type) {
		case string:
			flags.String(o.name, v, o.usage)
		case float64:
			flags.Float64(o.name, v, o.usage)
		case int:
			flags.Int(o.name, v, o.usage)
		case bool:
			flags.Bool(o.name, v, o.usage)
		default:
			panic(fmt.Errorf("cliutil: unsupported option type %T for %s", v, o.name))
		}
		cfg.BindPFlag(o.name, flags.Lookup(o.name))
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version number",
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "amscrown v%s\n", Version)
		},
	}
}

func runCmd(cfg *Cfg) *cobra.Command {
	return &cobra.Command{
		Use:               "run",
		Short:             "Segment tree crowns from an input point cloud.",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSegmentation(cfg)
		},
	}
}

func runSegmentation(cfg *Cfg) error {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	inputPath := cfg.GetString("Input")
	if inputPath == "" {
		return fmt.Errorf("cliutil: the Input configuration variable must name an input CSV file")
	}
	outputPath := cfg.GetString("Output")
	if outputPath == "" {
		return fmt.Errorf("cliutil: the Output configuration variable must name an output CSV file")
	}

	amsCfg, err := cfg.Configuration()
	if err != nil {
		return err
	}
	amsCfg.Progress = func(done, total int) {
		log.WithFields(logrus.Fields{"tilesDone": done, "tilesTotal": total}).Info("tile complete")
	}

	log.WithField("path", inputPath).Info("reading input cloud")
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("cliutil: opening input file: %w", err)
	}
	points, err := csvio.ReadCloud(in)
	in.Close()
	if err != nil {
		return err
	}
	log.WithField("points", len(points)).Info("input cloud loaded")

	start := time.Now()
	cloud, err := amscrown.SegmentTreeCrowns(context.Background(), points, amsCfg)
	if err != nil {
		return err
	}
	log.WithField("elapsed", time.Since(start)).Info("segmentation complete")

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("cliutil: creating output file: %w", err)
	}
	defer out.Close()
	if err := csvio.NewWriter(out).WriteCloud(cloud); err != nil {
		return err
	}
	log.WithField("path", outputPath).Info("output cloud written")
	return nil
}
