// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/consensys/go-datagen/pkg/decisiontree"
	"github.com/consensys/go-datagen/pkg/generation"
	"github.com/consensys/go-datagen/pkg/output"
	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/consensys/go-datagen/pkg/util"
	"github.com/consensys/go-datagen/pkg/util/termio"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] profile_file",
	Short: "generate rows of data satisfying a profile.",
	Long:  `Generate rows of data whose values satisfy every rule of a given profile.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run := startRun(cmd)
		// Parse profile
		p, err := profile.ReadFile(args[0])
		if err != nil {
			fail(err)
		}
		// Determine output
		out, format, err := openOutput(cmd, GetString(cmd, "output"))
		if err != nil {
			fail(err)
		}
		//
		defer out.Close()
		//
		if err := generateTo(run, p, out, format); err != nil {
			fail(err)
		}
	},
}

// Run describes the configuration of a single invocation.
type Run struct {
	// Unique identifier of this run, as used in logging.
	ID     uuid.UUID
	Config generation.Config
	log    *log.Entry
}

// Configure logging and generation for a run from the given command.
func startRun(cmd *cobra.Command) Run {
	// Configure log level
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	var (
		id     = uuid.New()
		config = generation.DefaultConfig()
		err    error
	)
	//
	if config.Type, err = generation.ParseGenerationType(GetString(cmd, "generation-type")); err != nil {
		fail(err)
	} else if config.Combination, err = generation.ParseCombinationStrategy(GetString(cmd, "combination")); err != nil {
		fail(err)
	}
	//
	config.MaxRows = GetUint64(cmd, "max-rows")
	config.Seed = GetUint64(cmd, "seed")
	// Derive a seed from the run identifier
	if config.Seed == 0 {
		config.Seed = binary.BigEndian.Uint64(id[:8])
	}
	//
	entry := log.WithField("run", id.String())
	entry.Debugf("generation type %s, combination %s, max rows %d, seed %d", config.Type, config.Combination,
		config.MaxRows, config.Seed)
	//
	return Run{id, config, entry}
}

// Generate the rows of a profile to a given output.
func generateTo(run Run, p *profile.Profile, out io.Writer, format output.Format) error {
	stats := util.NewPerfStats()
	// Construct decision tree
	tree, err := decisiontree.Build(p)
	if err != nil {
		return err
	}
	//
	run.log.Debugf("decision tree has %d nodes (depth %d)", tree.Root.Size(), tree.Root.Depth())
	//
	rows := generation.NewGenerator(run.Config).Generate(tree)
	n, err := output.WriteAll(newWriter(format, out, tree.Fields), rows)
	//
	if n == 0 && err == nil {
		run.log.Warn("no rows generated, the profile may be contradictory")
	}
	//
	stats.LogRows("generation", n)
	//
	return err
}

func newWriter(format output.Format, out io.Writer, fields profile.Fields) output.RowWriter {
	if format == output.Table {
		return output.NewTableWriter(out, fields, termio.Width(os.Stdout), termio.IsTerminal(os.Stdout))
	}
	//
	return output.NewWriter(format, out, fields)
}

// Open a given output file (or stdout if none), and determine its format.
func openOutput(cmd *cobra.Command, filename string) (io.WriteCloser, output.Format, error) {
	var (
		out  io.WriteCloser = nopCloser{os.Stdout}
		name                = GetString(cmd, "format")
	)
	//
	if filename != "" {
		file, err := os.Create(filename)
		if err != nil {
			return nil, output.CSV, err
		}
		//
		out = file
	}
	// Choose a default format
	if name == "" && filename == "" && termio.IsTerminal(os.Stdout) {
		return out, output.Table, nil
	} else if name == "" {
		return out, output.CSV, nil
	}
	//
	format, err := output.ParseFormat(name)
	//
	return out, format, err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
