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
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "datagen",
	Short: "A generator of test data from profiles.",
	Long:  "Generates rows of test data satisfying the fields and rules of a profile.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("datagen ")
			if Version != "" {
				// Built via "make"
				fmt.Printf("%s", Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				// Built via "go install"
				fmt.Printf("%s", info.Main.Version)
			} else {
				// Unknown, perhaps "go run"
				fmt.Printf("(unknown version)")
			}
			fmt.Println()
		} else {
			fmt.Println(cmd.UsageString())
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Flag defaults may be given in a .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("ignoring .env file: %s", err)
	}
	//
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("generation-type", envOr("GENERATION_TYPE", "random"),
		"generation type (random, interesting or full_sequential)")
	rootCmd.PersistentFlags().String("combination", envOr("COMBINATION", "exhaustive"),
		"combination strategy (exhaustive, pinning or minimal)")
	rootCmd.PersistentFlags().Uint64P("max-rows", "n", envUintOr("MAX_ROWS", 1000),
		"maximum number of rows to generate (0 for no limit)")
	rootCmd.PersistentFlags().Uint64("seed", envUintOr("SEED", 0), "seed for random generation (0 for a random seed)")
	rootCmd.PersistentFlags().StringP("format", "f", envOr("FORMAT", ""),
		"output format (csv, json or table), defaulting to table on a terminal and csv otherwise")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output file or directory (default stdout)")
}
