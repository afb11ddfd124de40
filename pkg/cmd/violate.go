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
	"path/filepath"
	"regexp"
	"strings"

	"github.com/consensys/go-datagen/pkg/profile"
	"github.com/spf13/cobra"
)

var violateCmd = &cobra.Command{
	Use:   "violate [flags] profile_file",
	Short: "generate rows of data violating each rule of a profile.",
	Long: `Generate one data set for each rule of a given profile, whose rows violate
	that rule whilst satisfying every other rule.  Each data set is written to a
	separate file in the output directory.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run := startRun(cmd)
		dir := GetString(cmd, "output")
		//
		if dir == "" {
			fail(fmt.Errorf("violate requires an output directory"))
		}
		// Parse profile
		p, err := profile.ReadFile(args[0])
		if err != nil {
			fail(err)
		}
		//
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fail(err)
		}
		//
		for i, v := range profile.Violate(p, GetStringArray(cmd, "dont-violate")) {
			filename := filepath.Join(dir, violationFile(i+1, v.Rule, GetString(cmd, "format")))
			run.log.Debugf("violating rule \"%s\" into %s", v.Rule, filename)
			//
			out, format, err := openOutput(cmd, filename)
			if err != nil {
				fail(err)
			}
			//
			err = generateTo(run, v.Profile, out, format)
			//
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			//
			if err != nil {
				fail(err)
			}
		}
	},
}

var nonAlphanumeric = regexp.MustCompile("[^a-zA-Z0-9]+")

// Determine the name of the file holding the data set violating a given rule.
func violationFile(index int, rule string, format string) string {
	var ext = "csv"
	//
	if format == "json" {
		ext = "jsonl"
	} else if format != "" {
		ext = format
	}
	//
	name := strings.Trim(nonAlphanumeric.ReplaceAllString(strings.ToLower(rule), "-"), "-")
	//
	return fmt.Sprintf("%d-%s.%s", index, name, ext)
}

func init() {
	rootCmd.AddCommand(violateCmd)
	violateCmd.Flags().StringArray("dont-violate", nil, "constraint kinds which are never violated (e.g. inSet)")
}
