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
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Prefix of environment variables which supply flag defaults.
const envPrefix = "DATAGEN_"

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected unsigned integer, or panic if an error arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array, or panic if an error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Determine the default of a flag from the environment, if given there.
func envOr(name string, def string) string {
	if val, ok := os.LookupEnv(envPrefix + name); ok {
		return val
	}
	//
	return def
}

func envUintOr(name string, def uint64) uint64 {
	val, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return def
	}
	//
	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		log.Warnf("ignoring %s%s: %s", envPrefix, name, err)
		return def
	}
	//
	return n
}

// Report an error and exit.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
