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
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of time and memory allocation at a given point
// in time, such that the cost of a generation run can be reported.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats

	startTime := time.Now()

	runtime.ReadMemStats(&m)

	return &PerfStats{startTime, m.TotalAlloc, m.NumGC}
}

// Log logs the difference between the state now and as it was when the
// PerfStats object was created.
func (p *PerfStats) Log(prefix string) {
	exectime, alloc, gcs := p.measure()

	log.Debugf("%s took %0.2fs using %v Mb (%v GC events)", prefix, exectime, alloc, gcs)
}

// LogRows logs throughput for a run which emitted a given number of rows,
// alongside the time and memory it took.
func (p *PerfStats) LogRows(prefix string, rows uint64) {
	exectime, alloc, gcs := p.measure()
	rate := float64(rows)
	//
	if exectime > 0 {
		rate = rate / exectime
	}
	//
	log.WithFields(log.Fields{"rows": rows, "seconds": exectime}).
		Debugf("%s took %0.2fs using %v Mb (%v GC events, %0.1f rows/s)", prefix, exectime, alloc, gcs, rate)
}

func (p *PerfStats) measure() (float64, uint64, uint32) {
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	return time.Since(p.startTime).Seconds(), (m.TotalAlloc - p.startMem) / 1024 / 1024, m.NumGC - p.startGc
}
