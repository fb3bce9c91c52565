//
// Copyright 2024 The mmport Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package mmlog carries the package-wide logger used by port, bufpool,
// and component. It is a side channel only: nothing in this repository
// branches on whether a log line was emitted.
package mmlog

import "github.com/sirupsen/logrus"

// Log is the shared logger. Callers needing component-scoped fields
// should call Log.WithField/WithFields rather than mutate Log itself.
var Log = logrus.New()

func init() {
	// Quiet by default; state-transition traces are at Debug.
	Log.SetLevel(logrus.InfoLevel)
}

// SetDebug flips the shared logger to debug level, where port
// enable/disable/connect/disconnect/pool-alloc transitions are traced.
func SetDebug(enabled bool) {
	if enabled {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
