// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import "context"

// TestLogger matches the logging methods of *testing.T/*testing.B.
type TestLogger interface {
	Log(args ...interface{})
}

// Testing returns a Context that routes log messages at Debug severity and
// above to t.Log, for use at the top of a test function.
func Testing(t TestLogger) Context {
	return Put(context.Background(), func(s Severity, msg string) {
		t.Log(s.String() + ": " + msg)
	}, Debug)
}
