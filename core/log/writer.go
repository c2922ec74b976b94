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

import (
	"context"
	"fmt"
	"io"
)

// Std returns a Context whose handler writes "severity: message" lines to w,
// filtering out anything below filter. This is the handler cmd/shaderlibc
// installs around os.Stderr.
func Std(w io.Writer, filter Severity) Context {
	return Put(context.Background(), func(s Severity, msg string) {
		fmt.Fprintf(w, "%s: %s\n", s, msg)
	}, filter)
}
