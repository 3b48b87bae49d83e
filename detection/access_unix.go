// Copyright 2026 The go-ssp Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !windows

package detection

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// CheckAccess reports whether path is readable and writable by the
// current process. Failure wraps ErrAccessDenied; remediation is the
// caller's business.
func CheckAccess(path string) error {
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrAccessDenied, path, err)
	}
	return nil
}
