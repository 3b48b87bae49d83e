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

package detection

import "github.com/sirupsen/logrus"

// PermissionRemediator attempts to restore read/write access to a
// device path. The protocol core never calls one directly; it only
// reports ErrAccessDenied and leaves remediation to the surrounding
// tool, which decides whether and how to intervene.
type PermissionRemediator interface {
	Remediate(path string) error
}

// AdviceRemediator changes nothing on the host. It tells the operator
// which commands would grant access: dialout group membership plus a
// permissive mode on the device node.
type AdviceRemediator struct {
	Logger logrus.FieldLogger
}

// Remediate implements PermissionRemediator.
func (r AdviceRemediator) Remediate(path string) error {
	log := ensureLogger(r.Logger)
	log.Info("to grant access, run: sudo usermod -a -G dialout $USER")
	log.Infof("then: sudo chmod a+rw %s", path)
	log.Info("log out and back in (or reboot) for the group change to apply")
	return nil
}

// Ensure AdviceRemediator implements PermissionRemediator
var _ PermissionRemediator = AdviceRemediator{}
