// SPDX-License-Identifier: MIT

package monitor

import "github.com/google/uuid"

// newRunID keeps a caller-supplied identifier verbatim and otherwise
// generates a random (v4) UUID.
func newRunID(supplied string) string {
	if supplied != "" {
		return supplied
	}
	return uuid.New().String()
}
