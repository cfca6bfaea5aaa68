// SPDX-License-Identifier: GPL-3.0-or-later

package radiotimes

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LicenceStore persists accepted licence messages, one per line, in an
// "eula" file under the base directory. Prompting the user is the
// caller's concern.
type LicenceStore struct {
	path string
}

// NewLicenceStore returns a store rooted at base.
func NewLicenceStore(base string) *LicenceStore {
	return &LicenceStore{path: filepath.Join(base, "eula")}
}

// Accepted reports whether message has previously been accepted. A
// missing store file means nothing has been accepted yet.
func (s *LicenceStore) Accepted(message string) (bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == message {
			return true, nil
		}
	}
	return false, nil
}

// Accept records message as accepted.
func (s *LicenceStore) Accept(message string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(message + "\n"); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
