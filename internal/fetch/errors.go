// SPDX-License-Identifier: GPL-3.0-or-later

package fetch

import (
	"errors"
	"fmt"
)

var (
	// ErrRobotsDisallowed marks URLs the provider's robots.txt forbids.
	ErrRobotsDisallowed = errors.New("fetch: disallowed by robots.txt")

	// ErrUpstreamStatus marks HTTP error responses from the provider.
	ErrUpstreamStatus = errors.New("fetch: upstream error status")
)

// RobotsError wraps ErrRobotsDisallowed with the refused URL.
type RobotsError struct {
	URL string
}

func (e *RobotsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrRobotsDisallowed, e.URL)
}

func (e *RobotsError) Unwrap() error {
	return ErrRobotsDisallowed
}

// HTTPError wraps ErrUpstreamStatus with response detail for logging.
type HTTPError struct {
	Name   string
	URL    string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("fetch: %s: HTTP %d", e.Name, e.Status)
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	return msg
}

func (e *HTTPError) Unwrap() error {
	return ErrUpstreamStatus
}
