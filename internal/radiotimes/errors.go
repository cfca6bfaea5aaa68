// SPDX-License-Identifier: GPL-3.0-or-later

package radiotimes

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord marks listing lines that cannot be parsed:
	// wrong field count or unparseable date/time values.
	ErrMalformedRecord = errors.New("radiotimes: malformed record")

	// ErrUnknownChannel marks channel names absent from the fetched
	// lineup.
	ErrUnknownChannel = errors.New("radiotimes: channel not found")
)

// MalformedRecordError wraps ErrMalformedRecord with the offending line
// and a reason.
type MalformedRecordError struct {
	Line   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%v: %s: %q", ErrMalformedRecord, e.Reason, e.Line)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// UnknownChannelError wraps ErrUnknownChannel with the requested name.
type UnknownChannelError struct {
	Name string
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownChannel, e.Name)
}

func (e *UnknownChannelError) Unwrap() error {
	return ErrUnknownChannel
}
