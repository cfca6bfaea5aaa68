// SPDX-License-Identifier: GPL-3.0-or-later

package schedulesdirect

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord marks schedule entries whose timing fields do
	// not parse.
	ErrMalformedRecord = errors.New("schedulesdirect: malformed record")

	// ErrUnknownChannel marks channel names absent from a lineup's
	// station list.
	ErrUnknownChannel = errors.New("schedulesdirect: channel not found")

	// ErrAPIFailure marks service responses with a non-zero code.
	ErrAPIFailure = errors.New("schedulesdirect: request failed")
)

// MalformedRecordError wraps ErrMalformedRecord with the programme
// reference and a reason.
type MalformedRecordError struct {
	ProgramID string
	Reason    string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrMalformedRecord, e.ProgramID, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// UnknownChannelError wraps ErrUnknownChannel with the lineup searched.
type UnknownChannelError struct {
	Lineup string
	Name   string
}

func (e *UnknownChannelError) Error() string {
	return fmt.Sprintf("%v: %q in %s", ErrUnknownChannel, e.Name, e.Lineup)
}

func (e *UnknownChannelError) Unwrap() error {
	return ErrUnknownChannel
}

// APIError wraps ErrAPIFailure with the service's code and message.
type APIError struct {
	Operation string
	Code      int
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s: code %d %s", ErrAPIFailure, e.Operation, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return ErrAPIFailure
}
