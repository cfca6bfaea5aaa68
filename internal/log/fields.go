// SPDX-License-Identifier: GPL-3.0-or-later

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"

	// Download / pipeline fields
	FieldURL      = "url"
	FieldSize     = "size"
	FieldRate     = "rate"
	FieldItems    = "items"
	FieldChannel  = "channel"
	FieldLineup   = "lineup"
	FieldFile     = "file"
	FieldDay      = "day"
)
