// SPDX-License-Identifier: GPL-3.0-or-later

// Package radiotimes parses the Radio Times tilde-delimited listing
// format and normalises records into canonical programmes.
package radiotimes

// Positional indexes of the 23 tilde-delimited fields of one listing
// record. The numbering is fixed by the provider; recordFields is the
// expected arity checked on every parse.
const (
	fieldTitle         = 0
	fieldSubTitle      = 1
	fieldEpisode       = 2
	fieldYear          = 3
	fieldDirector      = 4
	fieldCast          = 5
	fieldPremiere      = 6
	fieldFilm          = 7
	fieldRepeat        = 8
	fieldSubtitles     = 9
	fieldWidescreen    = 10
	fieldNewSeries     = 11
	fieldDeafSigned    = 12
	fieldBlackAndWhite = 13
	fieldStarRating    = 14
	fieldCertificate   = 15
	fieldGenre         = 16
	fieldDesc          = 17
	fieldChoice        = 18
	fieldDate          = 19
	fieldStart         = 20
	fieldStop          = 21
	fieldDurationMins  = 22

	recordFields = 23
)

// Compile-time check that the enumeration covers exactly recordFields
// positions.
var _ [recordFields]struct{} = [fieldDurationMins + 1]struct{}{}
