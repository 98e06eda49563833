package capture

import "regexp"

// DefaultRadioID is reported when a filename carries no _FROM_ source field.
const DefaultRadioID = "123456"

// Metadata holds the identifiers extracted from a recording filename.
type Metadata struct {
	// Timestamp is the literal YYYYMMDD_HHMMSS token from the filename.
	Timestamp string
	// TalkgroupID is the destination talkgroup digits with any single
	// alphabetic prefix stripped ("P52189" yields "52189").
	TalkgroupID string
	// RadioID is the source radio digits, or DefaultRadioID when absent.
	RadioID string
}

// filenamePattern recognizes capture recording names such as
//
//	20241223_204051North_Carolina_VIPER_Cleveland_T-BennsKControl__TO_P52189_[52193]_FROM_2151975.mp3
//	20241223_210126N2GE_MtMitchell_14519NBFM__TO_9999.mp3
//
// Groups: 1 = timestamp, 2 = optional talkgroup prefix letter, 3 = talkgroup
// digits, 4 = optional radio digits. The bracketed annotation after the
// talkgroup carries no output value and is skipped, with or without a
// separating underscore. Site and descriptor text between the timestamp and
// the __TO_ delimiter is ignored.
var filenamePattern = regexp.MustCompile(`(\d{8}_\d{6}).*__TO_([A-Za-z]?)(\d+)(?:_?\[[^\]]*\])?(?:_FROM_(\d+))?`)

// ParseFilename extracts capture metadata from a recording filename. The
// second return value is false when the name does not follow the capture
// grammar; that is a normal outcome for unrelated files, not an error.
func ParseFilename(name string) (Metadata, bool) {
	match := filenamePattern.FindStringSubmatch(name)
	if match == nil {
		return Metadata{}, false
	}

	meta := Metadata{
		Timestamp:   match[1],
		TalkgroupID: match[3],
		RadioID:     match[4],
	}
	if meta.RadioID == "" {
		meta.RadioID = DefaultRadioID
	}
	return meta, true
}
