// Package capture understands scanner radio capture files: the filename
// grammar carrying talkgroup and radio identifiers, and the pairing of a
// recording with its transcript.
package capture
