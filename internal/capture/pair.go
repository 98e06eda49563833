package capture

import (
	"os"
	"path/filepath"
	"strings"
)

// Pair identifies the two files of one logical capture.
type Pair struct {
	Stem           string
	AudioPath      string
	TranscriptPath string
}

// Eligible reports whether path should be considered for processing: it must
// be a regular file located below the watched root, not a direct root-level
// entry. Root-level artifacts (recorder state files, temp files) are ignored.
func Eligible(path, root string) bool {
	cleanRoot := filepath.Clean(root)
	if filepath.Dir(filepath.Clean(path)) == cleanRoot {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Resolve derives the capture pair for path. Both the {stem}.mp3 recording
// and the {stem}.txt transcript must exist on disk; when either half is
// missing the pair is reported incomplete and the caller should wait for the
// counterpart's own filesystem event.
func Resolve(path string) (Pair, bool) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return Pair{}, false
	}

	dir := filepath.Dir(path)
	pair := Pair{
		Stem:           stem,
		AudioPath:      filepath.Join(dir, stem+".mp3"),
		TranscriptPath: filepath.Join(dir, stem+".txt"),
	}
	if _, err := os.Stat(pair.AudioPath); err != nil {
		return Pair{}, false
	}
	if _, err := os.Stat(pair.TranscriptPath); err != nil {
		return Pair{}, false
	}
	return pair, true
}
