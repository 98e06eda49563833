package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with the given contents, creating parent
// directories as needed.
func WriteFile(t testing.TB, path string, contents []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WritePair creates a capture pair {stem}.mp3 and {stem}.txt inside dir and
// returns the recording path.
func WritePair(t testing.TB, dir, stem string, audio, transcript []byte) string {
	t.Helper()

	audioPath := filepath.Join(dir, stem+".mp3")
	WriteFile(t, audioPath, audio)
	WriteFile(t, filepath.Join(dir, stem+".txt"), transcript)
	return audioPath
}
