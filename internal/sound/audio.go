package sound

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotAudio is returned for files that are not audio.
var ErrNotAudio = errors.New("please select an audio file")

// AudioExtensions lists the extensions offered by the custom sound picker.
var AudioExtensions = []string{".mp3", ".wav", ".ogg", ".oga", ".opus", ".m4a", ".aac", ".flac"}

var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
	".opus": "audio/ogg",
	".m4a":  "audio/mp4",
	".aac":  "audio/aac",
	".flac": "audio/flac",
}

// ContentType returns the MIME type of path, from its extension when known
// and from its leading bytes otherwise.
func ContentType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t, nil
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// ValidateAudioFile checks that path is a readable audio file.
func ValidateAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read sound file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotAudio, filepath.Base(path))
	}

	ct, err := ContentType(path)
	if err != nil {
		return fmt.Errorf("failed to read sound file: %w", err)
	}
	if !isAudioType(ct) {
		return fmt.Errorf("%w: %s is %s", ErrNotAudio, filepath.Base(path), ct)
	}
	return nil
}

func isAudioType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = ct
	}
	return strings.HasPrefix(mt, "audio/") || mt == "application/ogg"
}
