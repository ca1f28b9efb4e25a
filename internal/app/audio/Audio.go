package audio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxBytes is the decoded audio size limit used when none is configured.
const DefaultMaxBytes int64 = 5 << 20

var (
	// ErrMissingAudio means the request carried no audio payload.
	ErrMissingAudio = errors.New("no audio data provided")
	// ErrInvalidAudio means the payload is not valid base64.
	ErrInvalidAudio = errors.New("audio is not valid base64")
	// ErrAudioTooLarge means the decoded payload exceeds the size limit.
	ErrAudioTooLarge = errors.New("audio exceeds size limit")
)

// Format is a container format recognized from leading magic bytes.
type Format string

const (
	FormatWAV     Format = "wav"
	FormatMP3     Format = "mp3"
	FormatOGG     Format = "ogg"
	FormatFLAC    Format = "flac"
	FormatM4A     Format = "m4a"
	FormatWebM    Format = "webm"
	FormatUnknown Format = ""
)

// DecodeBase64 decodes a standard or URL-safe base64 payload, optionally
// prefixed with a data URI header, and rejects results larger than maxBytes.
// A non-positive maxBytes falls back to DefaultMaxBytes.
func DecodeBase64(payload string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, ";base64,"); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+len(";base64,"):]
	}
	if payload == "" {
		return nil, ErrMissingAudio
	}

	// Reject before allocating the decoded buffer.
	if int64(base64.StdEncoding.DecodedLen(len(strings.TrimRight(payload, "=")))) > maxBytes+2 {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrAudioTooLarge, maxBytes)
	}

	data, err := decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAudio, err)
	}
	if len(data) == 0 {
		return nil, ErrMissingAudio
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrAudioTooLarge, len(data), maxBytes)
	}
	return data, nil
}

func decode(payload string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(payload)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// DetectFormat sniffs the container format of data.
func DetectFormat(data []byte) Format {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return FormatMP3
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOGG
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return FormatM4A
	case bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return FormatWebM
	default:
		return FormatUnknown
	}
}

// FileName returns a synthetic file name whose extension matches the sniffed
// format. Upload APIs use the extension to pick a decoder; unknown data is
// sent as wav.
func FileName(data []byte) string {
	format := DetectFormat(data)
	if format == FormatUnknown {
		format = FormatWAV
	}
	return "audio." + string(format)
}
