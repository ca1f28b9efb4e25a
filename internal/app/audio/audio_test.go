package audio

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64(t *testing.T) {
	raw := []byte("RIFF\x00\x00\x00\x00WAVEfmt ")
	tests := []struct {
		name    string
		payload string
		max     int64
		want    []byte
		wantErr error
	}{
		{name: "standard", payload: base64.StdEncoding.EncodeToString(raw), want: raw},
		{name: "raw url", payload: base64.RawURLEncoding.EncodeToString([]byte{0xfb, 0xff, 0xfe}), want: []byte{0xfb, 0xff, 0xfe}},
		{name: "data uri", payload: "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(raw), want: raw},
		{name: "surrounding whitespace", payload: "  " + base64.StdEncoding.EncodeToString(raw) + "\n", want: raw},
		{name: "empty", payload: "", wantErr: ErrMissingAudio},
		{name: "blank", payload: "   ", wantErr: ErrMissingAudio},
		{name: "not base64", payload: "this is not base64!!", wantErr: ErrInvalidAudio},
		{name: "exactly at limit", payload: base64.StdEncoding.EncodeToString(make([]byte, 16)), max: 16, want: make([]byte, 16)},
		{name: "one over limit", payload: base64.StdEncoding.EncodeToString(make([]byte, 17)), max: 16, wantErr: ErrAudioTooLarge},
		{name: "far over limit", payload: strings.Repeat("A", 4096), max: 16, wantErr: ErrAudioTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeBase64(tt.payload, tt.max)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBase64_DefaultLimit(t *testing.T) {
	over := make([]byte, DefaultMaxBytes+1)
	_, err := DecodeBase64(base64.StdEncoding.EncodeToString(over), 0)
	assert.ErrorIs(t, err, ErrAudioTooLarge)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		data []byte
		want Format
	}{
		{[]byte("RIFF\x24\x00\x00\x00WAVE"), FormatWAV},
		{[]byte("ID3\x04\x00"), FormatMP3},
		{[]byte{0xFF, 0xFB, 0x90, 0x00}, FormatMP3},
		{[]byte("OggS\x00\x02"), FormatOGG},
		{[]byte("fLaC\x00"), FormatFLAC},
		{[]byte("\x00\x00\x00\x20ftypM4A "), FormatM4A},
		{[]byte{0x1A, 0x45, 0xDF, 0xA3, 0x01}, FormatWebM},
		{[]byte("hello"), FormatUnknown},
		{nil, FormatUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectFormat(tt.data), "%q", tt.data)
	}

	assert.Equal(t, "audio.ogg", FileName([]byte("OggS")))
	assert.Equal(t, "audio.wav", FileName([]byte("???")))
}
