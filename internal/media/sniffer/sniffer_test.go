package sniffer

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name     string
		head     []byte
		wantType MediaType
		wantMIME string
		wantErr  bool
	}{
		{
			name:     "jpeg magic",
			head:     []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10},
			wantType: TypeJPEG,
			wantMIME: "image/jpeg",
		},
		{
			name:     "png magic",
			head:     []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00},
			wantType: TypePNG,
			wantMIME: "image/png",
		},
		{
			name:     "webp riff container",
			head:     append([]byte("RIFF"), append([]byte{0x24, 0x00, 0x00, 0x00}, []byte("WEBPVP8 ")...)...),
			wantType: TypeWEBP,
			wantMIME: "image/webp",
		},
		{
			name:    "empty head",
			head:    nil,
			wantErr: true,
		},
		{
			name:    "gif rejected",
			head:    []byte("GIF89a"),
			wantErr: true,
		},
		{
			name:    "riff but not webp",
			head:    append([]byte("RIFF"), append([]byte{0x24, 0x00, 0x00, 0x00}, []byte("WAVEfmt ")...)...),
			wantErr: true,
		},
		{
			name:    "truncated jpeg magic",
			head:    []byte{0xff, 0xd8},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DetectHead(tt.head)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, result.Type)
			assert.Equal(t, tt.wantMIME, result.MIME)
		})
	}
}

func TestMimeTypeFromHTTP(t *testing.T) {
	header := http.Header{}
	assert.Equal(t, "", MimeTypeFromHTTP(header))

	header.Set("Content-Type", "image/jpeg")
	assert.Equal(t, "image/jpeg", MimeTypeFromHTTP(header))

	header.Set("Content-Type", "image/png; charset=binary")
	assert.Equal(t, "image/png", MimeTypeFromHTTP(header))
}

func TestMimeTypeFromMultipartHeader(t *testing.T) {
	// Multipart part headers are textproto.MIMEHeader; the ingest path
	// converts them to http.Header before reading the declared type.
	fileHeader := &multipart.FileHeader{
		Filename: "site.jpg",
		Header: textproto.MIMEHeader{
			"Content-Type": []string{"image/jpeg"},
		},
	}

	assert.Equal(t, "image/jpeg", MimeTypeFromHTTP(http.Header(fileHeader.Header)))
}
