package storage_test

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hayal27/sininning-pro-sub000/internal/storage"
)

// 1x1 transparent PNG.
const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func pngBytes(t *testing.T) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(pngBase64)
	require.NoError(t, err)
	return data
}

func TestStore_Save(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		data        func(t *testing.T) []byte
		wantType    string
		wantExt     string
		wantErr     error
		maxBytes    int64
		wantNoFiles bool
	}{
		{
			name:     "png",
			data:     pngBytes,
			wantType: "image/png",
			wantExt:  ".png",
		},
		{
			name:     "pdf",
			data:     func(*testing.T) []byte { return []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n%%EOF\n") },
			wantType: "application/pdf",
			wantExt:  ".pdf",
		},
		{
			name: "svg",
			data: func(*testing.T) []byte {
				return []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
			},
			wantType: "image/svg+xml",
			wantExt:  ".svg",
		},
		{
			name:        "html rejected",
			data:        func(*testing.T) []byte { return []byte("<!DOCTYPE html><html><body>hi</body></html>") },
			wantErr:     storage.ErrUnsupportedType,
			wantNoFiles: true,
		},
		{
			name:        "empty rejected",
			data:        func(*testing.T) []byte { return nil },
			wantErr:     storage.ErrEmptyFile,
			wantNoFiles: true,
		},
		{
			name:        "too large",
			data:        pngBytes,
			maxBytes:    10,
			wantErr:     storage.ErrTooLarge,
			wantNoFiles: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			maxBytes := tc.maxBytes
			if maxBytes == 0 {
				maxBytes = 1 << 20
			}
			store := storage.NewStore(dir, maxBytes)

			data := tc.data(t)
			file, err := store.Save(bytes.NewReader(data))

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				if tc.wantNoFiles {
					assertNoFiles(t, dir)
				}
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tc.wantType, file.ContentType)
			assert.Equal(t, int64(len(data)), file.Size)
			assert.Regexp(t, regexp.MustCompile(`^/uploads/\d{4}/\d{2}/[0-9a-f-]{36}`+regexp.QuoteMeta(tc.wantExt)+`$`), file.URL)

			stored, err := os.ReadFile(file.Path)
			require.NoError(t, err)
			assert.Equal(t, data, stored)
			assert.True(t, strings.HasPrefix(file.Path, dir))
		})
	}
}

func assertNoFiles(t *testing.T, dir string) {
	t.Helper()

	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, files)
}
