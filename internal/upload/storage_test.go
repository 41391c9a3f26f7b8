package upload_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"waveBackend/internal/logger"
	"waveBackend/internal/upload"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

func TestStorage_Store(t *testing.T) {
	s, err := upload.New(t.TempDir(), "/uploads", 1)
	require.NoError(t, err)

	url, err := s.Store([]byte("fake image bytes"), "photo.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, "_photo.jpg"))

	// файл реально лежит на диске
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(s.Dir(), entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)
}

func TestStorage_BadExtension(t *testing.T) {
	s, err := upload.New(t.TempDir(), "/uploads", 1)
	require.NoError(t, err)

	for _, name := range []string{"evil.exe", "noext", "script.sh", "archive.tar.gz"} {
		_, err := s.Store([]byte("data"), name)
		assert.ErrorIs(t, err, upload.ErrBadExtension, name)
	}
}

func TestStorage_TooLarge(t *testing.T) {
	s, err := upload.New(t.TempDir(), "/uploads", 1) // лимит 1 МБ
	require.NoError(t, err)

	big := make([]byte, 1<<20+1)
	_, err = s.Store(big, "big.png")
	assert.ErrorIs(t, err, upload.ErrTooLarge)
}

func TestStorage_SanitizesFilename(t *testing.T) {
	s, err := upload.New(t.TempDir(), "/uploads", 1)
	require.NoError(t, err)

	url, err := s.Store([]byte("data"), "../../etc/pass wd.png")
	require.NoError(t, err)
	assert.NotContains(t, url, "..")
	assert.NotContains(t, url, " ")
}
