package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SanitizeFilename(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain name", input: "photo.PNG", expected: "photo.PNG"},
		{name: "directory components stripped", input: "../../etc/passwd", expected: "passwd"},
		{name: "windows path stripped", input: `C:\pics\photo.jpg`, expected: "photo.jpg"},
		{name: "spaces become underscores", input: "my photo.jpg", expected: "my_photo.jpg"},
		{name: "unsafe characters dropped", input: "ph@to#1!.png", expected: "phto1.png"},
		{name: "leading dots trimmed", input: ".hidden.png", expected: "hidden.png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFilename(tc.input))
		})
	}
}

func Test_DiskStore_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("P001.png", []byte("bytes")))
	data, err := os.ReadFile(filepath.Join(dir, "P001.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("bytes"), data)

	require.NoError(t, s.Remove("P001.png"))
	assert.NoFileExists(t, filepath.Join(dir, "P001.png"))
}

func Test_DiskStore_RemoveMissingIsSuccess(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, s.Remove("never-existed.png"))
}

func Test_DiskStore_PathConfinesToDirectory(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "passwd"), s.Path("../../etc/passwd"))
}

func Test_NewDiskStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "media", "products")

	_, err := NewDiskStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}
