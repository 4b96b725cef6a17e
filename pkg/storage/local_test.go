package storage

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLocalDisk(t *testing.T) *localDisk {
	t.Helper()
	return &localDisk{root: t.TempDir(), baseURL: "http://localhost:8080/storage"}
}

func TestLocalDiskRoundTrip(t *testing.T) {
	d := tempLocalDisk(t)

	require.NoError(t, d.Put("products/abc.jpg", []byte("jpeg-bytes")))
	assert.True(t, d.Exists("products/abc.jpg"))

	data, err := d.Get("products/abc.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	rc, err := d.GetStream("products/abc.jpg")
	require.NoError(t, err)
	streamed, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, []byte("jpeg-bytes"), streamed)
}

func TestLocalDiskDelete(t *testing.T) {
	d := tempLocalDisk(t)
	require.NoError(t, d.Put("a/b.txt", []byte("x")))

	require.NoError(t, d.Delete("a/b.txt"))
	assert.False(t, d.Exists("a/b.txt"))

	// Deleting a missing file is not an error.
	assert.NoError(t, d.Delete("a/b.txt"))
}

func TestLocalDiskURL(t *testing.T) {
	d := tempLocalDisk(t)
	assert.Equal(t, "http://localhost:8080/storage/products/abc.jpg", d.URL("products/abc.jpg"))
	assert.Equal(t, "http://localhost:8080/storage/abc.jpg", d.URL("/abc.jpg"))
}

func TestRegisteredDiskLookup(t *testing.T) {
	d := tempLocalDisk(t)
	RegisterDisk("test-disk", d)
	assert.Equal(t, Disk(d), Use("test-disk"))

	assert.Panics(t, func() { Use("no-such-disk") })
}
