package filestorage

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStorage_SaveAndDelete(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	saved, err := storage.Save(strings.NewReader("hola"), "Clientes.CSV", "sources")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved, "sources/"))
	assert.True(t, strings.HasSuffix(saved, ".csv"))

	data, err := os.ReadFile(storage.Path(saved))
	require.NoError(t, err)
	assert.Equal(t, "hola", string(data))

	require.NoError(t, storage.Delete(saved))
	_, err = os.Stat(storage.Path(saved))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, storage.Delete(saved), "повторное удаление")
}
