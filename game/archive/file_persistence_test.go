package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/receipt-escape/game/service"
)

func TestFilePersistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	fp, err := NewFilePersistence(dir)
	require.NoError(t, err)

	a := newArtifact("file-1", time.Now())
	uri := "data:image/png;base64,AAAA"
	a.BarcodeImage = &uri

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, fp.Save(a))
		assert.True(t, fp.Exists("file-1"))

		loaded, err := fp.Load("file-1")
		require.NoError(t, err)
		assert.Equal(t, a.Label, loaded.Label)
		require.NotNil(t, loaded.BarcodeImage)
		assert.Equal(t, uri, *loaded.BarcodeImage)

		data, ok := loaded.Result.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "NO DATA", data["text"])
	})

	t.Run("list all", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

		ids, err := fp.ListAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"file-1"}, ids)
	})

	t.Run("bad ids", func(t *testing.T) {
		assert.Error(t, fp.Save(&service.Artifact{ID: "../escape"}))
		assert.Error(t, fp.Save(nil))
		assert.False(t, fp.Exists("../file-1"))
		_, err := fp.Load("../file-1")
		assert.ErrorIs(t, err, service.ErrArtifactNotFound)
	})

	t.Run("corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
		_, err := fp.Load("broken")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, service.ErrArtifactNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, fp.Delete("file-1"))
		assert.False(t, fp.Exists("file-1"))
		assert.ErrorIs(t, fp.Delete("file-1"), service.ErrArtifactNotFound)
	})
}
