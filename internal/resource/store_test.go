package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		model string
		want  string
	}{
		{"BlogPost", "blog_posts.json"},
		{"Person", "people.json"},
		{"category", "categories.json"},
		{"posts.yaml", "posts.yaml"},
		{"custom.JSON", "custom.JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.model))
		})
	}
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "resources"), nil)

	assert.False(t, store.Exists("BlogPost"))
	_, err := store.Load("BlogPost")
	require.ErrorIs(t, err, ErrResourceNotFound)

	res := richResource()
	path, err := store.Create("BlogPost", res, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir, "blog_posts.json"), path)
	assert.True(t, store.Exists("BlogPost"))

	_, err = store.Create("BlogPost", New(), false)
	require.ErrorIs(t, err, ErrResourceExists)

	loaded, err := store.Load("BlogPost")
	require.NoError(t, err)
	assert.Equal(t, res.FieldNames(), loaded.FieldNames())
	assert.Equal(t, "Titre", loaded.Field("title").Labels["fr"])

	_, err = store.Create("BlogPost", New(), true)
	require.NoError(t, err)
	loaded, err = store.Load("BlogPost")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())

	require.NoError(t, store.Delete("BlogPost"))
	assert.False(t, store.Exists("BlogPost"))
	require.ErrorIs(t, store.Delete("BlogPost"), ErrResourceNotFound)
}

func TestStoreYAML(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	_, err := store.Save("posts.yaml", richResource())
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(store.Dir, "posts.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "auto-manage-created-and-updated-at: true")

	loaded, err := store.Load("posts.yaml")
	require.NoError(t, err)
	assert.Equal(t, "blog_posts", loaded.TableName)
}

func TestStoreSaveRejectsInvalidResource(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	res := New()
	res.Fields = append(res.Fields, NewField("title"), NewField("title"))

	_, err := store.Save("Post", res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field name")
	assert.False(t, store.Exists("Post"))
}

func TestStoreList(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	for _, model := range []string{"Post", "Comment", "tags.yaml"} {
		_, err := store.Save(model, New())
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "README.md"), []byte("x"), 0644))

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"comments.json", "posts.json", "tags.yaml"}, names)

	missing := NewStore(filepath.Join(store.Dir, "nope"), nil)
	names, err = missing.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}
