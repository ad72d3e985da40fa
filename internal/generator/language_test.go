package generator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestLanguageEntries(t *testing.T) {
	res := samplePost()
	res.Field("title").SetLabel("nl", "Titel")
	res.Field("status").Options[1].Labels["nl"] = "Gepubliceerd"

	g := NewLanguageGenerator(Options{})
	subject := NewSubject("BlogPost", res)

	en := g.Entries(subject, "en")
	assert.Equal(t, "Blog Post", en["model_name"])
	assert.Equal(t, "Blog Posts", en["model_name_plural"])
	assert.Equal(t, "Create Blog Post", en["create"])

	fields := en["fields"].(map[string]interface{})
	assert.Equal(t, "Title", fields["title"])
	assert.Equal(t, "User", fields["user_id"])
	assert.Len(t, fields, len(res.Fields))

	nl := g.Entries(subject, "nl")
	assert.Equal(t, "Titel", nl["fields"].(map[string]interface{})["title"])
	// labels missing for a locale fall back to English
	assert.Equal(t, "Status", nl["fields"].(map[string]interface{})["status"])
	options := nl["options"].(map[string]interface{})["status"].(map[string]interface{})
	assert.Equal(t, "Draft", options["draft"])
	assert.Equal(t, "Gepubliceerd", options["published"])
}

func TestLanguageGenerate(t *testing.T) {
	dir := t.TempDir()
	subject := NewSubject("Post", samplePost())

	results, err := NewLanguageGenerator(Options{}).Generate(subject, dir, []string{"en", "nl"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(dir, "en", "posts.json"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "nl", "posts.json"), results[1].Path)

	got := readJSON(t, results[0].Path)
	assert.Equal(t, "Post", got["model_name"])
	assert.Contains(t, got, "options")
}

func TestLanguageGenerateMergesExisting(t *testing.T) {
	existing := `{
    "model_name": "Article",
    "custom": "kept",
    "fields": {"title": "Headline", "legacy": "Old"}
}`
	subject := NewSubject("Post", samplePost())

	tests := []struct {
		name      string
		force     bool
		wantModel string
		wantTitle string
	}{
		{name: "existing keys win", force: false, wantModel: "Article", wantTitle: "Headline"},
		{name: "force overwrites generated keys", force: true, wantModel: "Post", wantTitle: "Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "en", "posts.json")
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, os.WriteFile(path, []byte(existing), 0644))

			_, err := NewLanguageGenerator(Options{Force: tt.force}).Generate(subject, dir, []string{"en"})
			require.NoError(t, err)

			got := readJSON(t, path)
			fields := got["fields"].(map[string]interface{})
			assert.Equal(t, tt.wantModel, got["model_name"])
			assert.Equal(t, tt.wantTitle, fields["title"])
			assert.Equal(t, "kept", got["custom"])
			assert.Equal(t, "Old", fields["legacy"])
			assert.Equal(t, "Status", fields["status"])
		})
	}
}

func TestLanguageGenerateRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en", "posts.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewLanguageGenerator(Options{}).Generate(NewSubject("Post", samplePost()), dir, nil)
	assert.Error(t, err)
}
