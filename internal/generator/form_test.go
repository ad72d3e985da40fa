package generator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/stub"
)

func TestFormRender(t *testing.T) {
	res := samplePost()
	body := resource.NewField("body")
	resource.Optimize(body, []string{"en"})
	body.SetLabel("en", `Body & "notes"`)
	res.Fields = append(res.Fields, body)

	got, unresolved, err := NewFormGenerator("en", Options{}).Render(NewSubject("Post", res))
	require.NoError(t, err)
	assert.Empty(t, unresolved)

	for _, want := range []string{
		`<form method="POST" action="/posts" class="post-form">`,
		`<label for="title">Title *</label>`,
		`<input type="text" id="title" name="title" value="" required maxlength="200">`,
		`<small class="form-text">Shown in lists</small>`,
		`<option value="draft" selected>Draft</option>`,
		`<option value="published">Published</option>`,
		`<select id="user_id" name="user_id" required>`,
		`<input type="checkbox" id="is_published" name="is_published" value="1" checked>`,
		`<textarea id="body" name="body" rows="5" required></textarea>`,
		`Body &amp; &#34;notes&#34; *`,
		`<button type="submit">Save Post</button>`,
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, `name="id"`)
}

func TestFormInputTypes(t *testing.T) {
	tests := []struct {
		htmlType string
		want     string
	}{
		{resource.HTMLDateTime, "datetime-local"},
		{resource.HTMLEmail, "email"},
		{"", "text"},
	}
	for _, tt := range tests {
		if got := inputType(tt.htmlType); got != tt.want {
			t.Errorf("inputType(%q) = %q, want %q", tt.htmlType, got, tt.want)
		}
	}
}

func TestFormRadio(t *testing.T) {
	res := resource.New()
	f := resource.NewField("size")
	f.Options = []resource.Option{{Value: "s"}, {Value: "m", Labels: resource.Labels{"en": "Medium"}}}
	f.HTMLType = resource.HTMLRadio
	f.DataValue = strPtr("m")
	resource.Optimize(f, []string{"en"})
	res.Fields = append(res.Fields, f)

	got, _, err := NewFormGenerator("en", Options{}).Render(NewSubject("Shirt", res))
	require.NoError(t, err)
	assert.Contains(t, got, `<legend>Size *</legend>`)
	assert.Contains(t, got, `<input type="radio" name="size" value="m" checked> Medium</label>`)
	assert.Contains(t, got, `<input type="radio" name="size" value="s"> S</label>`)
}

func TestFormGenerate(t *testing.T) {
	dir := t.TempDir()
	subject := NewSubject("Post", samplePost())

	result, err := NewFormGenerator("en", Options{}).Generate(subject, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "posts", "form.html"), result.Path)

	_, err = NewFormGenerator("en", Options{}).Generate(subject, dir)
	assert.True(t, errors.Is(err, ErrTargetExists), "got %v", err)

	_, err = NewFormGenerator("en", Options{Force: true}).Generate(subject, dir)
	assert.NoError(t, err)
}

func TestFormStubOverride(t *testing.T) {
	overrides := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(overrides, "form"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(overrides, "form", "input.stub"),
		[]byte(`<x-input name="[% field_name %]" theme="[% theme %]"/>`+"\n"), 0644))

	opts := Options{Loader: stub.NewLoader(overrides, nil)}
	result, err := NewFormGenerator("en", opts).Generate(NewSubject("Post", samplePost()), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"theme"}, result.Unresolved)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<x-input name="title" theme="[% theme %]"/>`)
}
