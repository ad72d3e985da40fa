package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/resourcekit/internal/resource"
)

// runCLI runs the command line in a fresh project directory state
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(append([]string{"--no-color"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

// inProject switches to an empty project directory
func inProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DATABASE_URL", "")
	return dir
}

func loadResource(t *testing.T, file string) *resource.Resource {
	t.Helper()
	res, err := resource.NewStore("resources", nil).Load(file)
	require.NoError(t, err)
	return res
}

func TestResourceCreate(t *testing.T) {
	inProject(t)

	code, out, errOut := runCLI(t, "resource", "create", "Post",
		"--fields", "title;is-unique:true#body#author_id#name:bad;is-nullable:maybe",
		"--relations", "name:author;type:belongsTo;params:User|author_id|id",
		"--translation-for", "nl")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "✓ Created "+filepath.Join("resources", "posts.json"))
	assert.Contains(t, out, "3 fields, 1 relations, 0 indexes")
	assert.Contains(t, errOut, "invalid boolean")

	res := loadResource(t, "posts.json")
	assert.Equal(t, []string{"title", "body", "author_id"}, res.FieldNames())
	assert.True(t, res.Field("title").IsUnique)
	assert.Equal(t, "Title", res.Field("title").Labels["nl"])
	assert.Equal(t, resource.TypeText, res.Field("body").DataType)

	code, _, errOut = runCLI(t, "resource", "create", "Post", "--fields", "title")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "already exists")

	code, _, errOut = runCLI(t, "resource", "create", "Post", "--fields", "name", "--force")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, []string{"name"}, loadResource(t, "posts.json").FieldNames())
}

func TestResourceAppendAndReduce(t *testing.T) {
	inProject(t)

	code, _, errOut := runCLI(t, "resource", "create", "Post", "--fields", "title")
	require.Equal(t, 0, code, errOut)

	code, out, errOut := runCLI(t, "resource", "append", "Post",
		"--fields", "title#slug;is-unique:true#slug",
		"--indexes", "type:unique;columns:title|slug")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "added 1 fields, 0 relations, 1 indexes")
	assert.Contains(t, errOut, `field "title" already exists; skipped`)
	assert.Contains(t, errOut, `field "slug" already exists; skipped`)

	res := loadResource(t, "posts.json")
	assert.Equal(t, []string{"title", "slug"}, res.FieldNames())
	assert.NotNil(t, res.Index("title_slug_unique"))

	code, out, errOut = runCLI(t, "resource", "reduce", "Post", "--fields", "slug,missing")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "removed 1 fields")
	assert.Contains(t, errOut, `field "missing" not found`)
	assert.Contains(t, errOut, `index "title_slug_unique" still references removed field "slug"`)

	code, out, errOut = runCLI(t, "resource", "reduce", "Post", "--fields", "title", "--indexes", "title_slug_unique")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "the resource is empty")
	_, err := os.Stat(filepath.Join("resources", "posts.json"))
	assert.True(t, os.IsNotExist(err), "empty resource file should be deleted")
}

func TestResourceReduceKeepsUntouchedEmptyFile(t *testing.T) {
	inProject(t)

	path, err := resource.NewStore("resources", nil).Save("Post", resource.New())
	require.NoError(t, err)

	code, out, errOut := runCLI(t, "resource", "reduce", "Post", "--fields", "missing")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Nothing removed")
	assert.NotContains(t, out, "the resource is empty")
	_, err = os.Stat(path)
	assert.NoError(t, err, "a reduce that removes nothing must not delete the file")
}

func TestResourceNotFound(t *testing.T) {
	inProject(t)

	code, _, errOut := runCLI(t, "resource", "create", "Post", "--fields", "title")
	require.Equal(t, 0, code, errOut)

	code, _, errOut = runCLI(t, "resource", "append", "Postt", "--fields", "body")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "RESOURCE NOT FOUND")
	assert.Contains(t, errOut, "Did you mean: posts.json?")

	code, _, errOut = runCLI(t, "generate", "form", "Comment")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "No resource file for 'Comment'.")

	code, _, errOut = runCLI(t, "resource", "append", "Post")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "nothing to append")
}

func TestResourceDeleteAndShow(t *testing.T) {
	inProject(t)

	code, _, errOut := runCLI(t, "resource", "create", "BlogPost", "--fields", "title#name:status;options:draft|live")
	require.Equal(t, 0, code, errOut)

	code, out, errOut := runCLI(t, "resource", "show", "BlogPost")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "RESOURCE BlogPost (table: blog_posts, timestamps)")
	assert.Contains(t, out, "status: enum (draft|live) NOT NULL")

	code, out, errOut = runCLI(t, "resource", "show", "blog_posts.json", "--format", "markdown")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "## BlogPost")

	code, _, errOut = runCLI(t, "resource", "show", "BlogPost", "--format", "html")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid format")

	code, out, errOut = runCLI(t, "resource", "docs", "--output-dir", "docs")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "Wrote 2 files to docs")
	assert.FileExists(t, filepath.Join("docs", "blog_posts.md"))

	code, _, errOut = runCLI(t, "resource", "delete", "BlogPost", "--force")
	require.Equal(t, 0, code, errOut)
	assert.NoFileExists(t, filepath.Join("resources", "blog_posts.json"))

	code, _, _ = runCLI(t, "resource", "delete", "BlogPost", "--force")
	assert.Equal(t, 1, code)
}

func TestGenerateAll(t *testing.T) {
	inProject(t)

	code, _, errOut := runCLI(t, "resource", "create", "Post",
		"--fields", "title#body#name:status;options:draft|live;default:draft", "--translation-for", "nl")
	require.Equal(t, 0, code, errOut)
	require.NoError(t, os.WriteFile("resourcekit.yaml", []byte("locales: [en, nl]\nmigration:\n  dialect: postgres\n"), 0644))

	code, out, errOut := runCLI(t, "generate", "all", "Post", "--dialect", "sqlite")
	require.Equal(t, 0, code, errOut)

	migrations, err := filepath.Glob(filepath.Join("database", "migrations", "*_create_posts_table.sql"))
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	sqlText, err := os.ReadFile(migrations[0])
	require.NoError(t, err)
	assert.Contains(t, string(sqlText), `CREATE TABLE "posts"`)

	assert.FileExists(t, filepath.Join("lang", "en", "posts.json"))
	assert.FileExists(t, filepath.Join("lang", "nl", "posts.json"))
	assert.FileExists(t, filepath.Join("views", "posts", "form.html"))
	assert.Contains(t, out, filepath.Join("views", "posts", "form.html"))

	code, _, errOut = runCLI(t, "generate", "migration", "Post")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "already exists")

	code, _, errOut = runCLI(t, "generate", "migration", "Post", "--dialect", "oracle")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unsupported database driver")

	code, _, errOut = runCLI(t, "generate", "language", "Post")
	assert.Equal(t, 0, code, errOut)
}

func TestFromDatabase(t *testing.T) {
	dir := inProject(t)

	dbPath := filepath.Join(dir, "blog.db")
	conn, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = conn.Exec(`
CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(100) NOT NULL);
CREATE TABLE posts (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	title VARCHAR(150) NOT NULL
);
CREATE TABLE migrations (id INTEGER PRIMARY KEY, name TEXT);`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	code, out, errOut := runCLI(t, "resource", "from-database", "--db-url", "sqlite://"+dbPath, "--exclude", "migrations")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, filepath.Join("resources", "posts.json"))
	assert.Contains(t, out, filepath.Join("resources", "users.json"))
	assert.NoFileExists(t, filepath.Join("resources", "migrations.json"))

	posts := loadResource(t, "posts.json")
	assert.Equal(t, []string{"id", "user_id", "title"}, posts.FieldNames())
	require.NotNil(t, posts.Relation("user"))

	t.Setenv("DATABASE_URL", "sqlite://"+dbPath)
	code, _, errOut = runCLI(t, "resource", "from-database", "--tables", "users")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, errOut, "Skipped")

	code, _, errOut = runCLI(t, "resource", "from-database", "--db-url", "oracle://scott@db")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unsupported database driver")
}

func TestConfigFile(t *testing.T) {
	inProject(t)
	require.NoError(t, os.WriteFile("custom.yaml", []byte("paths:\n  resources: models\n"), 0644))

	code, _, errOut := runCLI(t, "--config", "custom.yaml", "resource", "create", "Tag", "--fields", "name")
	require.Equal(t, 0, code, errOut)
	assert.FileExists(t, filepath.Join("models", "tags.json"))

	code, _, errOut = runCLI(t, "--config", "missing.yaml", "version")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "failed to read config file")
}

func TestVersionAndStubs(t *testing.T) {
	inProject(t)

	code, out, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "resourcekit dev")

	code, out, errOut := runCLI(t, "stubs")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "form/input: [field_name")
	assert.Contains(t, out, "migration/create_table:")
}

func TestParseTableList(t *testing.T) {
	tests := []struct {
		name       string
		tablesStr  string
		wantTables []string
	}{
		{name: "single table", tablesStr: "users", wantTables: []string{"users"}},
		{name: "multiple tables", tablesStr: "users,posts,comments", wantTables: []string{"users", "posts", "comments"}},
		{name: "tables with spaces", tablesStr: "users, posts, comments", wantTables: []string{"users", "posts", "comments"}},
		{name: "empty entries", tablesStr: "users,,", wantTables: []string{"users"}},
		{name: "empty string", tablesStr: "", wantTables: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTables := parseTableList(tt.tablesStr)
			if len(gotTables) != len(tt.wantTables) {
				t.Errorf("parseTableList() returned %d tables, want %d", len(gotTables), len(tt.wantTables))
				return
			}
			for i, table := range gotTables {
				if table != tt.wantTables[i] {
					t.Errorf("parseTableList() table[%d] = %s, want %s", i, table, tt.wantTables[i])
				}
			}
		})
	}
}

func TestSimilarNames(t *testing.T) {
	files := []string{"comments.json", "posts.json", "post_tags.json"}
	assert.Equal(t, []string{"posts.json", "post_tags.json"}, similarNames("Postt", files))
	assert.Empty(t, similarNames("User", files))
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
