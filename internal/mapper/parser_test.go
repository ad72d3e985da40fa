package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/resourcekit/internal/db"
	"github.com/tordrt/resourcekit/internal/resource"
	"github.com/tordrt/resourcekit/internal/schema"
)

func postsSchema() *schema.Schema {
	return &schema.Schema{Tables: []schema.Table{
		{
			Name: "posts",
			Columns: []schema.Column{
				{Name: "id", Position: 1, DataType: "int", Type: "int unsigned", IsAutoIncrement: true, IsUnsigned: true, Key: schema.KeyPrimary},
				{Name: "title", Position: 2, DataType: "varchar", Type: "varchar(150)", MaxLength: int64p(150), Comment: "Post title"},
				{Name: "slug", Position: 3, DataType: "varchar", Type: "varchar(150)", MaxLength: int64p(150), IsUnique: true, Key: schema.KeyUnique},
				{Name: "is_published", Position: 4, DataType: "tinyint", Type: "tinyint(1)", DefaultValue: strp("0")},
				{Name: "status", Position: 5, DataType: "enum", Type: "enum('draft','published')", EnumValues: []string{"draft", "published"}, DefaultValue: strp("draft")},
				{Name: "author_id", Position: 6, DataType: "bigint", Type: "bigint unsigned", IsUnsigned: true, Key: schema.KeyMultiple},
				{Name: "body", Position: 7, DataType: "text", Type: "text", Nullable: true, DefaultValue: strp("NULL")},
				{Name: "created_at", Position: 8, DataType: "timestamp", Type: "timestamp", Nullable: true},
				{Name: "updated_at", Position: 9, DataType: "timestamp", Type: "timestamp", Nullable: true},
			},
			PrimaryKey: []string{"id"},
			Relations: []schema.Relation{
				{Name: "posts_author_id_foreign", SourceColumn: "author_id", TargetTable: "users", TargetColumn: "id", OnDelete: "CASCADE", OnUpdate: "NO ACTION"},
			},
			Indexes: []schema.Index{
				{Name: "posts_slug_unique", Columns: []string{"slug"}, IsUnique: true},
				{Name: "posts_author_id_index", Columns: []string{"author_id"}},
				{Name: "posts_status_created_at_index", Columns: []string{"status", "created_at"}},
			},
		},
		{
			Name: "users",
			Columns: []schema.Column{
				{Name: "id", Position: 1, DataType: "int", Type: "int", IsAutoIncrement: true},
				{Name: "email", Position: 2, DataType: "varchar", Type: "varchar(255)", MaxLength: int64p(255)},
				{Name: "name", Position: 3, DataType: "varchar", Type: "varchar(255)", MaxLength: int64p(255)},
			},
			PrimaryKey: []string{"id"},
		},
	}}
}

func TestParserResource(t *testing.T) {
	p, err := NewParser(db.DriverMySQL, []string{"en", "fr"}, nil)
	require.NoError(t, err)

	s := postsSchema()
	res, warnings := p.Resource(s.Table("posts"), s)
	assert.Empty(t, warnings)

	assert.Equal(t, []string{"id", "title", "slug", "is_published", "status", "author_id", "body", "created_at", "updated_at"}, res.FieldNames())
	assert.Equal(t, "posts", res.TableName)
	assert.True(t, res.AutoTimestamp)
	require.NoError(t, res.Validate())

	id := res.Field("id")
	assert.True(t, id.IsPrimary)
	assert.True(t, id.IsAutoIncrement)
	assert.True(t, id.IsUnsigned)
	assert.False(t, id.IsOnForm)
	assert.Equal(t, resource.HTMLHidden, id.HTMLType)

	title := res.Field("title")
	assert.Equal(t, resource.TypeString, title.DataType)
	assert.Equal(t, resource.Params{"150"}, title.DataTypeParams)
	assert.Equal(t, "Post title", title.Comment)
	assert.Equal(t, "Title", title.Labels["fr"])
	assert.Equal(t, "required|string|min:1|max:150", title.Validation.String())

	slug := res.Field("slug")
	assert.True(t, slug.IsUnique)
	assert.False(t, slug.IsIndex)

	published := res.Field("is_published")
	assert.Equal(t, resource.TypeBoolean, published.DataType)
	assert.Equal(t, resource.HTMLCheckbox, published.HTMLType)
	require.NotNil(t, published.DataValue)
	assert.Equal(t, "0", *published.DataValue)

	status := res.Field("status")
	assert.Equal(t, resource.TypeEnum, status.DataType)
	assert.Equal(t, []string{"draft", "published"}, status.OptionValues())
	assert.Equal(t, "Published", status.Options[1].Labels["en"])
	assert.Equal(t, "required|in:draft,published", status.Validation.String())

	author := res.Field("author_id")
	assert.True(t, author.IsIndex)
	assert.True(t, author.IsUnsigned)
	require.NotNil(t, author.ForeignConstraint)
	assert.Equal(t, resource.ForeignConstraint{Field: "author_id", References: "id", On: "users", OnDelete: "cascade", OnUpdate: "no action"}, *author.ForeignConstraint)
	assert.Equal(t, resource.HTMLSelect, author.HTMLType)
	assert.True(t, author.HasRule("exists"))

	body := res.Field("body")
	assert.True(t, body.IsNullable)
	assert.Nil(t, body.DataValue)

	assert.False(t, res.Field("created_at").IsOnForm)

	require.Len(t, res.Relations, 1)
	assert.Equal(t, resource.ForeignRelationship{
		Name:   "author",
		Type:   resource.RelationBelongsTo,
		Params: []string{"User", "author_id", "id"},
		Field:  "name",
	}, *res.Relations[0])

	require.Len(t, res.Indexes, 1)
	assert.Equal(t, resource.Index{Name: "posts_status_created_at_index", Type: resource.IndexTypeIndex, Columns: []string{"status", "created_at"}}, *res.Indexes[0])
}

func TestParserCompositePrimaryKey(t *testing.T) {
	p, err := NewParser(db.DriverSQLServer, nil, nil)
	require.NoError(t, err)

	table := &schema.Table{
		Name: "post_tag",
		Columns: []schema.Column{
			{Name: "post_id", Position: 1, DataType: "int", Type: "int"},
			{Name: "tag_id", Position: 2, DataType: "int", Type: "int"},
			{Name: "is_pinned", Position: 3, DataType: "bit", Type: "bit", DefaultValue: strp("0")},
		},
		PrimaryKey: []string{"post_id", "tag_id"},
	}

	res, _ := p.Resource(table, nil)

	assert.Nil(t, res.PrimaryField())
	for _, f := range res.Fields {
		assert.False(t, f.IsPrimary, "field %s", f.Name)
	}
	assert.False(t, res.AutoTimestamp)
	assert.Equal(t, resource.TypeBoolean, res.Field("is_pinned").DataType)

	require.Len(t, res.Indexes, 1)
	assert.Equal(t, resource.IndexTypePrimary, res.Indexes[0].Type)
	assert.Equal(t, []string{"post_id", "tag_id"}, res.Indexes[0].Columns)
	assert.Equal(t, "post_id_tag_id_primary", res.Indexes[0].Name)
}

func TestParserRelationWithoutIDSuffix(t *testing.T) {
	p := NewParserWithDialect(Postgres{}, nil, nil)
	table := &schema.Table{
		Name: "comments",
		Columns: []schema.Column{
			{Name: "id", DataType: "int4", Type: "integer", IsAutoIncrement: true},
			{Name: "owner", DataType: "int4", Type: "integer"},
		},
		PrimaryKey: []string{"id"},
		Relations: []schema.Relation{
			{SourceColumn: "owner", TargetTable: "users", TargetColumn: "id"},
		},
	}

	res, _ := p.Resource(table, nil)
	require.Len(t, res.Relations, 1)
	assert.Equal(t, "user", res.Relations[0].Name)
	assert.Empty(t, res.Relations[0].Field)
}

func TestParserMap(t *testing.T) {
	p, err := NewParser(db.DriverMySQL, nil, nil)
	require.NoError(t, err)

	mapped := p.Map(postsSchema())
	require.Len(t, mapped, 2)
	assert.Equal(t, "posts", mapped[0].Table)
	assert.Equal(t, "Post", mapped[0].Model)
	assert.Equal(t, "User", mapped[1].Model)
	assert.Len(t, mapped[1].Resource.Fields, 3)
}

func TestNewParserUnsupportedDriver(t *testing.T) {
	_, err := NewParser("oracle", nil, nil)
	assert.ErrorIs(t, err, db.ErrUnsupportedDriver)
}

func TestDisplayFieldFallback(t *testing.T) {
	target := &schema.Table{
		Name: "countries",
		Columns: []schema.Column{
			{Name: "code", DataType: "char"},
			{Name: "iso_name", DataType: "varchar"},
		},
		PrimaryKey: []string{"code"},
	}
	assert.Equal(t, "iso_name", displayField(target, "code"))

	target.Columns = target.Columns[:1]
	assert.Equal(t, "code", displayField(target, "code"))
}
