package schema

// Key kinds reported for a column, mirroring MySQL's COLUMN_KEY values
const (
	KeyPrimary  = "PRI"
	KeyUnique   = "UNI"
	KeyMultiple = "MUL"
)

// Schema represents a complete database schema
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Comment    string
	Columns    []Column
	Relations  []Relation
	Indexes    []Index
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name     string
	Position int

	// Type is the full declared type, e.g. "varchar(100)" or "int unsigned".
	Type string
	// DataType is the bare lower-case type name, e.g. "varchar".
	DataType string

	Nullable        bool
	DefaultValue    *string
	IsUnique        bool
	Key             string
	IsAutoIncrement bool
	IsUnsigned      bool

	MaxLength *int64
	Precision *int64
	Scale     *int64

	EnumValues []string
	Comment    string
}

// Relation represents a foreign key relationship
type Relation struct {
	Name         string
	TargetTable  string
	TargetColumn string
	SourceColumn string
	OnDelete     string
	OnUpdate     string
	Cardinality  string // 1:1, 1:N, N:1
}

// Index represents a database index
type Index struct {
	Name     string
	Columns  []string
	IsUnique bool
}

// Table returns the table with the given name, or nil
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether column is part of the table's primary key
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}

// RelationFor returns the outgoing foreign key whose source is column, or nil
func (t *Table) RelationFor(column string) *Relation {
	for i := range t.Relations {
		if t.Relations[i].SourceColumn == column {
			return &t.Relations[i]
		}
	}
	return nil
}
