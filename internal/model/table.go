package model

// Table is the spreadsheet-like table editor shape.
type Table struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Columns     []Column `json:"columns" yaml:"columns"`
}

// Column.DataType is an SQL-literal token such as "VARCHAR(255)".
type Column struct {
	ID              string       `json:"id" yaml:"id"`
	Name            string       `json:"name" yaml:"name"`
	DataType        string       `json:"dataType" yaml:"dataType"`
	IsPrimaryKey    bool         `json:"isPrimaryKey" yaml:"isPrimaryKey"`
	IsForeignKey    bool         `json:"isForeignKey" yaml:"isForeignKey"`
	IsNullable      bool         `json:"isNullable" yaml:"isNullable"`
	IsIndexed       bool         `json:"isIndexed" yaml:"isIndexed"`
	IsAutoIncrement bool         `json:"isAutoIncrement" yaml:"isAutoIncrement"`
	Description     string       `json:"description,omitempty" yaml:"description,omitempty"`
	Validations     []Validation `json:"validations,omitempty" yaml:"validations,omitempty"`
}

// Structural columns. The table editor shows them; converters never turn
// them back into user fields.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
	ColumnDeletedAt = "deleted_at"
)

// IsStructural reports whether name is one of the synthesized columns.
func IsStructural(name string) bool {
	switch name {
	case ColumnID, ColumnCreatedAt, ColumnUpdatedAt, ColumnDeletedAt:
		return true
	}
	return false
}
