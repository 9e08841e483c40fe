package pipeline

import (
	contactserrors "tratador/internal/contacts/errors"
	"tratador/pkg/sanitizer"
)

const (
	FieldName  = "name"
	FieldPhone = "phone"
)

// ColumnAliases lists, in priority order, the header names accepted for each field.
type ColumnAliases struct {
	Name  []string
	Phone []string
}

func NewColumnAliases(name, phone []string) ColumnAliases {
	return ColumnAliases{
		Name:  sanitizer.NormalizeColumnNames(name),
		Phone: sanitizer.NormalizeColumnNames(phone),
	}
}

// Columns is the resolved position of each field in the header row.
type Columns struct {
	Name        int
	Phone       int
	NameHeader  string
	PhoneHeader string
}

// Resolve picks, for each field, the first alias present in headers.
// Alias order decides ties, not column order.
func (a ColumnAliases) Resolve(headers []string) (Columns, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	nameHeader, nameCol, err := lookup(index, FieldName, a.Name)
	if err != nil {
		return Columns{}, err
	}
	phoneHeader, phoneCol, err := lookup(index, FieldPhone, a.Phone)
	if err != nil {
		return Columns{}, err
	}

	return Columns{
		Name:        nameCol,
		Phone:       phoneCol,
		NameHeader:  nameHeader,
		PhoneHeader: phoneHeader,
	}, nil
}

func lookup(index map[string]int, field string, aliases []string) (string, int, error) {
	for _, alias := range aliases {
		if col, ok := index[alias]; ok {
			return alias, col, nil
		}
	}
	return "", -1, &contactserrors.MissingColumnError{Field: field, Aliases: aliases}
}
