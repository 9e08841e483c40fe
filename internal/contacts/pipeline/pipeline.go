// Package pipeline turns an uploaded contact table into labeled, deduplicated
// contacts: resolve columns, normalize fields, drop repeated phones, then
// assign groups.
package pipeline

import (
	"tratador/pkg/sanitizer"
	"tratador/pkg/spreadsheet"
)

// Output column headers, in order.
const (
	ColumnName  = "NOME"
	ColumnPhone = "TELEFONE"
	ColumnLabel = "ETIQUETA"
)

type Config struct {
	Aliases          ColumnAliases
	Phones           sanitizer.PhoneFormatter
	DedupBlankPhones bool
}

type Pipeline struct {
	aliases       ColumnAliases
	normalizer    Normalizer
	collapseBlank bool
}

func New(cfg Config) *Pipeline {
	return &Pipeline{
		aliases:       cfg.Aliases,
		normalizer:    NewNormalizer(cfg.Phones),
		collapseBlank: cfg.DedupBlankPhones,
	}
}

type Summary struct {
	RowsIn        int    `json:"rows_in"`
	RowsOut       int    `json:"rows_out"`
	Duplicates    int    `json:"duplicates_removed"`
	InvalidPhones int    `json:"invalid_phones"`
	Groups        int    `json:"groups"`
	Mode          string `json:"mode"`
	NameColumn    string `json:"name_column"`
	PhoneColumn   string `json:"phone_column"`
}

type Result struct {
	Contacts []Contact
	Summary  Summary
}

// Run executes every stage over table. The input table is not modified.
func (p *Pipeline) Run(table *spreadsheet.Table, label string, strategy Strategy) (*Result, error) {
	cols, err := p.aliases.Resolve(table.Headers)
	if err != nil {
		return nil, err
	}

	contacts, invalid := p.normalizer.Normalize(table, cols)
	contacts, duplicates := Deduplicate(contacts, p.collapseBlank)
	groups := Partition(contacts, label, strategy)

	return &Result{
		Contacts: contacts,
		Summary: Summary{
			RowsIn:        table.Len(),
			RowsOut:       len(contacts),
			Duplicates:    duplicates,
			InvalidPhones: invalid,
			Groups:        groups,
			Mode:          strategy.Mode(),
			NameColumn:    cols.NameHeader,
			PhoneColumn:   cols.PhoneHeader,
		},
	}, nil
}

// Table renders the contacts with the NOME, TELEFONE, ETIQUETA columns.
func (r *Result) Table() *spreadsheet.Table {
	out := spreadsheet.NewTable(ColumnName, ColumnPhone, ColumnLabel)
	out.Rows = make([][]any, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		out.Rows = append(out.Rows, []any{c.Name, c.Phone, c.Label})
	}
	return out
}
