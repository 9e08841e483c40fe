package pipeline

import (
	"tratador/pkg/sanitizer"
	"tratador/pkg/spreadsheet"
)

// Record is one raw input row, cells as read from the spreadsheet.
type Record struct {
	Name  any
	Phone any
}

// Contact is one normalized output row. Phone is empty or a canonical digit string.
type Contact struct {
	Name  string
	Phone string
	Label string
}

type Normalizer struct {
	phones sanitizer.PhoneFormatter
}

func NewNormalizer(phones sanitizer.PhoneFormatter) Normalizer {
	return Normalizer{phones: phones}
}

// Normalize cleans the name and phone of every row, keeping row order.
// It also reports how many rows ended up without a usable phone.
func (n Normalizer) Normalize(table *spreadsheet.Table, cols Columns) ([]Contact, int) {
	contacts := make([]Contact, 0, table.Len())
	invalid := 0

	for _, row := range table.Rows {
		c := n.Record(Record{Name: row[cols.Name], Phone: row[cols.Phone]})
		if c.Phone == "" {
			invalid++
		}
		contacts = append(contacts, c)
	}

	return contacts, invalid
}

func (n Normalizer) Record(r Record) Contact {
	return Contact{
		Name:  sanitizer.CleanName(r.Name),
		Phone: n.phones.Format(r.Phone),
	}
}
