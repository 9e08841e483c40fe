package pipeline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contactserrors "tratador/internal/contacts/errors"
	"tratador/pkg/locale"
	"tratador/pkg/sanitizer"
	"tratador/pkg/spreadsheet"
)

func defaultAliases() ColumnAliases {
	return NewColumnAliases(
		[]string{"NOME", "Nome", "Cliente", "CLIENTE"},
		[]string{"TELEFONE", "Telefone", "Celular"},
	)
}

func newPipeline(dedupBlank bool) *Pipeline {
	return New(Config{
		Aliases:          defaultAliases(),
		Phones:           sanitizer.NewPhoneFormatter(locale.Countries["BR"], ""),
		DedupBlankPhones: dedupBlank,
	})
}

func TestColumnAliases_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		headers   []string
		wantName  string
		wantPhone string
		wantField string
	}{
		{
			name:      "canonical headers",
			headers:   []string{"NOME", "TELEFONE"},
			wantName:  "NOME",
			wantPhone: "TELEFONE",
		},
		{
			name:      "secondary aliases",
			headers:   []string{"Cliente", "Celular"},
			wantName:  "Cliente",
			wantPhone: "Celular",
		},
		{
			name:      "alias priority beats column order",
			headers:   []string{"Cliente", "Celular", "Nome", "Telefone"},
			wantName:  "Nome",
			wantPhone: "Telefone",
		},
		{
			name:      "no phone alias",
			headers:   []string{"Nome", "Email"},
			wantField: FieldPhone,
		},
		{
			name:      "no name alias",
			headers:   []string{"nome", "TELEFONE"},
			wantField: FieldName,
		},
		{
			name:      "empty header",
			headers:   nil,
			wantField: FieldName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := defaultAliases().Resolve(tt.headers)

			if tt.wantField != "" {
				var missing *contactserrors.MissingColumnError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, tt.wantField, missing.Field)
				assert.ErrorIs(t, err, contactserrors.ErrMissingColumn)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, cols.NameHeader)
			assert.Equal(t, tt.wantPhone, cols.PhoneHeader)
			assert.Equal(t, tt.headers[cols.Name], tt.wantName)
			assert.Equal(t, tt.headers[cols.Phone], tt.wantPhone)
		})
	}
}

func TestMissingColumnError_NamesAliases(t *testing.T) {
	_, err := defaultAliases().Resolve([]string{"Nome", "Email"})
	require.Error(t, err)

	assert.Contains(t, err.Error(), "TELEFONE, Telefone, Celular")
}

func TestChunkStrategy(t *testing.T) {
	s, err := NewChunkStrategy(3)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1, 2, 2, 2, 3}, s.Groups(7))
	assert.Empty(t, s.Groups(0))
}

func TestNewChunkStrategy_RejectsNonPositive(t *testing.T) {
	for _, size := range []int{0, -1} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			_, err := NewChunkStrategy(size)
			assert.ErrorIs(t, err, contactserrors.ErrInvalidParameter)
		})
	}
}

func TestWarmUpStrategy(t *testing.T) {
	s, err := NewWarmUpStrategy(DefaultWarmUpTiers)
	require.NoError(t, err)

	t.Run("65 rows", func(t *testing.T) {
		groups := s.Groups(65)
		for i := 0; i < 30; i++ {
			assert.Equal(t, 1, groups[i], "row %d", i)
		}
		for i := 30; i < 60; i++ {
			assert.Equal(t, 2, groups[i], "row %d", i)
		}
		for i := 60; i < 65; i++ {
			assert.Equal(t, 3, groups[i], "row %d", i)
		}
	})

	t.Run("1000 rows clamp at last tier", func(t *testing.T) {
		groups := s.Groups(1000)
		assert.Equal(t, 6, groups[359])
		assert.Equal(t, 7, groups[360])
		for i := 540; i < 1000; i++ {
			if groups[i] != 7 {
				t.Fatalf("row %d: expected group 7, got %d", i, groups[i])
			}
		}
	})

	t.Run("tier boundaries", func(t *testing.T) {
		groups := s.Groups(541)
		cumulative := 0
		for tier, size := range DefaultWarmUpTiers {
			assert.Equal(t, tier+1, groups[cumulative], "first row of tier %d", tier)
			cumulative += size
			assert.Equal(t, tier+1, groups[cumulative-1], "last row of tier %d", tier)
		}
	})
}

func TestNewWarmUpStrategy_RejectsBadTiers(t *testing.T) {
	_, err := NewWarmUpStrategy(nil)
	assert.ErrorIs(t, err, contactserrors.ErrInvalidParameter)

	_, err = NewWarmUpStrategy([]int{30, 0})
	assert.ErrorIs(t, err, contactserrors.ErrInvalidParameter)
}

func TestGroupsNeverDecrease(t *testing.T) {
	warm, _ := NewWarmUpStrategy([]int{2, 1, 3})
	chunk, _ := NewChunkStrategy(4)

	for _, s := range []Strategy{warm, chunk} {
		groups := s.Groups(50)
		require.Equal(t, 1, groups[0])
		for i := 1; i < len(groups); i++ {
			if groups[i] < groups[i-1] || groups[i] > groups[i-1]+1 {
				t.Fatalf("%s: group jumped from %d to %d at row %d", s.Mode(), groups[i-1], groups[i], i)
			}
		}
	}
}

func TestPartition(t *testing.T) {
	contacts := make([]Contact, 7)
	s, _ := NewChunkStrategy(3)

	groups := Partition(contacts, "Loja", s)

	assert.Equal(t, 3, groups)
	assert.Equal(t, "Loja_G1", contacts[0].Label)
	assert.Equal(t, "Loja_G2", contacts[3].Label)
	assert.Equal(t, "Loja_G3", contacts[6].Label)

	assert.Zero(t, Partition(nil, "Loja", s))
}

func TestDeduplicate(t *testing.T) {
	contacts := []Contact{
		{Name: "A", Phone: "5585999998888"},
		{Name: "B", Phone: ""},
		{Name: "C", Phone: "5585999998888"},
		{Name: "D", Phone: ""},
		{Name: "E", Phone: "5585988887777"},
	}

	t.Run("blank phones exempt", func(t *testing.T) {
		kept, removed := Deduplicate(contacts, false)
		assert.Equal(t, 1, removed)
		assert.Equal(t, []string{"A", "B", "D", "E"}, names(kept))
	})

	t.Run("blank phones collapsed", func(t *testing.T) {
		kept, removed := Deduplicate(contacts, true)
		assert.Equal(t, 2, removed)
		assert.Equal(t, []string{"A", "B", "E"}, names(kept))
	})

	t.Run("input untouched", func(t *testing.T) {
		assert.Len(t, contacts, 5)
		assert.Equal(t, "C", contacts[2].Name)
	})
}

func names(contacts []Contact) []string {
	out := make([]string, len(contacts))
	for i, c := range contacts {
		out[i] = c.Name
	}
	return out
}

func TestNormalizer_Record(t *testing.T) {
	n := NewNormalizer(sanitizer.NewPhoneFormatter(locale.Countries["BR"], ""))

	tests := []struct {
		name   string
		record Record
		want   Contact
	}{
		{"punctuated name and float phone", Record{Name: "Ana-Maria!", Phone: 85999998888.0}, Contact{Name: "AnaMaria", Phone: "5585999998888"}},
		{"numeric name", Record{Name: 42.0, Phone: "99998888"}, Contact{Name: "", Phone: "5585999998888"}},
		{"missing cells", Record{}, Contact{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Record(tt.record))
		})
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	table := spreadsheet.NewTable("NOME", "TELEFONE")
	table.Append("João!", "85999998888")
	table.Append("João!", "85999998888")

	s, err := NewChunkStrategy(1)
	require.NoError(t, err)

	result, err := newPipeline(false).Run(table, "X", s)
	require.NoError(t, err)

	require.Len(t, result.Contacts, 1)
	assert.Equal(t, Contact{Name: "João", Phone: "5585999998888", Label: "X_G1"}, result.Contacts[0])

	out := result.Table()
	assert.Equal(t, []string{ColumnName, ColumnPhone, ColumnLabel}, out.Headers)
	assert.Equal(t, []any{"João", "5585999998888", "X_G1"}, out.Rows[0])

	assert.Equal(t, Summary{
		RowsIn:      2,
		RowsOut:     1,
		Duplicates:  1,
		Groups:      1,
		Mode:        ModeChunk,
		NameColumn:  "NOME",
		PhoneColumn: "TELEFONE",
	}, result.Summary)
}

func TestPipeline_MixedCellsAndWarmUp(t *testing.T) {
	table := spreadsheet.NewTable("Email", "Cliente", "Celular")
	table.Append("a@x", "Ana 😀", float64(85988887777))
	table.Append("b@x", 42.0, "9999-8888")
	table.Append("c@x", "Caio", nil)
	table.Append("d@x", "Duda", "(85) 98888-7777")
	table.Append("e@x", "Eva", "123")

	s, err := NewWarmUpStrategy([]int{2, 1})
	require.NoError(t, err)

	result, err := newPipeline(false).Run(table, "Campanha", s)
	require.NoError(t, err)

	want := []Contact{
		{Name: "Ana ", Phone: "5585988887777", Label: "Campanha_G1"},
		{Name: "", Phone: "5585999998888", Label: "Campanha_G1"},
		{Name: "Caio", Phone: "", Label: "Campanha_G2"},
		{Name: "Eva", Phone: "", Label: "Campanha_G2"},
	}
	assert.Equal(t, want, result.Contacts)
	assert.Equal(t, 2, result.Summary.InvalidPhones)
	assert.Equal(t, 1, result.Summary.Duplicates)
	assert.Equal(t, 2, result.Summary.Groups, "last tier absorbs the overflow")
	assert.Equal(t, ModeWarmUp, result.Summary.Mode)
	assert.Equal(t, "Cliente", result.Summary.NameColumn)
}

func TestPipeline_MissingColumn(t *testing.T) {
	table := spreadsheet.NewTable("Nome", "Email")
	table.Append("Ana", "a@x")
	s, _ := NewChunkStrategy(10)

	result, err := newPipeline(false).Run(table, "X", s)

	assert.Nil(t, result)
	var missing *contactserrors.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, FieldPhone, missing.Field)
}

func TestPipeline_EmptyTable(t *testing.T) {
	s, _ := NewChunkStrategy(10)

	result, err := newPipeline(false).Run(spreadsheet.NewTable("NOME", "TELEFONE"), "X", s)
	require.NoError(t, err)

	assert.Empty(t, result.Contacts)
	assert.Zero(t, result.Summary.Groups)
	assert.Equal(t, []string{ColumnName, ColumnPhone, ColumnLabel}, result.Table().Headers)
}
