package spreadsheet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", ref, v))
		}
	}

	buf := new(bytes.Buffer)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"contatos.xlsx", FormatXLSX},
		{"contatos.CSV", FormatCSV},
		{"contatos.csv", FormatCSV},
		{"contatos", FormatXLSX},
		{"contatos.xls", FormatXLSX},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename))
		})
	}
}

func TestReadXLSX_TypedCells(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Nome", "Telefone", "Ativo"},
		{"João", 85999998888, true},
		{"Maria", "(85) 98888-7777", false},
		{nil, nil, nil},
		{"Pedro", nil, nil},
	})

	table, err := ReadXLSX(buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nome", "Telefone", "Ativo"}, table.Headers)
	require.Equal(t, 3, table.Len(), "blank row should be skipped")

	assert.Equal(t, "João", table.Rows[0][0])
	assert.Equal(t, float64(85999998888), table.Rows[0][1])
	assert.Equal(t, true, table.Rows[0][2])

	assert.Equal(t, "(85) 98888-7777", table.Rows[1][1])
	assert.Equal(t, false, table.Rows[1][2])

	assert.Equal(t, "Pedro", table.Rows[2][0])
	assert.Nil(t, table.Rows[2][1])
	assert.Len(t, table.Rows[2], 3)
}

func TestReadXLSX_EmptyWorkbook(t *testing.T) {
	table, err := ReadXLSX(workbook(t, nil))
	require.NoError(t, err)
	assert.Empty(t, table.Headers)
	assert.Zero(t, table.Len())
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("definitely not a zip"))
	assert.Error(t, err)
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	out := NewTable("NOME", "TELEFONE", "ETIQUETA")
	out.Append("João", "5585999998888", "Loja_G1")
	out.Append("Maria", "5585988887777", "Loja_G1")

	buf := new(bytes.Buffer)
	require.NoError(t, WriteXLSX(buf, out))

	back, err := ReadXLSX(buf)
	require.NoError(t, err)

	assert.Equal(t, out.Headers, back.Headers)
	require.Equal(t, 2, back.Len())
	assert.Equal(t, "5585999998888", back.Rows[0][1], "phones must stay text")
	assert.Equal(t, "Loja_G1", back.Rows[1][2])
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comma", "Nome,Telefone\nJoão,85999998888\nMaria,(85) 98888-7777\n"},
		{"semicolon", "Nome;Telefone\nJoão;85999998888\nMaria;(85) 98888-7777\n"},
		{"byte order mark", "\xEF\xBB\xBFNome,Telefone\nJoão,85999998888\nMaria,(85) 98888-7777\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, []string{"Nome", "Telefone"}, table.Headers)
			require.Equal(t, 2, table.Len())
			assert.Equal(t, int64(85999998888), table.Rows[0][1])
			assert.Equal(t, "(85) 98888-7777", table.Rows[1][1])
		})
	}
}

func TestReadCSV_ShortAndBlankRows(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("Nome,Telefone,Extra\nAna\n,,\nBia,9999-8888,x,y\n"))
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, []any{"Ana", nil, nil}, table.Rows[0])
	assert.Equal(t, []any{"Bia", "9999-8888", "x"}, table.Rows[1])
}

func TestWriteCSV(t *testing.T) {
	out := NewTable("NOME", "TELEFONE", "ETIQUETA")
	out.Append("Silva, João", "5585999998888", "Loja_G1")

	buf := new(bytes.Buffer)
	require.NoError(t, WriteCSV(buf, out))

	want := "\xEF\xBB\xBFNOME,TELEFONE,ETIQUETA\n\"Silva, João\",5585999998888,Loja_G1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTempFile(t *testing.T) {
	dir := t.TempDir()
	out := NewTable("NOME", "TELEFONE", "ETIQUETA")
	out.Append("Ana", "5585999998888", "L_G1")

	path, err := WriteTempFile(dir, FormatCSV, out)
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".csv", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ana,5585999998888,L_G1")
}

func TestWriteTempFile_MissingDir(t *testing.T) {
	path, err := WriteTempFile(filepath.Join(t.TempDir(), "missing"), FormatXLSX, NewTable("NOME"))
	assert.Error(t, err)
	assert.Empty(t, path)
}

func TestTable_Column(t *testing.T) {
	table := NewTable("Nome", "NOME", "Telefone")

	assert.Equal(t, 0, table.Column("Nome"))
	assert.Equal(t, 1, table.Column("NOME"))
	assert.Equal(t, -1, table.Column("nome"))
}
