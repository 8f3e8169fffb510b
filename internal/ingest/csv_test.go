package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loginrecon/internal/common"
)

const sampleExtract = `emp_id,emp_type,dev_login,uat_login,status,flag
E001,DEV,john_dev,john_uat,A,Y
E001,DEV,jdoe,jdoe,A,N
E002,QA,amy_dev,,A,Y
`

func TestParseFile(t *testing.T) {
	parser := NewParser()
	records, err := parser.ParseFile(context.Background(), strings.NewReader(sampleExtract), "sample.csv")
	require.NoError(t, err)
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "E001", first.EmpID)
	assert.Equal(t, "DEV", first.EmpType)
	require.NotNil(t, first.DevLogin)
	assert.Equal(t, "john_dev", *first.DevLogin)
	assert.Equal(t, "A", first.Status)
	assert.Equal(t, "Y", first.Flag)
	assert.Equal(t, "sample.csv", first.Source)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.ImportedAt.IsZero())

	// Empty uat_login cell means no login recorded.
	third := records[2]
	assert.Nil(t, third.UATLogin)
	require.NotNil(t, third.DevLogin)
}

func TestParseFileHeaderAliases(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "canonical", header: "emp_id,emp_type,dev_login,uat_login,status,flag"},
		{name: "upper case with spaces", header: "EMP ID,EMP TYPE,DEV LOGIN,UAT LOGIN,STATUS,FLAG"},
		{name: "alternate spellings", header: "EmployeeID,Role,Dev-Login-ID,UAT-Login-ID,EmpStatus,CompareFlag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.header + "\nE001,DEV,a_dev,a_uat,A,Y\n"
			records, err := NewParser().ParseFile(context.Background(), strings.NewReader(input), "t.csv")
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "E001", records[0].EmpID)
			assert.Equal(t, "DEV", records[0].EmpType)
		})
	}
}

func TestParseFileMissingColumn(t *testing.T) {
	input := "emp_id,emp_type,dev_login,status,flag\nE001,DEV,a_dev,A,Y\n"
	_, err := NewParser().ParseFile(context.Background(), strings.NewReader(input), "t.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingColumn)
	assert.Contains(t, err.Error(), "uat_login")
}

func TestParseFileMissingLoginSpellings(t *testing.T) {
	input := `emp_id,emp_type,dev_login,uat_login,status,flag
E001,DEV,NaN,null,A,Y
E002,DEV,nan,NULL,A,N
`
	records, err := NewParser().ParseFile(context.Background(), strings.NewReader(input), "t.csv")
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Nil(t, rec.DevLogin, "emp %s", rec.EmpID)
		assert.Nil(t, rec.UATLogin, "emp %s", rec.EmpID)
	}
}

func TestParseFileExtraColumnsAndShortRows(t *testing.T) {
	input := `emp_id,emp_type,dev_login,uat_login,status,flag,department
E001,DEV,a_dev,a_uat,A,Y,Payments
E002,QA,b_dev
`
	records, err := NewParser().ParseFile(context.Background(), strings.NewReader(input), "t.csv")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Short row pads the trailing columns as empty.
	short := records[1]
	assert.Equal(t, "E002", short.EmpID)
	assert.Nil(t, short.UATLogin)
	assert.Equal(t, "", short.Status)
	assert.Equal(t, "", short.Flag)
}

func TestParseFileSkipsIdentityLessRows(t *testing.T) {
	input := `emp_id,emp_type,dev_login,uat_login,status,flag
E001,DEV,a_dev,a_uat,A,Y
,,,,,
`
	records, err := NewParser().ParseFile(context.Background(), strings.NewReader(input), "t.csv")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParseFileEmptyExtract(t *testing.T) {
	_, err := NewParser().ParseFile(context.Background(), strings.NewReader(""), "empty.csv")
	assert.ErrorIs(t, err, common.ErrEmptyExtract)

	headerOnly := "emp_id,emp_type,dev_login,uat_login,status,flag\n"
	_, err = NewParser().ParseFile(context.Background(), strings.NewReader(headerOnly), "header.csv")
	assert.ErrorIs(t, err, common.ErrEmptyExtract)
}

func TestParseFileUTF8BOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + sampleExtract
	records, err := NewParser().ParseFile(context.Background(), strings.NewReader(input), "bom.csv")
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "E001", records[0].EmpID)
}

func TestDecodeToUTF8(t *testing.T) {
	tests := []struct {
		name         string
		wantEncoding string
		want         string
		data         []byte
	}{
		{
			name:         "plain utf-8",
			data:         []byte("hello"),
			want:         "hello",
			wantEncoding: "utf-8",
		},
		{
			name:         "utf-8 with BOM",
			data:         []byte{0xEF, 0xBB, 0xBF, 'h', 'i'},
			want:         "hi",
			wantEncoding: "utf-8-bom",
		},
		{
			name:         "utf-16 little endian",
			data:         []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00},
			want:         "hi",
			wantEncoding: "utf-16le",
		},
		{
			name:         "utf-16 big endian",
			data:         []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'},
			want:         "hi",
			wantEncoding: "utf-16be",
		},
		{
			name:         "latin-1 fallback",
			data:         []byte{'J', 0xF6, 'r', 'g'},
			want:         "Jörg",
			wantEncoding: "latin-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, encoding, err := decodeToUTF8(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEncoding, encoding)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
