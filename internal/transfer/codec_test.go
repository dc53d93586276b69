package transfer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRows(t *testing.T) {
	headers := []string{"SKU", "Name", "BasePrice"}
	rows := []Row{
		{"SKU": "A-1", "Name": "Hoodie", "BasePrice": "59.99"},
		{"SKU": "A-2", "Name": " Cap ", "BasePrice": "19.99"},
	}

	data, err := WriteRows(headers, rows)
	require.NoError(t, err)

	gotHeaders, gotRows, err := ReadRows(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, headers, gotHeaders)
	require.Len(t, gotRows, 2)
	assert.Equal(t, "A-1", gotRows[0]["SKU"])
	assert.Equal(t, "Hoodie", gotRows[0]["Name"])
	// Cell values come back trimmed.
	assert.Equal(t, "Cap", gotRows[1]["Name"])
}

func TestReadRowsHeaderOnly(t *testing.T) {
	data, err := WriteRows([]string{"SKU", "Name"}, nil)
	require.NoError(t, err)

	headers, rows, err := ReadRows(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Name"}, headers)
	assert.Empty(t, rows)
}

func TestReadRowsGarbage(t *testing.T) {
	_, _, err := ReadRows(bytes.NewReader([]byte("not a spreadsheet")))
	var codecErr *CodecError
	require.ErrorAs(t, err, &codecErr)
}
