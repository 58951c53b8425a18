package warehouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Int64(t *testing.T) {
	row := Row{
		"i64":   int64(7),
		"i32":   int32(8),
		"int":   9,
		"float": float64(10),
		"frac":  1.5,
		"str":   "11",
		"bytes": []byte("12"),
		"bad":   "twelve",
		"null":  nil,
		"bool":  true,
	}

	for col, want := range map[string]int64{"i64": 7, "i32": 8, "int": 9, "float": 10, "str": 11, "bytes": 12} {
		got, err := row.Int64(col)
		require.NoError(t, err, col)
		assert.Equal(t, want, got, col)
	}

	for _, col := range []string{"frac", "bad", "null", "bool", "missing"} {
		_, err := row.Int64(col)
		assert.Error(t, err, col)
	}
}

func TestRow_Strings(t *testing.T) {
	row := Row{"name": "Alice", "raw": []byte("Bob"), "null": nil, "num": int64(1)}

	s, err := row.String("name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", s)

	s, err = row.String("raw")
	require.NoError(t, err)
	assert.Equal(t, "Bob", s)

	s, err = row.String("null")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	ns, err := row.NullString("null")
	require.NoError(t, err)
	assert.Nil(t, ns)

	_, err = row.NullString("num")
	assert.Error(t, err)

	_, err = row.String("missing")
	assert.Error(t, err)
}

func TestRow_NullInt64(t *testing.T) {
	row := Row{"id": int64(4), "null": nil, "bad": "x"}

	n, err := row.NullInt64("id")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, int64(4), *n)

	n, err = row.NullInt64("null")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = row.NullInt64("bad")
	assert.Error(t, err)

	_, err = row.NullInt64("missing")
	assert.Error(t, err)
}
