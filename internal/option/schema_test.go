package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefine(t *testing.T) {
	s := NewSchema()

	fileID, err := s.Define("file", String, "file path to the architecture XML")
	require.NoError(t, err)
	verboseID, err := s.Define("verbose", Flag, "Show verbose outputs")
	require.NoError(t, err)

	assert.Equal(t, ID(0), fileID)
	assert.Equal(t, ID(1), verboseID)
	assert.Equal(t, 2, s.Len())

	file, ok := s.Option(fileID)
	require.True(t, ok)
	assert.True(t, file.Required, "value-bearing options start out required")

	verbose, ok := s.Option(verboseID)
	require.True(t, ok)
	assert.False(t, verbose.Required)
}

func TestDefine_Duplicate(t *testing.T) {
	s := NewSchema()
	_, err := s.Define("verbose", Flag, "")
	require.NoError(t, err)

	_, err = s.Define("verbose", Flag, "again")
	require.ErrorIs(t, err, ErrDuplicateOption)
	assert.Equal(t, 1, s.Len(), "a failed define must not change the schema")
}

func TestDefine_CollidesWithAlias(t *testing.T) {
	s := NewSchema()
	id, err := s.Define("file", String, "")
	require.NoError(t, err)
	require.NoError(t, s.SetShortAlias(id, "f"))

	_, err = s.Define("f", Flag, "")
	assert.ErrorIs(t, err, ErrDuplicateOption)
}

func TestSetShortAlias(t *testing.T) {
	t.Run("resolves alias and name to the same option", func(t *testing.T) {
		s := NewSchema()
		id, err := s.Define("file", String, "")
		require.NoError(t, err)
		require.NoError(t, s.SetShortAlias(id, "f"))

		byName, ok := s.Lookup("file")
		require.True(t, ok)
		byAlias, ok := s.Lookup("f")
		require.True(t, ok)
		assert.Same(t, byName, byAlias)
	})

	t.Run("rejects collision with another name", func(t *testing.T) {
		s := NewSchema()
		_, err := s.Define("v", Flag, "")
		require.NoError(t, err)
		id, err := s.Define("verbose", Flag, "")
		require.NoError(t, err)

		err = s.SetShortAlias(id, "v")
		assert.ErrorIs(t, err, ErrDuplicateAlias)
	})

	t.Run("rejects collision with another alias", func(t *testing.T) {
		s := NewSchema()
		a, err := s.Define("file", String, "")
		require.NoError(t, err)
		b, err := s.Define("format", String, "")
		require.NoError(t, err)
		require.NoError(t, s.SetShortAlias(a, "f"))

		err = s.SetShortAlias(b, "f")
		assert.ErrorIs(t, err, ErrDuplicateAlias)
	})

	t.Run("rejects own name as alias", func(t *testing.T) {
		s := NewSchema()
		id, err := s.Define("f", String, "")
		require.NoError(t, err)
		assert.ErrorIs(t, s.SetShortAlias(id, "f"), ErrDuplicateAlias)
	})

	t.Run("replacing an alias frees the old one", func(t *testing.T) {
		s := NewSchema()
		id, err := s.Define("file", String, "")
		require.NoError(t, err)
		require.NoError(t, s.SetShortAlias(id, "f"))
		require.NoError(t, s.SetShortAlias(id, "F"))

		_, ok := s.Lookup("f")
		assert.False(t, ok)
		_, ok = s.Lookup("F")
		assert.True(t, ok)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewSchema()
		assert.ErrorIs(t, s.SetShortAlias(ID(3), "x"), ErrUnknownOption)
	})
}

func TestSetValueKind(t *testing.T) {
	s := NewSchema()
	id, err := s.Define("report", Flag, "Output a report file")
	require.NoError(t, err)

	require.NoError(t, s.SetValueKind(id, String))
	opt, _ := s.Option(id)
	assert.Equal(t, String, opt.Kind)
	assert.True(t, opt.Required)

	// Last write wins.
	require.NoError(t, s.SetValueKind(id, Int))
	assert.Equal(t, Int, opt.Kind)

	require.NoError(t, s.SetValueKind(id, Flag))
	assert.Equal(t, Flag, opt.Kind)
	assert.False(t, opt.Required)
}

func TestSetRequiredAndDefault(t *testing.T) {
	s := NewSchema()
	report, err := s.Define("report", String, "")
	require.NoError(t, err)
	verbose, err := s.Define("verbose", Flag, "")
	require.NoError(t, err)

	require.NoError(t, s.SetRequired(report, false))
	opt, _ := s.Option(report)
	assert.False(t, opt.Required)
	assert.Equal(t, "", opt.Zero())

	assert.Error(t, s.SetRequired(verbose, true))

	count, err := s.Define("count", Int, "")
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetDefault(count, "three"), ErrInvalidDefault)
	require.NoError(t, s.SetDefault(count, 3))
	opt, _ = s.Option(count)
	assert.False(t, opt.Required)
	assert.Equal(t, 3, opt.Zero())
}

func TestOptionUsage(t *testing.T) {
	s := NewSchema()
	id, _ := s.Define("file", String, "")
	require.NoError(t, s.SetShortAlias(id, "f"))
	_, _ = s.Define("verbose", Flag, "")

	opts := s.Options()
	require.Len(t, opts, 2)
	assert.Equal(t, "--file, -f <string>", opts[0].Usage())
	assert.Equal(t, "--verbose", opts[1].Usage())
}
