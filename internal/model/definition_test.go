package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildDefinition assembles a definition from (name, rawValue) pairs the
// way the header parser does, without running Finalize.
func buildDefinition(t *testing.T, enumName string, entries [][2]string) *EnumDefinition {
	t.Helper()
	def := NewEnumDefinition(enumName)
	def.EnumPackage = "p"
	for _, e := range entries {
		require.NoError(t, def.AppendEntry(e[0], e[1]))
	}
	return def
}

// entrySnapshot renders the ordered entries as "NAME=VALUE" strings so
// whole-map expectations stay readable.
func entrySnapshot(def *EnumDefinition) []string {
	var out []string
	for pair := def.Entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key+"="+pair.Value.String())
	}
	return out
}

func TestResolveValuesNoneDefined(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", ""}, {"B", ""}, {"C", ""}})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=1", "C=2"}, entrySnapshot(def))
}

func TestResolveValuesAllDefined(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", "1"}, {"B", "2"}, {"C", "3"}})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=1", "B=2", "C=3"}, entrySnapshot(def))

	v, _ := def.Entries.Get("A")
	assert.Equal(t, IntValue(1), v, "literals resolve to integers, not text")
}

func TestResolveValuesReferences(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", ""}, {"B", "A"}, {"C", ""}, {"D", "C"}})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=0", "C=1", "D=1"}, entrySnapshot(def))
}

func TestResolveValuesSet(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", ""}, {"B", "2"}, {"C", ""}})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=2", "C=3"}, entrySnapshot(def))
}

func TestResolveValuesSetReferences(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", ""}, {"B", "A"}, {"C", "B"}, {"D", ""}})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=0", "C=0", "D=1"}, entrySnapshot(def))
}

func TestResolveValuesUnknownReference(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", ""}, {"B", "foo"}, {"C", ""}})
	err := def.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvableReference)
	assert.Contains(t, err.Error(), "foo")
}

func TestResolveValuesForwardReference(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", "B"}, {"B", "1"}})
	err := def.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvableReference)
}

func TestResolveValuesExpressionsStayVerbatim(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{
		{"A", "1 << 0"},
		{"B", "1 << 1"},
		{"C", "A | B"},
	})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=1 << 0", "B=1 << 1", "C=A | B"}, entrySnapshot(def))

	v, _ := def.Entries.Get("A")
	assert.Equal(t, ValueExpr, v.Kind)
}

func TestResolveValuesExpressionDoesNotMoveCounter(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{
		{"A", ""},
		{"B", "2"},
		{"C", "A | B"},
		{"D", ""},
	})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=2", "C=A | B", "D=3"}, entrySnapshot(def))
}

func TestResolveValuesReferenceCopiesExpression(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", "1 << 0"}, {"B", "A"}})
	require.NoError(t, def.Finalize())

	v, ok := def.Entries.Get("B")
	require.True(t, ok)
	assert.Equal(t, ExprValue("1 << 0"), v)
}

func TestResolveValuesNegativeLiteral(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"A", "-2"}, {"B", ""}})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=-2", "B=-1"}, entrySnapshot(def))
}

func TestExplicitPrefixStripping(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{
		{"P_A", ""},
		{"B", ""},
		{"P_C", ""},
		{"P_LAST", "P_C"},
	})
	def.PrefixToStrip = "P_"
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=1", "C=2", "LAST=2"}, entrySnapshot(def))
}

func TestImplicitPrefixStripping(t *testing.T) {
	def := buildDefinition(t, "ClassName", [][2]string{
		{"CLASS_NAME_A", ""},
		{"CLASS_NAME_B", ""},
		{"CLASS_NAME_C", ""},
		{"CLASS_NAME_LAST", "CLASS_NAME_C"},
	})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=1", "C=2", "LAST=2"}, entrySnapshot(def))
}

func TestImplicitPrefixStrippingRequiresAllEntriesPrefixed(t *testing.T) {
	def := buildDefinition(t, "Name", [][2]string{
		{"A", ""},
		{"B", ""},
		{"NAME_LAST", ""},
	})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"A=0", "B=1", "NAME_LAST=2"}, entrySnapshot(def))
}

func TestPrefixStrippingRekeysComments(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"P_A", ""}, {"P_B", ""}})
	def.PrefixToStrip = "P_"
	require.NoError(t, def.AppendComment("P_B", "Comment for B."))
	require.NoError(t, def.Finalize())

	comment, ok := def.Comments.Get("B")
	require.True(t, ok)
	assert.Equal(t, "Comment for B.", comment)
}

func TestPrefixStrippingRewritesValueExpressions(t *testing.T) {
	def := buildDefinition(t, "EnumName", [][2]string{
		{"ENUM_NAME_ZERO", "1 << 0"},
		{"ENUM_NAME_ONE", "1 << 1"},
		{"ENUM_NAME_TWO", "ENUM_NAME_ZERO | ENUM_NAME_ONE"},
	})
	require.NoError(t, def.Finalize())
	assert.Equal(t, []string{"ZERO=1 << 0", "ONE=1 << 1", "TWO=ZERO | ONE"}, entrySnapshot(def))
}

func TestPrefixStrippingCollisionFails(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"P_A", ""}, {"A", ""}})
	def.PrefixToStrip = "P_"
	err := def.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrefixCollapsesEntries)
}

func TestPrefixStrippingEmptyNameFails(t *testing.T) {
	def := buildDefinition(t, "c", [][2]string{{"P_", ""}, {"P_A", ""}})
	def.PrefixToStrip = "P_"
	require.Error(t, def.Finalize())
}

func TestAppendEntryRejectsDuplicates(t *testing.T) {
	def := NewEnumDefinition("c")
	require.NoError(t, def.AppendEntry("A", ""))
	err := def.AppendEntry("A", "1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestAppendCommentRejectsDuplicates(t *testing.T) {
	def := NewEnumDefinition("c")
	require.NoError(t, def.AppendComment("A", "one"))
	err := def.AppendComment("A", "two")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateComment)
}

func TestFinalizeValidation(t *testing.T) {
	t.Run("missing package", func(t *testing.T) {
		def := NewEnumDefinition("c")
		require.NoError(t, def.AppendEntry("A", ""))
		require.Error(t, def.Finalize())
	})

	t.Run("no entries", func(t *testing.T) {
		def := NewEnumDefinition("c")
		def.EnumPackage = "p"
		err := def.Finalize()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoEntries)
	})

	t.Run("finalize twice", func(t *testing.T) {
		def := buildDefinition(t, "c", [][2]string{{"A", ""}})
		require.NoError(t, def.Finalize())
		require.Error(t, def.Finalize())
	})
}

func TestFixedTypeValidation(t *testing.T) {
	valid := []string{
		"char", "unsigned char", "short", "unsigned short", "int",
		"int8_t", "int16_t", "int32_t", "uint8_t", "uint16_t",
	}
	for _, ft := range valid {
		def := buildDefinition(t, "c", [][2]string{{"A", ""}})
		def.FixedType = ft
		assert.NoError(t, def.Finalize(), "fixed type %q should be accepted", ft)
	}

	invalid := []string{"foo_type", "unsigned int", "int64_t", "uint32_t", "uint64_t", "bool"}
	for _, ft := range invalid {
		def := buildDefinition(t, "c", [][2]string{{"A", ""}})
		def.FixedType = ft
		err := def.Finalize()
		require.Error(t, err, "fixed type %q should be rejected", ft)
		assert.ErrorIs(t, err, ErrUnsupportedFixedType)
	}
}

func TestClassName(t *testing.T) {
	def := NewEnumDefinition("EnumName")
	assert.Equal(t, "EnumName", def.ClassName())
	def.ClassNameOverride = "Override"
	assert.Equal(t, "Override", def.ClassName())
}

func TestShoutCase(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ClassName", "CLASS_NAME"},
		{"EnumName", "ENUM_NAME"},
		{"AnEnum", "AN_ENUM"},
		{"PrefixTest", "PREFIX_TEST"},
		{"Foo", "FOO"},
		{"c", "C"},
		{"ABTest", "A_BTEST"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, shoutCase(tc.in), "shoutCase(%q)", tc.in)
	}
}
