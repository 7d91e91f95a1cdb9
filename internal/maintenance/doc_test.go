package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKeepsOrderAndRawValues(t *testing.T) {
	src := `{"zeta": 1, "alpha": {"b": 2, "a": 1}, "mid": "R&D <ok>", "n": 1.50}`
	o, err := ParseObject([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid", "n"}, o.Keys())

	out, err := o.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"b": 2, "a": 1},"mid":"R&D <ok>","n":1.50}`, string(out))
}

func TestObjectRejectsNonObject(t *testing.T) {
	_, err := ParseObject([]byte(`[1,2]`))
	assert.Error(t, err)
	_, err = ParseObject([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestObjectSetDeleteInsertAfter(t *testing.T) {
	o, err := ParseObject([]byte(`{"a":1,"b":2,"c":3}`))
	require.NoError(t, err)

	require.NoError(t, o.Set("b", "two"))
	assert.Equal(t, []string{"a", "b", "c"}, o.Keys())

	require.NoError(t, o.InsertAfter("a", "x", true))
	assert.Equal(t, []string{"a", "x", "b", "c"}, o.Keys())

	require.NoError(t, o.InsertAfter("c", "x", false))
	assert.Equal(t, []string{"a", "b", "c", "x"}, o.Keys())

	require.NoError(t, o.InsertAfter("missing", "y", 1))
	assert.Equal(t, []string{"a", "b", "c", "x", "y"}, o.Keys())

	o.Delete("b")
	o.Delete("nope")
	assert.Equal(t, []string{"a", "c", "x", "y"}, o.Keys())
	assert.False(t, o.Has("b"))
}

func TestObjectReorder(t *testing.T) {
	o, err := ParseObject([]byte(`{"ads":1,"extra":2,"seo":3,"domain":4}`))
	require.NoError(t, err)
	o.Reorder([]string{"domain", "seo", "template", "ads"})
	assert.Equal(t, []string{"domain", "seo", "ads", "extra"}, o.Keys())
}

func TestObjectChildAndAccessors(t *testing.T) {
	o, err := ParseObject([]byte(`{"domain":{"name":"x.com","forSale":false},"list":[1]}`))
	require.NoError(t, err)

	d, ok := o.Child("domain")
	require.True(t, ok)
	assert.Equal(t, "x.com", d.String("name"))
	require.NotNil(t, d.Bool("forSale"))
	assert.False(t, *d.Bool("forSale"))
	assert.Nil(t, d.Bool("name"))

	_, ok = o.Child("list")
	assert.False(t, ok)
	empty, ok := o.Child("missing")
	assert.False(t, ok)
	assert.Empty(t, empty.Keys())
}

func TestObjectPretty(t *testing.T) {
	o := NewObject()
	require.NoError(t, o.Set("b", map[string]int{"x": 1}))
	require.NoError(t, o.Set("a", "&"))
	out, err := o.Pretty()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": {\n    \"x\": 1\n  },\n  \"a\": \"&\"\n}\n", string(out))
}
