package handlers_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declconf/declconf/handlers"
	"github.com/declconf/declconf/mapping"
)

func sampleMap() *mapping.Map {
	return mapping.Of(
		mapping.Pair{Key: "zebra", Value: int64(1)},
		mapping.Pair{Key: "apple", Value: "two"},
		mapping.Pair{Key: "nested", Value: mapping.Of(
			mapping.Pair{Key: "flag", Value: true},
			mapping.Pair{Key: "ratio", Value: 0.5},
		)},
		mapping.Pair{Key: "list", Value: []any{"a", "b"}},
	)
}

func TestRegistryListsAllFormats(t *testing.T) {
	got := handlers.Formats()
	for _, f := range []string{"json", "yaml", "toml", "xml", "ini", "msgpack", "gob"} {
		assert.Contains(t, got, f)
	}
}

func TestLookupUnknownFormat(t *testing.T) {
	_, err := handlers.Lookup("parquet")
	require.ErrorIs(t, err, handlers.ErrNoHandler)
}

func TestPreferUnknownCodec(t *testing.T) {
	h, err := handlers.Lookup("json")
	require.NoError(t, err)
	_, err = h.Marshal(sampleMap(), handlers.Prefer("nope"))
	require.ErrorIs(t, err, handlers.ErrNoCodec)
}

func TestJSONDumpKeepsInsertionOrder(t *testing.T) {
	h, err := handlers.Lookup("json")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap())
	require.NoError(t, err)
	s := string(data)
	assert.Less(t, strings.Index(s, "zebra"), strings.Index(s, "apple"))
}

func TestJSONIndentAndSortKeys(t *testing.T) {
	h, err := handlers.Lookup("json")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap(), handlers.Indent("  "))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  ")

	data, err = h.Marshal(sampleMap(), handlers.SortKeys())
	require.NoError(t, err)
	s := string(data)
	assert.Less(t, strings.Index(s, "apple"), strings.Index(s, "zebra"))
}

func TestJSONLoadKeepsNumberFidelity(t *testing.T) {
	h, err := handlers.Lookup("json")
	require.NoError(t, err)
	m, err := h.Unmarshal([]byte(`{"big": 9007199254740993}`))
	require.NoError(t, err)
	v, ok := m.Get("big")
	require.True(t, ok)
	n, ok := v.(json.Number)
	require.True(t, ok, "expected json.Number, got %T", v)
	i, err := n.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), i)
}

func TestJSONBothCodecsRoundTrip(t *testing.T) {
	h, err := handlers.Lookup("json")
	require.NoError(t, err)
	for _, name := range []string{"goccy", "stdlib"} {
		data, err := h.Marshal(sampleMap(), handlers.Prefer(name))
		require.NoError(t, err, name)
		m, err := h.Unmarshal(data, handlers.Prefer(name))
		require.NoError(t, err, name)
		v, _ := m.Get("apple")
		assert.Equal(t, "two", v, name)
	}
}

func TestYAMLKeepsOrderBothWays(t *testing.T) {
	h, err := handlers.Lookup("yaml")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap())
	require.NoError(t, err)
	s := string(data)
	assert.Less(t, strings.Index(s, "zebra"), strings.Index(s, "apple"))

	m, err := h.Unmarshal(data)
	require.NoError(t, err)
	var keys []string
	for p := m.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"zebra", "apple", "nested", "list"}, keys)

	nested, _ := m.Get("nested")
	nm, ok := nested.(*mapping.Map)
	require.True(t, ok)
	flag, _ := nm.Get("flag")
	assert.Equal(t, true, flag)
}

func TestYAMLSigsCodecRoundTrip(t *testing.T) {
	h, err := handlers.Lookup("yaml")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap(), handlers.Prefer("sigs"))
	require.NoError(t, err)
	m, err := h.Unmarshal(data, handlers.Prefer("sigs"))
	require.NoError(t, err)
	v, _ := m.Get("apple")
	assert.Equal(t, "two", v)
}

func TestTOMLRoundTrip(t *testing.T) {
	h, err := handlers.Lookup("toml")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap())
	require.NoError(t, err)
	m, err := h.Unmarshal(data)
	require.NoError(t, err)
	v, _ := m.Get("zebra")
	assert.Equal(t, int64(1), v)
	nested, _ := m.Get("nested")
	nm, ok := nested.(*mapping.Map)
	require.True(t, ok)
	ratio, _ := nm.Get("ratio")
	assert.Equal(t, 0.5, ratio)
}

func TestXMLLeavesCarryTypeAttributes(t *testing.T) {
	h, err := handlers.Lookup("xml")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap(), handlers.Root("sample"), handlers.Pretty())
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "<sample type=\"dict\">")
	assert.Contains(t, s, "type=\"int\"")
	assert.Contains(t, s, "type=\"string\"")
	assert.Contains(t, s, "type=\"bool\"")
	assert.Contains(t, s, "type=\"list\"")

	m, err := h.Unmarshal(data)
	require.NoError(t, err)
	v, _ := m.Get("zebra")
	assert.Equal(t, int64(1), v)
	list, _ := m.Get("list")
	assert.Equal(t, []any{"a", "b"}, list)
}

func TestXMLUntypedLeafRejected(t *testing.T) {
	h, err := handlers.Lookup("xml")
	require.NoError(t, err)
	doc := `<config type="dict"><port>8080</port></config>`
	_, err = h.Unmarshal([]byte(doc))
	require.ErrorIs(t, err, handlers.ErrXMLUntypedLeaf)
}

func TestINIFlattensNestedSections(t *testing.T) {
	h, err := handlers.Lookup("ini")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap(), handlers.RootSection("Sample"))
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, "[Sample]")
	assert.Contains(t, s, "[Sample.nested]")

	m, err := h.Unmarshal(data, handlers.RootSection("Sample"))
	require.NoError(t, err)
	v, _ := m.Get("zebra")
	assert.Equal(t, int64(1), v)
	nested, _ := m.Get("nested")
	nm, ok := nested.(*mapping.Map)
	require.True(t, ok)
	flag, _ := nm.Get("flag")
	assert.Equal(t, true, flag)
	list, _ := m.Get("list")
	assert.Equal(t, []any{"a", "b"}, list)
}

func TestINISingleElementListRoundTrips(t *testing.T) {
	h, err := handlers.Lookup("ini")
	require.NoError(t, err)
	m := mapping.Of(mapping.Pair{Key: "tags", Value: []any{"only"}})
	data, err := h.Marshal(m, handlers.RootSection("T"))
	require.NoError(t, err)
	back, err := h.Unmarshal(data, handlers.RootSection("T"))
	require.NoError(t, err)
	v, _ := back.Get("tags")
	assert.Equal(t, []any{"only"}, v)
}

func TestINIRejectsArrayOfMappings(t *testing.T) {
	h, err := handlers.Lookup("ini")
	require.NoError(t, err)
	m := mapping.Of(mapping.Pair{
		Key:   "nodes",
		Value: []any{mapping.Of(mapping.Pair{Key: "host", Value: "a"})},
	})
	_, err = h.Marshal(m)
	require.ErrorIs(t, err, handlers.ErrINIArrayOfMaps)
}

func TestMsgpackRoundTrip(t *testing.T) {
	h, err := handlers.Lookup("msgpack")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap())
	require.NoError(t, err)
	m, err := h.Unmarshal(data)
	require.NoError(t, err)
	v, _ := m.Get("apple")
	assert.Equal(t, "two", v)
	nested, _ := m.Get("nested")
	nm, ok := nested.(*mapping.Map)
	require.True(t, ok)
	ratio, _ := nm.Get("ratio")
	assert.Equal(t, 0.5, ratio)
}

func TestGobRoundTrip(t *testing.T) {
	h, err := handlers.Lookup("gob")
	require.NoError(t, err)
	data, err := h.Marshal(sampleMap())
	require.NoError(t, err)
	m, err := h.Unmarshal(data)
	require.NoError(t, err)
	v, _ := m.Get("zebra")
	assert.Equal(t, int64(1), v)
	list, _ := m.Get("list")
	assert.Equal(t, []any{"a", "b"}, list)
}

func TestStreamReadWrite(t *testing.T) {
	h, err := handlers.Lookup("json")
	require.NoError(t, err)
	var buf strings.Builder
	require.NoError(t, h.Write(&buf, sampleMap()))
	m, err := h.Read(strings.NewReader(buf.String()))
	require.NoError(t, err)
	v, _ := m.Get("apple")
	assert.Equal(t, "two", v)
}
