package manifest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeKeepsObjectOrder(t *testing.T) {
	doc, err := Decode([]byte(`{
		"order": ["Zed", "About"],
		"tree": {
			"Zed": {"content": "pages/Zed.txt"},
			"About": {
				"children": {"b": {}, "a": {}},
				"executables": {"zz": {"src": "zz"}, "aa": {"src": "aa", "help": "aa.txt"}}
			}
		}
	}`))
	require.NoError(t, err)
	require.Len(t, doc.Tree, 2)
	assert.Equal(t, "Zed", doc.Tree[0].Name)
	assert.Equal(t, "About", doc.Tree[1].Name)

	about := doc.Tree[1].Entry
	assert.Equal(t, "b", about.Children[0].Name)
	assert.Equal(t, "a", about.Children[1].Name)
	assert.Equal(t, "zz", about.Executables[0].Name)
	assert.Equal(t, "aa.txt", about.Executables[1].Executable.Help)
}

func TestDecodeRejectsNonObjectTree(t *testing.T) {
	_, err := Decode([]byte(`{"tree": ["About"]}`))
	require.Error(t, err)
}

func TestEntryListMarshalRoundTripsOrder(t *testing.T) {
	list := EntryList{
		{Name: "Zed", Entry: Entry{Content: "z"}},
		{Name: "About", Entry: Entry{Content: "a"}},
	}
	out, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Zed":{"content":"z"},"About":{"content":"a"}}`, string(out))
	assert.Less(t, strings.Index(string(out), "Zed"), strings.Index(string(out), "About"))
}

func TestNewTreeRequiresPages(t *testing.T) {
	_, err := NewTree(&Document{})
	require.ErrorIs(t, err, ErrNoTree)
	_, err = NewTree(nil)
	require.ErrorIs(t, err, ErrNoTree)
}

func TestNewTreeKinds(t *testing.T) {
	doc, err := Decode([]byte(`{
		"inline": true,
		"tree": {
			"About": {"content": "hi"},
			"notes": {"content": "n"},
			"Flat": {"kind": "subpage", "content": "f"},
			"lower": {"kind": "directory", "children": {"Deep": {"content": "d"}}},
			"9lives": {"content": "cat"}
		}
	}`))
	require.NoError(t, err)
	tree, err := NewTree(doc)
	require.NoError(t, err)

	kinds := map[string]Kind{}
	for _, c := range tree.Root.Children() {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, KindDirectory, kinds["About"])
	assert.Equal(t, KindSubpage, kinds["notes"])
	assert.Equal(t, KindSubpage, kinds["Flat"])
	assert.Equal(t, KindDirectory, kinds["lower"])
	assert.Equal(t, KindUnclassified, kinds["9lives"])

	deep, ok := tree.Lookup([]string{"lower", "Deep"})
	require.True(t, ok)
	assert.Equal(t, KindSubpage, deep.Kind, "nested entries are always subpages")
}

func TestNewTreeUnknownKind(t *testing.T) {
	doc, err := Decode([]byte(`{"tree": {"About": {"kind": "folder"}}}`))
	require.NoError(t, err)
	_, err = NewTree(doc)
	require.ErrorContains(t, err, `unknown kind "folder"`)
}

func TestNewTreeDefaultsOrderToDeclaration(t *testing.T) {
	doc, err := Decode([]byte(`{"inline": true, "tree": {"B": {}, "A": {}}}`))
	require.NoError(t, err)
	tree, err := NewTree(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, tree.Order)
}

func TestNewTreeExecutableMobileDefault(t *testing.T) {
	doc, err := Decode([]byte(`{
		"inline": true,
		"tree": {"Play": {"executables": {
			"ttt": {"src": "ttt", "help": "tic tac toe"},
			"fih": {"src": "fih", "mobileHidden": false}
		}}}
	}`))
	require.NoError(t, err)
	tree, err := NewTree(doc)
	require.NoError(t, err)
	play, _ := tree.Page("play")

	ttt, ok := play.Executable("TTT")
	require.True(t, ok)
	assert.True(t, ttt.MobileHidden)
	assert.True(t, ttt.HasHelp())
	assert.Equal(t, "tic tac toe", ttt.Help)

	fih, ok := play.Executable("fih")
	require.True(t, ok)
	assert.False(t, fih.MobileHidden)
	assert.False(t, fih.HasHelp())
}

func TestEncodeWritesEmptyLists(t *testing.T) {
	out, err := Encode(&Document{Tree: EntryList{{Name: "About"}}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"order\": [],\n  \"mobileHidden\": [],\n  \"tree\": {\n    \"About\": {}\n  }\n}\n", string(out))
}
