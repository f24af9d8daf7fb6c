package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"About", KindDirectory},
		{"projects", KindSubpage},
		{".Secret", KindDirectory},
		{".notes", KindSubpage},
		{"..Double", KindUnclassified},
		{"42", KindUnclassified},
		{"", KindUnclassified},
		{"Émigré", KindDirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyName(tt.name))
		})
	}
}

func TestParseKind(t *testing.T) {
	k, ok := ParseKind("Directory")
	assert.True(t, ok)
	assert.Equal(t, KindDirectory, k)

	k, ok = ParseKind("subpage")
	assert.True(t, ok)
	assert.Equal(t, KindSubpage, k)

	_, ok = ParseKind("")
	assert.False(t, ok)
	_, ok = ParseKind("symlink")
	assert.False(t, ok)
}

func TestNodeChildLookupIsCaseInsensitive(t *testing.T) {
	n := newNode("Projects", KindDirectory)
	n.addChild(newNode("Demo", KindSubpage))
	n.addChild(newNode("demo", KindSubpage))

	c, ok := n.Child("DEMO")
	require.True(t, ok)
	assert.Equal(t, "Demo", c.Name, "first declared entry wins")

	_, ok = n.Child("missing")
	assert.False(t, ok)
}

func TestNodeChildrenHonourChildOrder(t *testing.T) {
	n := newNode("Projects", KindDirectory)
	n.addChild(newNode("a", KindSubpage))
	n.addChild(newNode("b", KindSubpage))
	n.addChild(newNode("c", KindSubpage))
	assert.Equal(t, []string{"a", "b", "c"}, n.ChildNames())

	n.childOrder = []string{"c", "ghost", "a"}
	assert.Equal(t, []string{"c", "a"}, n.ChildNames())
}

func TestHasVisibleContents(t *testing.T) {
	n := newNode("Play", KindDirectory)
	assert.False(t, n.HasVisibleContents(false))

	n.addChild(newNode(".hidden", KindSubpage))
	assert.False(t, n.HasVisibleContents(false))

	n.addExecutable(&Executable{Name: "ttt", MobileHidden: true})
	assert.True(t, n.HasVisibleContents(false))
	assert.False(t, n.HasVisibleContents(true))
}

func TestTreePageNames(t *testing.T) {
	tree := &Tree{
		Root:         newNode(RootName, KindDirectory),
		Order:        []string{"About", "Play", "Contact"},
		MobileHidden: []string{"Play"},
	}
	assert.Equal(t, []string{"About", "Play", "Contact"}, tree.PageNames(false))
	assert.Equal(t, []string{"About", "Contact"}, tree.PageNames(true))
}

func TestTreeLookup(t *testing.T) {
	doc, err := Decode([]byte(`{"inline":true,"tree":{"Projects":{"children":{"Demo":{"content":"x"}}}}}`))
	require.NoError(t, err)
	tree, err := NewTree(doc)
	require.NoError(t, err)

	root, ok := tree.Lookup(nil)
	require.True(t, ok)
	assert.Same(t, tree.Root, root)

	demo, ok := tree.Lookup([]string{"projects", "DEMO"})
	require.True(t, ok)
	assert.Equal(t, "x", demo.Content)

	_, ok = tree.Lookup([]string{"Projects", "nope"})
	assert.False(t, ok)
}
