package linkify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveConditional(t *testing.T) {
	text := "Press {{Enter}{tap}} to continue, {{click}{tap}} links"
	assert.Equal(t, "Press Enter to continue, click links", ResolveConditional(text, false))
	assert.Equal(t, "Press tap to continue, tap links", ResolveConditional(text, true))
	assert.Equal(t, "no groups", ResolveConditional("no groups", true))
}

func TestSplitPlainText(t *testing.T) {
	segs := Split("just words here")
	require.Len(t, segs, 1)
	assert.Equal(t, Text, segs[0].Kind)
	assert.False(t, HasLinks(segs))
	assert.Empty(t, Split(""))
}

func TestSplitBareLinks(t *testing.T) {
	segs := Split("see https://example.com/a?b=1 or mail me@example.org, or visit github.com/someone")
	var kinds []Kind
	var links []string
	for _, s := range segs {
		if s.IsLink() {
			kinds = append(kinds, s.Kind)
			links = append(links, s.Target)
		}
	}
	assert.Equal(t, []Kind{URL, Email, Domain}, kinds)
	assert.Equal(t, []string{"https://example.com/a?b=1", "mailto:me@example.org", "https://github.com/someone"}, links)
	assert.Equal(t, "see https://example.com/a?b=1 or mail me@example.org, or visit github.com/someone", Plain(segs))
}

func TestSplitPageLinks(t *testing.T) {
	segs := Split("Check [my projects](Projects) and [the demo](~/Projects/Demo) or [site](https://x.dev).")
	var got []Segment
	for _, s := range segs {
		if s.IsLink() {
			got = append(got, s)
		}
	}
	require.Len(t, got, 3)
	assert.Equal(t, Segment{Kind: Page, Text: "my projects", Target: "Projects"}, got[0])
	assert.Equal(t, Segment{Kind: Page, Text: "the demo", Target: "~/Projects/Demo"}, got[1])
	assert.Equal(t, Segment{Kind: External, Text: "site", Target: "https://x.dev"}, got[2])
	assert.Equal(t, "Check my projects and the demo or site.", Plain(segs))
}

func TestHyperlink(t *testing.T) {
	seg := Segment{Kind: URL, Text: "https://x.dev", Target: "https://x.dev"}
	out := Hyperlink(seg, "https://x.dev")
	assert.True(t, strings.Contains(out, "https://x.dev"))
	assert.NotEqual(t, "https://x.dev", out)

	page := Segment{Kind: Page, Text: "demo", Target: "Demo"}
	assert.Equal(t, "demo", Hyperlink(page, "demo"))
}
