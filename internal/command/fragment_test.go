package command

import (
	"context"
	"testing"

	"github.com/oakwood-commons/termsite/internal/navigator"
	"github.com/oakwood-commons/termsite/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionCommand(t *testing.T) {
	root := navigator.Root
	about := navigator.NewPath("About")
	games := navigator.NewPath("Games")

	tests := []struct {
		name   string
		action Action
		cur    navigator.Path
		want   string
	}{
		{"open page from root", Action{Kind: ActionOpenPage, Name: "Games", HasContents: true}, root, "cd Games && cat . && ls ."},
		{"open page from sibling", Action{Kind: ActionOpenPage, Name: "About"}, games, "cd ../About && cat ."},
		{"open current page", Action{Kind: ActionOpenPage, Name: "About"}, about, "cat ."},
		{"open current page with contents", Action{Kind: ActionOpenPage, Name: "Games", HasContents: true}, games, "cat . && ls ."},
		{"root page from root", Action{Kind: ActionOpenRootPage, Name: "notes"}, root, "cat notes"},
		{"root page from page", Action{Kind: ActionOpenRootPage, Name: "notes"}, about, "cd ~ && cat notes"},
		{"back", Action{Kind: ActionBack}, games, "cd .."},
		{"child", Action{Kind: ActionOpenChild, Name: "Demo"}, about, "cat Demo"},
		{"run here", Action{Kind: ActionRun, Name: "ttt", Dir: games}, games, "sh ttt"},
		{"run elsewhere", Action{Kind: ActionRun, Name: "ttt", Dir: games}, about, "cd ../Games && sh ttt"},
		{"run from root", Action{Kind: ActionRun, Name: "ttt", Dir: games}, root, "cd Games && sh ttt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.action.Command(tt.cur))
		})
	}
}

func TestActionTitle(t *testing.T) {
	assert.Equal(t, "go to", Action{Kind: ActionOpenPage}.Title())
	assert.Equal(t, "back", Action{Kind: ActionBack}.Title())
	assert.Equal(t, "run", Action{Kind: ActionRun}.Title())
	assert.Equal(t, "open", Action{Kind: ActionOpenChild}.Title())
}

func TestLsActionsFollowTheSessionAtClickTime(t *testing.T) {
	p := newProcessor(t, site)
	sess := session.New(false)

	res := p.Process(context.Background(), sess, "ls ~")
	require.NotNil(t, res.Fragments[2].Action)
	games := res.Fragments[2].Action
	assert.Equal(t, "cd Games && cat . && ls .", games.Command(sess.CurrentPath))

	p.Process(context.Background(), sess, "cd About")
	assert.Equal(t, "cd ../Games && cat . && ls .", games.Command(sess.CurrentPath))
}

func TestSplitChain(t *testing.T) {
	assert.Equal(t, []string{"ls ~", "clear"}, SplitChain("ls ~ && clear"))
	assert.Equal(t, []string{"ls"}, SplitChain("  ls  "))
	assert.Equal(t, []string{"cd Projects", "", "cat ."}, SplitChain("cd Projects&&&&cat ."))
}

func TestPageLinkCommand(t *testing.T) {
	p := newProcessor(t, site)
	sess := session.New(false)

	cmd, ok := p.PageLinkCommand(sess, "Projects/Demo")
	require.True(t, ok)
	assert.Equal(t, "cd Projects && cat Demo", cmd)

	cmd, ok = p.PageLinkCommand(sess, "~/About")
	require.True(t, ok)
	assert.Equal(t, "cd About && cat .", cmd)

	cmd, ok = p.PageLinkCommand(sess, "Games")
	require.True(t, ok)
	assert.Equal(t, "cd Games && cat . && ls .", cmd)

	p.Process(context.Background(), sess, "cd Projects")
	cmd, ok = p.PageLinkCommand(sess, "Projects/Demo")
	require.True(t, ok)
	assert.Equal(t, "cat Demo", cmd)

	_, ok = p.PageLinkCommand(sess, "Nowhere")
	assert.False(t, ok)
}

func TestTapCommand(t *testing.T) {
	p := newProcessor(t, site)
	sess := session.New(true)
	assert.Equal(t, "cat . && ls .", p.TapCommand(sess))
	p.Process(context.Background(), sess, "cd About")
	assert.Equal(t, "cat .", p.TapCommand(sess))
}
