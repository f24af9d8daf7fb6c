// Package command interprets one command line against the manifest tree and
// a session, producing the output fragments to animate.
package command

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/internal/navigator"
	"github.com/oakwood-commons/termsite/internal/session"
	"github.com/oakwood-commons/termsite/pkg/logger"
)

var whitespace = regexp.MustCompile(`\s+`)

// Options tune the processor.
type Options struct {
	// User and RootUser name the prompt owner before and after sudo.
	User     string
	RootUser string
	// Host is answered by hostname and shown in the prompt.
	Host string
	// Suggest enables "did you mean" after an unknown command.
	Suggest bool
	// SuggestDistance is the largest edit distance still suggested.
	SuggestDistance int
}

// DefaultOptions mirror the embedded configuration.
func DefaultOptions() Options {
	return Options{User: "guest", RootUser: "root", Host: "thalis", Suggest: true, SuggestDistance: 2}
}

// Result is what one command produced.
type Result struct {
	Fragments []Fragment
	// Clear wipes the screen; it bypasses the animator.
	Clear bool
	// Launch hands the terminal to an executable.
	Launch *manifest.Executable
}

// Processor runs commands. It holds no per-terminal state; every call takes
// the session it acts on.
type Processor struct {
	resolver *navigator.Resolver
	opts     Options
}

// New creates a processor over a resolver.
func New(resolver *navigator.Resolver, opts Options) *Processor {
	defaults := DefaultOptions()
	if opts.Host == "" {
		opts.Host = defaults.Host
	}
	if opts.User == "" {
		opts.User = defaults.User
	}
	if opts.RootUser == "" {
		opts.RootUser = defaults.RootUser
	}
	return &Processor{resolver: resolver, opts: opts}
}

// Resolver exposes the path resolver.
func (p *Processor) Resolver() *navigator.Resolver { return p.resolver }

// Host is the configured host name.
func (p *Processor) Host() string { return p.opts.Host }

// Process runs a single command (no "&&" chaining) against sess.
func (p *Processor) Process(ctx context.Context, sess *session.Session, line string) Result {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || trimmed == "sudo" {
		return Result{}
	}
	effective := trimmed
	if strings.HasPrefix(effective, "sudo ") {
		sess.IsRoot = true
		effective = strings.TrimSpace(effective[5:])
		if effective == "" {
			return Result{}
		}
	}

	parts := whitespace.Split(effective, -1)
	name, args := parts[0], parts[1:]
	logger.FromContext(ctx).V(1).Info("dispatching command", logger.CommandKey, name, "args", len(args))

	switch name {
	case "help":
		return lines(helpLines...)
	case "ls":
		return p.ls(sess, args)
	case "cd":
		return p.cd(sess, args)
	case "cat":
		return p.cat(sess, args)
	case "clear":
		return Result{Clear: true}
	case "claude":
		return claude()
	case "echo":
		return lines(echoText(effective[len(name):]))
	case "hostname":
		return lines(p.opts.Host)
	case "sh":
		if len(args) == 0 {
			return lines("sh: missing file operand")
		}
		return p.run(sess, args[0])
	}

	if isPathLike(name) {
		return p.run(sess, name)
	}
	if reply, ok := jokes[name]; ok {
		return lines(reply)
	}
	if sneakyCommands[name] {
		return lines(name + ": why are you trying to be sneaky?")
	}
	res := lines(name + ": command not found")
	if s := p.suggest(name); s != "" {
		res.Fragments = append(res.Fragments, Fragment{Text: "did you mean '" + s + "'?"})
	}
	return res
}

func lines(text ...string) Result {
	frags := make([]Fragment, len(text))
	for i, t := range text {
		frags[i] = Fragment{Text: t}
	}
	return Result{Fragments: frags}
}

func (p *Processor) ls(sess *session.Session, args []string) Result {
	showAll := slices.Contains(args, "-a")
	listPath := sess.CurrentPath
	if i := slices.IndexFunc(args, func(a string) bool { return !strings.HasPrefix(a, "-") }); i >= 0 {
		target := args[i]
		resolved, err := p.resolver.Resolve(target, sess.CurrentPath)
		if err != nil {
			return lines("ls: cannot access '" + target + "': No such directory")
		}
		if !p.resolver.IsDirectory(resolved) {
			return lines("ls: cannot access '" + target + "': Not a directory")
		}
		listPath = resolved
	}

	var frags []Fragment
	tree := p.resolver.Tree()
	if listPath.IsRoot() {
		for _, name := range tree.PageNames(sess.Mobile) {
			if !showAll && manifest.IsHidden(name) {
				continue
			}
			node, ok := tree.Page(name)
			if !ok {
				continue
			}
			if node.Kind == manifest.KindDirectory {
				frags = append(frags, Fragment{
					Text: name,
					Kind: FragmentDirectory,
					Action: &Action{
						Kind:        ActionOpenPage,
						Name:        name,
						HasContents: node.HasVisibleContents(sess.Mobile),
					},
				})
				continue
			}
			frags = append(frags, Fragment{
				Text:   name,
				Kind:   FragmentSubpage,
				Action: &Action{Kind: ActionOpenRootPage, Name: name},
			})
		}
		return Result{Fragments: frags}
	}

	frags = append(frags, Fragment{Text: "..", Kind: FragmentDirectory, Action: &Action{Kind: ActionBack}})
	node, ok := p.resolver.Node(listPath)
	if !ok {
		return Result{Fragments: frags}
	}
	for _, child := range node.Children() {
		if !showAll && manifest.IsHidden(child.Name) {
			continue
		}
		frags = append(frags, Fragment{
			Text:   child.Name,
			Kind:   FragmentSubpage,
			Action: &Action{Kind: ActionOpenChild, Name: child.Name, Dir: listPath},
		})
	}
	for _, exec := range node.Executables() {
		if !showAll && manifest.IsHidden(exec.Name) {
			continue
		}
		if sess.Mobile && exec.MobileHidden {
			continue
		}
		frags = append(frags, Fragment{
			Text:   exec.Name,
			Kind:   FragmentExecutable,
			Action: &Action{Kind: ActionRun, Name: exec.Name, Dir: listPath},
		})
	}
	return Result{Fragments: frags}
}

func (p *Processor) cd(sess *session.Session, args []string) Result {
	if len(args) == 0 {
		sess.GoHome()
		return Result{}
	}
	target := args[0]
	resolved, err := p.resolver.Resolve(target, sess.CurrentPath)
	if err != nil {
		return lines("cd: no such directory: " + target)
	}
	if !p.resolver.IsDirectory(resolved) {
		return lines("cd: not a directory: " + target)
	}
	sess.ChangeDir(resolved)
	return Result{}
}

func (p *Processor) cat(sess *session.Session, args []string) Result {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	if target != "" {
		if exec, ok := p.resolver.ResolveExecutable(target, sess.CurrentPath); ok && !(sess.Mobile && exec.MobileHidden) {
			sess.CatUsed = true
			help := exec.Help
			if help == "" {
				help = exec.Name + ": no help available"
			}
			return Result{Fragments: contentLines(help)}
		}
	}

	catPath := sess.CurrentPath
	if target != "" && target != "." {
		resolved, err := p.resolver.Resolve(target, sess.CurrentPath)
		if err != nil {
			return lines("cat: " + target + ": No such file or directory")
		}
		catPath = resolved
	}
	if catPath.IsRoot() {
		return lines(rootBlurb(sess.Mobile), nbsp)
	}
	node, ok := p.resolver.Node(catPath)
	if !ok || !node.HasContent() {
		return lines("cat: No such file or directory")
	}
	sess.CatUsed = true
	return Result{Fragments: contentLines(node.Content)}
}

func (p *Processor) run(sess *session.Session, target string) Result {
	exec, ok := p.resolver.ResolveExecutable(target, sess.CurrentPath)
	if !ok {
		return lines(target + ": not executable")
	}
	if sess.Mobile && exec.MobileHidden {
		return lines(target + ": executables are not available on mobile devices")
	}
	return Result{Launch: exec}
}

func claude() Result {
	frags := make([]Fragment, 0, len(claudeArt)+2)
	for _, line := range claudeArt {
		frags = append(frags, Fragment{Text: line, Color: claudeColor, Instant: true, Tight: true})
	}
	frags = append(frags,
		Fragment{Text: claudeMessage, Color: claudeColor},
		Fragment{Text: ""},
	)
	return Result{Fragments: frags}
}

// suggest returns the closest known command within the configured distance.
func (p *Processor) suggest(name string) string {
	if !p.opts.Suggest || p.opts.SuggestDistance <= 0 {
		return ""
	}
	best, bestDist := "", p.opts.SuggestDistance+1
	lower := strings.ToLower(name)
	for _, known := range knownCommands {
		d := levenshtein.ComputeDistance(lower, known)
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	// Very short inputs are within reach of every two-letter command.
	if len([]rune(name)) <= bestDist {
		return ""
	}
	return best
}

// Prompt is the rendered prompt text before the input line.
func (p *Processor) Prompt(sess *session.Session) string {
	user, host, path := p.PromptParts(sess)
	return user + "@" + host + ":" + path + "$ "
}

// PromptParts returns the prompt's user, host and path for styling.
func (p *Processor) PromptParts(sess *session.Session) (user, host, path string) {
	user = p.opts.User
	if sess.IsRoot {
		user = p.opts.RootUser
	}
	return user, p.opts.Host, sess.CurrentPath.String()
}

// Hint returns the hint shown after an empty prompt, or "".
func (p *Processor) Hint(sess *session.Session) string {
	if sess.CatUsed || sess.CurrentPath.IsRoot() {
		return ""
	}
	node, _ := p.resolver.Node(sess.CurrentPath)
	if node.HasVisibleContents(sess.Mobile) {
		return "Hint: use cat/ls to view/list content"
	}
	return "Hint: use cat to view content"
}

// PageLinkCommand is the command typed when a "[label](target)" page link is
// clicked. ok is false when the target does not resolve or is the root.
func (p *Processor) PageLinkCommand(sess *session.Session, target string) (string, bool) {
	if !strings.HasPrefix(target, "~/") {
		target = "~/" + target
	}
	resolved, err := p.resolver.Resolve(target, sess.CurrentPath)
	if err != nil || resolved.IsRoot() {
		return "", false
	}
	needDir := resolved
	show := ""
	if resolved.Depth() > 1 {
		needDir, _ = navigator.ParentOf(resolved)
		show = "cat " + resolved.Base()
	} else {
		node, _ := p.resolver.Node(resolved)
		show = "cat ."
		if node.HasVisibleContents(sess.Mobile) {
			show += " && ls ."
		}
	}
	if nav := navigator.RelativeCd(sess.CurrentPath, needDir); nav != "" {
		return nav + " && " + show, true
	}
	return show, true
}

// TapCommand is what a tap on empty screen runs on a constrained client.
func (p *Processor) TapCommand(sess *session.Session) string {
	if sess.CurrentPath.IsRoot() {
		return "cat . && ls ."
	}
	node, _ := p.resolver.Node(sess.CurrentPath)
	if node.HasVisibleContents(sess.Mobile) {
		return "cat . && ls ."
	}
	return "cat ."
}
