//revive:disable:exported
package completion

import (
	"regexp"
	"slices"
	"strings"

	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/internal/navigator"
)

// Completion is one candidate replacement for the whole input line.
type Completion struct {
	Text    string         // Full replacement line
	Display string         // Short label shown when several candidates are listed
	Kind    CompletionKind // What the candidate names
}

// CompletionKind indicates the type of completion.
type CompletionKind int

const (
	CompletionCommand    CompletionKind = iota // Built-in command name
	CompletionDirectory                        // Top-level page, rendered with a trailing slash
	CompletionSubpage                          // Non-navigable page
	CompletionExecutable                       // Runnable entry
)

var whitespace = regexp.MustCompile(`\s+`)

// argCommands take a path argument.
var argCommands = []string{"cd", "cat", "ls", "sh"}

// CommandNames returns the completable command names for a client class.
func CommandNames(mobile bool) []string {
	names := []string{"help", "ls", "cd", "cat", "clear", "claude", "echo"}
	if !mobile {
		names = append(names, "sh")
	}
	return names
}

// Engine computes tab completions against the manifest tree.
type Engine struct {
	resolver *navigator.Resolver
	mobile   bool
}

// NewEngine creates an engine for one client class.
func NewEngine(resolver *navigator.Resolver, mobile bool) *Engine {
	return &Engine{resolver: resolver, mobile: mobile}
}

type target struct {
	text string
	kind CompletionKind
}

// Complete returns every full-line replacement for input, given the current
// directory. Candidates equal to what was typed are never returned.
func (e *Engine) Complete(input string, cur navigator.Path) []Completion {
	prefix := ""
	effective := input
	if strings.HasPrefix(strings.ToLower(effective), "sudo ") {
		prefix = effective[:5]
		effective = effective[5:]
	}
	parts := whitespace.Split(effective, -1)

	if len(parts) <= 1 {
		word := parts[0]
		lower := strings.ToLower(word)
		if lower == "" {
			return nil
		}
		if isPathLike(lower) {
			dotSlash, arg := splitDotSlash(word)
			return e.finish(e.targets(arg, cur, ""), arg, prefix+dotSlash)
		}
		var out []Completion
		for _, name := range CommandNames(e.mobile) {
			if strings.HasPrefix(name, lower) && name != lower {
				out = append(out, Completion{Text: prefix + name, Display: name, Kind: CompletionCommand})
			}
		}
		return out
	}

	cmd := strings.ToLower(parts[0])
	if !slices.Contains(argCommands, cmd) {
		return nil
	}
	var flags, rest []string
	for _, a := range parts[1:] {
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
		} else {
			rest = append(rest, a)
		}
	}
	flagStr := ""
	if len(flags) > 0 {
		flagStr = strings.Join(flags, " ") + " "
	}
	dotSlash, arg := splitDotSlash(strings.Join(rest, " "))
	return e.finish(e.targets(arg, cur, cmd), arg, prefix+cmd+" "+flagStr+dotSlash)
}

func isPathLike(word string) bool {
	return strings.HasPrefix(word, "./") || strings.HasPrefix(word, "~/") ||
		strings.HasPrefix(word, "../") || strings.Contains(word, "/")
}

func splitDotSlash(arg string) (string, string) {
	if strings.HasPrefix(arg, "./") {
		return "./", arg[2:]
	}
	return "", arg
}

func (e *Engine) finish(targets []target, arg, lead string) []Completion {
	lowerArg := strings.ToLower(arg)
	var out []Completion
	for _, t := range targets {
		lt := strings.ToLower(t.text)
		if !strings.HasPrefix(lt, lowerArg) || lt == lowerArg {
			continue
		}
		text := lead + t.text
		out = append(out, Completion{Text: text, Display: Display(text), Kind: t.kind})
	}
	return out
}

// targets lists the argument spellings reachable from the directory part
// of arg. cd and ls only complete to directories.
func (e *Engine) targets(arg string, cur navigator.Path, cmd string) []target {
	dirOnly := cmd == "cd" || cmd == "ls"

	base := cur
	pathPrefix := ""
	rest := arg
	switch {
	case strings.HasPrefix(arg, "~/"):
		base, pathPrefix, rest = navigator.Root, "~/", arg[2:]
	case strings.HasPrefix(arg, "../"):
		if parent, ok := navigator.ParentOf(cur); ok {
			base, pathPrefix, rest = parent, "../", arg[3:]
		}
	}
	if slash := strings.LastIndex(rest, "/"); slash >= 0 {
		dirPart := rest[:slash]
		if resolved, err := e.resolver.ResolveFrom(base, dirPart); err == nil {
			base = resolved
			pathPrefix += dirPart + "/"
		}
	}

	partial := arg
	if slash := strings.LastIndex(arg, "/"); slash >= 0 {
		partial = arg[slash+1:]
	}
	showHidden := strings.HasPrefix(partial, ".")

	node, ok := e.resolver.Node(base)
	if !ok {
		return nil
	}
	var out []target
	if base.IsRoot() {
		tree := e.resolver.Tree()
		for _, c := range node.Children() {
			if !showHidden && manifest.IsHidden(c.Name) {
				continue
			}
			if e.mobile && slices.Contains(tree.MobileHidden, c.Name) {
				continue
			}
			// Only directories take a trailing slash; cd and ls cannot enter the rest.
			if c.Kind != manifest.KindDirectory {
				if !dirOnly {
					out = append(out, target{text: pathPrefix + c.Name, kind: CompletionSubpage})
				}
				continue
			}
			out = append(out, target{text: pathPrefix + c.Name + "/", kind: CompletionDirectory})
		}
		return out
	}
	if !dirOnly {
		for _, c := range node.Children() {
			if !showHidden && manifest.IsHidden(c.Name) {
				continue
			}
			out = append(out, target{text: pathPrefix + c.Name, kind: CompletionSubpage})
		}
		for _, x := range node.Executables() {
			if !showHidden && manifest.IsHidden(x.Name) {
				continue
			}
			if e.mobile && x.MobileHidden {
				continue
			}
			out = append(out, target{text: pathPrefix + x.Name, kind: CompletionExecutable})
		}
	}
	return out
}

// Display is the label for a candidate when several are listed: the last
// path element of the last word. A trailing slash is kept.
func Display(candidate string) string {
	words := strings.Fields(candidate)
	if len(words) == 0 {
		return ""
	}
	last := words[len(words)-1]
	if i := strings.LastIndex(strings.TrimSuffix(last, "/"), "/"); i >= 0 {
		return last[i+1:]
	}
	return last
}
