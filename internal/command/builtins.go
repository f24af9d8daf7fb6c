package command

import (
	"strings"
	"unicode"
)

// nbsp keeps otherwise blank lines from collapsing while animating.
const nbsp = "\u00a0"

const claudeColor = "#D97757"

var helpLines = []string{
	"Available commands:",
	"  ls [path]   List pages",
	"  cd [path]   Navigate",
	"  cat [path]  View content",
	"  sh [path]   Run executable",
	"  clear       Clear the terminal",
	"  help        Show this help message",
}

var claudeArt = []string{
	"",
	"    ▐▛███▜▌",
	"   ▝▜█████▛▘",
	"     ▘▘ ▝▝",
	"",
}

const claudeMessage = "  You really think I'd pay for this?"

// sneakyCommands are real system tools that are recognised and refused.
var sneakyCommands = map[string]bool{}

func init() {
	for _, name := range strings.Fields(`
		rm mv cp mkdir rmdir touch chmod chown chgrp
		ln find grep sed awk sort uniq wc diff
		tar zip unzip gzip gunzip curl wget ssh scp
		ping traceroute netstat ifconfig ip dig nslookup
		ps top htop kill killall df du free mount
		umount fdisk mkfs dd whoami id su passwd
		useradd userdel groupadd crontab systemctl service
		journalctl dmesg lsof strace nmap iptables
		apt yum dnf pacman brew pip npm git
		docker kubectl man which alias export source
		history tail head less more nano vim vi emacs
		pwd env set unset xargs tee nc telnet
		reboot shutdown halt poweroff watch`) {
		sneakyCommands[name] = true
	}
}

// jokes answer a handful of commands with a fixed line.
var jokes = map[string]string{
	"exit":    "exit: there is no escape",
	"logout":  "logout: you were never logged in",
	"sl":      "sl: the train already left. try ls",
	"cowsay":  "cowsay: moo",
	"fortune": "fortune: you will find a bug in the next five minutes",
	"make":    "make: *** No rule to make target 'sandwich'.  Stop.",
	"xyzzy":   "Nothing happens.",
	"date":    "date: it is later than you think",
	"uptime":  "uptime: since the last deploy",
	"uname":   "termsite",
}

// knownCommands feed "did you mean" suggestions.
var knownCommands = []string{"help", "ls", "cd", "cat", "sh", "clear", "echo", "claude", "hostname"}

// WelcomeText is shown once at startup.
func WelcomeText(mobile bool) string {
	if mobile {
		return "Welcome! Tap on the screen to view current page content or navigate with the buttons ^"
	}
	return "Welcome! Type 'help' for available commands, or click a button ^"
}

// rootBlurb is what cat shows at the root.
func rootBlurb(mobile bool) string {
	text := strings.Replace(WelcomeText(mobile), "Welcome! ", "", 1)
	return strings.TrimSuffix(text, " ^")
}

// echoText applies echo's quoting: quoted runs are copied verbatim without
// their quotes, unquoted whitespace collapses to one space. An unterminated
// quote runs to the end of the line.
func echoText(raw string) string {
	var b strings.Builder
	lastSpace := func() bool {
		s := b.String()
		return len(s) > 0 && s[len(s)-1] == ' '
	}
	runes := []rune(raw)
	for i := 0; i < len(runes); {
		ch := runes[i]
		switch {
		case ch == '"' || ch == '\'':
			end := i + 1
			for end < len(runes) && runes[end] != ch {
				end++
			}
			b.WriteString(string(runes[i+1 : end]))
			i = end + 1
		case unicode.IsSpace(ch):
			if b.Len() > 0 && !lastSpace() {
				b.WriteByte(' ')
			}
			i++
		default:
			b.WriteRune(ch)
			i++
		}
	}
	return b.String()
}

// contentLines splits page text into output lines, keeping blank lines
// visible and ending with a spacer line.
func contentLines(text string) []Fragment {
	lines := strings.Split(text, "\n")
	out := make([]Fragment, 0, len(lines)+1)
	for _, line := range lines {
		if line == "" {
			line = nbsp
		}
		out = append(out, Fragment{Text: line})
	}
	return append(out, Fragment{Text: nbsp})
}

func isPathLike(word string) bool {
	return strings.HasPrefix(word, "./") || strings.HasPrefix(word, "~/") ||
		strings.HasPrefix(word, "../") || strings.Contains(word, "/")
}
