// Package ui is the interactive terminal: a Bubble Tea model that echoes
// commands, animates their output, and hands the screen to executables.
package ui

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/termsite/internal/animator"
	"github.com/oakwood-commons/termsite/internal/command"
	"github.com/oakwood-commons/termsite/internal/completion"
	"github.com/oakwood-commons/termsite/internal/config"
	"github.com/oakwood-commons/termsite/internal/executable"
	"github.com/oakwood-commons/termsite/internal/input"
	"github.com/oakwood-commons/termsite/internal/linkify"
	"github.com/oakwood-commons/termsite/internal/manifest"
	"github.com/oakwood-commons/termsite/internal/session"
	"github.com/oakwood-commons/termsite/pkg/logger"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	wheelStep     = 3
)

type animTickMsg struct{ token uint64 }

type typeTickMsg struct{ token uint64 }

type jobKind int

const (
	// jobCommand runs one command of a chain.
	jobCommand jobKind = iota
	// jobType types a command line out and submits it.
	jobType
)

type job struct {
	kind jobKind
	line string
}

type lineKind int

const (
	lineOutput lineKind = iota
	linePrompt
	lineWelcome
)

// line is one scrollback entry.
type line struct {
	kind lineKind
	text string
	frag command.Fragment
	// segs is set once an output line is complete and contains links.
	segs   []linkify.Segment
	linked bool
	// Prompt echoes keep the prompt they were typed at.
	user, host, path string
	root             bool
}

type typing struct {
	text []rune
	pos  int
	done bool
}

// navButton is a top bar entry.
type navButton struct {
	label string
	key   string
	cmd   string
}

var navButtons = []navButton{
	{label: "[F1] home", key: "f1", cmd: "cd ~"},
	{label: "[F2] menu", key: "f2", cmd: "ls ~"},
	{label: "[F3] clear", key: "f3", cmd: "clear"},
}

// Options configure a terminal.
type Options struct {
	Config config.Config
	// Mobile selects the constrained client class.
	Mobile  bool
	NoColor bool
	// Width and Height are the initial screen size; zero uses 80x24.
	Width  int
	Height int
}

// Model is the terminal. It implements tea.Model with a pointer receiver.
type Model struct {
	ctx   context.Context
	proc  *command.Processor
	sess  *session.Session
	input *input.Machine
	host  *executable.Host

	styles      styles
	timing      animator.Timing
	keyDelay    time.Duration
	submitDelay time.Duration

	lines      []line
	candidates []completion.Completion

	jobs      animator.Sequencer[job]
	token     uint64
	anim      *animator.Animation
	animFrags []command.Fragment
	animFrom  int
	typing    *typing

	width   int
	height  int
	scroll  int
	startup tea.Cmd
}

// New builds a terminal over proc. Executables are looked up in reg.
func New(ctx context.Context, proc *command.Processor, reg *executable.Registry, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	m := &Model{
		ctx:         ctx,
		proc:        proc,
		sess:        session.New(opts.Mobile),
		host:        executable.NewHost(reg, cfg.ResizeDebounce()),
		styles:      newStyles(ThemeFromConfig(cfg.Theme), opts.NoColor),
		timing:      cfg.Timing(),
		keyDelay:    cfg.KeyDelay(),
		submitDelay: cfg.SubmitDelay(),
		width:       opts.Width,
		height:      opts.Height,
	}
	engine := completion.NewEngine(proc.Resolver(), opts.Mobile)
	m.input = input.NewMachine(func(line string) []completion.Completion {
		return engine.Complete(line, m.sess.CurrentPath)
	})
	m.lines = []line{
		{kind: lineWelcome, text: command.WelcomeText(opts.Mobile)},
		{kind: lineOutput},
	}
	return m
}

// Session is the terminal's session state.
func (m *Model) Session() *session.Session { return m.sess }

// Busy reports whether output, typing or an executable holds the screen.
func (m *Model) Busy() bool { return m.jobs.Busy() }

// Scrollback returns the visible text of every scrollback line.
func (m *Model) Scrollback() []string {
	out := make([]string, len(m.lines))
	for i, l := range m.lines {
		out[i] = row{spans: m.lineSpans(l)}.plain()
	}
	return out
}

func (m *Model) Init() tea.Cmd {
	return m.startup
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.host.Running() {
			cmd, _ := m.host.Update(msg)
			return m, cmd
		}
		return m, nil
	case animTickMsg:
		if !m.jobs.Valid(msg.token) || m.anim == nil {
			return m, nil
		}
		return m, m.step()
	case typeTickMsg:
		if !m.jobs.Valid(msg.token) || m.typing == nil {
			return m, nil
		}
		return m, m.typeNext()
	}

	if m.host.Running() {
		return m, m.updateHost(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.PasteMsg:
		if !m.jobs.Busy() {
			m.candidates = nil
			m.input.Paste(msg.Content)
		}
	case tea.MouseClickMsg:
		return m, m.handleClick(msg.Mouse())
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			m.scrollBy(wheelStep)
		case tea.MouseWheelDown:
			m.scrollBy(-wheelStep)
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "pgup":
		m.scrollBy(m.bodyHeight() - 1)
		return nil
	case "pgdown":
		m.scrollBy(-(m.bodyHeight() - 1))
		return nil
	case "shift+up":
		m.scrollBy(1)
		return nil
	case "shift+down":
		m.scrollBy(-1)
		return nil
	}

	// Nav keys behave like clicks and queue behind running output.
	for _, b := range navButtons {
		if key == b.key {
			return m.simulate(b.cmd)
		}
	}
	if m.jobs.Busy() {
		if key == "ctrl+c" {
			m.interrupt()
		}
		return nil
	}
	if key == "ctrl+d" && m.input.Line() == "" && !m.input.Searching() {
		return tea.Quit
	}

	m.scroll = 0
	if key != "tab" {
		m.candidates = nil
	}
	eff := m.input.HandleKey(input.Key{Name: key, Text: msg.Text})
	switch eff.Kind {
	case input.EffectSubmit:
		return m.submit(eff.Line)
	case input.EffectClearScreen:
		m.clearScreen()
	case input.EffectCancelLine:
		m.echo(eff.Line)
	case input.EffectShowCandidates:
		m.candidates = eff.Candidates
	}
	return nil
}

// updateHost routes a message to the running executable. Ctrl+C always
// stops it.
func (m *Model) updateHost(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "ctrl+c" {
		m.host.Stop()
		return m.executableDone()
	}
	cmd, exited := m.host.Update(msg)
	if exited {
		return tea.Batch(cmd, m.executableDone())
	}
	return cmd
}

// executableDone returns the screen to the terminal and resumes queued work.
func (m *Model) executableDone() tea.Cmd {
	m.scroll = 0
	next, ok := m.jobs.Release()
	return m.drain(next, ok)
}

// chain splits a submitted line into one job per command.
func chain(line string) []job {
	parts := command.SplitChain(line)
	jobs := make([]job, len(parts))
	for i, p := range parts {
		jobs[i] = job{kind: jobCommand, line: p}
	}
	return jobs
}

// submit echoes line and runs its commands ahead of any queued work.
func (m *Model) submit(line string) tea.Cmd {
	m.echo(line)
	m.jobs.PushFront(chain(line)...)
	if m.jobs.Busy() {
		return nil
	}
	next, ok := m.jobs.Next()
	return m.drain(next, ok)
}

// simulate types cmd out as if from the keyboard, after any queued work.
func (m *Model) simulate(cmd string) tea.Cmd {
	m.candidates = nil
	logger.FromContext(m.ctx).V(1).Info("simulating command", logger.CommandKey, cmd)
	j := job{kind: jobType, line: cmd}
	if m.jobs.EnqueueOrRun(j) {
		return m.run(j)
	}
	return nil
}

// drain runs jobs until one holds the lock or the queue is empty.
func (m *Model) drain(next job, ok bool) tea.Cmd {
	var cmds []tea.Cmd
	for ok {
		cmds = append(cmds, m.run(next))
		if m.jobs.Busy() {
			break
		}
		next, ok = m.jobs.Next()
	}
	return tea.Batch(cmds...)
}

func (m *Model) run(j job) tea.Cmd {
	if j.kind == jobType {
		return m.startTyping(j.line)
	}
	res := m.proc.Process(m.ctx, m.sess, j.line)
	switch {
	case res.Clear:
		m.clearScreen()
	case res.Launch != nil:
		return m.launch(res.Launch)
	case len(res.Fragments) > 0:
		return m.animate(res.Fragments)
	}
	return nil
}

func (m *Model) launch(exec *manifest.Executable) tea.Cmd {
	w, h := m.size()
	cmd, err := m.host.Start(m.ctx, exec, executable.Screen{Width: w, Height: h})
	if err != nil {
		logger.FromContext(m.ctx).Error(err, "cannot start executable", logger.ExecutableKey, exec.Name)
		return m.animate([]command.Fragment{{Text: exec.Name + ": cannot execute: unknown module"}})
	}
	m.token = m.jobs.Acquire()
	m.candidates = nil
	return cmd
}

// animate appends frags to the scrollback and starts revealing them.
func (m *Model) animate(frags []command.Fragment) tea.Cmd {
	items := make([]animator.Item, len(frags))
	for i := range frags {
		frags[i].Text = linkify.ResolveConditional(frags[i].Text, m.sess.Mobile)
		items[i] = animator.Item{Text: frags[i].Text, Instant: frags[i].Instant}
	}
	m.anim = animator.New(items, m.timing)
	m.animFrags = frags
	m.animFrom = len(m.lines)
	m.token = m.jobs.Acquire()
	m.scroll = 0
	return m.step()
}

func (m *Model) step() tea.Cmd {
	delay, done := m.anim.Step()
	m.syncAnimation()
	if done {
		m.anim, m.animFrags = nil, nil
		next, ok := m.jobs.Release()
		return m.drain(next, ok)
	}
	token := m.token
	return tea.Tick(delay, func(time.Time) tea.Msg { return animTickMsg{token: token} })
}

// syncAnimation copies the revealed text into the scrollback and linkifies
// lines as they complete.
func (m *Model) syncAnimation() {
	for i := range m.anim.Started() {
		idx := m.animFrom + i
		if idx >= len(m.lines) {
			m.lines = append(m.lines, line{kind: lineOutput, frag: m.animFrags[i]})
		}
		l := &m.lines[idx]
		l.text = m.anim.Text(i)
		if m.anim.Complete(i) && !l.linked {
			l.linked = true
			if segs := linkify.Split(l.text); linkify.HasLinks(segs) {
				l.segs = segs
			}
		}
	}
}

// interrupt voids the running animation or typing and everything queued
// behind it.
func (m *Model) interrupt() {
	if !m.jobs.Interrupt() {
		return
	}
	m.anim, m.animFrags = nil, nil
	if m.typing != nil {
		m.typing = nil
		m.input.Reset()
	}
	m.lines = append(m.lines, line{kind: lineOutput, text: "^C", linked: true})
	m.scroll = 0
}

func (m *Model) startTyping(cmd string) tea.Cmd {
	m.token = m.jobs.Acquire()
	m.candidates = nil
	m.input.Reset()
	m.typing = &typing{text: []rune(cmd)}
	m.scroll = 0
	return m.typeNext()
}

// typeNext types one character, or submits once the whole command has been
// typed and the submit pause has passed.
func (m *Model) typeNext() tea.Cmd {
	t := m.typing
	token := m.token
	tick := func(d time.Duration) tea.Cmd {
		return tea.Tick(d, func(time.Time) tea.Msg { return typeTickMsg{token: token} })
	}
	if t.pos < len(t.text) {
		m.input.Insert(string(t.text[t.pos]))
		t.pos++
		return tick(m.keyDelay)
	}
	if !t.done {
		t.done = true
		return tick(m.submitDelay)
	}
	m.typing = nil
	typed := m.input.Commit(m.input.Line())
	m.echo(typed)
	m.jobs.PushFront(chain(typed)...)
	next, ok := m.jobs.Release()
	return m.drain(next, ok)
}

// echo records a prompt line with the prompt as it is now.
func (m *Model) echo(text string) {
	user, host, path := m.proc.PromptParts(m.sess)
	m.lines = append(m.lines, line{
		kind:   linePrompt,
		text:   text,
		user:   user,
		host:   host,
		path:   path,
		root:   m.sess.IsRoot,
		linked: true,
	})
	m.scroll = 0
}

func (m *Model) clearScreen() {
	m.lines = nil
	m.candidates = nil
	m.scroll = 0
}

func (m *Model) handleClick(mouse tea.Mouse) tea.Cmd {
	if mouse.Button != tea.MouseLeft {
		return nil
	}
	rows := m.screen()
	if mouse.Y < 0 || mouse.Y >= len(rows) {
		return m.tap()
	}
	r := rows[mouse.Y]
	switch r.kind {
	case rowNav:
		if s, ok := spanAt(r.spans, mouse.X); ok && s.cmd != "" {
			return m.simulate(s.cmd)
		}
		return nil
	case rowLine:
		l := m.lines[r.line]
		if l.frag.Action != nil {
			return m.simulate(l.frag.Action.Command(m.sess.CurrentPath))
		}
		if s, ok := spanAt(r.spans, mouse.X); ok && s.link != nil {
			if s.link.Kind != linkify.Page {
				// External links open through the terminal's own hyperlink support.
				return nil
			}
			if cmd, ok := m.proc.PageLinkCommand(m.sess, s.link.Target); ok {
				return m.simulate(cmd)
			}
			return nil
		}
	}
	return m.tap()
}

// tap shows the current page on a constrained client.
func (m *Model) tap() tea.Cmd {
	if !m.sess.Mobile || m.jobs.Busy() {
		return nil
	}
	return m.simulate(m.proc.TapCommand(m.sess))
}

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// bodyHeight is the number of rows below the top bar.
func (m *Model) bodyHeight() int {
	_, h := m.size()
	return max(1, h-1)
}

func (m *Model) scrollBy(n int) {
	w, _ := m.size()
	limit := max(0, len(m.bodyRows(w))-m.bodyHeight())
	m.scroll = min(max(m.scroll+n, 0), limit)
}

func (m *Model) promptVisible() bool {
	return m.anim == nil && !m.host.Running()
}

func (m *Model) navRow() row {
	var spans []span
	for i, b := range navButtons {
		if i > 0 {
			spans = append(spans, span{text: "  ", style: m.styles.nav})
		}
		spans = append(spans, span{text: b.label, style: m.styles.nav, cmd: b.cmd})
	}
	return row{kind: rowNav, spans: spans}
}

func (m *Model) promptPrefix(user, host, path string, root bool) []span {
	userStyle := m.styles.user
	if root {
		userStyle = m.styles.rootUser
	}
	return []span{
		{text: user + "@" + host, style: userStyle},
		{text: ":", style: m.styles.text},
		{text: path, style: m.styles.path},
		{text: "$ ", style: m.styles.dollar},
	}
}

func (m *Model) lineSpans(l line) []span {
	switch l.kind {
	case lineWelcome:
		return []span{{text: l.text, style: m.styles.welcome}}
	case linePrompt:
		return append(m.promptPrefix(l.user, l.host, l.path, l.root), span{text: l.text, style: m.styles.text})
	}
	base := m.styles.fragment(l.frag)
	if l.segs == nil {
		return []span{{text: l.text, style: base}}
	}
	spans := make([]span, len(l.segs))
	for i := range l.segs {
		seg := l.segs[i]
		s := span{text: seg.Text, style: m.styles.segment(seg, base)}
		if seg.IsLink() {
			s.link = &seg
		}
		spans[i] = s
	}
	return spans
}

func (m *Model) promptSpans() []span {
	if m.input.Searching() {
		return []span{
			{text: "(reverse-i-search)'" + m.input.SearchQuery() + "': ", style: m.styles.accent},
			{text: m.input.SearchMatch(), style: m.styles.text},
			{text: " ", style: m.styles.cursor},
		}
	}
	user, host, path := m.proc.PromptParts(m.sess)
	spans := m.promptPrefix(user, host, path, m.sess.IsRoot)
	buf := []rune(m.input.Line())
	cur := m.input.Cursor()
	spans = append(spans, span{text: string(buf[:cur]), style: m.styles.text})
	if cur < len(buf) {
		spans = append(spans,
			span{text: string(buf[cur]), style: m.styles.cursor},
			span{text: string(buf[cur+1:]), style: m.styles.text},
		)
	} else {
		spans = append(spans, span{text: " ", style: m.styles.cursor})
	}
	if len(buf) == 0 && m.typing == nil {
		if hint := m.proc.Hint(m.sess); hint != "" {
			spans = append(spans, span{text: hint, style: m.styles.hint})
		}
	}
	return spans
}

func (m *Model) bodyRows(width int) []row {
	var rows []row
	for i, l := range m.lines {
		for _, spans := range wrap(m.lineSpans(l), width) {
			rows = append(rows, row{kind: rowLine, spans: spans, line: i})
		}
	}
	if !m.promptVisible() {
		return rows
	}
	for _, spans := range wrap(m.promptSpans(), width) {
		rows = append(rows, row{spans: spans})
	}
	for _, c := range m.candidates {
		rows = append(rows, row{spans: []span{{text: c.Display, style: m.styles.candidate}}})
	}
	return rows
}

// screen lays out the top bar and the visible window of the body.
func (m *Model) screen() []row {
	w, _ := m.size()
	body := m.bodyRows(w)
	height := m.bodyHeight()
	scroll := min(m.scroll, max(0, len(body)-height))
	end := len(body) - scroll
	start := max(0, end-height)
	nav := m.navRow()
	nav.spans = wrap(nav.spans, w)[0]
	return append([]row{nav}, body[start:end]...)
}

func (m *Model) render() string {
	if m.host.Running() {
		return m.host.View()
	}
	rows := m.screen()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = render(r.spans)
	}
	return strings.Join(out, "\n")
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.KeyboardEnhancements.ReportEventTypes = true
	return v
}
