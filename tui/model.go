// Package tui is the terminal host for the lesson page.
//
// The visitor edits one lesson at a time. The editor, the lesson's output,
// the mini website fixture and a status line are shown together, and key
// bindings stand in for the page's buttons and clicks.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jonwraymond/playground/catalog"
	"github.com/jonwraymond/playground/code"
	"github.com/jonwraymond/playground/page"
	"github.com/jonwraymond/playground/widget"
)

// Page is the part of *page.Page the terminal host drives.
type Page interface {
	Widgets() []*widget.Widget
	Run(ctx context.Context, key string) (code.RunResult, error)
	Edit(key, source string) error
	Reset(key string) error
	Clear(key string) error
	Sync() error
	GenerateFixture() (bool, error)
	Fixture() (page.FixtureView, error)
	MoveFixture(dx, dy float64) error
	ToggleFixture() error
	Click(sel string) (bool, error)
}

var _ Page = (*page.Page)(nil)

// DefaultClickTargets are the fixture elements ctrl+o cycles through.
var DefaultClickTargets = []string{
	"#action-btn",
	"#mini-website .nav-btn",
	"#feature-list li",
	"#site-title",
	"#status-text",
}

// DefaultRefreshInterval is how often output produced outside a run, by
// timers and listeners, is picked up.
const DefaultRefreshInterval = 250 * time.Millisecond

// moveStep is the fixture offset applied by one alt+arrow press.
const moveStep = 10

// ErrPageRequired is returned by New without a page.
var ErrPageRequired = errors.New("tui: Page is required")

// Options configures the terminal host.
type Options struct {
	// Page is the loaded lesson page. Required.
	Page Page

	// Catalog enables ctrl+p lesson search. Optional.
	Catalog *catalog.Catalog

	// ClickTargets overrides DefaultClickTargets.
	ClickTargets []string

	// RefreshInterval overrides DefaultRefreshInterval.
	RefreshInterval time.Duration
}

// Model is the bubbletea model.
type Model struct {
	page    Page
	catalog *catalog.Catalog
	widgets []*widget.Widget
	current int

	editor textarea.Model
	output viewport.Model
	search textinput.Model

	searching bool
	preview   bool
	running   bool

	targets []string
	target  int
	fixture page.FixtureView

	refresh time.Duration
	status  string
	width   int
	height  int
}

type runDoneMsg struct {
	key    string
	result code.RunResult
	err    error
}

type refreshMsg struct{}

// New creates the model positioned on the first lesson.
func New(opts Options) (*Model, error) {
	if opts.Page == nil {
		return nil, ErrPageRequired
	}
	if len(opts.ClickTargets) == 0 {
		opts.ClickTargets = DefaultClickTargets
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}

	widgets := opts.Page.Widgets()
	if len(widgets) == 0 {
		return nil, fmt.Errorf("tui: page has no playgrounds")
	}

	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.Focus()

	search := textinput.New()
	search.Placeholder = "search lessons"
	search.Prompt = "/ "

	m := &Model{
		page:    opts.Page,
		catalog: opts.Catalog,
		widgets: widgets,
		editor:  editor,
		output:  viewport.New(80, 8),
		search:  search,
		targets: opts.ClickTargets,
		refresh: opts.RefreshInterval,
		status:  "ready",
	}
	m.resize(100, 32)
	m.load()
	return m, nil
}

// Run starts a full-screen program and blocks until the visitor quits or
// ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return refreshMsg{} })
}

// Current returns the widget being edited.
func (m *Model) Current() *widget.Widget {
	return m.widgets[m.current]
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case runDoneMsg:
		m.running = false
		m.status = runStatus(msg)
		m.sync()
		return m, nil

	case refreshMsg:
		m.sync()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func runStatus(msg runDoneMsg) string {
	switch {
	case msg.err != nil:
		return fmt.Sprintf("%s: %v", msg.key, msg.err)
	case msg.result.Deferred:
		return fmt.Sprintf("%s: mini website created, ran after it", msg.key)
	default:
		return fmt.Sprintf("%s: %d entries in %s", msg.key, msg.result.Entries, msg.result.Duration.Round(time.Millisecond))
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c":
		m.store()
		return m, tea.Quit
	case "ctrl+r", "alt+enter":
		return m, m.run()
	case "ctrl+n":
		m.selectLesson(m.current + 1)
	case "ctrl+b":
		m.selectLesson(m.current - 1)
	case "ctrl+x":
		m.report(m.page.Reset(m.Current().Key()))
		m.load()
	case "ctrl+l":
		m.report(m.page.Clear(m.Current().Key()))
		m.sync()
	case "ctrl+e":
		m.preview = !m.preview
	case "ctrl+g":
		exists, err := m.page.GenerateFixture()
		if m.report(err) && exists {
			m.status = "mini website ready"
		}
		m.sync()
	case "ctrl+t":
		m.report(m.page.ToggleFixture())
		m.sync()
	case "ctrl+o":
		m.target = (m.target + 1) % len(m.targets)
		m.status = "click target " + m.targets[m.target]
	case "ctrl+k":
		m.click()
	case "alt+up":
		m.move(0, -moveStep)
	case "alt+down":
		m.move(0, moveStep)
	case "alt+left":
		m.move(-moveStep, 0)
	case "alt+right":
		m.move(moveStep, 0)
	case "ctrl+p":
		if m.catalog != nil {
			m.searching = true
			m.search.SetValue("")
			m.editor.Blur()
			return m, m.search.Focus()
		}
	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeSearch()
		return m, nil
	case tea.KeyEnter:
		m.jump(m.search.Value())
		m.closeSearch()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) closeSearch() {
	m.searching = false
	m.search.Blur()
	m.editor.Focus()
}

// jump selects the best catalog match for query.
func (m *Model) jump(query string) {
	hits, err := m.catalog.Search(query, 1)
	if !m.report(err) {
		return
	}
	if len(hits) == 0 {
		m.status = fmt.Sprintf("no lesson matches %q", query)
		return
	}
	for i, w := range m.widgets {
		if w.Key() == hits[0].Key {
			m.selectLesson(i)
			return
		}
	}
	m.status = fmt.Sprintf("lesson %q is not on this page", hits[0].Key)
}

// run stores the editor text and runs the current lesson in the background.
func (m *Model) run() tea.Cmd {
	if m.running {
		return nil
	}
	m.store()
	key := m.Current().Key()
	m.running = true
	m.status = key + ": running"
	p := m.page
	return func() tea.Msg {
		res, err := p.Run(context.Background(), key)
		if err == nil && res.Deferred {
			err = p.Sync()
		}
		return runDoneMsg{key: key, result: res, err: err}
	}
}

func (m *Model) click() {
	sel := m.targets[m.target]
	found, err := m.page.Click(sel)
	if !m.report(err) {
		return
	}
	if !found {
		m.status = "nothing matches " + sel
		return
	}
	m.status = "clicked " + sel
	m.sync()
}

func (m *Model) move(dx, dy float64) {
	m.report(m.page.MoveFixture(dx, dy))
	m.sync()
}

func (m *Model) selectLesson(i int) {
	if i < 0 || i >= len(m.widgets) || i == m.current {
		return
	}
	m.store()
	m.current = i
	m.load()
	m.status = m.Current().Title()
}

// store pushes the editor text into the current widget.
func (m *Model) store() {
	w := m.Current()
	if v := m.editor.Value(); v != w.Source() {
		m.report(m.page.Edit(w.Key(), v))
	}
}

// load shows the current widget's source and output.
func (m *Model) load() {
	m.editor.SetValue(m.Current().Source())
	m.editor.CursorStart()
	m.sync()
}

// sync refreshes the output pane and the fixture snapshot.
func (m *Model) sync() {
	m.output.SetContent(transcriptText(m.Current().Transcript()))
	m.output.GotoBottom()
	if v, err := m.page.Fixture(); err == nil {
		m.fixture = v
	}
}

// report records err in the status line and reports whether err was nil.
func (m *Model) report(err error) bool {
	if err != nil {
		m.status = "error: " + err.Error()
		return false
	}
	return true
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	left := w * 3 / 5
	body := h - 6
	if body < 6 {
		body = 6
	}
	m.editor.SetWidth(left - 4)
	m.editor.SetHeight(body * 3 / 5)
	m.output.Width = left - 4
	m.output.Height = body - body*3/5 - 2
	m.search.Width = left - 4
}
