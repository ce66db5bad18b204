package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/raphi011/mr/internal/ui/styles"
)

// dirWidth caps the width of the directory shown on the scan line.
const dirWidth = 48

// scanState is what the scan line shows.
type scanState struct {
	root string
	dir  string
	dirs int
}

// Scan shows which directory a repo search is walking and how many
// directories it has seen so far. It is fed from the walk callback.
type Scan struct {
	out     io.Writer
	program *tea.Program
	updates chan scanState
	done    chan struct{}

	mu      sync.Mutex
	running bool
	state   scanState
}

type scanModel struct {
	spinner spinner.Model
	state   scanState
	updates chan scanState
}

// NewScan creates a scan line writing to out.
func NewScan(out io.Writer) *Scan {
	return &Scan{
		out:     out,
		updates: make(chan scanState, 1),
		done:    make(chan struct{}),
	}
}

func (m scanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m scanModel) next() tea.Cmd {
	return func() tea.Msg {
		st, ok := <-m.updates
		if !ok {
			return tea.Quit()
		}
		return st
	}
}

func (m scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanState:
		m.state = msg
		return m, m.next()
	case tea.KeyPressMsg:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m scanModel) View() tea.View {
	if m.state.root == "" {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + m.state.line())
}

// line renders "Searching ROOT (N dirs) DIR" without the spinner frame.
func (st scanState) line() string {
	s := "Searching " + st.root
	if st.dirs == 0 {
		return s
	}
	noun := "dirs"
	if st.dirs == 1 {
		noun = "dir"
	}
	return fmt.Sprintf("%s (%d %s) %s", s, st.dirs, noun, styles.MutedStyle.Render(shortenDir(st.dir)))
}

// shortenDir keeps the tail of dir, which is the part that changes.
func shortenDir(dir string) string {
	w := ansi.StringWidth(dir)
	if w <= dirWidth {
		return dir
	}
	return ansi.TruncateLeft(dir, w-dirWidth+1, "…")
}

// Start draws the scan line until Stop is called.
func (s *Scan) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	m := scanModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.MutedStyle)),
		state:   s.state,
		updates: s.updates,
	}
	s.program = tea.NewProgram(m, tea.WithoutSignalHandler(), tea.WithInput(nil), tea.WithOutput(s.out))
	s.running = true

	go func() {
		_, _ = s.program.Run()
		close(s.done)
	}()
}

// Root starts a new search root. The directory count keeps running.
func (s *Scan) Root(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.root, s.state.dir = root, root
	s.publish()
}

// Visit records one walked directory.
func (s *Scan) Visit(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.dir = dir
	s.state.dirs++
	s.publish()
}

// Dirs returns the number of directories visited so far.
func (s *Scan) Dirs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.dirs
}

// publish replaces a pending update with the latest state.
// Caller holds mu.
func (s *Scan) publish() {
	if !s.running {
		return
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- s.state:
	default:
	}
}

// Stop removes the scan line.
func (s *Scan) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.updates)
	s.mu.Unlock()

	s.program.Quit()
	select {
	case <-s.done:
	case <-time.After(500 * time.Millisecond):
	}
	io.WriteString(s.out, "\r"+ansi.EraseEntireLine)
}
