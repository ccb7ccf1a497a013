package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adamani-ai/rag"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model

	ask     AskFunc
	session *rag.Session
	k       int
	theme   rag.Theme
	styles  Styles
	onTurn  func(*rag.Session) error
	now     func() time.Time

	blocks     []MessageBlock
	blockFocus int // index of focused sources block (-1 = none)

	activeAnswer *AnswerBlock
	pending      string // question in flight

	running bool
	cancel  context.CancelFunc
	eventCh chan rag.Event
	doneCh  chan AnswerDoneMsg
	err     error
	ready   bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTopK sets the number of excerpts requested per question.
func WithTopK(k int) ModelOption {
	return func(m *Model) { m.k = k }
}

// WithTurnHook sets a callback invoked with the session after every
// recorded turn. A returned error is shown in the status line.
func WithTurnHook(fn func(*rag.Session) error) ModelOption {
	return func(m *Model) { m.onTurn = fn }
}

// New creates a new TUI Model that answers questions with ask and records
// turns into session.
func New(ask AskFunc, session *rag.Session, theme rag.Theme, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask a question..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0
	if session == nil {
		session = &rag.Session{}
	}

	m := Model{
		Input:      ti,
		ask:        ask,
		session:    session,
		k:          rag.DefaultTopK,
		theme:      theme,
		styles:     NewStyles(theme),
		now:        time.Now,
		blockFocus: -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Running returns whether a question is being answered.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Session returns the session the model records turns into.
func (m Model) Session() *rag.Session { return m.session }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamEventMsg:
		m = m.processEvent(msg.Event)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(m.eventCh, m.doneCh)
		}
		return m, nil

	case AnswerDoneMsg:
		m = m.finishTurn(msg)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		return m, m.Input.Focus()
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.renderSession()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
		m.Viewport.SetContent(m.renderContent())
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		return m.submit(text)

	case tea.KeyTab:
		if !m.running && m.blockFocus >= 0 {
			block, cmd := m.blocks[m.blockFocus].Update(ToggleMsg{})
			m.blocks[m.blockFocus] = block
			m.Viewport.SetContent(m.renderContent())
			return m, cmd
		}
		return m, nil

	case tea.KeyShiftTab:
		if !m.running {
			m = m.cycleFocusPrev()
			m.Viewport.SetContent(m.renderContent())
		}
		return m, nil
	}

	// Character keys only go to the input so 'j'/'k' type instead of scroll.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil
	m.pending = text

	m.blocks = append(m.blocks, NewQuestionBlock(text, m.styles))
	m.activeAnswer = nil
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.eventCh = make(chan rag.Event, 256)
	m.doneCh = make(chan AnswerDoneMsg, 1)
	m.running = true

	m.Input.Blur()

	q := rag.Query{Question: text, SessionID: m.session.ID, K: m.k}
	return m, tea.Batch(
		startAsk(ctx, m.ask, q, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// finishTurn records the completed question and resets the run state.
func (m Model) finishTurn(msg AnswerDoneMsg) Model {
	if m.cancel != nil {
		m.cancel()
	}
	m.running = false
	m.cancel = nil
	m.eventCh = nil
	m.doneCh = nil

	ans := msg.Answer
	if m.activeAnswer != nil && ans.Text == "" {
		ans.Text = m.activeAnswer.Text()
	}
	m.activeAnswer = nil

	switch {
	case msg.Err == nil:
	case errors.Is(msg.Err, context.Canceled):
		m.blocks = append(m.blocks, NewErrorBlock(errors.New("cancelled"), m.styles))
	default:
		m.err = msg.Err
		m.blocks = append(m.blocks, NewErrorBlock(msg.Err, m.styles))
	}

	m.session.Record(m.pending, ans, msg.Err, m.now())
	m.pending = ""
	if m.onTurn != nil {
		if err := m.onTurn(m.session); err != nil && m.err == nil {
			m.err = fmt.Errorf("save session: %w", err)
		}
	}
	return m.updateBlockFocus()
}

// renderSession creates blocks from the turns already in the session.
func (m Model) renderSession() Model {
	for _, t := range m.session.Turns {
		m.blocks = append(m.blocks, NewQuestionBlock(t.Question, m.styles))
		if t.Answer.Text != "" {
			b := NewAnswerBlock(m.theme)
			b.Append(t.Answer.Text)
			m.blocks = append(m.blocks, b)
		}
		if len(t.Answer.Sources) > 0 {
			m.blocks = append(m.blocks, NewSourcesBlock(t.Answer.Sources, m.styles))
		}
		if t.Err != "" {
			m.blocks = append(m.blocks, NewErrorBlock(errors.New(t.Err), m.styles))
		}
	}
	return m.updateBlockFocus()
}

func (m Model) renderContent() string {
	if len(m.blocks) == 0 {
		return ""
	}
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// processEvent routes a stream event to the appropriate block.
func (m Model) processEvent(evt rag.Event) Model {
	switch e := evt.(type) {
	case rag.EventToken:
		if m.activeAnswer == nil {
			m.activeAnswer = NewAnswerBlock(m.theme)
			m.blocks = append(m.blocks, m.activeAnswer)
		}
		m.activeAnswer.Append(e.Token)
	case rag.EventSources:
		m.blocks = append(m.blocks, NewSourcesBlock(e.Sources, m.styles))
		m = m.updateBlockFocus()
	}
	return m
}

// updateBlockFocus focuses the last collapsible block.
func (m Model) updateBlockFocus() Model {
	m.blockFocus = -1
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if _, ok := m.blocks[i].(collapsible); ok {
			m.blockFocus = i
			return m
		}
	}
	return m
}

// cycleFocusPrev moves blockFocus to the previous collapsible block, wrapping around.
func (m Model) cycleFocusPrev() Model {
	start := m.blockFocus - 1
	if start < 0 {
		start = len(m.blocks) - 1
	}
	for i := range len(m.blocks) {
		idx := (start - i + len(m.blocks)) % len(m.blocks)
		if _, ok := m.blocks[idx].(collapsible); ok {
			m.blockFocus = idx
			return m
		}
	}
	m.blockFocus = -1
	return m
}

func (m Model) statusLine() string {
	var line string
	switch {
	case m.err != nil:
		line = fmt.Sprintf("Error: %v", m.err)
	case m.running:
		line = "Answering..."
	case m.blockFocus >= 0:
		line = "Enter to ask, Tab to toggle sources, Ctrl+C to quit"
	default:
		line = "Enter to ask, Ctrl+C to quit"
	}
	if w := m.Viewport.Width; w > 0 {
		line = runewidth.Truncate(line, w, "…")
	}
	if m.err != nil {
		return m.styles.Error.Render(line)
	}
	return m.styles.Muted.Render(line)
}

// startAsk answers the question in a goroutine and signals completion.
func startAsk(ctx context.Context, ask AskFunc, q rag.Query, eventCh chan<- rag.Event, doneCh chan<- AnswerDoneMsg) tea.Cmd {
	return func() tea.Msg {
		ans, err := ask(ctx, q, func(e rag.Event) {
			select {
			case eventCh <- e:
			case <-ctx.Done():
			}
		})
		close(eventCh)
		doneCh <- AnswerDoneMsg{Answer: ans, Err: err}
		return nil
	}
}

// listenForEvent waits for the next event from the channel.
// When the channel closes, it returns the AnswerDoneMsg from doneCh.
func listenForEvent(ch <-chan rag.Event, doneCh <-chan AnswerDoneMsg) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return StreamEventMsg{Event: evt}
	}
}
