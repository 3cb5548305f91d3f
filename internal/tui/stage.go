package tui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"screenflow/internal/nav"
	"screenflow/internal/view"
	"screenflow/internal/window"
)

// frameMsg drives redraws while the program runs.
type frameMsg struct{}

type layer struct {
	key   nav.Key
	panel *Panel
}

// Stage hosts windows for one scope and renders them in a Bubble Tea program.
type Stage struct {
	coord  *nav.Coordinator
	logger *zap.Logger
	keys   *KeyHandler
	back   tea.Cmd
	frame  time.Duration

	mu       sync.RWMutex
	size     view.Size
	active   bool
	screens  []layer
	overlays []layer
	status   string
}

var (
	_ window.Host = (*Stage)(nil)
	_ tea.Model   = (*Stage)(nil)
)

// NewStage creates a stage redrawing at fps frames per second.
func NewStage(coord *nav.Coordinator, logger *zap.Logger, fps int) *Stage {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fps <= 0 {
		fps = 60
	}
	return &Stage{
		coord:  coord,
		logger: logger.Named("tui"),
		keys:   NewKeyHandler(NewKeybindRegistry()),
		frame:  time.Second / time.Duration(fps),
	}
}

// Active implements window.Host. The stage presents once it knows the
// terminal size, and stops when Close is called.
func (s *Stage) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Size implements window.Host.
func (s *Stage) Size() view.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Close stops presenting. Later transitions apply without animation.
func (s *Stage) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Keys returns the stage's key handler.
func (s *Stage) Keys() *KeyHandler { return s.keys }

// SetBack sets the command run for an unbound esc.
func (s *Stage) SetBack(cmd tea.Cmd) { s.back = cmd }

// Add places a panel on the stage. Overlays draw above screens; within each
// group panels draw in the order they were added.
func (s *Stage) Add(key nav.Key, p *Panel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Overlay() {
		s.overlays = append(s.overlays, layer{key, p})
	} else {
		s.screens = append(s.screens, layer{key, p})
	}
}

// Init implements tea.Model.
func (s *Stage) Init() tea.Cmd {
	return s.tick()
}

func (s *Stage) tick() tea.Cmd {
	return tea.Tick(s.frame, func(time.Time) tea.Msg { return frameMsg{} })
}

// Update implements tea.Model.
func (s *Stage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.mu.Lock()
		s.size = view.Size{W: float64(msg.Width), H: float64(max(msg.Height-1, 0))}
		s.active = true
		s.mu.Unlock()
		return s, nil
	case frameMsg:
		return s, s.tick()
	case clickedMsg:
		s.setStatus(fmt.Sprintf("%s (%d)", msg.Button, msg.Started))
		s.logger.Debug("button clicked", zap.String("button", msg.Button), zap.Int("started", msg.Started))
		return s, nil
	case tea.KeyMsg:
		if consumed, cmd := s.keys.Handle(msg); consumed {
			return s, cmd
		}
		if msg.String() == "esc" && s.back != nil {
			return s, s.back
		}
	}
	return s, nil
}

func (s *Stage) setStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// View implements tea.Model.
func (s *Stage) View() string {
	s.mu.RLock()
	size, active, status := s.size, s.active, s.status
	layers := make([]layer, 0, len(s.screens)+len(s.overlays))
	layers = append(layers, s.screens...)
	layers = append(layers, s.overlays...)
	s.mu.RUnlock()

	if !active {
		return ""
	}
	w, h := int(size.W), int(size.H)
	canvas := blank(w, h)
	for _, l := range layers {
		if box, x, y, ok := l.panel.Render(size); ok {
			place(canvas, box, x, y)
		}
	}

	var current nav.Key
	if s.coord != nil {
		current, _ = s.coord.Current()
	}
	footer := RenderHelp(s.keys, current, w)
	if status != "" {
		footer = Styles.Status.Render(status) + "  " + footer
	}
	return strings.Join(canvas, "\n") + "\n" + footer
}
