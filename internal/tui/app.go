package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/fortuna/services/goalie-service/internal/render"
	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

var (
	purple  = lipgloss.Color("#bd93f9")
	comment = lipgloss.Color("#6272a4")
	pink    = lipgloss.Color("#ff79c6")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(pink)

	helpStyle = lipgloss.NewStyle().
			Foreground(comment)
)

// Loader builds the board
type Loader func(ctx context.Context) ([]models.BoardRow, error)

type model struct {
	ctx     context.Context
	load    Loader
	logger  logrus.FieldLogger
	spinner spinner.Model
	rows    []models.BoardRow
	loading bool
}

type boardLoadedMsg struct {
	rows []models.BoardRow
	err  error
}

func initialModel(ctx context.Context, load Loader, logger logrus.FieldLogger) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return model{
		ctx:     ctx,
		load:    load,
		logger:  logger,
		spinner: s,
		loading: true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m model) fetch() tea.Msg {
	rows, err := m.load(m.ctx)
	return boardLoadedMsg{rows: rows, err: err}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			// the view shows an empty board, never the error
			m.logger.WithError(msg.err).Error("failed to build goalie board")
			m.rows = nil
			return m, nil
		}
		m.rows = msg.rows
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Tonight's Goalies"))
	sb.WriteString("\n\n")

	if m.loading {
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Loading...")
	} else {
		sb.WriteString(render.RenderTable(m.rows))
	}

	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("q: quit"))
	sb.WriteString("\n")

	return sb.String()
}

// Run starts the interactive board view
func Run(ctx context.Context, load Loader, logger logrus.FieldLogger) error {
	p := tea.NewProgram(initialModel(ctx, load, logger), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
