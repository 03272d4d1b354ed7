// Package tui provides a Bubble Tea terminal user interface for the
// catalog downloader.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkudrin/taratdl/internal/audio"
	"github.com/dkudrin/taratdl/internal/catalog"
	"github.com/dkudrin/taratdl/internal/config"
	"github.com/dkudrin/taratdl/internal/download"
	"github.com/dkudrin/taratdl/internal/http"
	"github.com/dkudrin/taratdl/internal/logging"
	"github.com/dkudrin/taratdl/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDiscovering
	StateDownloading
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings

	tracker *trackerSink
	tail    *logTail
	log     *slog.Logger
	err     error

	ctx    context.Context
	cancel context.CancelFunc

	// Discovery progress
	artistsDone  atomic.Int32
	artistsTotal atomic.Int32

	// Final tally
	succeeded int
	total     int

	// Options
	useCache  bool
	playlists bool

	width  int
	height int
}

// NewModel creates a new TUI model around loaded settings.
func NewModel(settings *config.Settings) *Model {
	ti := textinput.New()
	ti.Placeholder = settings.OutputDir
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	tail := newLogTail(8)
	var log *slog.Logger
	if fileLog, _, err := logging.NewErrorLog(settings.ErrorLogFile); err != nil {
		log = slog.New(tail)
	} else {
		log = slog.New(&fanoutHandler{handlers: []slog.Handler{fileLog.Handler(), tail}})
	}

	return &Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		tracker:   newTrackerSink(settings.MaxConcurrentDownloads),
		tail:      tail,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		useCache:  true,
		playlists: settings.CreatePlaylists,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// DiscoveryDoneMsg is sent when the track list is ready.
	DiscoveryDoneMsg struct {
		Tracks []model.TrackRecord
		Err    error
	}

	// DownloadDoneMsg is sent when the whole batch has been drained.
	DownloadDoneMsg struct {
		Succeeded int
		Total     int
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateDiscovering || m.state == StateDownloading {
				m.cancel()
			}

		case "enter":
			if m.state == StateInput {
				if dir := strings.TrimSpace(m.textInput.Value()); dir != "" {
					m.settings.OutputDir = dir
				}
				m.settings.CreatePlaylists = m.playlists
				m.state = StateDiscovering
				return m, tea.Batch(m.discover(), m.spinner.Tick, m.tick())
			}

		case "c":
			if m.state == StateInput {
				m.useCache = !m.useCache
			}

		case "p":
			if m.state == StateInput {
				m.playlists = !m.playlists
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case DiscoveryDoneMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.total = len(msg.Tracks)
			m.state = StateDownloading
			cmds = append(cmds, m.startDownload(msg.Tracks), m.tick())
		}

	case DownloadDoneMsg:
		m.succeeded = msg.Succeeded
		m.total = msg.Total
		if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled, %d of %d finished", msg.Succeeded, msg.Total)
		} else {
			m.state = StateComplete
		}

	case TickMsg:
		if m.state == StateDiscovering || m.state == StateDownloading {
			cmds = append(cmds, m.tick())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// tick returns a command for periodic progress refreshes.
func (m *Model) tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tarat.ru downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download the full music catalog"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDiscovering:
		b.WriteString(m.viewDiscovering())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m *Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Output directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	cacheCheck := "[ ]"
	if m.useCache {
		cacheCheck = "[x]"
	}
	playlistCheck := "[ ]"
	if m.playlists {
		playlistCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Use cached track list (c)\n", cacheCheck))
	b.WriteString(fmt.Sprintf("  %s Create playlists (p)\n", playlistCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Catalog: %s", m.settings.BaseURL)))
	b.WriteString("\n")

	return b.String()
}

func (m *Model) viewDiscovering() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	done, total := m.artistsDone.Load(), m.artistsTotal.Load()
	if total > 0 {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Collecting tracks... %d/%d artists", done, total)))
	} else {
		b.WriteString(subtitleStyle.Render("Crawling artist listing..."))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m *Model) viewDownloading() string {
	var b strings.Builder

	slots, done, total := m.tracker.snapshot()

	var percent float64
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Tracks: %d/%d", done, total)))
	b.WriteString("\n\n")

	for i, slot := range slots {
		if !slot.Active {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d: idle", i+1)))
			b.WriteString("\n")
			continue
		}
		line := fmt.Sprintf("  %d: %s", i+1, slot.Label)
		if slot.Total > 0 {
			line += fmt.Sprintf(" (%.0f%%)", 100*float64(slot.Written)/float64(slot.Total))
		} else {
			line += fmt.Sprintf(" (%.1f MB)", float64(slot.Written)/1024/1024)
		}
		b.WriteString(trackStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m *Model) viewComplete() string {
	return boxStyle.Render(fmt.Sprintf(
		"Download complete\n\n"+
			"Tracks: %d of %d\n"+
			"Output: %s\n"+
			"Failures: %s",
		m.succeeded,
		m.total,
		m.settings.OutputDir,
		m.settings.ErrorLogFile,
	))
}

func (m *Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Stopped:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m *Model) renderLogs() string {
	var b strings.Builder
	for _, line := range m.tail.tail() {
		b.WriteString(errorStyle.Render("x " + line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: start - c: cache - p: playlists - esc: quit"
	case StateDiscovering, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "q: quit"
	}
	return ""
}

// discover loads the cached track list or crawls the catalog.
func (m *Model) discover() tea.Cmd {
	return func() tea.Msg {
		if m.useCache {
			tracks, err := catalog.LoadCache(m.settings.TracksCacheFile)
			if err != nil {
				m.log.Error("cache unreadable, re-crawling", "error", err)
			}
			if len(tracks) > 0 {
				return DiscoveryDoneMsg{Tracks: tracks}
			}
		}

		client := http.NewClient(m.settings.BaseURL, m.settings.MaxConnsPerHost, m.settings.MaxTotalConns)
		discoverer, err := catalog.NewDiscoverer(m.settings, client, m.log)
		if err != nil {
			return DiscoveryDoneMsg{Err: err}
		}
		discoverer.OnArtist = func(done, total int) {
			m.artistsDone.Store(int32(done))
			m.artistsTotal.Store(int32(total))
		}

		tracks, err := discoverer.DiscoverAll(m.ctx)
		if err != nil {
			return DiscoveryDoneMsg{Err: err}
		}

		if err := catalog.SaveCache(m.settings.TracksCacheFile, tracks); err != nil {
			m.log.Error("cache save failed", "error", err)
		}

		return DiscoveryDoneMsg{Tracks: tracks}
	}
}

// startDownload runs the whole batch in the background.
func (m *Model) startDownload(tracks []model.TrackRecord) tea.Cmd {
	return func() tea.Msg {
		settings := m.settings
		client := http.NewClient(settings.BaseURL, settings.MaxConnsPerHost, settings.MaxTotalConns)
		manager := download.NewManager(settings, client, audio.NewTagger(), m.log, m.tracker)

		succeeded, total := manager.RunAll(m.ctx, tracks)
		return DownloadDoneMsg{Succeeded: succeeded, Total: total}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
