package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"viralflow/internal/catalog"
	"viralflow/internal/config"
	"viralflow/internal/session"
	"viralflow/internal/stream"
	"viralflow/internal/transcript"
)

var (
	studioTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	studioMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	studioErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	studioOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	studioPanelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	studioStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true).Padding(0, 1)
)

const studioLogTail = 12

type studioModel struct {
	settings config.Settings
	sess     *session.Session
	catalog  catalog.Catalog

	writerSel catalog.ModelSelection
	criticSel catalog.ModelSelection

	topic   textinput.Model
	spin    spinner.Model
	width   int
	height  int
	saved   bool
	notice  string
	fatal   error
}

type studioCatalogMsg struct {
	cat catalog.Catalog
	err error
}

type studioStreamMsg struct{}

type studioIgnitedMsg struct{ err error }

type studioSavedMsg struct {
	path string
	err  error
}

func runStudio(args []string) error {
	fs := flag.NewFlagSet("studio", flag.ContinueOnError)
	backend := addBackendFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("studio requires an interactive terminal (TTY)")
	}

	client, settings, err := backend.client()
	if err != nil {
		return err
	}

	var p *tea.Program
	opener := &tapOpener{inner: client, tap: func(stream.Event) {
		if p != nil {
			p.Send(studioStreamMsg{})
		}
	}}

	topic := textinput.New()
	topic.Placeholder = "video topic"
	topic.CharLimit = 200
	topic.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := studioModel{
		settings:  settings,
		sess:      session.New(opener),
		writerSel: catalog.NewModelSelection("gemini"),
		criticSel: catalog.NewModelSelection("gemini"),
		topic:     topic,
		spin:      spin,
	}

	p = tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("studio requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(studioModel); ok {
		return fm.fatal
	}
	return nil
}

func (m studioModel) Init() tea.Cmd {
	return tea.Batch(m.loadCatalogCmd(), m.spin.Tick, textinput.Blink)
}

func (m studioModel) loadCatalogCmd() tea.Cmd {
	settings := m.settings
	return func() tea.Msg {
		client := newBackendClient(settings)
		ctx, cancel := context.WithTimeout(context.Background(), settings.Timeout())
		defer cancel()
		cat, err := catalog.Fetch(ctx, client)
		return studioCatalogMsg{cat: cat, err: err}
	}
}

func (m studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topic.Width = max(20, m.width-10)
		return m, nil
	case studioCatalogMsg:
		if msg.err != nil {
			// Connectivity loss is non-fatal: generation can still be tried.
			m.notice = "catalog unavailable: " + msg.err.Error()
			return m, nil
		}
		m.catalog = msg.cat
		m.writerSel.Apply(m.catalog.Models)
		m.criticSel.Apply(m.catalog.Models)
		return m, nil
	case studioIgnitedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		return m, nil
	case studioStreamMsg:
		view := m.sess.View()
		if !m.saved && (view.Status == session.StatusDone || view.Status == session.StatusError) {
			m.saved = true
			return m, m.saveTranscriptCmd(view)
		}
		return m, nil
	case studioSavedMsg:
		if msg.err != nil {
			m.notice = "transcript not saved: " + msg.err.Error()
		} else {
			m.notice = "transcript saved: " + msg.path
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.topic, cmd = m.topic.Update(msg)
	return m, cmd
}

func (m studioModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.sess.Status() == session.StatusStreaming {
			m.sess.Abort()
		}
		return m, tea.Quit
	case "esc":
		if m.sess.Status() == session.StatusStreaming {
			m.sess.Abort()
			m.notice = "run aborted"
			return m, nil
		}
		return m, tea.Quit
	case "enter":
		if m.sess.Status() == session.StatusStreaming {
			return m, nil
		}
		m.saved = false
		m.notice = ""
		return m, m.igniteCmd()
	}

	var cmd tea.Cmd
	m.topic, cmd = m.topic.Update(msg)
	return m, cmd
}

func (m studioModel) igniteCmd() tea.Cmd {
	cfg := session.DefaultConfig()
	cfg.Topic = m.topic.Value()
	cfg.WriterProvider = m.writerSel.Provider()
	cfg.WriterModel = m.writerSel.Model()
	cfg.CriticProvider = m.criticSel.Provider()
	cfg.CriticModel = m.criticSel.Model()
	if voice := m.catalog.DefaultVoice(); voice != "" {
		cfg.VoiceConfig = voice
	}
	sess := m.sess
	return func() tea.Msg {
		return studioIgnitedMsg{err: sess.Ignite(cfg)}
	}
}

func (m studioModel) saveTranscriptCmd(view session.View) tea.Cmd {
	dir := m.settings.TranscriptsDir
	return func() tea.Msg {
		path, err := transcript.Save(dir, transcript.FromView(view, time.Now()))
		return studioSavedMsg{path: path, err: err}
	}
}

func (m studioModel) View() string {
	view := m.sess.View()
	var b strings.Builder

	b.WriteString(studioTitleStyle.Render("viralflow studio"))
	b.WriteString("  ")
	b.WriteString(studioMutedStyle.Render(m.settings.BaseURL))
	b.WriteString("\n\n")

	status := studioStatusStyle.Render(view.Status)
	if view.Status == session.StatusStreaming {
		status += " " + m.spin.View()
	}
	b.WriteString(status)
	b.WriteString("\n\n")

	b.WriteString("topic: " + m.topic.View())
	b.WriteString("\n")
	b.WriteString(studioMutedStyle.Render(fmt.Sprintf(
		"writer %s/%s  critic %s/%s  voice %s",
		m.writerSel.Provider(), orDash(m.writerSel.Model()),
		m.criticSel.Provider(), orDash(m.criticSel.Model()),
		orDash(m.catalog.DefaultVoice()),
	)))
	b.WriteString("\n\n")

	b.WriteString(studioPanelStyle.Render(m.renderLog(view)))
	b.WriteString("\n")

	if view.Metadata != nil {
		b.WriteString(studioPanelStyle.Render(m.renderMetadata(view)))
		b.WriteString("\n")
	}
	if view.VideoURL != "" {
		b.WriteString(studioOKStyle.Render("video: " + view.VideoURL))
		b.WriteString("\n")
	}
	if m.notice != "" {
		style := studioMutedStyle
		if strings.HasPrefix(m.notice, "catalog unavailable") || strings.HasPrefix(m.notice, "transcript not saved") {
			style = studioErrorStyle
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(studioMutedStyle.Render("enter ignite · esc abort/quit · ctrl+c quit"))
	return b.String()
}

func (m studioModel) renderLog(view session.View) string {
	if len(view.Logs) == 0 {
		return studioMutedStyle.Render("no log output yet")
	}
	start := 0
	if len(view.Logs) > studioLogTail {
		start = len(view.Logs) - studioLogTail
	}
	lines := make([]string, 0, studioLogTail)
	for _, entry := range view.Logs[start:] {
		lines = append(lines, entry.At.Format("15:04:05")+"  "+entry.Text)
	}
	return strings.Join(lines, "\n")
}

func (m studioModel) renderMetadata(view session.View) string {
	md := view.Metadata
	lines := make([]string, 0, len(md.TitleLines)+2)
	lines = append(lines, md.TitleLines...)
	lines = append(lines, studioMutedStyle.Render(md.Description))
	lines = append(lines, studioMutedStyle.Render("tags: "+md.Tags))
	return strings.Join(lines, "\n")
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
