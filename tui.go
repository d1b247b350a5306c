package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"murmur/engine"
	"murmur/gpu"
)

const (
	// The UI polls the engine queue on a fixed schedule. Missing a
	// cycle only delays display; the queue retains unread events.
	pollInterval     = 50 * time.Millisecond
	maxEventsPerPoll = 50
	blinkInterval    = 600 * time.Millisecond

	maxHistory = 200
)

type pollMsg time.Time
type blinkMsg time.Time

type historyLine struct {
	text string
	at   time.Time
}

type tuiModel struct {
	eng *engine.Engine

	width, height int
	phase         engine.Phase
	clipMode      bool
	draft         string
	history       []historyLine
	status        string
	vram          gpu.Sample
	blinkOn       bool
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	liveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	draftStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true)
	finalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	stampStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpBold    = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)

	vramOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	vramWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	vramCritStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func NewTUIProgram(eng *engine.Engine) *tea.Program {
	m := tuiModel{
		eng:      eng,
		phase:    eng.Phase(),
		clipMode: eng.ClipboardMode(),
		blinkOn:  true,
	}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func pollTick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func blinkTick() tea.Cmd {
	return tea.Tick(blinkInterval, func(t time.Time) tea.Msg {
		return blinkMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(pollTick(), blinkTick())
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			go m.eng.Quit()
		}

	case blinkMsg:
		m.blinkOn = !m.blinkOn
		return m, blinkTick()

	case pollMsg:
		for _, ev := range m.eng.Events().Drain(maxEventsPerPoll) {
			m.apply(ev)
		}
		select {
		case <-m.eng.Done():
			return m, tea.Quit
		default:
		}
		return m, pollTick()
	}
	return m, nil
}

func (m *tuiModel) apply(ev engine.Event) {
	switch ev := ev.(type) {
	case engine.PhaseEvent:
		m.phase = ev.Phase
		if ev.Phase == engine.PhaseIdle {
			m.draft = ""
		}
	case engine.DraftEvent:
		m.draft = ev.Text
	case engine.FinalEvent:
		m.draft = ""
		m.history = append(m.history, historyLine{text: ev.Text, at: ev.At})
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	case engine.VRAMEvent:
		m.vram = ev.Sample
	case engine.StatusEvent:
		m.status = ev.Text
		switch {
		case strings.HasPrefix(ev.Text, "typing mode: clipboard"):
			m.clipMode = true
		case strings.HasPrefix(ev.Text, "typing mode: direct"):
			m.clipMode = false
		}
	case engine.ClearEvent:
		m.draft = ""
	}
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("murmur "+version) + "  " + m.phaseBadge() + "\n")

	mode := "typing"
	if m.clipMode {
		mode = "clipboard"
	}
	b.WriteString(idleStyle.Render("delivery: "+mode) + "\n\n")

	wrapWidth := m.width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	// History fills the space between the header and the fixed
	// bottom region (draft, status, help, VRAM).
	historyRows := m.height - 10
	if historyRows < 3 {
		historyRows = 3
	}
	b.WriteString(m.renderHistory(historyRows, wrapWidth))

	b.WriteString("\n" + m.renderDraft(wrapWidth) + "\n\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(helpBold.Render("ctrl+alt+d") + helpStyle.Render(" dictate  ") +
		helpBold.Render("ctrl+alt+c") + helpStyle.Render(" clipboard  ") +
		helpBold.Render("ctrl+alt+q") + helpStyle.Render(" quit") + "\n")

	b.WriteString(m.renderVRAM())

	return b.String()
}

func (m tuiModel) phaseBadge() string {
	switch m.phase {
	case engine.PhaseListening:
		return liveStyle.Render("● listening")
	case engine.PhaseDrafting:
		return liveStyle.Render("● drafting")
	case engine.PhaseFinalizing:
		return liveStyle.Render("● finalizing")
	default:
		return idleStyle.Render("○ idle")
	}
}

func (m tuiModel) renderHistory(rows, wrapWidth int) string {
	var lines []string
	for _, h := range m.history {
		stamp := stampStyle.Render(h.at.Format("15:04:05"))
		for i, part := range wrapText(h.text, wrapWidth-9) {
			if i == 0 {
				lines = append(lines, stamp+" "+finalStyle.Render(part))
			} else {
				lines = append(lines, strings.Repeat(" ", 9)+finalStyle.Render(part))
			}
		}
	}
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m tuiModel) renderDraft(wrapWidth int) string {
	if m.phase == engine.PhaseIdle {
		return idleStyle.Render("dictation off")
	}
	cursor := " "
	if m.blinkOn {
		cursor = "▌"
	}
	if m.draft == "" {
		return draftStyle.Render("…") + cursor
	}
	parts := wrapText(m.draft, wrapWidth)
	return draftStyle.Render(strings.Join(parts, "\n")) + cursor
}

func (m tuiModel) renderVRAM() string {
	if !m.vram.Available {
		return idleStyle.Render("vram: n/a")
	}
	usedPct := 100.0 - m.vram.PctFree()
	style := vramOKStyle
	switch {
	case usedPct >= 90:
		style = vramCritStyle
	case usedPct >= 70:
		style = vramWarnStyle
	}
	text := fmt.Sprintf("vram: %s %.1f/%.1f GiB (%.0f%%)",
		m.vram.Name,
		float64(m.vram.UsedBytes)/(1<<30),
		float64(m.vram.TotalBytes)/(1<<30),
		usedPct)
	return style.Render(text)
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
