// Package audit provides a terminal review of recent scraping runs and the
// organizations the matching engine has merged postings into.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hiredeck/ingest/internal/model"
	"github.com/hiredeck/ingest/internal/store"
)

// Lines per list item (title + subtitle + blank separator).
const itemHeight = 3

type viewMode int

const (
	viewRuns viewMode = iota
	viewOrgs
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("160"))
)

type auditModel struct {
	runs []model.RunLog
	orgs []model.Organization

	mode     viewMode
	cursor   int
	width    int
	height   int
	detail   viewport.Model
	ready    bool
	quitting bool
}

// Run loads recent runs and organizations from the store and starts the TUI.
func Run(ctx context.Context, st *store.Store) error {
	runs, err := st.ListRuns(ctx, 50)
	if err != nil {
		return fmt.Errorf("loading run logs: %w", err)
	}
	orgs, err := st.ListOrgs(ctx, 200)
	if err != nil {
		return fmt.Errorf("loading organizations: %w", err)
	}

	m := auditModel{runs: runs, orgs: orgs}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m auditModel) Init() tea.Cmd {
	return nil
}

func (m auditModel) listLen() int {
	if m.mode == viewRuns {
		return len(m.runs)
	}
	return len(m.orgs)
}

func (m auditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		detailWidth := m.width/2 - 4
		detailHeight := m.height - 6
		if !m.ready {
			m.detail = viewport.New(detailWidth, detailHeight)
			m.ready = true
		} else {
			m.detail.Width = detailWidth
			m.detail.Height = detailHeight
		}
		m.detail.SetContent(m.detailContent())

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.mode == viewRuns {
				m.mode = viewOrgs
			} else {
				m.mode = viewRuns
			}
			m.cursor = 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.listLen()-1 {
				m.cursor++
			}
		case "pgdown":
			m.detail.HalfViewDown()
		case "pgup":
			m.detail.HalfViewUp()
		}
		if m.ready {
			m.detail.SetContent(m.detailContent())
		}
	}

	return m, nil
}

func (m auditModel) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	paneWidth := m.width/2 - 2
	listHeight := m.height - 4

	left := activeBorderStyle.Width(paneWidth).Height(listHeight).Render(m.listView(listHeight))
	right := inactiveBorderStyle.Width(paneWidth).Height(listHeight).Render(m.detail.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	title := "Scraping Runs"
	if m.mode == viewOrgs {
		title = "Organizations"
	}
	header := headerStyle.Render(title)
	status := statusBarStyle.Width(m.width).Render("tab switch view  ↑/↓ navigate  pgup/pgdn scroll  q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, panes, status)
}

func (m auditModel) listView(height int) string {
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}

	var b strings.Builder
	for i := start; i < m.listLen() && i < start+visible; i++ {
		title, subtitle := m.itemLines(i)
		if i == m.cursor {
			b.WriteString(selectedTitleStyle.Render(title) + "\n")
			b.WriteString(selectedSubtitleStyle.Render(subtitle) + "\n\n")
		} else {
			b.WriteString(itemTitleStyle.Render(title) + "\n")
			b.WriteString(itemSubtitleStyle.Render(subtitle) + "\n\n")
		}
	}
	if m.listLen() == 0 {
		b.WriteString(itemSubtitleStyle.Render("nothing recorded yet"))
	}
	return b.String()
}

func (m auditModel) itemLines(i int) (string, string) {
	if m.mode == viewRuns {
		run := m.runs[i]
		mark := okStyle.Render("✓")
		if !run.Success {
			mark = failStyle.Render("✗")
		}
		title := fmt.Sprintf("%s %s", mark, run.StartedAt.Format("Jan 02 15:04"))
		subtitle := fmt.Sprintf("  added %d / scraped %d, %d errors",
			run.JobsAdded, run.JobsScraped, len(run.Errors))
		return title, subtitle
	}

	org := m.orgs[i]
	title := org.Name
	if org.WellKnown {
		title += " ★"
	}
	subtitle := fmt.Sprintf("  %s · updated %s", org.Industry, org.UpdatedAt.Format("Jan 02"))
	return title, subtitle
}

func (m auditModel) detailContent() string {
	if m.listLen() == 0 {
		return ""
	}
	if m.mode == viewRuns {
		return m.runDetail(m.runs[m.cursor])
	}
	return m.orgDetail(m.orgs[m.cursor])
}

func (m auditModel) runDetail(run model.RunLog) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(detailLabelStyle.Render(label) + value + "\n")
	}

	field("Run", run.RunID)
	field("Started", run.StartedAt.Format(time.RFC822))
	field("Duration", run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String())
	if run.Success {
		field("Status", okStyle.Render("success"))
	} else {
		field("Status", failStyle.Render("failed"))
	}
	field("Scraped", fmt.Sprintf("%d", run.JobsScraped))
	field("Added", fmt.Sprintf("%d", run.JobsAdded))

	b.WriteString("\n" + detailLabelStyle.Render("Per source") + "\n")
	for source, count := range run.SourceCounts {
		b.WriteString(fmt.Sprintf("  %-16s %d\n", source, count))
	}

	if len(run.Errors) > 0 {
		b.WriteString("\n" + failStyle.Render("Errors") + "\n")
		for _, e := range run.Errors {
			b.WriteString("  " + e + "\n")
		}
	}
	return b.String()
}

func (m auditModel) orgDetail(org model.Organization) string {
	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			value = itemSubtitleStyle.Render("—")
		}
		b.WriteString(detailLabelStyle.Render(label) + value + "\n")
	}

	field("Name", org.Name)
	field("Industry", org.Industry)
	field("Size", org.Size)
	field("Website", org.Website)
	field("LinkedIn", org.LinkedInURL)
	wellKnown := "no"
	if org.WellKnown {
		wellKnown = okStyle.Render("yes")
	}
	field("Well-known", wellKnown)
	field("Created", org.CreatedAt.Format(time.RFC822))
	field("Updated", org.UpdatedAt.Format(time.RFC822))

	if org.Description != "" {
		b.WriteString("\n" + org.Description + "\n")
	}
	return b.String()
}
