package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eventboard/pkg/board"
	"github.com/matzehuels/eventboard/pkg/errors"
	"github.com/matzehuels/eventboard/pkg/event"
)

var (
	browseHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	browseErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// BrowseModel - Interactive event pager
// =============================================================================

// rsvpFunc toggles the user's attendance of an event and returns the
// refreshed list.
type rsvpFunc func(id string) (event.Events, bool, error)

// rsvpMsg reports the outcome of an RSVP toggle.
type rsvpMsg struct {
	events    event.Events
	title     string
	attending bool
	err       error
}

// BrowseModel is the bubbletea model for paging through the board.
type BrowseModel struct {
	Events event.Events
	User   string
	Size   int
	Page   board.Page
	Cursor int // index within the current page
	Status string
	Err    error

	rsvp rsvpFunc
}

// NewBrowseModel creates a pager showing size events per page.
func NewBrowseModel(es event.Events, user string, size int, rsvp rsvpFunc) BrowseModel {
	if size <= 0 {
		size = board.DefaultPageSize
	}
	return BrowseModel{
		Events: es,
		User:   user,
		Size:   size,
		Page:   board.Paginate(es, 0, size),
		rsvp:   rsvp,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			} else if m.Page.HasPrev() {
				m = m.turn(-1)
				m.Cursor = len(m.Page.Events) - 1
			}
		case "down", "j":
			if m.Cursor < len(m.Page.Events)-1 {
				m.Cursor++
			} else if m.Page.HasNext() {
				m = m.turn(1)
			}
		case "left", "h", "pgup":
			if m.Page.HasPrev() {
				m = m.turn(-1)
			}
		case "right", "l", "pgdown":
			if m.Page.HasNext() {
				m = m.turn(1)
			}
		case "enter", " ", "r":
			ev, ok := m.Selected()
			if !ok || m.rsvp == nil {
				return m, nil
			}
			return m, m.toggle(ev)
		}
	case rsvpMsg:
		m.Err = msg.err
		if msg.err != nil {
			m.Status = ""
			return m, nil
		}
		m.Events = msg.events
		m.Page = board.Paginate(m.Events, m.Page.Number, m.Size)
		m.Cursor = min(m.Cursor, max(len(m.Page.Events)-1, 0))
		if msg.attending {
			m.Status = "Attending " + msg.title
		} else {
			m.Status = "No longer attending " + msg.title
		}
	}
	return m, nil
}

// turn moves delta pages and puts the cursor on the first event.
func (m BrowseModel) turn(delta int) BrowseModel {
	m.Page = board.Paginate(m.Events, m.Page.Number+delta, m.Size)
	m.Cursor = 0
	m.Status = ""
	return m
}

func (m BrowseModel) toggle(ev event.Event) tea.Cmd {
	rsvp := m.rsvp
	return func() tea.Msg {
		es, attending, err := rsvp(ev.ID)
		return rsvpMsg{events: es, title: ev.Title, attending: attending, err: err}
	}
}

// Selected returns the event under the cursor.
func (m BrowseModel) Selected() (event.Event, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Page.Events) {
		return event.Event{}, false
	}
	return m.Page.Events[m.Cursor], true
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Events"))
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render("↑/↓ navigate  ←/→ page  ⏎ rsvp  q quit"))
	b.WriteString("\n\n")

	if len(m.Events) == 0 {
		b.WriteString(browseHelpStyle.Render("  No events yet"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(eventTable(m.Page.Events, m.User, m.Cursor))
	b.WriteString("\n")
	b.WriteString(browseHelpStyle.Render(fmt.Sprintf("  page %d of %d · %d events", m.Page.Number+1, m.Page.Pages, m.Page.Total)))
	b.WriteString("\n")

	if ev, ok := m.Selected(); ok {
		b.WriteString("\n")
		if ev.Link != "" {
			b.WriteString("  " + StyleLink.Render(ev.Link) + "\n")
		}
		b.WriteString("  " + StyleDim.Render(attendance(ev)) + "\n")
	}

	switch {
	case m.Err != nil:
		b.WriteString("\n" + browseErrorStyle.Render(iconError+" "+errors.UserMessage(m.Err)) + "\n")
	case m.Status != "":
		b.WriteString("\n" + browseStatusStyle.Render(iconSuccess+" "+m.Status) + "\n")
	}
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// browseCommand creates the interactive browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through events and RSVP interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 {
				size = c.cfg.Board.PageSize
			}
			return c.runBrowse(cmd.Context(), size)
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "events per page (default: config page_size)")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, size int) error {
	a, err := c.openApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	es, err := a.board.List(ctx)
	if err != nil {
		return err
	}

	var rsvp rsvpFunc
	if user, err := a.board.CurrentUser(ctx); err == nil {
		rsvp = func(id string) (event.Events, bool, error) {
			attending, err := a.board.ToggleRSVP(ctx, id, user)
			if err != nil {
				return nil, false, err
			}
			es, err := a.board.List(ctx)
			return es, attending, err
		}
	} else {
		printWarning("Browsing read-only: no user set")
	}

	p := tea.NewProgram(NewBrowseModel(es, c.cfg.User, size, rsvp))
	_, err = p.Run()
	return err
}
