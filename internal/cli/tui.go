package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/schedgrid/pkg/booking"
	"github.com/matzehuels/schedgrid/pkg/grid"
	"github.com/matzehuels/schedgrid/pkg/interaction"
	"github.com/matzehuels/schedgrid/pkg/rows"
	"github.com/matzehuels/schedgrid/pkg/timeaxis"
)

// Grid styles
var (
	gridLabelStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	gridHeaderStyle = StyleTitle
	gridTrackStyle  = lipgloss.NewStyle().Foreground(colorDim)
	gridGhostStyle  = lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(colorYellow)
	gridStatusStyle = lipgloss.NewStyle().Foreground(colorGray)

	laneColors = []lipgloss.Color{"67", "137", "71", "132", "97", "136", "73", "103"}
)

const (
	// labelWidth is the number of columns reserved for row labels.
	labelWidth = 14

	// chromeLines are the axis line and the two status lines.
	chromeLines = 3
)

// frameMsg flushes coalesced pointer moves, once per frame.
type frameMsg struct{}

func nextFrame() tea.Cmd {
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg { return frameMsg{} })
}

// lineSpan places a layout item on terminal lines: a header takes one line,
// a resource row one line per lane.
type lineSpan struct {
	item  rows.Item
	first int
	lines int
}

// =============================================================================
// gridModel - Interactive booking grid
// =============================================================================

// gridModel is the bubbletea model of the interactive grid. Terminal cells
// are mapped to layout pixels so the engine sees the same coordinates a
// graphical host would produce.
type gridModel struct {
	engine *grid.Engine
	axis   timeaxis.Axis

	width, height int
	step          int // minutes per column
	top           int // first body line shown

	spans []lineSpan
	total int

	commits int
	status  string
}

func newGridModel(engine *grid.Engine) *gridModel {
	m := &gridModel{
		engine: engine,
		axis:   engine.Axis(),
		width:  100,
		height: 24,
	}
	m.step = m.chooseStep()
	m.relayout()
	return m
}

func (m *gridModel) Init() tea.Cmd { return nil }

func (m *gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.step = m.chooseStep()
		m.scrollBy(0)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Cancel()
			return m, tea.Quit
		case "esc":
			if ev, ok := m.engine.Cancel(); ok {
				m.status = describeEvent(ev)
			}
		case "up", "k":
			m.scrollBy(-1)
		case "down", "j":
			m.scrollBy(1)
		case "pgup":
			m.scrollBy(-m.bodyHeight())
		case "pgdown":
			m.scrollBy(m.bodyHeight())
		case "left", "h":
			m.shiftDay(-1)
		case "right", "l":
			m.shiftDay(1)
		}

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case frameMsg:
		m.engine.Flush()
	}
	return m, nil
}

func (m *gridModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-1)

	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(1)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		id, edge, group := m.hit(msg.X, msg.Y)
		switch {
		case group != "":
			collapsed, err := m.engine.ToggleGroup(group)
			if err != nil {
				m.status = err.Error()
				break
			}
			m.status = fmt.Sprintf("%s %s", group, map[bool]string{true: "collapsed", false: "expanded"}[collapsed])
			m.relayout()
			m.scrollBy(0)
		case id != "":
			if _, err := m.engine.PointerDown(id, edge, m.toPoint(msg.X, msg.Y)); err != nil {
				m.status = err.Error()
			}
		}

	case msg.Action == tea.MouseActionMotion:
		if m.engine.Phase() == interaction.PhaseIdle {
			return nil
		}
		if m.engine.QueueMove(m.toPoint(msg.X, msg.Y)) {
			return nextFrame()
		}

	case msg.Action == tea.MouseActionRelease:
		ev, ok, err := m.engine.PointerUp(m.toPoint(msg.X, msg.Y))
		if !ok {
			return nil
		}
		m.status = describeEvent(ev)
		if err != nil {
			m.status = err.Error()
		} else if ev.IsCommit() && ev.Changed() {
			m.commits++
		}
		m.relayout()
	}
	return nil
}

// =============================================================================
// Geometry
// =============================================================================

// chooseStep picks the finest column resolution that fits the day.
func (m *gridModel) chooseStep() int {
	span := m.axis.DayEnd() - m.axis.DayStart()
	avail := max(m.width-labelWidth-1, 1)
	for _, s := range []int{5, 10, 15, 20, 30, 60} {
		if span/s <= avail {
			return s
		}
	}
	return 60
}

func (m *gridModel) columns() int {
	return (m.axis.DayEnd() - m.axis.DayStart()) / m.step
}

func (m *gridModel) bodyHeight() int {
	return max(m.height-chromeLines, 1)
}

// relayout maps the current row layout to terminal lines.
func (m *gridModel) relayout() {
	layout := m.engine.Rows()
	m.spans = m.spans[:0]
	line := 0
	for _, it := range layout.Items {
		n := 1
		if it.Kind == rows.KindResource {
			n = max(it.Lanes, 1)
		}
		m.spans = append(m.spans, lineSpan{item: it, first: line, lines: n})
		line += n
	}
	m.total = line
}

func (m *gridModel) spanAt(line int) (lineSpan, bool) {
	for _, s := range m.spans {
		if line >= s.first && line < s.first+s.lines {
			return s, true
		}
	}
	return lineSpan{}, false
}

// pxAt returns the layout offset of the top of a body line.
func (m *gridModel) pxAt(line int) float64 {
	if line <= 0 {
		return 0
	}
	s, ok := m.spanAt(line)
	if !ok {
		return m.engine.Rows().TotalHeight
	}
	return s.item.Offset + float64(line-s.first)*s.item.Height/float64(s.lines)
}

// toPoint converts a terminal cell to layout pixels. Columns map to the
// left edge of their time slot, lines to the middle of their lane.
func (m *gridModel) toPoint(x, y int) interaction.Point {
	minutes := m.axis.DayStart() + (x-labelWidth)*m.step
	p := interaction.Point{X: m.axis.MinutesToPosition(minutes)}

	line := m.top + y - 1
	s, ok := m.spanAt(line)
	switch {
	case ok:
		lineH := s.item.Height / float64(s.lines)
		p.Y = s.item.Offset + (float64(line-s.first)+0.5)*lineH
	case line < 0:
		p.Y = -1
	default:
		p.Y = m.engine.Rows().TotalHeight + 1
	}
	return p
}

func (m *gridModel) column(minutes int) int {
	return (m.axis.Clamp(minutes) - m.axis.DayStart()) / m.step
}

func (m *gridModel) date() string {
	_, anchor := m.engine.View()
	return booking.DateKey(anchor)
}

// hit finds what lies under a terminal cell: a booking (with the grabbed
// edge) or a group header.
func (m *gridModel) hit(x, y int) (bookingID string, edge interaction.Edge, groupID string) {
	s, ok := m.spanAt(m.top + y - 1)
	if !ok {
		return "", interaction.EdgeNone, ""
	}
	if s.item.Kind == rows.KindHeader {
		return "", interaction.EdgeNone, s.item.GroupID
	}

	col := x - labelWidth
	lane := m.top + y - 1 - s.first
	date := m.date()
	for _, b := range m.engine.Cell(date, s.item.ResourceID) {
		if m.engine.Lane(date, s.item.ResourceID, b.ID) != lane {
			continue
		}
		first, end := m.column(b.Start), max(m.column(b.End), m.column(b.Start)+1)
		if col < first || col >= end {
			continue
		}
		switch {
		case end-first < 3:
			edge = interaction.EdgeNone
		case col == first:
			edge = interaction.EdgeStart
		case col == end-1:
			edge = interaction.EdgeEnd
		}
		return b.ID, edge, ""
	}
	return "", interaction.EdgeNone, ""
}

func (m *gridModel) scrollBy(lines int) {
	m.top = min(max(m.top+lines, 0), max(m.total-m.bodyHeight(), 0))
}

func (m *gridModel) shiftDay(days int) {
	if ev, ok := m.engine.Cancel(); ok {
		m.status = describeEvent(ev)
	}
	view, anchor := m.engine.View()
	m.engine.SetView(view, anchor.AddDate(0, 0, days))
	m.relayout()
	m.scrollBy(0)
}

// =============================================================================
// Rendering
// =============================================================================

func (m *gridModel) View() string {
	var b strings.Builder
	b.WriteString(m.axisLine())
	b.WriteString("\n")

	body := m.bodyHeight()
	from, to := m.top, m.top+body
	lines := make([]string, body)

	visible := m.engine.Visible(m.pxAt(from), m.pxAt(to)-m.pxAt(from))
	for _, v := range visible {
		if v.Index >= len(m.spans) {
			continue
		}
		s := m.spans[v.Index]
		for l := s.first; l < s.first+s.lines; l++ {
			if l >= from && l < to {
				lines[l-from] = m.renderLine(s, l-s.first)
			}
		}
	}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}

	b.WriteString(gridStatusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag to move · drag edges to resize · click group to fold · ←/→ day · esc cancel · q quit"))
	return b.String()
}

func (m *gridModel) axisLine() string {
	track := []rune(strings.Repeat(" ", m.columns()))
	for c := range track {
		minutes := m.axis.DayStart() + c*m.step
		if minutes%60 == 0 && c+2 <= len(track) {
			copy(track[c:], []rune(fmt.Sprintf("%02d", minutes/60)))
		}
	}
	label := fmt.Sprintf("%-*s", labelWidth, m.date())
	return gridHeaderStyle.Render(label) + StyleDim.Render(string(track))
}

func (m *gridModel) renderLine(s lineSpan, lane int) string {
	if s.item.Kind == rows.KindHeader {
		arrow := "▾"
		if m.collapsed(s.item.GroupID) {
			arrow = "▸"
		}
		title := truncate(arrow+" "+s.item.Label, labelWidth+m.columns())
		return gridHeaderStyle.Render(title)
	}

	label := ""
	if lane == 0 {
		label = s.item.Label
	}
	label = fmt.Sprintf("%-*s", labelWidth, truncate(label, labelWidth-1))
	return gridLabelStyle.Render(label) + m.renderTrack(s.item.ResourceID, lane)
}

// segment is a run of columns drawn with one style.
type segment struct {
	first, end int
	text       string
	style      lipgloss.Style
}

func (m *gridModel) renderTrack(resourceID string, lane int) string {
	cols := m.columns()
	date := m.date()

	var segs []segment
	sess, active := m.engine.Session()
	for _, b := range m.engine.Cell(date, resourceID) {
		l := m.engine.Lane(date, resourceID, b.ID)
		if l != lane {
			continue
		}
		style := lipgloss.NewStyle().Background(laneColors[l%len(laneColors)]).Foreground(lipgloss.Color("232"))
		if active && sess.Original.ID == b.ID && sess.Phase != interaction.PhasePending {
			style = style.Faint(true)
		}
		segs = append(segs, segment{m.column(b.Start), max(m.column(b.End), m.column(b.Start)+1), b.Title, style})
	}
	if g, ok := m.engine.Ghost(); ok && g.ResourceID == resourceID && lane == m.ghostLane(g) {
		segs = append(segs, segment{m.column(g.Start), max(m.column(g.End), m.column(g.Start)+1),
			timeaxis.FormatMinutes(g.Start) + "-" + timeaxis.FormatMinutes(g.End), gridGhostStyle})
	}

	owner := make([]int, cols)
	for i := range owner {
		owner[i] = -1
	}
	for i, sg := range segs {
		for c := max(sg.first, 0); c < min(sg.end, cols); c++ {
			owner[c] = i
		}
	}

	var b strings.Builder
	for c := 0; c < cols; {
		o := owner[c]
		end := c
		for end < cols && owner[end] == o {
			end++
		}
		if o < 0 {
			b.WriteString(gridTrackStyle.Render(m.emptyTrack(c, end)))
		} else {
			sg := segs[o]
			text := []rune(sg.text + strings.Repeat(" ", max(sg.end-sg.first, 0)))
			b.WriteString(sg.style.Render(string(text[c-sg.first : end-sg.first])))
		}
		c = end
	}
	return b.String()
}

// ghostLane is the line a ghost is drawn on: the booking's own lane on its
// resource, otherwise the first.
func (m *gridModel) ghostLane(g interaction.Ghost) int {
	return m.engine.Lane(m.date(), g.ResourceID, g.BookingID)
}

func (m *gridModel) emptyTrack(from, to int) string {
	out := make([]rune, to-from)
	for i := range out {
		if (m.axis.DayStart()+(from+i)*m.step)%60 == 0 {
			out[i] = '┊'
		} else {
			out[i] = ' '
		}
	}
	return string(out)
}

func (m *gridModel) collapsed(groupID string) bool {
	for _, g := range m.engine.Dataset().Groups {
		if g.ID == groupID {
			return g.Collapsed
		}
	}
	return false
}

func (m *gridModel) statusLine() string {
	if g, ok := m.engine.Ghost(); ok {
		return fmt.Sprintf("%s %s → %s-%s on %s", g.Phase, g.BookingID,
			timeaxis.FormatMinutes(g.Start), timeaxis.FormatMinutes(g.End), g.ResourceID)
	}
	if m.status != "" {
		return m.status
	}
	return fmt.Sprintf("%d bookings · %d changed", len(m.engine.Dataset().Bookings), m.commits)
}

func describeEvent(ev interaction.Event) string {
	switch ev.Kind {
	case interaction.EventSelection:
		return "selected " + ev.BookingID
	case interaction.EventCancelled:
		return "cancelled " + ev.BookingID
	}
	if !ev.Changed() {
		return ev.BookingID + " unchanged"
	}
	return fmt.Sprintf("%s %s-%s on %s", ev.BookingID,
		timeaxis.FormatMinutes(ev.Start), timeaxis.FormatMinutes(ev.End), ev.ResourceID)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
