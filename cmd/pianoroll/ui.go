package main

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/solardaw/pianoroll"
	"github.com/solardaw/pianoroll/editor"
)

// The terminal canvas maps one column to a sixteenth note and one row to a
// semitone. Editor coordinates are pixels, so the translation scales a
// column to PixelsPerBeat/cellsPerBeat and a row to PixelsPerNote.
const (
	cellsPerBeat = 4
	gutterWidth  = 4 // pitch labels
	velocityRows = 4
	chromeRows   = 3 // header + ruler + status
)

type (
	ui struct {
		editor *editor.Model
		broker *editor.Broker
		log    *slog.Logger

		width, height int
		topPitch      int
		region        mouseRegion
	}

	mouseRegion int

	tickMsg time.Time

	hostMsg editor.MsgToHost
)

const (
	regionNone mouseRegion = iota
	regionRuler
	regionCanvas
	regionVelocity
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("57"))
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	gutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	selNoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	rubberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	velStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	alertStyles   = map[editor.AlertPriority]lipgloss.Style{
		editor.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		editor.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		editor.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

func newUI(m *editor.Model, broker *editor.Broker, log *slog.Logger) ui {
	return ui{editor: m, broker: broker, log: log, topPitch: 76}
}

func (u ui) Init() tea.Cmd {
	return tea.Batch(u.listenToModel(), u.listenToHost(), tick())
}

func (u ui) listenToModel() tea.Cmd {
	return func() tea.Msg { return <-u.broker.ToModel }
}

func (u ui) listenToHost() tea.Cmd {
	return func() tea.Msg { return hostMsg(<-u.broker.ToHost) }
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (u ui) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		u.width, u.height = msg.Width, msg.Height
	case tickMsg:
		u.editor.Alerts().Update(time.Second)
		return u, tick()
	case editor.MsgToModel:
		u.editor.ProcessMsg(msg)
		return u, u.listenToModel()
	case hostMsg:
		if changed, ok := msg.Data.(editor.ClipChangedMsg); ok {
			u.log.Debug("clip changed", "notes", len(changed.Clip.Notes))
		}
		return u, u.listenToHost()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+q":
			u.editor.Close()
			return u, tea.Quit
		case "ctrl+s":
			u.dumpClip()
			return u, nil
		}
		if ev, ok := keyEventFor(msg); ok {
			u.editor.KeyEvent(ev)
		}
	case tea.MouseMsg:
		return u.updateMouse(msg), nil
	}
	return u, nil
}

func (u ui) updateMouse(msg tea.MouseMsg) ui {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			u.editor.ZoomIn().Do()
		} else {
			u.scroll(3)
		}
		return u
	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			u.editor.ZoomOut().Do()
		} else {
			u.scroll(-3)
		}
		return u
	}

	mods := editor.Modifiers{
		Shift:     msg.Shift,
		Alt:       msg.Alt,
		Secondary: msg.Button == tea.MouseButtonRight,
	}
	switch msg.Action {
	case tea.MouseActionPress:
		switch {
		case msg.Y == 1:
			u.region = regionRuler
			u.editor.RulerPointerDown(u.rulerPoint(msg.X, msg.Y))
		case u.inCanvas(msg.Y):
			u.region = regionCanvas
			u.editor.PointerDown(u.canvasPoint(msg.X, msg.Y), mods)
		case u.inVelocityLane(msg.Y):
			u.region = regionVelocity
			grid := u.editor.Grid()
			laneHeight := float64(velocityRows) * grid.PixelsPerNote
			u.editor.VelocityPointerDown(u.velocityPoint(msg.X, msg.Y), laneHeight)
		}
	case tea.MouseActionMotion:
		switch u.region {
		case regionRuler:
			u.editor.RulerPointerMove(u.rulerPoint(msg.X, msg.Y))
		case regionCanvas:
			u.editor.PointerMove(u.canvasPoint(msg.X, msg.Y), mods)
		case regionVelocity:
			u.editor.VelocityPointerMove(u.velocityPoint(msg.X, msg.Y))
		}
	case tea.MouseActionRelease:
		switch u.region {
		case regionRuler:
			u.editor.RulerPointerUp(u.rulerPoint(msg.X, msg.Y))
		case regionCanvas:
			u.editor.PointerUp(u.canvasPoint(msg.X, msg.Y), mods)
		case regionVelocity:
			u.editor.VelocityPointerUp(u.velocityPoint(msg.X, msg.Y))
		}
		u.region = regionNone
	}
	return u
}

// scroll moves the visible pitch window, keeping the editor's grid origin in
// sync so pointer coordinates stay correct.
func (u *ui) scroll(delta int) {
	u.topPitch = pianoroll.ClampPitch(u.topPitch + delta)
	if u.topPitch < u.canvasRows() {
		u.topPitch = u.canvasRows()
	}
	grid := u.editor.Grid()
	grid.HighestPitch = u.topPitch
	u.editor.SetGrid(grid)
}

func (u ui) canvasRows() int {
	rows := u.height - chromeRows - velocityRows
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (u ui) inCanvas(y int) bool { return y >= 2 && y < 2+u.canvasRows() }

func (u ui) inVelocityLane(y int) bool {
	return y >= 2+u.canvasRows() && y < 2+u.canvasRows()+velocityRows
}

func (u ui) canvasPoint(x, y int) editor.Point {
	grid := u.editor.Grid()
	col := float64(x - gutterWidth)
	if col < 0 {
		col = 0
	}
	return editor.Point{
		X: (col + 0.5) / cellsPerBeat * grid.PixelsPerBeat,
		Y: (float64(y-2) + 0.5) * grid.PixelsPerNote,
	}
}

// rulerPoint keeps the canvas x mapping but a raw vertical pixel, since a
// ruler drag only uses vertical travel.
func (u ui) rulerPoint(x, y int) editor.Point {
	grid := u.editor.Grid()
	p := u.canvasPoint(x, y)
	p.Y = float64(y) * grid.PixelsPerNote
	return p
}

func (u ui) velocityPoint(x, y int) editor.Point {
	grid := u.editor.Grid()
	col := float64(x - gutterWidth)
	if col < 0 {
		col = 0
	}
	return editor.Point{
		X: (col + 0.5) / cellsPerBeat * grid.PixelsPerBeat,
		Y: (float64(y-2-u.canvasRows()) + 0.5) * grid.PixelsPerNote,
	}
}

// dumpClip writes the clip as YAML next to the working directory, for
// inspection and interchange.
func (u ui) dumpClip() {
	clip := u.editor.Clip()
	data, err := editor.DumpClip(clip)
	if err == nil {
		err = os.WriteFile("clip.yaml", data, 0o644)
	}
	if err != nil {
		u.log.Error("clip dump failed", "error", err)
		u.editor.Alerts().AddNamed("Dump", "could not write clip.yaml", editor.Error)
		return
	}
	u.editor.Alerts().AddNamed("Dump", "clip written to clip.yaml", editor.Info)
}

// keyEventFor translates a terminal key press into the editor's key event.
func keyEventFor(msg tea.KeyMsg) (editor.KeyEvent, bool) {
	s := msg.String()
	if name, ok := strings.CutPrefix(s, "ctrl+"); ok {
		mod := editor.ModKeys{Command: true}
		if rest, ok := strings.CutPrefix(name, "shift+"); ok {
			mod.Shift = true
			name = rest
		}
		if len(name) == 1 {
			return editor.KeyEvent{Name: strings.ToUpper(name), Mod: mod}, true
		}
		return editor.KeyEvent{}, false
	}
	var mod editor.ModKeys
	if name, ok := strings.CutPrefix(s, "shift+"); ok {
		mod.Shift = true
		s = name
	}
	switch s {
	case "left":
		return editor.KeyEvent{Name: "Left", Mod: mod}, true
	case "right":
		return editor.KeyEvent{Name: "Right", Mod: mod}, true
	case "up":
		return editor.KeyEvent{Name: "Up", Mod: mod}, true
	case "down":
		return editor.KeyEvent{Name: "Down", Mod: mod}, true
	case "delete":
		return editor.KeyEvent{Name: "Delete", Mod: mod}, true
	case "backspace":
		return editor.KeyEvent{Name: "Backspace", Mod: mod}, true
	case "esc":
		return editor.KeyEvent{Name: "Escape", Mod: mod}, true
	}
	if len(s) == 1 {
		if s >= "A" && s <= "Z" {
			return editor.KeyEvent{Name: s, Mod: editor.ModKeys{Shift: true}}, true
		}
		return editor.KeyEvent{Name: strings.ToUpper(s), Mod: mod}, true
	}
	return editor.KeyEvent{}, false
}

func (u ui) View() string {
	if u.width == 0 {
		return "" // no size yet
	}
	var b strings.Builder
	b.WriteString(u.headerView())
	b.WriteByte('\n')
	b.WriteString(u.rulerView())
	b.WriteByte('\n')
	u.canvasView(&b)
	u.velocityView(&b)
	b.WriteString(u.statusView())
	return b.String()
}

func (u ui) headerView() string {
	clip := u.editor.Clip()
	track := u.editor.Track()
	grid := u.editor.Grid()
	snap := "off"
	if grid.Snap {
		snap = "on"
	}
	left := fmt.Sprintf(" %s · %s ", clip.Name, track.Name)
	right := fmt.Sprintf(" tool:%s grid:%s snap:%s zoom:%.0fpx/beat ",
		editor.Tool(u.editor.Tool().Value()), grid.Division, snap, grid.PixelsPerBeat)
	pad := u.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 0 {
		pad = 0
	}
	return headerStyle.Render(left + strings.Repeat(" ", pad) + right)
}

func (u ui) rulerView() string {
	cols := u.cols()
	row := make([]byte, cols)
	for i := range row {
		row[i] = ' '
	}
	for col := 0; col < cols; col += cellsPerBeat {
		beat := col / cellsPerBeat
		if beat%pianoroll.BeatsPerBar == 0 {
			label := fmt.Sprintf("%d", beat/pianoroll.BeatsPerBar+1)
			copy(row[col:], label)
		} else {
			row[col] = '.'
		}
	}
	return rulerStyle.Render(strings.Repeat(" ", gutterWidth) + string(row))
}

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func pitchName(pitch int) string {
	return fmt.Sprintf("%s%d", pitchNames[pitch%12], pitch/12-1)
}

func (u ui) cols() int {
	cols := u.width - gutterWidth
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (u ui) canvasView(b *strings.Builder) {
	clip := u.editor.Clip()
	grid := u.editor.Grid()
	rubber, hasRubber := u.editor.SelectionRect()
	cols := u.cols()
	cellBeats := 1.0 / cellsPerBeat
	limit := pianoroll.RequiredBeats(clip)

	for r := 0; r < u.canvasRows(); r++ {
		pitch := u.topPitch - r
		label := "    "
		if pitch%12 == 0 { // label the Cs
			label = fmt.Sprintf("%-4s", pitchName(pitch))
		}
		b.WriteString(gutterStyle.Render(label))
		for col := 0; col < cols; col++ {
			beat := float64(col) * cellBeats
			if note, ok := noteAtCell(clip, pitch, beat, cellBeats); ok {
				style := noteStyle
				if note.Selected {
					style = selNoteStyle
				}
				if beat < note.Start+cellBeats {
					b.WriteString(style.Render("▐"))
				} else {
					b.WriteString(style.Render("█"))
				}
				continue
			}
			if hasRubber {
				px := editor.Point{
					X: (float64(col) + 0.5) / cellsPerBeat * grid.PixelsPerBeat,
					Y: (float64(r) + 0.5) * grid.PixelsPerNote,
				}
				if rubber.Contains(px) {
					b.WriteString(rubberStyle.Render("░"))
					continue
				}
			}
			b.WriteString(gridCell(beat, clip.LoopLength, limit))
		}
		b.WriteByte('\n')
	}
}

func noteAtCell(clip pianoroll.Clip, pitch int, beat, cellBeats float64) (pianoroll.Note, bool) {
	for i := len(clip.Notes) - 1; i >= 0; i-- {
		n := clip.Notes[i]
		if n.Pitch == pitch && beat+cellBeats > n.Start && beat < n.End() {
			return n, true
		}
	}
	return pianoroll.Note{}, false
}

// gridCell draws the background: bar and beat marks inside the loop, bar
// marks only in the headroom past it, nothing past the editable range.
func gridCell(beat, loopLength, limit float64) string {
	switch {
	case beat >= limit:
		return " "
	case math.Mod(beat, pianoroll.BeatsPerBar) == 0:
		return rulerStyle.Render("│")
	case beat >= loopLength:
		return " "
	case math.Mod(beat, 1) == 0:
		return rulerStyle.Render("·")
	default:
		return " "
	}
}

func (u ui) velocityView(b *strings.Builder) {
	clip := u.editor.Clip()
	cols := u.cols()
	cellBeats := 1.0 / cellsPerBeat

	// bar height per column, from the latest note starting in that cell
	heights := make([]int, cols)
	selected := make([]bool, cols)
	for col := 0; col < cols; col++ {
		beat := float64(col) * cellBeats
		for i := len(clip.Notes) - 1; i >= 0; i-- {
			n := clip.Notes[i]
			if n.Start >= beat && n.Start < beat+cellBeats {
				heights[col] = 1 + n.Velocity*(velocityRows-1)/pianoroll.MaxVelocity
				selected[col] = n.Selected
				break
			}
		}
	}
	for r := 0; r < velocityRows; r++ {
		b.WriteString(strings.Repeat(" ", gutterWidth))
		for col := 0; col < cols; col++ {
			if heights[col] >= velocityRows-r {
				style := velStyle
				if selected[col] {
					style = selNoteStyle
				}
				b.WriteString(style.Render("▌"))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
}

func (u ui) statusView() string {
	var parts []string
	u.editor.Alerts().Iterate(func(a editor.Alert) bool {
		parts = append(parts, alertStyles[a.Priority].Render(a.Message))
		return true
	})
	if len(parts) == 0 {
		undo := u.editor.Session().History.UndoDescription()
		hint := "drag:edit  shift:select  alt:free/slice  ctrl+q:quit"
		if undo != "" {
			hint = "undo: " + strings.ToLower(undo) + "  ·  " + hint
		}
		parts = append(parts, rulerStyle.Render(hint))
	}
	return " " + strings.Join(parts, "  ")
}
