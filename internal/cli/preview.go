package cli

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kenburns/pkg/animator"
	"github.com/matzehuels/kenburns/pkg/geom"
	"github.com/matzehuels/kenburns/pkg/pipeline"
	"github.com/matzehuels/kenburns/pkg/render"
	"github.com/matzehuels/kenburns/pkg/transition"
)

// frameInterval is the preview refresh rate (about 60 fps).
const frameInterval = 16 * time.Millisecond

// previewCommand creates the preview command, which plays transitions live.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags pipeline.Options
		sizes []string
	)

	cmd := &cobra.Command{
		Use:   "preview [image...]",
		Short: "Play transitions live in the terminal",
		Long: `Play transitions live in the terminal.

The image is drawn as a box; the moving rectangle is what the viewport shows
and the dashed rectangle is where the running transition ends.

Keys: space pauses and resumes, r restarts, n skips to the next image,
q quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseSizes(sizes)
			if err != nil {
				return err
			}
			if len(parsed) > 0 {
				flags.ImageSizes = parsed
			}
			opts, err := c.loadOptions(flags, args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context())
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := opts.ValidateForPlan(); err != nil {
				return err
			}
			imgSizes, err := runner.ImageSizes(opts)
			if err != nil {
				return err
			}
			m, err := newPreviewModel(opts, imgSizes)
			if err != nil {
				return err
			}
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringArrayVar(&sizes, "size", nil, "preview an image size WxH instead of files (repeatable)")
	bindPlanFlags(cmd.Flags(), &flags)

	registerCompletions(cmd)

	return cmd
}

// =============================================================================
// Model
// =============================================================================

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// previewModel drives an Animator from bubbletea ticks.
type previewModel struct {
	anim     *animator.Animator
	gen      transition.Generator
	viewport geom.Rect
	sizes    []pipeline.Size
	names    []string
	perImage int

	image    int
	frame    render.Frame
	started  int // transitions started since launch
	width    int
	height   int
	err      error
	quitting bool
}

func newPreviewModel(opts pipeline.Options, sizes []pipeline.Size) (*previewModel, error) {
	if err := opts.ValidateForPlan(); err != nil {
		return nil, err
	}
	gen, err := opts.Generator()
	if err != nil {
		return nil, err
	}
	mode, err := opts.FitMode()
	if err != nil {
		return nil, err
	}

	m := &previewModel{
		gen:      gen,
		viewport: opts.Viewport(),
		sizes:    sizes,
		perImage: opts.TransitionsPerImage,
		width:    80,
		height:   24,
	}
	for i := range sizes {
		name := fmt.Sprintf("image %d", i+1)
		if i < len(opts.Images) {
			name = filepath.Base(opts.Images[i])
		}
		m.names = append(m.names, name)
	}

	m.anim, err = animator.New(gen,
		animator.WithFitMode(mode),
		animator.WithListener(animator.ListenerFuncs{
			Start: func(*transition.Transition) { m.started++ },
		}))
	if err != nil {
		return nil, err
	}
	if err := m.showImage(0); err != nil {
		return nil, err
	}
	return m, nil
}

// showImage switches to image i with a fresh transition chain.
func (m *previewModel) showImage(i int) error {
	m.image = i % len(m.sizes)
	if r, ok := m.gen.(transition.Resetter); ok {
		r.Reset()
	}
	return m.anim.SetBounds(m.viewport, m.sizes[m.image].Rect())
}

func (m *previewModel) Init() tea.Cmd {
	return tick()
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case " ", "p":
			if m.anim.Paused() {
				m.anim.Resume()
			} else {
				m.anim.Pause()
			}
		case "r":
			m.err = m.anim.Restart()
		case "n":
			m.err = m.showImage(m.image + 1)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		frame, err := m.anim.Tick(time.Time(msg))
		if err != nil {
			m.err = err
			return m, tick()
		}
		m.frame = frame
		if len(m.sizes) > 1 && m.anim.Index() >= m.perImage {
			m.err = m.showImage(m.image + 1)
		}
		return m, tick()
	}
	return m, nil
}

func (m *previewModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Ken Burns preview"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s · %s · %s",
		m.names[m.image], m.sizes[m.image].Rect(), m.anim.Mode())))
	b.WriteString("\n\n")

	cols := max(10, m.width-2)
	rows := max(5, m.height-7)
	b.WriteString(drawCanvas(cols, rows, m.sizes[m.image].Rect(), m.frame.Rect, m.destination()))
	b.WriteString("\n\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space pause · r restart · n next image · q quit"))
	return b.String()
}

func (m *previewModel) destination() geom.Rect {
	if t := m.anim.Current(); t != nil {
		return t.Destination()
	}
	return geom.Rect{}
}

func (m *previewModel) status() string {
	var d time.Duration
	if t := m.anim.Current(); t != nil {
		d = t.Duration()
	}

	state := StyleSuccess.Render("playing")
	if m.anim.Paused() {
		state = StyleWarning.Render("paused")
	}
	line := fmt.Sprintf("%s  #%d  %s  %s / %s  %s",
		state,
		m.started,
		progressBar(m.frame.Progress, 20),
		m.frame.Elapsed.Round(100*time.Millisecond),
		d,
		StyleDim.Render(m.frame.Rect.String()))
	if m.err != nil {
		line += "\n" + styleIconError.Render(iconError) + " " + m.err.Error()
	}
	return line
}

// =============================================================================
// Canvas
// =============================================================================

const (
	cellEmpty = iota
	cellImage
	cellDestination
	cellCurrent
)

var canvasStyles = map[int]lipgloss.Style{
	cellEmpty:       lipgloss.NewStyle(),
	cellImage:       lipgloss.NewStyle().Foreground(colorDim),
	cellDestination: lipgloss.NewStyle().Foreground(colorYellow),
	cellCurrent:     lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
}

type canvas struct {
	cols, rows int
	runes      [][]rune
	kinds      [][]int
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows}
	c.runes = make([][]rune, rows)
	c.kinds = make([][]int, rows)
	for y := range rows {
		c.runes[y] = []rune(strings.Repeat(" ", cols))
		c.kinds[y] = make([]int, cols)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, kind int) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows || kind < c.kinds[y][x] {
		return
	}
	c.runes[y][x] = r
	c.kinds[y][x] = kind
}

// outline draws the border of the cell box [x0,x1]x[y0,y1]. Dashed outlines
// skip every other cell.
func (c *canvas) outline(x0, y0, x1, y1 int, kind int, dashed bool) {
	h, v := '─', '│'
	for x := x0; x <= x1; x++ {
		if dashed && (x-x0)%2 == 1 {
			continue
		}
		c.set(x, y0, h, kind)
		c.set(x, y1, h, kind)
	}
	for y := y0; y <= y1; y++ {
		if dashed && (y-y0)%2 == 1 {
			continue
		}
		c.set(x0, y, v, kind)
		c.set(x1, y, v, kind)
	}
	c.set(x0, y0, '┌', kind)
	c.set(x1, y0, '┐', kind)
	c.set(x0, y1, '└', kind)
	c.set(x1, y1, '┘', kind)
}

// String renders the canvas, styling runs of equal cells together.
func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.rows {
		start := 0
		for x := 1; x <= c.cols; x++ {
			if x < c.cols && c.kinds[y][x] == c.kinds[y][start] {
				continue
			}
			b.WriteString(canvasStyles[c.kinds[y][start]].Render(string(c.runes[y][start:x])))
			start = x
		}
		if y < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// cellMapper maps image coordinates to canvas cells. Terminal cells are
// about twice as tall as they are wide.
type cellMapper struct {
	image  geom.Rect
	sx, sy float64
}

func newCellMapper(cols, rows int, image geom.Rect) cellMapper {
	s := math.Min(float64(cols-1)/image.Width(), 2*float64(rows-1)/image.Height())
	return cellMapper{image: image, sx: s, sy: s / 2}
}

func (m cellMapper) box(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Round((r.Left - m.image.Left) * m.sx))
	y0 = int(math.Round((r.Top - m.image.Top) * m.sy))
	x1 = int(math.Round((r.Right - m.image.Left) * m.sx))
	y1 = int(math.Round((r.Bottom - m.image.Top) * m.sy))
	return x0, y0, max(x1, x0+1), max(y1, y0+1)
}

// drawCanvas draws the image bounds, the destination and the current rect.
func drawCanvas(cols, rows int, image, current, destination geom.Rect) string {
	c := newCanvas(cols, rows)
	if image.Empty() {
		return c.String()
	}
	m := newCellMapper(cols, rows, image)

	x0, y0, x1, y1 := m.box(image)
	c.outline(x0, y0, x1, y1, cellImage, false)
	if !destination.Empty() {
		x0, y0, x1, y1 = m.box(destination)
		c.outline(x0, y0, x1, y1, cellDestination, true)
	}
	if !current.Empty() {
		x0, y0, x1, y1 = m.box(current)
		c.outline(x0, y0, x1, y1, cellCurrent, false)
	}
	return c.String()
}

func progressBar(p float64, width int) string {
	filled := int(math.Round(math.Max(0, math.Min(1, p)) * float64(width)))
	return StyleHighlight.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", width-filled))
}
