package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/solarviz/orbits/internal/timegrid"
	"github.com/solarviz/orbits/pkg/core"
)

const (
	StandaloneTitle  = "Animated Planetary Orbits in the Solar System"
	InteractiveTitle = "Planetary Orbits in the Solar System"

	sunName = "Sun"
)

// Options tunes the generated figure.
type Options struct {
	// AttachDetail adds per-point customdata and click selection for the served page.
	AttachDetail bool
	// Title overrides the variant's default title when set.
	Title         string
	FrameDuration time.Duration
	LineWidth     float64
	MarkerSize    float64
	SunSize       float64
}

func DefaultOptions() Options {
	return Options{
		FrameDuration: 100 * time.Millisecond,
		LineWidth:     2,
		MarkerSize:    4,
		SunSize:       10,
	}
}

func (o Options) title() string {
	if o.Title != "" {
		return o.Title
	}
	if o.AttachDetail {
		return InteractiveTitle
	}
	return StandaloneTitle
}

// Build turns a run into an animated figure. Data holds one path trace per
// planet, then the Sun, then one moving marker per planet; every frame
// replaces the moving markers.
func Build(run *core.Run, opts Options) (*Figure, error) {
	if run == nil {
		return nil, errors.New("nil run")
	}
	if err := run.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}
	def := DefaultOptions()
	if opts.FrameDuration <= 0 {
		opts.FrameDuration = def.FrameDuration
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = def.LineWidth
	}
	if opts.MarkerSize <= 0 {
		opts.MarkerSize = def.MarkerSize
	}
	if opts.SunSize <= 0 {
		opts.SunSize = def.SunSize
	}

	planets := run.Planets()
	fig := &Figure{
		Data:   make([]Trace, 0, 2*len(planets)+1),
		Frames: make([]Frame, 0, len(run.Times)),
	}

	for _, p := range planets {
		fig.Data = append(fig.Data, pathTrace(p, run.Positions[p], run.Distances[p], opts))
	}
	fig.Data = append(fig.Data, Trace{
		Type:   "scatter3d",
		Mode:   "markers",
		Name:   sunName,
		X:      []float64{0},
		Y:      []float64{0},
		Z:      []float64{0},
		Marker: &Marker{Size: opts.SunSize, Color: "yellow"},
	})

	markerIdx := make([]int, len(planets))
	for i, p := range planets {
		markerIdx[i] = len(fig.Data)
		fig.Data = append(fig.Data, markerTrace(p, run.Positions[p][0], opts))
	}

	for step := range run.Times {
		frame := Frame{
			Name:   frameName(step),
			Data:   make([]Trace, 0, len(planets)),
			Traces: markerIdx,
		}
		for _, p := range planets {
			frame.Data = append(frame.Data, markerTrace(p, run.Positions[p][step], opts))
		}
		fig.Frames = append(fig.Frames, frame)
	}

	fig.Layout = buildLayout(run.Times, opts)
	return fig, nil
}

func frameName(step int) string {
	return fmt.Sprintf("Frame%d", step)
}

func pathTrace(p core.Planet, positions []core.Position3D, distances []float64, opts Options) Trace {
	n := len(positions)
	t := Trace{
		Type:      "scatter3d",
		Mode:        "lines",
		Name:        p.DisplayName(),
		LegendGroup: p.String(),
		X:           make([]float64, n),
		Y:           make([]float64, n),
		Z:           make([]float64, n),
		Text:        make([]string, n),
		HoverInfo:   "text",
		Line:        &Line{Width: opts.LineWidth},
	}
	if opts.AttachDetail {
		t.Name = p.DisplayName() + " Orbit"
		t.CustomData = make([][]any, n)
	}
	for i, pos := range positions {
		t.X[i], t.Y[i], t.Z[i] = pos.X, pos.Y, pos.Z
		t.Text[i] = fmt.Sprintf("%s<br>Distance from Sun: %.2f AU", p.DisplayName(), distances[i])
		if opts.AttachDetail {
			t.CustomData[i] = []any{p.String(), distances[i], pos.X, pos.Y, pos.Z}
		}
	}
	return t
}

// markerTrace shares its planet's legend entry with the path trace.
func markerTrace(p core.Planet, pos core.Position3D, opts Options) Trace {
	hidden := false
	return Trace{
		Type:        "scatter3d",
		Mode:        "markers",
		Name:        p.DisplayName(),
		LegendGroup: p.String(),
		ShowLegend:  &hidden,
		X:           []float64{pos.X},
		Y:           []float64{pos.Y},
		Z:           []float64{pos.Z},
		Marker:      &Marker{Size: opts.MarkerSize},
	}
}

func buildLayout(times []time.Time, opts Options) Layout {
	frameMs := opts.FrameDuration.Milliseconds()

	play := AnimationOptions{
		Frame:       FrameTiming{Duration: frameMs, Redraw: true},
		FromCurrent: true,
	}
	if opts.AttachDetail {
		play.Mode = "immediate"
	}
	pause := AnimationOptions{
		Frame:       FrameTiming{Duration: 0, Redraw: true},
		Mode:        "immediate",
		FromCurrent: true,
	}

	steps := make([]SliderStep, len(times))
	for i, t := range times {
		steps[i] = SliderStep{
			Method: "animate",
			Label:  timegrid.FormatISO(t),
			Args: []any{
				[]string{frameName(i)},
				AnimationOptions{
					Mode:       "immediate",
					Frame:      FrameTiming{Duration: frameMs, Redraw: true},
					Transition: &Transition{Duration: 0},
				},
			},
		}
	}

	current := CurrentValue{Prefix: "Time: "}
	layout := Layout{
		Title: Title{Text: opts.title()},
		Scene: Scene{
			XAxis:      Axis{Title: Title{Text: "X (AU)"}},
			YAxis:      Axis{Title: Title{Text: "Y (AU)"}},
			ZAxis:      Axis{Title: Title{Text: "Z (AU)"}},
			AspectMode: "auto",
		},
		UpdateMenus: []UpdateMenu{{
			Type:       "buttons",
			ShowActive: false,
			Buttons: []Button{
				{Label: "Play", Method: "animate", Args: []any{nil, play}},
				{Label: "Pause", Method: "animate", Args: []any{[]any{nil}, pause}},
			},
		}},
	}
	if opts.AttachDetail {
		visible := true
		current.Visible = &visible
		current.Font = &Font{Size: 20}
		layout.ClickMode = "event+select"
	}
	layout.Sliders = []Slider{{
		Active:       0,
		YAnchor:      "top",
		XAnchor:      "left",
		CurrentValue: current,
		Pad:          Pad{B: 10, T: 50},
		Len:          0.9,
		Steps:        steps,
	}}
	return layout
}
