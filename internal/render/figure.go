// Package render builds Plotly figure documents for planet orbit runs.
package render

// Figure is the root Plotly document: traces, layout and animation frames.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Frames []Frame `json:"frames"`
}

// Trace is a scatter3d trace.
type Trace struct {
	Type        string    `json:"type"`
	Mode        string    `json:"mode"`
	Name        string    `json:"name"`
	LegendGroup string    `json:"legendgroup,omitempty"`
	ShowLegend  *bool     `json:"showlegend,omitempty"`
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	Z           []float64 `json:"z"`
	Text        []string  `json:"text,omitempty"`
	HoverInfo   string    `json:"hoverinfo,omitempty"`
	Line        *Line     `json:"line,omitempty"`
	Marker      *Marker   `json:"marker,omitempty"`
	CustomData  [][]any   `json:"customdata,omitempty"`
}

type Line struct {
	Width float64 `json:"width"`
}

type Marker struct {
	Size  float64 `json:"size"`
	Color string  `json:"color,omitempty"`
}

// Frame is one animation step. Traces lists the Figure.Data indices its Data replaces.
type Frame struct {
	Name   string  `json:"name"`
	Data   []Trace `json:"data"`
	Traces []int   `json:"traces"`
}

type Layout struct {
	Title       Title        `json:"title"`
	Scene       Scene        `json:"scene"`
	UpdateMenus []UpdateMenu `json:"updatemenus"`
	Sliders     []Slider     `json:"sliders"`
	ClickMode   string       `json:"clickmode,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Scene struct {
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	ZAxis      Axis   `json:"zaxis"`
	AspectMode string `json:"aspectmode"`
}

type Axis struct {
	Title Title `json:"title"`
}

type UpdateMenu struct {
	Type       string   `json:"type"`
	ShowActive bool     `json:"showactive"`
	Buttons    []Button `json:"buttons"`
}

// Button args follow plotly's animate signature: [frames, options].
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

type Slider struct {
	Active       int          `json:"active"`
	YAnchor      string       `json:"yanchor"`
	XAnchor      string       `json:"xanchor"`
	CurrentValue CurrentValue `json:"currentvalue"`
	Pad          Pad          `json:"pad"`
	Len          float64      `json:"len"`
	Steps        []SliderStep `json:"steps"`
}

type SliderStep struct {
	Method string `json:"method"`
	Label  string `json:"label"`
	Args   []any  `json:"args"`
}

type CurrentValue struct {
	Prefix  string `json:"prefix"`
	Visible *bool  `json:"visible,omitempty"`
	Font    *Font  `json:"font,omitempty"`
}

type Font struct {
	Size int `json:"size"`
}

type Pad struct {
	B int `json:"b"`
	T int `json:"t"`
}

// AnimationOptions is the second element of an animate call's args.
type AnimationOptions struct {
	Frame       FrameTiming `json:"frame"`
	Transition  *Transition `json:"transition,omitempty"`
	Mode        string      `json:"mode,omitempty"`
	FromCurrent bool        `json:"fromcurrent,omitempty"`
}

type FrameTiming struct {
	Duration int64 `json:"duration"`
	Redraw   bool  `json:"redraw"`
}

type Transition struct {
	Duration int64 `json:"duration"`
}
