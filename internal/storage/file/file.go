// Package file writes runs to standalone HTML pages or JSON documents.
package file

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/solarviz/orbits/internal/render"
	"github.com/solarviz/orbits/internal/timegrid"
	"github.com/solarviz/orbits/pkg/core"
)

const fileTimestamp = "20060102_150405"

// Config holds configuration for the file backend.
type Config struct {
	Format    string // "html" or "json"
	OutputDir string
	Path      string // explicit output path, overrides OutputDir
	Compress  bool   // gzip JSON output
	PlotlyURL string
}

// Backend writes one file per exported run.
type Backend struct {
	cfg      Config
	log      *slog.Logger
	lastPath string
}

// New creates a new file backend
func New(cfg Config, log *slog.Logger) *Backend {
	if cfg.Format == "" {
		cfg.Format = "html"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Backend{cfg: cfg, log: log}
}

// Init validates the configured format
func (b *Backend) Init() error {
	switch b.cfg.Format {
	case "html", "json":
		return nil
	default:
		return fmt.Errorf("unsupported file format: %s", b.cfg.Format)
	}
}

// Close is a no-op
func (b *Backend) Close() error {
	return nil
}

// ExportedPath returns the path of the last written file
func (b *Backend) ExportedPath() string {
	return b.lastPath
}

// BaseName returns the file stem for run, built from its first and last instants.
func BaseName(run *core.Run) string {
	start, end := run.Settings.Start, run.Settings.End
	if len(run.Times) > 0 {
		start, end = run.Times[0], run.Times[len(run.Times)-1]
	}
	return fmt.Sprintf("orbits_%s_%s", start.UTC().Format(fileTimestamp), end.UTC().Format(fileTimestamp))
}

// Export writes run (and fig, for HTML) to disk
func (b *Backend) Export(ctx context.Context, run *core.Run, fig *render.Figure) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("nil run")
	}

	outputPath := b.outputPath(run)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	var err error
	switch b.cfg.Format {
	case "html":
		if fig == nil {
			return fmt.Errorf("html export needs a figure")
		}
		err = b.writeFile(outputPath, false, func(w io.Writer) error {
			return render.WritePage(w, fig, render.PageOptions{PlotlyURL: b.cfg.PlotlyURL})
		})
	case "json":
		err = b.writeFile(outputPath, b.cfg.Compress, func(w io.Writer) error {
			return json.NewEncoder(w).Encode(buildDocument(run, fig))
		})
	default:
		err = fmt.Errorf("unsupported file format: %s", b.cfg.Format)
	}
	if err != nil {
		return err
	}

	b.lastPath = outputPath
	b.log.Info("Export written",
		"path", outputPath,
		"format", b.cfg.Format,
		"duration", time.Since(start).String())
	return nil
}

func (b *Backend) outputPath(run *core.Run) string {
	if b.cfg.Path != "" {
		return b.cfg.Path
	}
	name := BaseName(run) + "." + b.cfg.Format
	if b.cfg.Format == "json" && b.cfg.Compress {
		name += ".gz"
	}
	return filepath.Join(b.cfg.OutputDir, name)
}

func (b *Backend) writeFile(path string, compress bool, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var w io.Writer = bw
	var gw *gzip.Writer
	if compress {
		gw = gzip.NewWriter(bw)
		w = gw
	}

	if err := write(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if gw != nil {
		if err := gw.Close(); err != nil {
			return fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return f.Close()
}

// Document is the JSON export layout.
type Document struct {
	Settings core.Settings    `json:"settings"`
	Times    []string         `json:"times"`
	Planets  []PlanetDocument `json:"planets"`
	Figure   *render.Figure   `json:"figure,omitempty"`
}

// PlanetDocument holds one planet's series.
type PlanetDocument struct {
	Name      string       `json:"name"`
	Positions [][3]float64 `json:"positions"`
	Distances []float64    `json:"distances"`
}

func buildDocument(run *core.Run, fig *render.Figure) Document {
	doc := Document{
		Settings: run.Settings,
		Times:    make([]string, len(run.Times)),
		Planets:  make([]PlanetDocument, 0, len(run.Positions)),
		Figure:   fig,
	}
	for i, t := range run.Times {
		doc.Times[i] = timegrid.FormatISO(t)
	}
	for _, p := range run.Planets() {
		pd := PlanetDocument{
			Name:      p.DisplayName(),
			Positions: make([][3]float64, len(run.Positions[p])),
			Distances: run.Distances[p],
		}
		for i, pos := range run.Positions[p] {
			pd.Positions[i] = [3]float64{pos.X, pos.Y, pos.Z}
		}
		doc.Planets = append(doc.Planets, pd)
	}
	return doc
}
