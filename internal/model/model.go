package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Run{},
	&PlanetSample{},
	&PlanetPath{},
}

// Run is one exported orbit computation.
type Run struct {
	ID            uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	CreatedAt     time.Time      `json:"createdAt"`
	StartTime     time.Time      `json:"startTime" gorm:"index:idx_run_start"`
	EndTime       time.Time      `json:"endTime"`
	Steps         int            `json:"steps"`
	EphemerisName string         `json:"ephemeris" gorm:"size:64"`
	Frame         string         `json:"frame" gorm:"size:32"`
	Settings      datatypes.JSON `json:"settings"`
	Samples       []PlanetSample `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Paths         []PlanetPath   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}

func (*Run) TableName() string {
	return "runs"
}

// PlanetSample is one planet's position at one grid step.
type PlanetSample struct {
	ID         uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	RunID      uint       `json:"runId" gorm:"index:idx_sample_run_planet_step,priority:1"`
	Planet     string     `json:"planet" gorm:"size:16;index:idx_sample_run_planet_step,priority:2"`
	Step       int        `json:"step" gorm:"index:idx_sample_run_planet_step,priority:3"`
	Time       time.Time  `json:"time"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Z          float64    `json:"z"`
	DistanceAU float64    `json:"distanceAu"`
	Position   geom.Point `json:"-"` // POINT Z in AU, WKB
}

func (*PlanetSample) TableName() string {
	return "planet_samples"
}

// PlanetPath is the full trajectory of one planet in a run.
type PlanetPath struct {
	ID       uint            `json:"id" gorm:"primarykey;autoIncrement;"`
	RunID    uint            `json:"runId" gorm:"index:idx_path_run_planet,priority:1"`
	Planet   string          `json:"planet" gorm:"size:16;index:idx_path_run_planet,priority:2"`
	Points   int             `json:"points"`
	LengthAU float64         `json:"lengthAu"`
	MinAU    float64         `json:"minAu"`
	MaxAU    float64         `json:"maxAu"`
	Path     geom.LineString `json:"-"` // LINESTRING Z in AU, WKB; empty for single-step runs
}

func (*PlanetPath) TableName() string {
	return "planet_paths"
}
