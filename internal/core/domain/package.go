package domain

// Package is the nearest package descriptor for an asset, looked up by
// walking ancestor directories. It is advisory: pipeline steps consult it
// for per-package settings but tolerate its absence.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`

	// AllowFSReads opts this package out of the file-read rewrite.
	AllowFSReads bool `json:"allowFSReads"`

	// Dir is the directory containing the descriptor. Not part of the
	// serialized form.
	Dir string `json:"-"`
}
