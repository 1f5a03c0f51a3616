// Package backends describes the compute backends the Core ML compiler may
// dispatch an operation to, and how each one is displayed in reports.
//
// The usual suspects are registered at initialization: the CPU implementations
// "classic_cpu" and "bnns", the GPU path "mps_graph" and the Neural Engine
// "ane". Dumps produced by newer OS releases may mention backends this package
// has never heard of: those can be added with Register, or loaded from a YAML
// configuration file (see LoadConfig), without touching the extraction code.
//
// To simplify error handling, registration throws (panics) with a stack trace
// in case of errors. See package github.com/gomlx/exceptions.
package backends

import (
	"slices"

	"github.com/gomlx/exceptions"

	"github.com/gomlx/milscope/internal/xslices"
)

// Backend describes one compute backend: the identifier used in analytics
// dumps, the report column its estimated runtime is displayed under, and the
// color used to highlight it.
type Backend struct {
	// ID is the identifier used in analytics dumps, e.g. "classic_cpu" or "ane".
	ID string `yaml:"id"`

	// Column is the title of the report column displaying this backend's
	// estimated runtime. Leave it empty for backends whose runtime is not
	// reported in a column of its own: "bnns" runs on the CPU and only shows
	// up as a selected backend or in validation messages.
	Column string `yaml:"column,omitempty"`

	// Color used when displaying the backend and its runtime column. Any color
	// accepted by lipgloss: an ANSI palette index ("4", "99") or a hex value
	// ("#874BFD"). Empty displays without coloring.
	Color string `yaml:"color,omitempty"`
}

var (
	registeredBackends = make(map[string]Backend)

	// columnsOrder lists the runtime columns in registration order, and
	// columnOwners maps each back to the ID of the backend it displays.
	columnsOrder []string
	columnOwners = make(map[string]string)
)

func init() {
	for _, backend := range []Backend{
		{ID: "classic_cpu", Column: "CPU", Color: "4"},
		{ID: "bnns", Color: "4"},
		{ID: "mps_graph", Column: "GPU", Color: "2"},
		{ID: "ane", Column: "ANE", Color: "99"},
	} {
		Register(backend)
	}
}

// Register backend, overriding any previous registration with the same ID.
//
// It panics if the backend has an empty ID, or if it claims a column already
// displaying a different backend.
//
// To be safe, call Register during initialization of the program, before any
// report is rendered.
func Register(backend Backend) {
	if backend.ID == "" {
		exceptions.Panicf("backends.Register: backend with an empty ID (column=%q, color=%q)",
			backend.Column, backend.Color)
	}
	if backend.Column != "" {
		if owner, found := columnOwners[backend.Column]; found && owner != backend.ID {
			exceptions.Panicf("backends.Register: column %q already displays backend %q, can't assign it to %q",
				backend.Column, owner, backend.ID)
		}
	}
	if previous, found := registeredBackends[backend.ID]; found &&
		previous.Column != "" && previous.Column != backend.Column {
		// The backend moved off its column: release it.
		delete(columnOwners, previous.Column)
		if idx := slices.Index(columnsOrder, previous.Column); idx != -1 {
			columnsOrder = slices.Delete(columnsOrder, idx, idx+1)
		}
	}
	if backend.Column != "" {
		if _, found := columnOwners[backend.Column]; !found {
			columnOwners[backend.Column] = backend.ID
			columnsOrder = append(columnsOrder, backend.Column)
		}
	}
	registeredBackends[backend.ID] = backend
}

// Get returns the backend registered with the given id.
func Get(id string) (backend Backend, found bool) {
	backend, found = registeredBackends[id]
	return
}

// IDs returns the IDs of all registered backends, sorted.
func IDs() []string {
	return xslices.SortedKeys(registeredBackends)
}

// All returns the registered backends, sorted by ID.
func All() []Backend {
	return xslices.Map(IDs(), func(id string) Backend { return registeredBackends[id] })
}

// Columns returns the titles of the runtime columns, in registration order.
func Columns() []string {
	return slices.Clone(columnsOrder)
}

// ColumnBackend returns the backend whose runtime the given column displays.
func ColumnBackend(column string) (backend Backend, found bool) {
	id, found := columnOwners[column]
	if !found {
		return
	}
	return registeredBackends[id], true
}

// ColorFor returns the display color registered for the backend id, or ""
// for unknown backends, which are displayed without coloring.
func ColorFor(id string) string {
	return registeredBackends[id].Color
}
