// Package observability records timestamped notices during a run and renders
// them as text or JSON when the run is over. Offsets are measured from the
// moment the Recorder was created and formatted as compact clock strings.
package observability
