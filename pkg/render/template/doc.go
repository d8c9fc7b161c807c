// Package template defines the template engine seam used by HTML renderers.
// The pongo subpackage provides the default pongo2-backed engine.
package template
