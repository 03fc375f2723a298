// Package render defines the renderer contract, a name-keyed renderer
// registry, and BuildView, which resolves a form, its answers, and the
// visible set into the locale-specific view model renderers consume.
package render
