// Package builder bundles the launcher into a standalone executable.
//
// It shells out to the external packaging tool with a fixed argument list
// (application name, icon, the assets and ui directory mappings and the entry
// point), prints status banners and propagates the tool's exit code. The
// produced artifact is owned entirely by the packaging tool; the builder only
// reports its conventional output path.
package builder
