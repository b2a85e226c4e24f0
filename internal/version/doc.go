// Package version exposes build metadata for the ZOCO POS binaries.
//
// Version, Commit and BuildTime are injected via Go ldflags and default to
// sensible values for local builds. Short is also the fallback release
// version used by the packager.
package version
