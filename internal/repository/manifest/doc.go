// Package manifest implements persistence for the version Manifest.
//
// The FileRepository stores and loads version.json on disk and exposes a
// Repository interface that the packager and installer services depend on.
package manifest
