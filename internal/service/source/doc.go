// Package source abstracts where releases of the desktop application come from.
//
// GitHub fetches the most recent release (pre-releases included) of a public
// repository and reads the published checksum from its version.json asset.
// Local serves a dist folder on disk for testing unpublished builds.
package source
