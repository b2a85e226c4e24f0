// Package packager prepares the release manifest published with each build.
//
// It computes the SHA-256 of the built desktop executable and writes
// version.json for upload next to the GitHub release asset. The launcher
// reads that manifest to verify downloads.
package packager
