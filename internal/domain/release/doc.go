// Package release contains core domain types for application distribution.
//
// It defines Release (an available build), Manifest (the version.json document
// shared by the packager and the installer) and Actor (who installed a build),
// plus semantic version comparison used to decide whether an update applies.
package release
