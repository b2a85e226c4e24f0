// Package config defines launcher settings used by the ZOCO POS binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the release source (GitHub repository or a local dist
// folder), the installation and data directories, and timing parameters. Paths
// derives the conventional on-disk layout from those directories.
package config
