// Package installer downloads and applies releases of the desktop application.
//
// It verifies downloads against published SHA-256 checksums, applies them
// atomically, keeps rolling backups of the executable and the application
// database, restores the newest backup when an installation leaves no working
// executable behind, and records what was installed in version.json.
package installer
