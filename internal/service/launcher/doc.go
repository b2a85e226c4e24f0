// Package launcher drives the lifecycle of the ZOCO POS desktop application.
//
// On startup it installs the application if missing, applies pending updates,
// creates the desktop shortcut on first install, starts the application
// detached, and then keeps checking the release source in the background,
// applying updates silently once the application has exited. A file lock in
// the data directory guarantees a single launcher instance per machine.
package launcher
