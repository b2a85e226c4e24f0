// Package logger wraps zap for the ZOCO POS binaries:
//   - a global sugared logger with a console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level parsing for the --log-level flag,
//   - convenience functions (Info, WarnKV, Debugf, etc.).
//
// Services accept a context and log through it, so a single named logger
// follows a builder, packager or launcher run end to end.
package logger
