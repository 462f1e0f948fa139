// Package logging provides the logging interface shared by the playback
// engine, the session runner and the HTTP exposition layer. It abstracts the
// underlying implementation (zerolog by default) so components can log
// structured fields without depending on a concrete backend.
package logging
