// Package log is the logging abstraction used by the expopush client and CLI.
//
// The client only depends on the Logger interface, so applications can route
// push diagnostics into whatever logger they already run. Two
// implementations ship with the package: a zerolog adapter and a no-op
// logger, which is the client's default.
//
// # Usage
//
//	logger := log.NewZerologAdapter(os.Stderr, zerolog.DebugLevel)
//	c, err := client.New(client.WithLogger(logger))
//
// Wrap an existing zerolog.Logger with NewZerologAdapterWithLogger. Use With
// to attach fields to every message of a derived logger:
//
//	reqLog := logger.With(log.String("path", "/--/api/v2/push/send"))
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
//
// See version.go for version constants that can be used programmatically.
package log
