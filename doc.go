// Package jmtlogger is an asynchronous, process-safe logging engine.
//
// Producers from any goroutine (and from multiple OS processes writing
// to the same file path) enqueue immutable records onto a bounded
// queue; a single dispatcher goroutine per logger drains the queue,
// applies level filtering and formatting, and fans records out to a
// console sink and a size-rotated file sink. Rotation keeps a bounded
// chain of backups (file.1, file.2, ...) and is guarded by an OS-level
// file lock so that concurrent processes never interleave a rotation
// with another process's write.
//
// Basic usage:
//
//	logger, err := jmtlogger.NewBuilder().
//		Name("myapp").
//		Directory("/var/log/myapp").
//		LevelString("info").
//		EnableFile(true).
//		Build()
//	if err != nil {
//		// handle configuration error
//	}
//	defer logger.Close()
//
//	logger.Info("service started", "port", 8080)
//	logger.Exception("request failed", err)
package jmtlogger
