package jmtlogger

// Builder provides fluent configuration of a logger. Errors from
// individual setters are deferred and reported by Build.
type Builder struct {
	cfg *Config
	err error
}

// NewBuilder creates a builder seeded with the default configuration.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// Name sets the logger name, used in output and for file synthesis.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Level sets the severity threshold from a numeric level.
func (b *Builder) Level(level int64) *Builder {
	b.cfg.Level = level
	return b
}

// LevelString sets the severity threshold from a level name such as
// "debug" or "warning".
func (b *Builder) LevelString(level string) *Builder {
	parsed, err := ParseLevel(level)
	if err != nil {
		b.err = combineErrors(b.err, err)
		return b
	}
	b.cfg.Level = parsed
	return b
}

// Directory sets the directory used when synthesizing the file path.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// File sets an explicit log file path and enables the file sink.
func (b *Builder) File(path string) *Builder {
	b.cfg.File = path
	b.cfg.EnableFile = true
	return b
}

// Format selects the file sink encoding, "text" or "json".
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// EnableConsole toggles the console sink.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// ConsoleTarget selects "stdout" or "stderr" for the console sink.
func (b *Builder) ConsoleTarget(target string) *Builder {
	b.cfg.ConsoleTarget = target
	return b
}

// EnableFile toggles the rotating file sink.
func (b *Builder) EnableFile(enable bool) *Builder {
	b.cfg.EnableFile = enable
	return b
}

// EnableColor toggles ANSI coloring on the console sink.
func (b *Builder) EnableColor(enable bool) *Builder {
	b.cfg.EnableColor = enable
	return b
}

// SourceInfo toggles per-record capture of the emitting call site.
func (b *Builder) SourceInfo(enable bool) *Builder {
	b.cfg.SourceInfo = enable
	return b
}

// MaxFileSize sets the rotation threshold in bytes. Zero disables
// rotation.
func (b *Builder) MaxFileSize(size int64) *Builder {
	b.cfg.MaxFileSize = size
	return b
}

// BackupCount sets how many rotated files are kept.
func (b *Builder) BackupCount(count int64) *Builder {
	b.cfg.BackupCount = count
	return b
}

// BufferSize sets the queue capacity in records.
func (b *Builder) BufferSize(size int64) *Builder {
	b.cfg.BufferSize = size
	return b
}

// QueuePolicy selects the backpressure policy, QueuePolicyDrop or
// QueuePolicyBlock.
func (b *Builder) QueuePolicy(policy string) *Builder {
	b.cfg.QueuePolicy = policy
	return b
}

// PushTimeoutMs sets how long a blocked producer waits for capacity.
func (b *Builder) PushTimeoutMs(ms int64) *Builder {
	b.cfg.PushTimeoutMs = ms
	return b
}

// InternalErrors routes engine-internal diagnostics to stderr.
func (b *Builder) InternalErrors(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Build validates the accumulated configuration, creates the logger,
// and starts its dispatcher.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}
	if err := logger.Start(); err != nil {
		return nil, err
	}
	return logger, nil
}
