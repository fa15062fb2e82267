package cfront

import (
	"io"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/varick/cfront/diag"
)

// Option customises a Service.
type Option func(s *Service)

// WithConfig replaces the whole configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithIncludeDirs appends include search directories.
func WithIncludeDirs(dirs ...string) Option {
	return func(s *Service) {
		s.config.IncludeDirs = append(s.config.IncludeDirs, dirs...)
	}
}

// WithDefines appends command-line macro definitions (NAME or NAME=VALUE).
func WithDefines(defines ...string) Option {
	return func(s *Service) {
		s.config.Defines = append(s.config.Defines, defines...)
	}
}

// WithErrorLimit stops compilation after limit errors; 0 disables the limit.
func WithErrorLimit(limit uint32) Option {
	return func(s *Service) {
		s.config.Diagnostics.ErrorLimit = limit
	}
}

// WithFixes enables collecting suggestion-based file rewrites.
func WithFixes(enabled bool) Option {
	return func(s *Service) {
		s.config.Fix.Enabled = enabled
	}
}

// WithHandler sets the diagnostic handler. The default annotates
// diagnostics to stderr.
func WithHandler(handler diag.Handler) Option {
	return func(s *Service) {
		s.handler = handler
	}
}

// WithFileSystem sets the file system service used for the main file,
// includes and configuration.
func WithFileSystem(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithOutput sets the destination of the preprocessed token stream.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		s.out = w
	}
}
