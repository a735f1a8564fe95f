package otel

import (
	"context"
	"io"

	"github.com/bravo68web/odinpkg/internal/config"
	"github.com/bravo68web/odinpkg/pkg/logger"
)

// SetupLogger builds the process logger from configuration and installs it
// as the global logger. When OTEL export is enabled, records are teed to the
// collector as well as the local output.
func SetupLogger(ctx context.Context, cfg *config.Config, version string) (*logger.Logger, error) {
	logCfg := &logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPath:  cfg.Logging.OutputPath,
		Development: cfg.IsDevelopment(),
		AddCaller:   true,
	}

	core, closer, err := logger.NewCore(logCfg)
	if err != nil {
		return nil, err
	}
	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}

	if cfg.Otel.Enabled {
		provider, err := NewProvider(ctx, cfg.Otel, version)
		if err != nil {
			return nil, err
		}
		core = NewCombinedCore(core, provider, logger.ParseLevel(logCfg.Level))
		closers = append(closers, provider)
	}

	l := logger.NewWithCore(logCfg, core, closers...).WithFields(logger.Service(ServiceName), logger.Version(version))
	logger.SetGlobal(l)
	return l, nil
}
