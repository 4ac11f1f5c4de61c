package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dentalmark/dentalmark/internal/cli"
	"github.com/dentalmark/dentalmark/internal/config"
	"github.com/dentalmark/dentalmark/internal/logging"
	"github.com/dentalmark/dentalmark/internal/service"
	"github.com/dentalmark/dentalmark/internal/telemetry"
	"github.com/dentalmark/dentalmark/internal/validation"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	app := &cli.App{}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Bootstrap = func(configFile, logLevel string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}

		opts := logging.Options{Level: cfg.LogLevel}
		if cfg.LogFile != "" {
			f, err := logging.OpenFile(cfg.LogFile)
			if err != nil {
				return err
			}
			closers = append(closers, f)
			opts.File = f
		}
		if cfg.Graylog.Enabled {
			w, err := logging.OpenGraylog(cfg.Graylog.Address)
			if err != nil {
				return err
			}
			closers = append(closers, w)
			opts.Graylog = w
		}
		logger := logging.Setup(opts)
		slog.SetDefault(logger)

		telemetryCfg := telemetry.Config{
			Enabled:     cfg.Otel.Enabled,
			ServiceName: "dentalmark",
			Interval:    cfg.Otel.Interval,
		}
		if cfg.Otel.Enabled {
			telemetryCfg.Writer = os.Stderr
			if cfg.Otel.MetricsFile != "" {
				f, err := logging.OpenFile(cfg.Otel.MetricsFile)
				if err != nil {
					return err
				}
				closers = append(closers, f)
				telemetryCfg.Writer = f
			}
		}
		provider, err := telemetry.New(telemetryCfg)
		if err != nil {
			return err
		}
		closers = append(closers, provider)

		metrics, err := service.NewMetricUseCaseObserver(provider.Meter())
		if err != nil {
			return err
		}
		observers := []service.UseCaseObserver{service.NewSlogUseCaseObserver(logger), metrics}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		closers = append(closers, store)

		v, err := validation.New()
		if err != nil {
			return err
		}

		app.Logger = logger
		app.CompanyID = cfg.Company
		app.Treatments = service.NewTreatmentService(store, v, observers...)
		app.Companies = service.NewCompanyService(store, v, logger, observers...)
		app.Users = service.NewUserService(store, v, observers...)
		app.Budget = service.NewBudgetService(app.Treatments, app.Companies, v, logger, observers...)

		logger.Debug("dentalmark started", "driver", cfg.Store.Driver, "company", cfg.Company)
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}
