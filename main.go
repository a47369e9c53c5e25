package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JulianKropp/live-translation/inspect"
)

const Development = "DEVELOPMENT"

func run() error {
	paths := os.Args[1:]
	if len(paths) == 0 {
		return UserError{"usage: ogginspect FILE [FILE...]"}
	}

	dev := false
	devStr := os.Getenv(Development)
	if devStr == "true" {
		dev = true
	}

	var loggerFunc func() (*zap.Logger, error)
	if dev {
		loggerFunc = func() (*zap.Logger, error) {
			return zap.NewDevelopment()
		}
	} else {
		loggerFunc = func() (*zap.Logger, error) {
			return zap.Config{
				Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
				Development:      false,
				Encoding:         "json",
				EncoderConfig:    zap.NewProductionEncoderConfig(),
				OutputPaths:      []string{"stderr"},
				ErrorOutputPaths: []string{"stderr"},
			}.Build()
		}
	}
	logger, err := loggerFunc()
	if err != nil {
		return fmt.Errorf("could not create logger: %w", err)
	}

	inspector := inspect.NewInspector(logger)

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("could not read %q: %w", path, err)
			}

			report, err := inspector.Inspect(data)
			if err != nil {
				return fmt.Errorf("could not inspect %q: %w", path, err)
			}

			fields := []zap.Field{
				zap.String("path", path),
				zap.Int("pages", report.PageCount),
				zap.Uint32("serial_number", report.SerialNumber),
				zap.Float64("duration_seconds", report.DurationSeconds),
			}
			if report.ID != nil {
				fields = append(fields,
					zap.Uint8("channels", report.ID.ChannelCount),
					zap.Uint16("pre_skip", report.ID.PreSkip),
					zap.Uint32("input_sample_rate_hz", report.InputSampleRateHz),
				)
			}
			if report.CommentPages > 0 {
				fields = append(fields,
					zap.Int("comment_pages", report.CommentPages),
					zap.String("vendor", report.VendorString),
					zap.Strings("comments", report.UserComments),
				)
			}
			logger.Info("inspected ogg opus file", fields...)
			return nil
		})
	}

	return g.Wait()
}

func main() {
	err := run()

	var userError UserError
	switch {
	case err == nil:
		os.Exit(0)

	case errors.Is(err, context.Canceled):
		os.Exit(0)

	case errors.As(err, &userError):
		fmt.Fprintf(os.Stderr, "error: %s\n", userError.Error())
		os.Exit(1)

	default:
		fmt.Fprintf(os.Stderr, "unexpected error: %s\n", err.Error())
		os.Exit(2)
	}
}

type UserError struct{ Reason string }

func (e UserError) Error() string { return e.Reason }
