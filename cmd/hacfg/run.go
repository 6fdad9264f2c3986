package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/cuemby/hacfg/pkg/communication"
	"github.com/cuemby/hacfg/pkg/env"
	"github.com/cuemby/hacfg/pkg/events"
	"github.com/cuemby/hacfg/pkg/history"
	"github.com/cuemby/hacfg/pkg/log"
	"github.com/cuemby/hacfg/pkg/metrics"
	"github.com/cuemby/hacfg/pkg/middleware"
	"github.com/cuemby/hacfg/pkg/reports"
)

// needs selects the optional files a command works with
type needs struct {
	corosync   bool
	knownHosts bool
}

// flushMetrics writes the textfile when one is configured. A failure is only
// logged since the transaction itself already finished.
func flushMetrics(path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		logger := log.WithComponent("metrics")
		logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics textfile")
	}
}

// runTransaction runs fn inside the middleware chain with a fresh
// environment and takes care of reports, events, the journal and metrics
func runTransaction(command string, n needs, fn func(ctx context.Context, e *env.Environment) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDurationVec(metrics.TransactionDuration, command)
		flushMetrics(settings.MetricsTextfile)
	}()

	processor := newProcessor()

	broker := events.NewBroker()
	broker.Start()
	done := make(chan struct{})
	sub := broker.Subscribe()
	go logEvents(sub, done)
	defer stopEvents(broker, sub, done)

	var store history.Store
	if settings.HistoryPath != "" {
		bolt, err := history.NewBoltStore(settings.HistoryPath)
		if err != nil {
			return err
		}
		defer bolt.Close()
		store = bolt
	}

	chain := middleware.Build(buildMiddlewares(n)...)
	return chain.Run(&middleware.Env{}, func(files *middleware.Env) error {
		e := env.New(files, env.Options{
			Command:         command,
			Processor:       processor,
			Broker:          broker,
			History:         store,
			PacemakerBinDir: settings.PacemakerBinDir,
			CommandTimeout:  settings.CommandTimeout,
			DefaultPort:     settings.Port,
			Communication: communication.Config{
				Scheme:             settings.Scheme,
				Timeout:            settings.RequestTimeout,
				InsecureSkipVerify: !settings.TLSVerify,
			},
		})
		defer e.Close()
		return fn(ctx, e)
	})
}

func buildMiddlewares(n needs) []middleware.Middleware {
	var ms []middleware.Middleware
	if settings.CIBFile != "" {
		ms = append(ms, middleware.CIB(settings.CIBFile, nil))
	}
	if n.corosync && settings.CorosyncConfFile != "" {
		ms = append(ms, middleware.CorosyncConf(settings.CorosyncConfFile, nil))
	}
	if settings.ClusterConfFile != "" {
		ms = append(ms, middleware.ClusterConfReadOnly(settings.ClusterConfFile, nil))
	}
	if n.knownHosts {
		ms = append(ms, middleware.KnownHostsReadOnly(settings.KnownHostsFile, nil))
	}
	return ms
}

// newProcessor creates a processor printing non-error reports as they come.
// Errors are printed once the command fails.
func newProcessor() *reports.Processor {
	logger := zerolog.Nop()
	if settings.Debug {
		logger = log.WithComponent("reports")
	}
	processor := reports.NewProcessor(logger)
	processor.OnReport(func(item reports.Item) {
		switch item.Severity {
		case reports.SeverityError:
		case reports.SeverityDebug:
			if settings.Debug {
				fmt.Fprintln(os.Stderr, item.String())
			}
		default:
			fmt.Fprintln(os.Stderr, item.String())
		}
	})
	return processor
}

// stopEvents flushes the broker and waits for the event logger to finish
func stopEvents(broker *events.Broker, sub events.Subscriber, done <-chan struct{}) {
	broker.Stop()
	broker.Unsubscribe(sub)
	<-done
	if dropped := broker.Dropped(); dropped > 0 {
		logger := log.WithComponent("events")
		logger.Warn().Int64("dropped", dropped).Msg("Events did not fit the queue")
	}
}

func logEvents(sub events.Subscriber, done chan<- struct{}) {
	defer close(done)
	logger := log.WithComponent("events")
	for event := range sub {
		logger.Debug().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Interface("metadata", event.Metadata).
			Msg(event.Message)
	}
}
