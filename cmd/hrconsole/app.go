package main

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/modules/hrm"
	"github.com/iota-uz/hr-console/modules/hrm/services"
	"github.com/iota-uz/hr-console/pkg/apiclient"
	"github.com/iota-uz/hr-console/pkg/configuration"
	"github.com/iota-uz/hr-console/pkg/eventbus"
	"github.com/iota-uz/hr-console/pkg/metrics"
	"github.com/iota-uz/hr-console/pkg/session"
)

// app is everything one command invocation talks to.
type app struct {
	conf     *configuration.Configuration
	log      *logrus.Logger
	bus      eventbus.EventBus
	store    *session.Store
	backend  session.Backend
	services *services.Services
	console  *hrm.Console
	registry *prometheus.Registry

	expired       atomic.Bool
	cancelExpired func()
}

// appFactory builds the app lazily so commands that fail flag parsing never
// touch the session backend.
type appFactory func(ctx context.Context) (*app, error)

func defaultFactory(envFiles []string) appFactory {
	return func(ctx context.Context) (*app, error) {
		conf, err := configuration.New(envFiles...)
		if err != nil {
			return nil, withCode(exitUsage, errors.Wrap(err, "configuration"))
		}
		backend, err := session.NewBackend(conf.Session)
		if err != nil {
			return nil, withCode(exitUsage, err)
		}
		return newApp(ctx, conf, conf.Logger(), backend)
	}
}

func newApp(ctx context.Context, conf *configuration.Configuration, log *logrus.Logger, backend session.Backend) (*app, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	bus := eventbus.NewEventPublisher(log)
	store, err := session.NewStore(ctx, backend, bus, log)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	client, err := apiclient.New(conf.API.URL,
		apiclient.WithTokenSource(store),
		apiclient.WithLogger(log),
		apiclient.WithRequestIDHeader(conf.API.RequestIDHeader),
		apiclient.WithMetrics(metrics.NewAPIMetrics(registry)),
		apiclient.WithTimeout(conf.API.Timeout),
	)
	if err != nil {
		return nil, withCode(exitUsage, err)
	}

	svc := services.New(client, store, bus, services.RequireSession(store))
	console, err := hrm.NewConsole(svc, bus, hrm.Config{
		PageSize:        conf.PageSize,
		BannerTTL:       conf.BannerTTL,
		LegacyClientIDs: conf.LegacyClientIDs,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		conf:     conf,
		log:      log,
		bus:      bus,
		store:    store,
		backend:  backend,
		services: svc,
		console:  console,
		registry: registry,
	}
	a.cancelExpired = store.OnExpired(func(*session.ExpiredEvent) {
		a.expired.Store(true)
	})
	return a, nil
}

// Close flushes metrics and releases the session backend.
func (a *app) Close(ctx context.Context) error {
	a.cancelExpired()
	a.console.Close()
	err := metrics.Push(ctx, a.conf.Prometheus.PushgatewayURL, a.conf.Prometheus.Job, a.registry)
	if closer, ok := a.backend.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close session backend")
		}
	}
	return err
}
