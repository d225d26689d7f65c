package cli

import (
	"fmt"
	"net/http"

	"github.com/golang/glog"

	"github.com/mesh-intelligence/folio/internal/collection"
	"github.com/mesh-intelligence/folio/internal/cosmic"
	"github.com/mesh-intelligence/folio/internal/dashboard"
	"github.com/mesh-intelligence/folio/internal/sqlite"
	"github.com/mesh-intelligence/folio/pkg/types"
)

// openStore builds the object store selected by cfg. The returned close
// function releases it and is never nil.
func openStore(cfg types.Config) (types.ObjectStore, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, func() {}, userError(fmt.Errorf("invalid configuration: %w", err))
	}
	switch cfg.Backend {
	case types.BackendCosmic:
		glog.V(1).Infof("[cli] using cosmic bucket %s", cfg.Cosmic.BucketSlug)
		return cosmic.New(cfg.Cosmic, &http.Client{Timeout: cfg.RequestTimeout}), func() {}, nil
	default:
		b := sqlite.NewBackend()
		if err := b.Attach(cfg); err != nil {
			return nil, func() {}, sysError(fmt.Errorf("attach local bucket: %w", err))
		}
		return b, func() {
			if err := b.Detach(); err != nil {
				glog.Warningf("[cli] detach: %v", err)
			}
		}, nil
	}
}

// syncOptions are the synchronizer options for the configured timeout.
func (a *app) syncOptions() collection.Options {
	opts := collection.DefaultOptions()
	opts.Timeout = a.cfg.RequestTimeout
	return opts
}

// openDashboard opens the configured store and wraps it in a Dashboard.
func (a *app) openDashboard() (*dashboard.Dashboard, types.ObjectStore, func(), error) {
	store, closeFn, err := openStore(a.cfg)
	if err != nil {
		return nil, nil, closeFn, err
	}
	return dashboard.New(store, a.syncOptions()), store, closeFn, nil
}

// contentType checks a user-supplied content type name.
func contentType(name string) (string, error) {
	if !types.IsContentType(name) {
		return "", userError(fmt.Errorf("%w %q (valid: %v)", types.ErrInvalidType, name, types.ContentTypes))
	}
	return name, nil
}
