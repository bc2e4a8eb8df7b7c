package main

import (
	"context"
	"log/slog"
	"os"

	"medash/config"
	"medash/internal/delivery"
	"medash/internal/delivery/http"
	"medash/internal/delivery/http/middleware"
	"medash/internal/delivery/http/router/handler"
	"medash/internal/infra/backend"
	logs "medash/internal/infra/log"
	"medash/internal/infra/querycache"
	"medash/internal/infra/session"
	"medash/internal/usecase"
	"medash/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectBackend(),
		injectUsecase(),
		injectMiddleware(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			wireSession,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		session.NewStore,
		newQueryCache,
	)
}

func newQueryCache(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) *querycache.Store {
	store := querycache.NewStore(cfg, logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			store.Close()

			return nil
		},
	})

	return store
}

func injectBackend() fx.Option {
	return fx.Options(
		fx.Provide(
			func(s *session.Store) backend.TokenSource { return s },
			backend.NewClient,
			backend.NewAuthAPI,
			backend.NewMEAPI,
			backend.NewFacilitatorAPI,
			backend.NewPartnersAPI,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			func(a *backend.AuthAPI, s *session.Store, c *querycache.Store, l *slog.Logger) usecase.AuthUsecase {
				return impl.NewAuthService(a, s, c, l)
			},
			func(a *backend.AuthAPI, c *querycache.Store, l *slog.Logger) usecase.AccessReviewUsecase {
				return impl.NewAccessReviewService(a, c, l)
			},
			func(m *backend.MEAPI, c *querycache.Store, l *slog.Logger) usecase.MEUsecase {
				return impl.NewMEService(m, c, l)
			},
			func(f *backend.FacilitatorAPI, c *querycache.Store, l *slog.Logger) usecase.FacilitatorUsecase {
				return impl.NewFacilitatorService(f, c, l)
			},
			func(p *backend.PartnersAPI, c *querycache.Store, l *slog.Logger) usecase.DonorUsecase {
				return impl.NewDonorService(p, c, l)
			},
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			func(s *session.Store, l *slog.Logger) *middleware.GuardMiddleware {
				return middleware.NewGuardMiddleware(s, l)
			},
			middleware.NewErrorMiddleware,
			middleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewAccessRequestHandler,
			handler.NewMEHandler,
			handler.NewFacilitatorHandler,
			handler.NewDonorHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// wireSession closes the loop between the session store and the backend
// client: the client reads its token from the store, the store resolves
// identities through the auth API, and a 401 anywhere tears down both the
// session and the query cache.
func wireSession(s *session.Store, authAPI *backend.AuthAPI, client *backend.Client, cache *querycache.Store) {
	s.SetProfileFetcher(authAPI)
	client.OnAuthExpired(s.HandleAuthExpired)
	client.OnAuthExpired(cache.Clear)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
