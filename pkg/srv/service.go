package srv

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/simdrive/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices starts services in order. When one fails, the ones already
// started are shut down in reverse order and the start error is returned.
func StartServices(ctx context.Context, services []Service) error {
	for i, service := range services {
		if err := service.Start(ctx); err != nil {
			if shutdownErr := ShutdownServices(ctx, services[:i]); shutdownErr != nil {
				log.FromCtx(ctx).Error().Err(shutdownErr).Msg("rollback after failed start")
			}
			return fmt.Errorf("%T failed to start: %w", service, err)
		}
	}
	return nil
}

// ShutdownServices shuts services down in reverse start order and joins
// their errors.
func ShutdownServices(ctx context.Context, services []Service) error {
	var errs []error
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
