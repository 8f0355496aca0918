package trips

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/busline-io/busline-backend/pkg/db/models"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
)

const seedSeatsPerTrip = 40

var seedRoutes = []struct {
	origin      string
	destination string
}{
	{"City A", "City B"},
	{"City B", "City C"},
	{"City A", "City C"},
}

// departures relative to midnight of the next day
var seedDepartureOffsets = []time.Duration{
	9 * time.Hour,
	13 * time.Hour,
	18 * time.Hour,
}

// SeedDev populates demo routes and trips. It is a no-op when any routes
// already exist, so restarting a dev instance never duplicates data.
func (s *service) SeedDev(ctx context.Context) error {
	count, err := s.repo.CountRoutes(ctx)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count routes")
	}
	if count > 0 {
		return nil
	}

	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, r := range seedRoutes {
			route, err := repo.CreateRoute(ctx, &models.Route{
				ID:          uuid.New(),
				Origin:      r.origin,
				Destination: r.destination,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed route")
			}
			for _, offset := range seedDepartureOffsets {
				_, err := repo.CreateTrip(ctx, &models.Trip{
					ID:            uuid.New(),
					RouteID:       route.ID,
					DepartureTime: tomorrow.Add(offset),
					SeatsTotal:    seedSeatsPerTrip,
				})
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed trip")
				}
			}
		}
		return nil
	})
}
