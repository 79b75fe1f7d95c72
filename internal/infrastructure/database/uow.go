package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	bookingRepo "petcare-backend/internal/domains/booking/repository"
	paymentRepo "petcare-backend/internal/domains/payment/repository"
	pkgdb "petcare-backend/pkg/database"
)

// Repositories groups the repositories bound to one unit of work.
type Repositories struct {
	Bookings bookingRepo.Repository
	Catalog  bookingRepo.CatalogRepository
	Payments paymentRepo.Repository
}

// UnitOfWork runs fn atomically: every write made through repos is committed
// together when fn returns nil and discarded otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}

type postgresUnitOfWork struct {
	db pkgdb.TxBeginner
}

func NewUnitOfWork(db pkgdb.TxBeginner) UnitOfWork {
	return &postgresUnitOfWork{db: db}
}

func (u *postgresUnitOfWork) Do(ctx context.Context, fn func(repos Repositories) error) error {
	return pkgdb.WithTransaction(ctx, u.db, func(tx pgx.Tx) error {
		return fn(Repositories{
			Bookings: bookingRepo.NewPostgresRepository(tx),
			Catalog:  bookingRepo.NewPostgresCatalog(tx),
			Payments: paymentRepo.NewPostgresRepository(tx),
		})
	})
}
