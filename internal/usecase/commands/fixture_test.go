//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"booking-core/internal/domain/valueobject"
	"booking-core/internal/infra"
	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/testutil/builder"
	sharedmock "booking-core/internal/testutil/mock/shared"
	"booking-core/internal/usecase/shared"

	"go.uber.org/mock/gomock"
)

type fixture struct {
	ctrl     *gomock.Controller
	uow      *sharedmock.MockUnitOfWork
	tx       *sharedmock.MockTx
	slots    *sharedmock.MockSlotRepository
	bookings *sharedmock.MockBookingRepository
	users    *sharedmock.MockUserProvisioner
	refunds  *sharedmock.MockRefundPolicyProvider
	cache    *sharedmock.MockHeatmapCache
	metrics  *sharedmock.MockMetrics
	gateway  *sharedmock.MockPaymentGateway
	hours    *sharedmock.MockProviderDirectory
	clock    *clock.MockClock
	logger   *slog.Logger
	cfg      config.BookingConfig
}

// newFixture wires a unit of work that runs every callback against one mocked Tx.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:     ctrl,
		uow:      sharedmock.NewMockUnitOfWork(ctrl),
		tx:       sharedmock.NewMockTx(ctrl),
		slots:    sharedmock.NewMockSlotRepository(ctrl),
		bookings: sharedmock.NewMockBookingRepository(ctrl),
		users:    sharedmock.NewMockUserProvisioner(ctrl),
		refunds:  sharedmock.NewMockRefundPolicyProvider(ctrl),
		cache:    sharedmock.NewMockHeatmapCache(ctrl),
		metrics:  sharedmock.NewMockMetrics(ctrl),
		gateway:  sharedmock.NewMockPaymentGateway(ctrl),
		hours:    sharedmock.NewMockProviderDirectory(ctrl),
		clock:    clock.NewMockClock(builder.BaseTime),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:      config.NewTestConfig().Booking,
	}

	run := func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
		return fn(ctx, f.tx)
	}
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()
	f.uow.EXPECT().WithinReadOnly(gomock.Any(), gomock.Any()).DoAndReturn(run).AnyTimes()
	f.tx.EXPECT().Slots().Return(f.slots).AnyTimes()
	f.tx.EXPECT().Bookings().Return(f.bookings).AnyTimes()
	f.cache.EXPECT().Invalidate(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return f
}

type moneyMatcher struct{ want valueobject.Money }

func (m moneyMatcher) Matches(x any) bool {
	got, ok := x.(valueobject.Money)
	return ok && got.Equal(m.want)
}

func (m moneyMatcher) String() string { return "is " + m.want.String() }

// moneyEq compares amounts numerically; decimals with different exponents are
// not DeepEqual.
func moneyEq(amount string) gomock.Matcher {
	return moneyMatcher{want: valueobject.MustMoney(amount, "USD")}
}

func conflictErr() error {
	return infra.RepositoryError{Kind: infra.KindConflict}
}

func notFoundErr() error {
	return infra.RepositoryError{Kind: infra.KindNotFound}
}
