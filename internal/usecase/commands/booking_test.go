//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-core/internal/domain/availability"
	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/testutil/builder"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingCommandsTestSuite struct {
	suite.Suite
	f  *fixture
	uc commands.BookingCommands

	slot  *builder.SlotBuilder
	input commands.RequestBookingInput
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.uc = commands.NewBookingUseCase(s.f.uow, s.f.users, s.f.refunds, s.f.cache, s.f.metrics, s.f.clock, s.f.logger, s.f.cfg)

	s.slot = builder.NewSlotBuilder()
	customerID := uuid.New()
	s.input = commands.RequestBookingInput{
		CustomerID:      &customerID,
		ProviderID:      s.slot.ProviderID,
		ServiceID:       uuid.New(),
		StartTime:       s.slot.Start,
		DurationMinutes: s.slot.Minutes,
		Price:           valueobject.MustMoney("100", "USD"),
		Policy:          policy.DefaultBookingPolicy(),
	}
}

func (s *BookingCommandsTestSuite) expectFindSlot(slot *availability.Slot, times int) {
	s.f.slots.EXPECT().LockProvider(gomock.Any(), s.slot.ProviderID).Return(nil).Times(times)
	s.f.slots.EXPECT().
		FindSlot(gomock.Any(), s.slot.ProviderID, availability.DateOf(s.slot.Start), s.slot.Start, s.slot.Start.Add(time.Hour), s.input.StaffID).
		Return(slot, nil).Times(times)
}

// storedBooking makes repeated FindByID calls return fresh copies, the way a
// new transaction would read the row.
func (s *BookingCommandsTestSuite) storedBooking(b *booking.Booking) {
	snap := b.Snapshot()
	s.f.bookings.EXPECT().FindByID(gomock.Any(), b.ID()).
		DoAndReturn(func(context.Context, uuid.UUID) (*booking.Booking, error) {
			return booking.Reconstruct(snap), nil
		}).AnyTimes()
}

// ================================================================================
// RequestBooking
// ================================================================================

func (s *BookingCommandsTestSuite) TestRequestBooking_Success() {
	slot := s.slot.BuildDomain()
	s.expectFindSlot(slot, 1)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), s.slot.ProviderID, s.slot.Start, s.slot.Start.Add(time.Hour), gomock.Any()).Return(nil, nil)
	s.f.slots.EXPECT().Allocate(gomock.Any(), slot.ID(), gomock.Any(), nil, builder.BaseTime).Return(nil)
	s.f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.f.metrics.EXPECT().BookingTransition("requested")

	b, err := s.uc.RequestBooking(context.Background(), s.input)

	s.Require().NoError(err)
	s.Equal(booking.StatusRequested, b.Status())
	s.Equal(*s.input.CustomerID, b.CustomerID())
	s.Equal(s.slot.Start, b.TimeSlot().Start())
}

func (s *BookingCommandsTestSuite) TestRequestBooking_LocksProviderAndAsksForStaff() {
	staff := uuid.New()
	s.input.StaffID = &staff
	slot := s.slot.WithStaff(staff).BuildDomain()

	gomock.InOrder(
		s.f.slots.EXPECT().LockProvider(gomock.Any(), s.slot.ProviderID).Return(nil),
		s.f.slots.EXPECT().FindSlot(gomock.Any(), s.slot.ProviderID, gomock.Any(), s.slot.Start, s.slot.Start.Add(time.Hour), &staff).
			Return(slot, nil),
		s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
		s.f.slots.EXPECT().Allocate(gomock.Any(), slot.ID(), gomock.Any(), &staff, gomock.Any()).Return(nil),
	)
	s.f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.f.metrics.EXPECT().BookingTransition("requested")

	b, err := s.uc.RequestBooking(context.Background(), s.input)

	s.Require().NoError(err)
	s.Equal(&staff, b.StaffID())
}

func (s *BookingCommandsTestSuite) TestRequestBooking_GuestIsProvisioned() {
	guestID := uuid.New()
	s.input.CustomerID = nil
	s.input.Guest = &shared.GuestContact{Name: "Ada", Email: "ada@example.com"}

	slot := s.slot.BuildDomain()
	s.f.users.EXPECT().ProvisionCustomer(gomock.Any(), *s.input.Guest).Return(guestID, nil)
	s.expectFindSlot(slot, 1)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	s.f.slots.EXPECT().Allocate(gomock.Any(), slot.ID(), gomock.Any(), nil, gomock.Any()).Return(nil)
	s.f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.f.metrics.EXPECT().BookingTransition(gomock.Any())

	b, err := s.uc.RequestBooking(context.Background(), s.input)

	s.Require().NoError(err)
	s.Equal(guestID, b.CustomerID())
}

func (s *BookingCommandsTestSuite) TestRequestBooking_RequiresCustomerOrGuest() {
	s.input.CustomerID = nil

	_, err := s.uc.RequestBooking(context.Background(), s.input)

	s.True(errs.IsValidation(err))
}

func (s *BookingCommandsTestSuite) TestRequestBooking_SlotNotFound() {
	s.f.slots.EXPECT().LockProvider(gomock.Any(), gomock.Any()).Return(nil)
	s.f.slots.EXPECT().FindSlot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, notFoundErr())

	_, err := s.uc.RequestBooking(context.Background(), s.input)

	s.True(errs.Is(err, commands.ErrSlotNotFound))
	s.True(errs.IsNotFound(err))
}

func (s *BookingCommandsTestSuite) TestRequestBooking_SlotAlreadyBooked() {
	slot := s.slot.AsBooked(uuid.New(), builder.BaseTime).BuildDomain()
	s.expectFindSlot(slot, 1)

	_, err := s.uc.RequestBooking(context.Background(), s.input)

	s.True(errs.Is(err, commands.ErrSlotUnavailable))
	s.True(errs.IsConflict(err))
}

func (s *BookingCommandsTestSuite) TestRequestBooking_OverlappingProviderWideBooking() {
	slot := s.slot.BuildDomain()
	blocker := builder.NewSlotBuilder().
		WithProvider(s.slot.ProviderID).
		WithStart(s.slot.Start.Add(-30*time.Minute)).
		AsBooked(uuid.New(), builder.BaseTime).
		BuildDomain()
	s.expectFindSlot(slot, 1)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*availability.Slot{blocker}, nil)

	_, err := s.uc.RequestBooking(context.Background(), s.input)

	s.True(errs.Is(err, commands.ErrSlotUnavailable))
}

func (s *BookingCommandsTestSuite) TestRequestBooking_RetriesLostAllocationRace() {
	slot := s.slot.BuildDomain()
	s.expectFindSlot(slot, 2)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)
	gomock.InOrder(
		s.f.slots.EXPECT().Allocate(gomock.Any(), slot.ID(), gomock.Any(), nil, gomock.Any()).Return(conflictErr()),
		s.f.slots.EXPECT().Allocate(gomock.Any(), slot.ID(), gomock.Any(), nil, gomock.Any()).Return(nil),
	)
	s.f.metrics.EXPECT().AllocationConflict(s.slot.ProviderID).Times(1)
	s.f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	s.f.metrics.EXPECT().BookingTransition("requested")

	b, err := s.uc.RequestBooking(context.Background(), s.input)

	s.Require().NoError(err)
	s.NotNil(b)
}

func (s *BookingCommandsTestSuite) TestRequestBooking_GivesUpAfterMaxRetries() {
	attempts := s.f.cfg.MaxConflictRetries + 1
	slot := s.slot.BuildDomain()
	s.expectFindSlot(slot, attempts)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).Times(attempts)
	s.f.slots.EXPECT().Allocate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(conflictErr()).Times(attempts)
	s.f.metrics.EXPECT().AllocationConflict(s.slot.ProviderID).Times(attempts)

	_, err := s.uc.RequestBooking(context.Background(), s.input)

	s.True(errs.Is(err, commands.ErrSlotUnavailable))
	s.True(errs.IsConflict(err))
}

func (s *BookingCommandsTestSuite) TestRequestBooking_PolicyWindowRejected() {
	s.input.StartTime = builder.BaseTime.Add(30 * time.Minute)
	s.slot.WithStart(s.input.StartTime)
	s.expectFindSlot(s.slot.BuildDomain(), 1)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := s.uc.RequestBooking(context.Background(), s.input)

	s.True(errs.Is(err, booking.ErrInvalidSchedule))
}

// ================================================================================
// Lifecycle
// ================================================================================

func (s *BookingCommandsTestSuite) TestConfirm_ClearsHold() {
	b := builder.NewBookingBuilder().MustBuild()
	slot := s.slot.AsBooked(b.ID(), builder.BaseTime).BuildDomain()
	s.storedBooking(b)
	s.f.slots.EXPECT().FindByBookingID(gomock.Any(), b.ID()).Return(slot, nil)
	s.f.slots.EXPECT().ConfirmHold(gomock.Any(), slot.ID(), b.ID()).Return(nil)
	s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	s.f.metrics.EXPECT().BookingTransition("confirmed")

	got, err := s.uc.ConfirmBooking(context.Background(), b.ID())

	s.Require().NoError(err)
	s.Equal(booking.StatusConfirmed, got.Status())
}

func (s *BookingCommandsTestSuite) TestConfirm_DepositGateBlocksWrite() {
	b := builder.NewBookingBuilder().AsStrict().MustBuild()
	s.storedBooking(b)

	_, err := s.uc.ConfirmBooking(context.Background(), b.ID())

	s.True(errs.Is(err, booking.ErrDepositNotPaid))
}

func (s *BookingCommandsTestSuite) TestConfirm_BookingNotFound() {
	id := uuid.New()
	s.f.bookings.EXPECT().FindByID(gomock.Any(), id).Return(nil, notFoundErr())

	_, err := s.uc.ConfirmBooking(context.Background(), id)

	s.True(errs.Is(err, commands.ErrBookingNotFound))
}

func (s *BookingCommandsTestSuite) TestMutate_RetriesStaleVersion() {
	b := builder.NewBookingBuilder().MustBuild()
	slot := s.slot.AsBooked(b.ID(), builder.BaseTime).BuildDomain()
	s.storedBooking(b)
	s.f.slots.EXPECT().FindByBookingID(gomock.Any(), b.ID()).Return(slot, nil).Times(2)
	s.f.slots.EXPECT().ConfirmHold(gomock.Any(), slot.ID(), b.ID()).Return(nil).Times(2)
	gomock.InOrder(
		s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(conflictErr()),
		s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil),
	)
	s.f.metrics.EXPECT().BookingTransition("confirmed").Times(1)

	got, err := s.uc.ConfirmBooking(context.Background(), b.ID())

	s.Require().NoError(err)
	s.Len(got.History(), 2)
}

func (s *BookingCommandsTestSuite) TestCancel_ReleasesSlotAndReportsRefund() {
	b := builder.NewBookingBuilder().MustBuild()
	require.NoError(s.T(), b.ProcessFullPayment("pi_1", builder.BaseTime))
	slot := s.slot.AsBooked(b.ID(), builder.BaseTime).BuildDomain()
	s.storedBooking(b)
	s.f.slots.EXPECT().FindByBookingID(gomock.Any(), b.ID()).Return(slot, nil)
	s.f.slots.EXPECT().Release(gomock.Any(), slot.ID(), b.ID()).Return(nil)
	s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	s.f.refunds.EXPECT().RefundPolicyFor(gomock.Any(), b.ProviderID(), b.ServiceID()).Return(policy.DefaultRefundPolicy(), nil)
	s.f.metrics.EXPECT().BookingTransition("cancelled")

	// 30h before start falls in the default tier's 75% band
	s.f.clock.Set(b.TimeSlot().Start().Add(-30 * time.Hour))
	res, err := s.uc.CancelBooking(context.Background(), b.ID(), "sick")

	s.Require().NoError(err)
	s.Equal(booking.StatusCancelled, res.Booking.Status())
	s.True(res.RefundDue.Equal(valueobject.MustMoney("75", "USD")), res.RefundDue.String())
}

func (s *BookingCommandsTestSuite) TestCancel_SlotAlreadyReleased() {
	b := builder.NewBookingBuilder().MustBuild()
	s.storedBooking(b)
	s.f.slots.EXPECT().FindByBookingID(gomock.Any(), b.ID()).Return(nil, notFoundErr())
	s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	s.f.metrics.EXPECT().BookingTransition("cancelled")

	res, err := s.uc.CancelBooking(context.Background(), b.ID(), "")

	s.Require().NoError(err)
	s.True(res.RefundDue.IsZero())
}

func (s *BookingCommandsTestSuite) TestCompleteAndNoShow() {
	confirmed := func() *booking.Booking {
		b := builder.NewBookingBuilder().MustBuild()
		require.NoError(s.T(), b.Confirm(builder.BaseTime))
		return b
	}
	afterEnd := builder.BaseTime.Add(80 * time.Hour)

	s.Run("complete before end is rejected", func() {
		b := confirmed()
		s.storedBooking(b)
		_, err := s.uc.CompleteBooking(context.Background(), b.ID())
		s.True(errs.Is(err, booking.ErrAppointmentNotEnded))
	})

	s.Run("complete after end", func() {
		b := confirmed()
		s.storedBooking(b)
		s.f.clock.Set(afterEnd)
		s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		s.f.metrics.EXPECT().BookingTransition("completed")

		got, err := s.uc.CompleteBooking(context.Background(), b.ID())
		s.Require().NoError(err)
		s.Equal(booking.StatusCompleted, got.Status())
	})

	s.Run("no-show keeps staff notes", func() {
		b := confirmed()
		s.storedBooking(b)
		s.f.clock.Set(afterEnd)
		s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		s.f.metrics.EXPECT().BookingTransition("no_show")

		got, err := s.uc.MarkNoShow(context.Background(), b.ID(), "never arrived")
		s.Require().NoError(err)
		s.Equal(booking.StatusNoShow, got.Status())
		s.Equal("never arrived", got.StaffNotes())
	})
}

// ================================================================================
// Reschedule
// ================================================================================

func (s *BookingCommandsTestSuite) TestReschedule_MovesAllocation() {
	old := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.ProviderID = s.slot.ProviderID
	}).MustBuild()
	oldSlot := builder.NewSlotBuilder().
		WithProvider(s.slot.ProviderID).
		WithStart(old.TimeSlot().Start()).
		AsBooked(old.ID(), builder.BaseTime).
		BuildDomain()

	// new slot overlaps the old one by 30 minutes
	newStart := old.TimeSlot().Start().Add(30 * time.Minute)
	newSlot := builder.NewSlotBuilder().WithProvider(s.slot.ProviderID).WithStart(newStart).BuildDomain()

	s.storedBooking(old)
	s.f.slots.EXPECT().LockProvider(gomock.Any(), s.slot.ProviderID).Return(nil)
	s.f.slots.EXPECT().FindSlot(gomock.Any(), s.slot.ProviderID, gomock.Any(), newStart, newStart.Add(time.Hour), nil).Return(newSlot, nil)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*availability.Slot{oldSlot}, nil)
	s.f.slots.EXPECT().FindByBookingID(gomock.Any(), old.ID()).Return(oldSlot, nil)

	var created *booking.Booking
	gomock.InOrder(
		s.f.slots.EXPECT().Release(gomock.Any(), oldSlot.ID(), old.ID()).Return(nil),
		s.f.slots.EXPECT().Allocate(gomock.Any(), newSlot.ID(), gomock.Any(), nil, gomock.Any()).Return(nil),
		s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, b *booking.Booking) {
				s.Equal(booking.StatusRescheduled, b.Status())
			}).Return(nil),
		s.f.bookings.EXPECT().Create(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, b *booking.Booking) { created = b }).Return(nil),
	)
	s.f.metrics.EXPECT().BookingTransition("rescheduled")
	s.f.metrics.EXPECT().BookingTransition("requested")

	next, err := s.uc.RescheduleBooking(context.Background(), commands.RescheduleInput{
		BookingID: old.ID(),
		NewStart:  newStart,
		Reason:    "clash",
	})

	s.Require().NoError(err)
	s.Same(created, next)
	s.Require().NotNil(next.PreviousBookingID())
	s.Equal(old.ID(), *next.PreviousBookingID())
	s.Equal(newStart, next.TimeSlot().Start())
}

func (s *BookingCommandsTestSuite) TestReschedule_StrictPolicyForbids() {
	old := builder.NewBookingBuilder().AsStrict().With(func(b *builder.BookingBuilder) {
		b.ProviderID = s.slot.ProviderID
	}).MustBuild()
	newStart := old.TimeSlot().Start().Add(24 * time.Hour)
	newSlot := builder.NewSlotBuilder().WithProvider(s.slot.ProviderID).WithStart(newStart).BuildDomain()

	s.storedBooking(old)
	s.f.slots.EXPECT().LockProvider(gomock.Any(), gomock.Any()).Return(nil)
	s.f.slots.EXPECT().FindSlot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(newSlot, nil)
	s.f.slots.EXPECT().FindOverlapping(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := s.uc.RescheduleBooking(context.Background(), commands.RescheduleInput{BookingID: old.ID(), NewStart: newStart})

	s.True(errs.Is(err, booking.ErrReschedulingNotAllowed))
}

// ================================================================================
// Payments
// ================================================================================

func (s *BookingCommandsTestSuite) TestRecordDeposit_OnActiveBooking() {
	b := builder.NewBookingBuilder().AsStrict().MustBuild()
	s.storedBooking(b)
	s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	res, err := s.uc.RecordDepositPayment(context.Background(), b.ID(), "pi_dep")

	s.Require().NoError(err)
	s.Nil(res.RefundDue)
	s.Equal(booking.PaymentPartiallyPaid, res.Booking.Payment().Status())
}

func (s *BookingCommandsTestSuite) TestRecordDeposit_OnCancelledBookingReportsRefund() {
	b := builder.NewBookingBuilder().AsStrict().MustBuild()
	require.NoError(s.T(), b.Cancel("changed plans", builder.BaseTime))
	s.storedBooking(b)
	s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	s.f.refunds.EXPECT().RefundPolicyFor(gomock.Any(), gomock.Any(), gomock.Any()).Return(policy.DefaultRefundPolicy(), nil)

	res, err := s.uc.RecordDepositPayment(context.Background(), b.ID(), "pi_late")

	s.Require().NoError(err)
	s.Require().NotNil(res.RefundDue)
	// cancelled 72h ahead: the whole 30% deposit comes back
	s.True(res.RefundDue.Equal(valueobject.MustMoney("30", "USD")), res.RefundDue.String())
	s.Equal(booking.StatusCancelled, res.Booking.Status())
}

func (s *BookingCommandsTestSuite) TestRecordRefund() {
	b := builder.NewBookingBuilder().MustBuild()
	require.NoError(s.T(), b.ProcessFullPayment("pi_1", builder.BaseTime))
	s.storedBooking(b)
	s.f.bookings.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	got, err := s.uc.RecordRefund(context.Background(), b.ID(), valueobject.MustMoney("40", "USD"), "re_1", "goodwill")

	s.Require().NoError(err)
	assert.Equal(s.T(), booking.PaymentPartiallyRefunded, got.Payment().Status())
}
