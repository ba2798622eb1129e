//go:build unit

package booking_test

import (
	"strings"
	"testing"
	"time"

	"booking-core/internal/domain/booking"
	"booking-core/internal/domain/policy"
	"booking-core/internal/domain/valueobject"
	"booking-core/internal/pkg/errs"
	"booking-core/internal/testutil/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.BookingBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewBookingBuilder()
			if tc.mutate != nil {
				tc.mutate(b)
			}
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func usd(amount string) valueobject.Money {
	return valueobject.MustMoney(amount, "USD")
}

func depositPolicy(t *testing.T) policy.BookingPolicy {
	t.Helper()
	params := policy.DefaultBookingPolicy().Params()
	params.RequireDeposit = true
	params.DepositPercentage = decimal.NewFromInt(30)
	p, err := policy.NewBookingPolicy(params)
	require.NoError(t, err)
	return p
}

func TestNewRequest(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusRequested, actual.Status())
		assert.Equal(t, booking.PaymentUnpaid, actual.Payment().Status())
		assert.True(t, actual.Payment().DepositAmount().IsZero())
		assert.Equal(t, 60, actual.TimeSlot().Duration().Minutes())
		require.Len(t, actual.History(), 1)
		assert.Equal(t, 1, actual.History()[0].Sequence)
		assert.Equal(t, builder.BaseTime, actual.RequestedAt())
	})

	t.Run("schedule validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "start in the past",
				mutate: func(b *builder.BookingBuilder) { b.WithStart(builder.BaseTime.Add(-time.Hour)) },
				errIs:  booking.ErrInvalidSchedule,
			},
			{
				name:   "inside minimum advance",
				mutate: func(b *builder.BookingBuilder) { b.WithStart(builder.BaseTime.Add(time.Hour)) },
				errIs:  booking.ErrInvalidSchedule,
			},
			{
				name:   "exactly at minimum advance",
				mutate: func(b *builder.BookingBuilder) { b.WithStart(builder.BaseTime.Add(2 * time.Hour)) },
			},
			{
				name:   "beyond maximum advance",
				mutate: func(b *builder.BookingBuilder) { b.WithStart(builder.BaseTime.AddDate(0, 0, 91)) },
				errIs:  booking.ErrInvalidSchedule,
			},
		})
	})

	t.Run("input validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "missing customer",
				mutate: func(b *builder.BookingBuilder) { b.CustomerID = uuid.Nil },
				errIs:  errs.ErrValidation,
			},
			{
				name:   "missing provider",
				mutate: func(b *builder.BookingBuilder) { b.ProviderID = uuid.Nil },
				errIs:  errs.ErrValidation,
			},
			{
				name:   "zero duration",
				mutate: func(b *builder.BookingBuilder) { b.Minutes = 0 },
				errIs:  errs.ErrValidation,
			},
			{
				name:   "notes too long",
				mutate: func(b *builder.BookingBuilder) { b.CustomerNotes = strings.Repeat("a", booking.MaxNotesLength+1) },
				errIs:  errs.ErrValidation,
			},
		})
	})

	t.Run("deposit is derived from policy", func(t *testing.T) {
		actual, err := builder.NewBookingBuilder().AsStrict().BuildDomain()
		require.NoError(t, err)
		assert.True(t, actual.Payment().DepositAmount().Equal(usd("30")))
	})
}

func TestBooking_Confirm(t *testing.T) {
	now := builder.BaseTime.Add(time.Hour)

	t.Run("confirms a requested booking", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		require.NoError(t, b.Confirm(now))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
		require.NotNil(t, b.ConfirmedAt())
		assert.Equal(t, now, *b.ConfirmedAt())
	})

	t.Run("deposit gate", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithPolicy(depositPolicy(t)).MustBuild()
		before := b.Snapshot()

		err := b.Confirm(now)
		assert.ErrorIs(t, err, booking.ErrDepositNotPaid)
		assert.True(t, errs.IsBusinessRule(err))
		assert.Equal(t, before, b.Snapshot())

		require.NoError(t, b.ProcessDepositPayment("pi_1", now))
		require.NoError(t, b.Confirm(now))
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("twice", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		require.NoError(t, b.Confirm(now))
		assert.ErrorIs(t, b.Confirm(now), booking.ErrNotRequested)
	})

	t.Run("after start time", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		err := b.Confirm(b.TimeSlot().Start())
		assert.ErrorIs(t, err, booking.ErrStartTimePassed)
		assert.Equal(t, booking.StatusRequested, b.Status())
	})
}

func TestBooking_Payments(t *testing.T) {
	now := builder.BaseTime.Add(time.Minute)

	t.Run("deposit then full payment", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithPolicy(depositPolicy(t)).MustBuild()

		require.NoError(t, b.ProcessDepositPayment("pi_dep", now))
		assert.Equal(t, booking.PaymentPartiallyPaid, b.Payment().Status())
		assert.True(t, b.Payment().PaidAmount().Equal(usd("30")))
		assert.True(t, b.RemainingPayment().Equal(usd("70")))

		require.NoError(t, b.ProcessFullPayment("pi_full", now))
		assert.Equal(t, booking.PaymentPaid, b.Payment().Status())
		assert.True(t, b.RemainingPayment().IsZero())
		assert.Equal(t, "pi_full", b.Payment().PaymentIntentID())
	})

	t.Run("replayed deposit intent is a no-op", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithPolicy(depositPolicy(t)).MustBuild()
		require.NoError(t, b.ProcessDepositPayment("pi_dep", now))
		historyLen := len(b.History())

		require.NoError(t, b.ProcessDepositPayment("pi_dep", now))
		assert.Len(t, b.History(), historyLen)
	})

	t.Run("deposit after full payment is ignored", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithPolicy(depositPolicy(t)).MustBuild()
		require.NoError(t, b.ProcessFullPayment("pi_full", now))

		require.NoError(t, b.ProcessDepositPayment("pi_dep", now))
		assert.Equal(t, booking.PaymentPaid, b.Payment().Status())
		assert.Equal(t, "pi_full", b.Payment().PaymentIntentID())
	})

	t.Run("deposit without a deposit policy", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		assert.ErrorIs(t, b.ProcessDepositPayment("pi_dep", now), booking.ErrNoDepositRequired)
	})

	t.Run("empty intent", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		assert.True(t, errs.IsValidation(b.ProcessFullPayment("  ", now)))
	})
}

func TestBooking_Cancel(t *testing.T) {
	now := builder.BaseTime.Add(time.Hour)

	t.Run("from requested", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		require.NoError(t, b.Cancel("changed plans", now))
		assert.Equal(t, booking.StatusCancelled, b.Status())
		assert.Equal(t, "changed plans", b.CancellationReason())
		require.NotNil(t, b.CancelledAt())
	})

	t.Run("late cancellation is annotated", func(t *testing.T) {
		b := builder.NewBookingBuilder().WithStart(builder.BaseTime.Add(10 * time.Hour)).MustBuild()
		require.NoError(t, b.Confirm(now))
		require.NoError(t, b.Cancel("", now))

		h := b.History()
		assert.Contains(t, h[len(h)-1].Description, "late cancellation")
	})

	t.Run("terminal states", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		require.NoError(t, b.Cancel("", now))
		assert.ErrorIs(t, b.Cancel("", now), booking.ErrNotCancellable)
	})
}

func TestBooking_CompleteAndNoShow(t *testing.T) {
	confirmed := func(t *testing.T) *booking.Booking {
		t.Helper()
		b := builder.NewBookingBuilder().MustBuild()
		require.NoError(t, b.Confirm(builder.BaseTime))
		return b
	}

	t.Run("complete after end", func(t *testing.T) {
		b := confirmed(t)
		require.NoError(t, b.Complete(b.TimeSlot().End()))
		assert.Equal(t, booking.StatusCompleted, b.Status())
	})

	t.Run("complete before end", func(t *testing.T) {
		b := confirmed(t)
		err := b.Complete(b.TimeSlot().End().Add(-time.Minute))
		assert.ErrorIs(t, err, booking.ErrAppointmentNotEnded)
		assert.Equal(t, booking.StatusConfirmed, b.Status())
	})

	t.Run("complete requires confirmation", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		assert.ErrorIs(t, b.Complete(b.TimeSlot().End()), booking.ErrNotConfirmed)
	})

	t.Run("no show keeps staff notes", func(t *testing.T) {
		b := confirmed(t)
		require.NoError(t, b.MarkNoShow("never arrived", b.TimeSlot().End().Add(time.Hour)))
		assert.Equal(t, booking.StatusNoShow, b.Status())
		assert.Equal(t, "never arrived", b.StaffNotes())
		require.NotNil(t, b.NoShowAt())
	})
}

func TestBooking_Reschedule(t *testing.T) {
	now := builder.BaseTime.Add(time.Hour)

	t.Run("forks a linked booking", func(t *testing.T) {
		staff := uuid.New()
		old := builder.NewBookingBuilder().WithStaff(staff).MustBuild()
		require.NoError(t, old.ProcessFullPayment("pi_full", now))
		newStart := old.TimeSlot().Start().Add(24 * time.Hour)

		next, err := old.Reschedule(newStart, nil, "conflict at work", now)
		require.NoError(t, err)

		assert.Equal(t, booking.StatusRescheduled, old.Status())
		require.NotNil(t, old.RescheduledToBookingID())
		assert.Equal(t, next.ID(), *old.RescheduledToBookingID())
		require.NotNil(t, next.PreviousBookingID())
		assert.Equal(t, old.ID(), *next.PreviousBookingID())

		assert.Equal(t, booking.StatusRequested, next.Status())
		assert.Equal(t, newStart, next.TimeSlot().Start())
		assert.Equal(t, old.TimeSlot().Duration(), next.TimeSlot().Duration())
		assert.Equal(t, &staff, next.StaffID())
		assert.Equal(t, booking.PaymentPaid, next.Payment().Status())
	})

	t.Run("allowed inside the reschedule window", func(t *testing.T) {
		old := builder.NewBookingBuilder().WithStart(builder.BaseTime.Add(12 * time.Hour)).MustBuild()

		_, err := old.Reschedule(builder.BaseTime.Add(48*time.Hour), nil, "", now)
		require.NoError(t, err)
		h := old.History()
		assert.Contains(t, h[len(h)-1].Description, "inside reschedule window")
	})

	t.Run("policy forbids", func(t *testing.T) {
		old := builder.NewBookingBuilder().AsStrict().MustBuild()
		before := old.Snapshot()

		next, err := old.Reschedule(old.TimeSlot().Start().Add(24*time.Hour), nil, "", now)
		assert.ErrorIs(t, err, booking.ErrReschedulingNotAllowed)
		assert.Nil(t, next)
		assert.Equal(t, before.Status, old.Status())
		assert.Len(t, old.History(), len(before.History))
	})

	t.Run("invalid new start leaves original untouched", func(t *testing.T) {
		old := builder.NewBookingBuilder().MustBuild()

		_, err := old.Reschedule(now.Add(-time.Hour), nil, "", now)
		assert.ErrorIs(t, err, booking.ErrInvalidSchedule)
		assert.Equal(t, booking.StatusRequested, old.Status())
		assert.Nil(t, old.RescheduledToBookingID())
	})

	t.Run("terminal state", func(t *testing.T) {
		old := builder.NewBookingBuilder().MustBuild()
		require.NoError(t, old.Cancel("", now))
		_, err := old.Reschedule(old.TimeSlot().Start(), nil, "", now)
		assert.ErrorIs(t, err, booking.ErrNotReschedulable)
	})
}

func TestBooking_ProcessRefund(t *testing.T) {
	now := builder.BaseTime.Add(time.Hour)
	paid := func(t *testing.T) *booking.Booking {
		t.Helper()
		b := builder.NewBookingBuilder().MustBuild()
		require.NoError(t, b.ProcessFullPayment("pi_full", now))
		require.NoError(t, b.Cancel("", now))
		return b
	}

	t.Run("partial then full", func(t *testing.T) {
		b := paid(t)
		require.NoError(t, b.ProcessRefund(usd("40"), "re_1", "", now))
		assert.Equal(t, booking.PaymentPartiallyRefunded, b.Payment().Status())

		require.NoError(t, b.ProcessRefund(usd("60"), "re_2", "remainder", now))
		assert.Equal(t, booking.PaymentFullyRefunded, b.Payment().Status())
		assert.True(t, b.Payment().RefundedAmount().Equal(usd("100")))
	})

	t.Run("same refund id is a no-op", func(t *testing.T) {
		b := paid(t)
		require.NoError(t, b.ProcessRefund(usd("40"), "re_1", "", now))
		require.NoError(t, b.ProcessRefund(usd("40"), "re_1", "", now))
		assert.True(t, b.Payment().RefundedAmount().Equal(usd("40")))
	})

	t.Run("exceeds paid amount", func(t *testing.T) {
		b := paid(t)
		err := b.ProcessRefund(usd("100.01"), "re_1", "", now)
		assert.True(t, errs.IsValidation(err))
		assert.Equal(t, booking.PaymentPaid, b.Payment().Status())
	})

	t.Run("nothing paid", func(t *testing.T) {
		b := builder.NewBookingBuilder().MustBuild()
		assert.ErrorIs(t, b.ProcessRefund(usd("1"), "re_1", "", now), booking.ErrNothingToRefund)
	})

	t.Run("payment after refund is rejected", func(t *testing.T) {
		b := paid(t)
		require.NoError(t, b.ProcessRefund(usd("100"), "re_1", "", now))
		assert.ErrorIs(t, b.ProcessFullPayment("pi_other", now), booking.ErrPaymentAlreadySettled)
	})
}

func TestBooking_TimeQueries(t *testing.T) {
	b := builder.NewBookingBuilder().WithStart(builder.BaseTime.Add(20 * time.Hour)).MustBuild()

	assert.True(t, b.IsUpcoming(builder.BaseTime))
	assert.False(t, b.IsUpcoming(builder.BaseTime.Add(-5*time.Hour)))
	assert.False(t, b.IsInPast(builder.BaseTime))
	assert.True(t, b.IsInPast(b.TimeSlot().End().Add(time.Second)))
}

func TestBooking_HistoryIsCopied(t *testing.T) {
	b := builder.NewBookingBuilder().MustBuild()
	h := b.History()
	h[0].Description = "tampered"

	assert.NotEqual(t, "tampered", b.History()[0].Description)
}

func TestReconstruct_RoundTripsSnapshot(t *testing.T) {
	b := builder.NewBookingBuilder().MustBuild()
	require.NoError(t, b.Confirm(builder.BaseTime))

	restored := booking.Reconstruct(b.Snapshot())
	assert.Equal(t, b.Snapshot(), restored.Snapshot())
}
