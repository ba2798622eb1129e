package booking

import "booking-core/internal/domain/valueobject"

type PaymentInfo struct {
	status          PaymentStatus
	depositAmount   valueobject.Money
	paidAmount      valueobject.Money
	refundedAmount  valueobject.Money
	paymentIntentID string
	refundID        string
}

func newPaymentInfo(deposit valueobject.Money) PaymentInfo {
	return PaymentInfo{
		status:         PaymentUnpaid,
		depositAmount:  deposit,
		paidAmount:     valueobject.ZeroMoney(deposit.Currency()),
		refundedAmount: valueobject.ZeroMoney(deposit.Currency()),
	}
}

func ReconstructPaymentInfo(
	status PaymentStatus,
	depositAmount, paidAmount, refundedAmount valueobject.Money,
	paymentIntentID, refundID string,
) PaymentInfo {
	return PaymentInfo{
		status:          status,
		depositAmount:   depositAmount,
		paidAmount:      paidAmount,
		refundedAmount:  refundedAmount,
		paymentIntentID: paymentIntentID,
		refundID:        refundID,
	}
}

func (p PaymentInfo) Status() PaymentStatus             { return p.status }
func (p PaymentInfo) DepositAmount() valueobject.Money  { return p.depositAmount }
func (p PaymentInfo) PaidAmount() valueobject.Money     { return p.paidAmount }
func (p PaymentInfo) RefundedAmount() valueobject.Money { return p.refundedAmount }
func (p PaymentInfo) PaymentIntentID() string           { return p.paymentIntentID }
func (p PaymentInfo) RefundID() string                  { return p.refundID }

// HasAtLeastPartialPayment is the confirmation gate for deposit bookings.
func (p PaymentInfo) HasAtLeastPartialPayment() bool {
	return p.status == PaymentPartiallyPaid || p.status == PaymentPaid
}
