package state

import (
	"context"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/normalize"
	"github.com/example/fooddash/pkg/validate"
	"go.mongodb.org/mongo-driver/bson"
)

func (a *App) reloadPaymentMethods(ctx context.Context, userID string, epoch uint64) error {
	seq := a.stamp(slicePayments)
	rows, err := a.gw.ListPaymentMethods(ctx, userID)
	if err != nil {
		return err
	}
	methods := normalize.PaymentMethods(rows)
	a.commit(slicePayments, epoch, seq, func() {
		a.paymentMethods = methods
		a.ensurePaymentSelectionLocked()
	})
	return nil
}

func (a *App) ensurePaymentSelectionLocked() {
	if len(a.paymentMethods) == 0 {
		a.selectedPaymentID = ""
		return
	}
	for _, m := range a.paymentMethods {
		if m.ID == a.selectedPaymentID {
			return
		}
	}
	a.selectedPaymentID = a.paymentMethods[0].ID
}

// AddPaymentMethod validates the card locally, stores only the display
// suffix, and reloads the slice. Cash is implicit and never stored as a row.
func (a *App) AddPaymentMethod(ctx context.Context, typ models.PaymentType, cardNumber, cardHolder, expiry, cvv string) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if typ == models.PaymentCash {
		return apperr.Validation("state.AddPaymentMethod", "cash is always available and is not stored")
	}
	switch typ {
	case models.PaymentVisa, models.PaymentMastercard, models.PaymentPaypal:
	default:
		return apperr.Validation("state.AddPaymentMethod", "unknown payment type")
	}
	if err := validate.Card(cardNumber, cardHolder, expiry, cvv); err != nil {
		return err
	}

	last4 := validate.LastFour(cardNumber)
	row := &gateway.PaymentMethodRow{
		UserID:     userID,
		Type:       string(typ),
		CardNumber: &last4,
		CardHolder: &cardHolder,
		ExpiryDate: &expiry,
	}
	if err := a.gw.InsertPaymentMethod(ctx, row); err != nil {
		return err
	}
	a.auditLog(userID, "add_payment_method", row.ID, bson.M{"type": string(typ)})
	return a.reloadPaymentMethods(ctx, userID, epoch)
}

func (a *App) DeletePaymentMethod(ctx context.Context, methodID string) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if err := a.gw.DeletePaymentMethod(ctx, userID, methodID); err != nil {
		return err
	}
	a.auditLog(userID, "delete_payment_method", methodID, nil)
	return a.reloadPaymentMethods(ctx, userID, epoch)
}

func (a *App) SelectPaymentMethod(methodID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range a.paymentMethods {
		if m.ID == methodID {
			a.selectedPaymentID = methodID
			return nil
		}
	}
	return apperr.Domain("state.SelectPaymentMethod", "payment method not found", apperr.ErrNotFound)
}

func (a *App) PaymentMethods() []models.PaymentMethod {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.PaymentMethod, len(a.paymentMethods))
	copy(out, a.paymentMethods)
	return out
}

// SelectedPaymentMethod returns nil when no stored method is selected; the
// caller treats that as cash.
func (a *App) SelectedPaymentMethod() *models.PaymentMethod {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, m := range a.paymentMethods {
		if m.ID == a.selectedPaymentID {
			out := m
			return &out
		}
	}
	return nil
}
