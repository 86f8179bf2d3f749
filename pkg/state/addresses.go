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

func (a *App) reloadAddresses(ctx context.Context, userID string, epoch uint64) error {
	seq := a.stamp(sliceAddresses)
	rows, err := a.gw.ListAddresses(ctx, userID)
	if err != nil {
		return err
	}
	addresses := normalize.Addresses(rows)
	a.commit(sliceAddresses, epoch, seq, func() {
		a.addresses = addresses
		a.ensureAddressSelectionLocked()
	})
	return nil
}

// ensureAddressSelectionLocked keeps exactly one address selected while any
// exist, defaulting to the first loaded, and never referencing a deleted
// row. Caller holds the lock.
func (a *App) ensureAddressSelectionLocked() {
	if len(a.addresses) == 0 {
		a.selectedAddressID = ""
		return
	}
	for _, addr := range a.addresses {
		if addr.ID == a.selectedAddressID {
			return
		}
	}
	a.selectedAddressID = a.addresses[0].ID
}

func toAddressRow(userID string, addr models.Address) *gateway.AddressRow {
	row := &gateway.AddressRow{
		ID:          addr.ID,
		UserID:      userID,
		Label:       string(addr.Label),
		FullAddress: addr.FullAddress,
		Street:      addr.Street,
		PostCode:    addr.PostCode,
	}
	if addr.Apartment != "" {
		apt := addr.Apartment
		row.Apartment = &apt
	}
	return row
}

func (a *App) AddAddress(ctx context.Context, addr models.Address) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if err := validate.Address(addr); err != nil {
		return err
	}

	row := toAddressRow(userID, addr)
	a.mu.Lock()
	row.IsDefault = len(a.addresses) == 0
	a.mu.Unlock()

	if err := a.gw.InsertAddress(ctx, row); err != nil {
		return err
	}
	a.auditLog(userID, "add_address", row.ID, bson.M{"label": row.Label})
	return a.reloadAddresses(ctx, userID, epoch)
}

func (a *App) UpdateAddress(ctx context.Context, addr models.Address) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if addr.ID == "" {
		return apperr.Validation("state.UpdateAddress", "address id is required")
	}
	if err := validate.Address(addr); err != nil {
		return err
	}
	if err := a.gw.UpdateAddress(ctx, toAddressRow(userID, addr)); err != nil {
		return err
	}
	a.auditLog(userID, "update_address", addr.ID, nil)
	return a.reloadAddresses(ctx, userID, epoch)
}

// DeleteAddress removes the row; if it was the selected one, selection falls
// back to the next available address or none.
func (a *App) DeleteAddress(ctx context.Context, addressID string) error {
	userID, epoch, err := a.requireAuth()
	if err != nil {
		return err
	}
	if err := a.gw.DeleteAddress(ctx, userID, addressID); err != nil {
		return err
	}
	a.auditLog(userID, "delete_address", addressID, nil)
	return a.reloadAddresses(ctx, userID, epoch)
}

// SelectAddress picks the delivery address; it must exist in the loaded
// slice.
func (a *App) SelectAddress(addressID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, addr := range a.addresses {
		if addr.ID == addressID {
			a.selectedAddressID = addressID
			return nil
		}
	}
	return apperr.Domain("state.SelectAddress", "address not found", apperr.ErrNotFound)
}

func (a *App) Addresses() []models.Address {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Address, len(a.addresses))
	copy(out, a.addresses)
	return out
}

// SelectedAddress returns nil when the address list is empty.
func (a *App) SelectedAddress() *models.Address {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, addr := range a.addresses {
		if addr.ID == a.selectedAddressID {
			out := addr
			return &out
		}
	}
	return nil
}
