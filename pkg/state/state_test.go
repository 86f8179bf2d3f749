package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/fooddash/pkg/apperr"
	"github.com/example/fooddash/pkg/config"
	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/gateway/gatewaytest"
	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/search"
	"github.com/example/fooddash/pkg/state"
)

func newApp(t *testing.T) (*state.App, *gatewaytest.Fake) {
	t.Helper()
	gw := gatewaytest.New()
	gw.SeedUser("Amira", "amira@example.com", "secret123")
	gw.SeedProduct("p-couscous", "Couscous", "Tunisian", "12.50", "4.5", 45)
	gw.SeedProduct("p-pizza", "Pizza", "Italian", "9.00", "3.8", 12)
	app := state.NewApp(gw, state.WithCheckout(config.CheckoutConfig{DeliveryFee: 2.0}))
	return app, gw
}

func login(t *testing.T, app *state.App) {
	t.Helper()
	require.NoError(t, app.Login(context.Background(), "amira@example.com", "secret123"))
}

func TestLoginLoadsAllSlices(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)

	login(t, app)

	assert.True(t, app.IsAuthenticated())
	assert.Equal(t, "Amira", app.User().Name)
	assert.Equal(t, "amira@example.com", app.User().Email)
	assert.Empty(t, app.Cart())
	assert.Empty(t, app.Orders())
	assert.Empty(t, app.Addresses())
	assert.Nil(t, app.SelectedAddress())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)

	err := app.Login(context.Background(), "amira@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperr.IsAuth(err))
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.False(t, app.IsAuthenticated())
}

func TestMutationsRequireAuth(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	ctx := context.Background()

	assert.ErrorIs(t, app.AddToCart(ctx, "p-pizza", 1, "", false), apperr.ErrUnauthenticated)
	assert.ErrorIs(t, app.ToggleFavorite(ctx, "p-pizza"), apperr.ErrUnauthenticated)
	_, err := app.CreateOrder(ctx)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAddToCartMergesOnProductSizeCooked(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-couscous", 2, models.SizeMedium, false))
	require.NoError(t, app.AddToCart(ctx, "p-couscous", 3, models.SizeMedium, false))

	cart := app.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)

	// A different size is a distinct line.
	require.NoError(t, app.AddToCart(ctx, "p-couscous", 1, models.SizeLarge, false))
	assert.Len(t, app.Cart(), 2)

	// So is the same size with the cooked flag flipped.
	require.NoError(t, app.AddToCart(ctx, "p-couscous", 1, models.SizeMedium, true))
	assert.Len(t, app.Cart(), 3)
}

func TestCartTotalTracksContents(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	assert.Zero(t, app.CartTotal())

	require.NoError(t, app.AddToCart(ctx, "p-couscous", 2, "", false)) // 25.00
	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))   // 9.00
	assert.InDelta(t, 34.0, app.CartTotal(), 1e-9)

	require.NoError(t, app.ClearCart(ctx))
	assert.Empty(t, app.Cart())
	assert.Zero(t, app.CartTotal())
}

func TestUpdateCartItemZeroRemovesRow(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-pizza", 2, "", false))
	cart := app.Cart()
	require.Len(t, cart, 1)

	require.NoError(t, app.UpdateCartItem(ctx, cart[0].ID, 4))
	assert.Equal(t, 4, app.Cart()[0].Quantity)

	require.NoError(t, app.UpdateCartItem(ctx, cart[0].ID, 0))
	assert.Empty(t, app.Cart())
}

func TestAddToCartValidatesInput(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	assert.True(t, apperr.IsValidation(app.AddToCart(ctx, "", 1, "", false)))
	assert.True(t, apperr.IsValidation(app.AddToCart(ctx, "p-pizza", 0, "", false)))
	assert.Empty(t, app.Cart())
}

func TestCreateOrderEmptyCartFailsBeforeAnyWrite(t *testing.T) {
	t.Parallel()
	app, gw := newApp(t)
	login(t, app)

	_, err := app.CreateOrder(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)
	assert.Zero(t, gw.InsertOrderCalls())
	assert.Empty(t, app.Orders())
}

func TestCreateOrderSnapshotsCartAndClearsIt(t *testing.T) {
	t.Parallel()
	app, gw := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddAddress(ctx, models.Address{
		Label:       models.LabelHome,
		FullAddress: "12 Rue de Carthage, Tunis",
		Street:      "Rue de Carthage",
		PostCode:    "1000",
	}))
	require.NoError(t, app.AddToCart(ctx, "p-couscous", 2, "", false)) // 25.00
	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))   // 9.00

	number, err := app.CreateOrder(ctx)
	require.NoError(t, err)
	assert.Contains(t, number, "ORD-")

	assert.Empty(t, app.Cart(), "checkout clears the cart")

	orders := app.Orders()
	require.Len(t, orders, 1)
	order := orders[0]
	assert.Equal(t, number, order.ID)
	assert.Equal(t, models.OrderStatusOngoing, order.Status)
	assert.InDelta(t, 36.0, order.Total, 1e-9) // 34.00 + 2.00 delivery
	assert.InDelta(t, 2.0, order.DeliveryFee, 1e-9)
	assert.Equal(t, "12 Rue de Carthage, Tunis", order.Address)
	require.Len(t, order.Items, 2)

	// Catalog price changes never touch the snapshot.
	gw.SetProductPrice("p-couscous", "99.99")
	require.NoError(t, app.Refresh(ctx))

	order = app.Orders()[0]
	assert.InDelta(t, 36.0, order.Total, 1e-9)
	for _, it := range order.Items {
		if it.ProductID == "p-couscous" {
			assert.InDelta(t, 12.5, it.UnitPrice, 1e-9)
		}
	}
}

func TestCreateOrderAppliesCookedSurcharge(t *testing.T) {
	t.Parallel()
	gw := gatewaytest.New()
	gw.SeedUser("Amira", "amira@example.com", "secret123")
	gw.SeedProduct("p-couscous", "Couscous", "Tunisian", "10.00", "4.5", 45)
	app := state.NewApp(gw, state.WithCheckout(config.CheckoutConfig{DeliveryFee: 2.0, CookedSurcharge: 1.5}))
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-couscous", 2, "", true))

	_, err := app.CreateOrder(ctx)
	require.NoError(t, err)

	order := app.Orders()[0]
	assert.InDelta(t, 25.0, order.Total, 1e-9) // (10.00+1.50)*2 + 2.00
	assert.InDelta(t, 11.5, order.Items[0].UnitPrice, 1e-9)
}

func orderByNumber(t *testing.T, app *state.App, number string) models.Order {
	t.Helper()
	for _, o := range app.Orders() {
		if o.ID == number {
			return o
		}
	}
	t.Fatalf("order %s not loaded", number)
	return models.Order{}
}

func TestCancelOrderOnlyFromOngoing(t *testing.T) {
	t.Parallel()
	app, gw := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))
	number, err := app.CreateOrder(ctx)
	require.NoError(t, err)

	require.NoError(t, app.CancelOrder(ctx, number))
	assert.Equal(t, models.OrderStatusCanceled, orderByNumber(t, app, number).Status)

	// A second cancel fails: the order is no longer ongoing.
	err = app.CancelOrder(ctx, number)
	require.Error(t, err)
	assert.True(t, apperr.IsDomain(err))

	err = app.CancelOrder(ctx, "ORD-0")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Completed orders are just as final.
	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))
	completed, err := app.CreateOrder(ctx)
	require.NoError(t, err)
	require.NoError(t, gw.UpdateOrderStatus(ctx, app.Session().UserID, completed, "completed"))
	require.NoError(t, app.Refresh(ctx))
	assert.Error(t, app.CancelOrder(ctx, completed))
}

func TestCancelLosesRaceWithRemoteCompletion(t *testing.T) {
	t.Parallel()
	app, gw := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))
	number, err := app.CreateOrder(ctx)
	require.NoError(t, err)

	// The order completes remotely; this aggregator has not observed it yet
	// and still believes the order is ongoing.
	require.NoError(t, gw.UpdateOrderStatus(ctx, app.Session().UserID, number, "completed"))

	err = app.CancelOrder(ctx, number)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// The completed status was not overwritten.
	require.NoError(t, app.Refresh(ctx))
	assert.Equal(t, models.OrderStatusCompleted, orderByNumber(t, app, number).Status)
}

func TestFirstAddressBecomesSelected(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddAddress(ctx, models.Address{
		Label: models.LabelHome, FullAddress: "12 Rue de Carthage", Street: "Rue de Carthage", PostCode: "1000",
	}))
	require.NoError(t, app.AddAddress(ctx, models.Address{
		Label: models.LabelSchool, FullAddress: "5 Avenue Bourguiba", Street: "Avenue Bourguiba", PostCode: "2000",
	}))

	addresses := app.Addresses()
	require.Len(t, addresses, 2)
	selected := app.SelectedAddress()
	require.NotNil(t, selected)
	assert.Equal(t, addresses[0].ID, selected.ID)
}

func TestDeleteSelectedAddressFallsBack(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddAddress(ctx, models.Address{
		Label: models.LabelHome, FullAddress: "12 Rue de Carthage", Street: "Rue de Carthage", PostCode: "1000",
	}))
	require.NoError(t, app.AddAddress(ctx, models.Address{
		Label: models.LabelOther, FullAddress: "5 Avenue Bourguiba", Street: "Avenue Bourguiba", PostCode: "2000",
	}))
	addresses := app.Addresses()

	// Deleting the selected address moves selection to the remaining one.
	require.NoError(t, app.SelectAddress(addresses[1].ID))
	require.NoError(t, app.DeleteAddress(ctx, addresses[1].ID))
	selected := app.SelectedAddress()
	require.NotNil(t, selected)
	assert.Equal(t, addresses[0].ID, selected.ID)

	// Deleting the last address leaves nothing selected.
	require.NoError(t, app.DeleteAddress(ctx, addresses[0].ID))
	assert.Nil(t, app.SelectedAddress())
}

func TestDeleteUnselectedAddressKeepsSelection(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddAddress(ctx, models.Address{
		Label: models.LabelHome, FullAddress: "12 Rue de Carthage", Street: "Rue de Carthage", PostCode: "1000",
	}))
	require.NoError(t, app.AddAddress(ctx, models.Address{
		Label: models.LabelOther, FullAddress: "5 Avenue Bourguiba", Street: "Avenue Bourguiba", PostCode: "2000",
	}))
	addresses := app.Addresses()

	require.NoError(t, app.DeleteAddress(ctx, addresses[1].ID))
	selected := app.SelectedAddress()
	require.NotNil(t, selected)
	assert.Equal(t, addresses[0].ID, selected.ID)
}

func TestSelectAddressMustExist(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)

	assert.ErrorIs(t, app.SelectAddress("addr-missing"), apperr.ErrNotFound)
}

func TestAddPaymentMethodStoresLastFourOnly(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddPaymentMethod(ctx, models.PaymentVisa, "4111 1111 1111 1234", "Amira B", "12/27", "123"))

	methods := app.PaymentMethods()
	require.Len(t, methods, 1)
	assert.Equal(t, "1234", methods[0].CardNumber)
	assert.Equal(t, models.PaymentVisa, methods[0].Type)

	// The first stored method becomes the selection.
	selected := app.SelectedPaymentMethod()
	require.NotNil(t, selected)
	assert.Equal(t, methods[0].ID, selected.ID)

	// Removing it falls back to cash (no stored selection).
	require.NoError(t, app.DeletePaymentMethod(ctx, methods[0].ID))
	assert.Nil(t, app.SelectedPaymentMethod())
}

func TestAddPaymentMethodRejectsCashAndBadCards(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	assert.True(t, apperr.IsValidation(app.AddPaymentMethod(ctx, models.PaymentCash, "", "", "", "")))
	assert.True(t, apperr.IsValidation(app.AddPaymentMethod(ctx, models.PaymentVisa, "4111", "Amira B", "12/27", "123")))
	assert.True(t, apperr.IsValidation(app.AddPaymentMethod(ctx, "bitcoin", "4111111111111234", "Amira B", "12/27", "123")))
	assert.Empty(t, app.PaymentMethods())
}

func TestToggleFavoriteTwiceRestoresSet(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.ToggleFavorite(ctx, "p-couscous"))
	assert.True(t, app.IsFavorite("p-couscous"))
	assert.Equal(t, []string{"p-couscous"}, app.Favorites())

	require.NoError(t, app.ToggleFavorite(ctx, "p-couscous"))
	assert.False(t, app.IsFavorite("p-couscous"))
	assert.Empty(t, app.Favorites())
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))
	require.NoError(t, app.ToggleFavorite(ctx, "p-pizza"))

	require.NoError(t, app.Logout(ctx))

	assert.False(t, app.IsAuthenticated())
	assert.Nil(t, app.Session())
	assert.Empty(t, app.Cart())
	assert.Empty(t, app.Favorites())
	assert.Equal(t, models.User{}, app.User())
}

func TestLogoutDiscardsInflightReload(t *testing.T) {
	t.Parallel()
	app, gw := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))

	// Hold the next cart reload in flight across the logout.
	holds := make(chan chan struct{}, 1)
	gw.InterceptListCart(holds)

	done := make(chan error, 1)
	go func() { done <- app.Refresh(ctx) }()
	release := <-holds

	require.NoError(t, app.Logout(ctx))

	gw.InterceptListCart(nil)
	close(release)
	<-done

	// The late reload must not resurrect the previous user's cart.
	assert.Empty(t, app.Cart())
	assert.False(t, app.IsAuthenticated())
}

func TestStaleReloadLosesToNewerIssued(t *testing.T) {
	t.Parallel()
	app, gw := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.AddToCart(ctx, "p-pizza", 1, "", false))

	// The cart changes remotely; the aggregator has not observed it yet.
	require.NoError(t, gw.UpsertCartItem(ctx, &gateway.CartRow{
		UserID:    app.Session().UserID,
		ProductID: "p-pizza",
		Quantity:  1,
	}))

	holds := make(chan chan struct{})
	gw.InterceptListCart(holds)

	// A screen-focus refresh reads quantity 2 and stalls before delivering.
	refreshDone := make(chan error, 1)
	go func() { refreshDone <- app.Refresh(ctx) }()
	staleRelease := <-holds

	// A mutation lands meanwhile and issues its own reload, which reads
	// quantity 3 and stalls too.
	addDone := make(chan error, 1)
	go func() { addDone <- app.AddToCart(ctx, "p-pizza", 1, "", false) }()
	freshRelease := <-holds

	// The older response arrives first. A newer reload for the slice is
	// already in flight, so the stale view must be discarded, not applied.
	gw.InterceptListCart(nil)
	close(staleRelease)
	require.NoError(t, <-refreshDone)
	cart := app.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)

	// The newer response then lands and wins.
	close(freshRelease)
	require.NoError(t, <-addDone)
	assert.Equal(t, 3, app.Cart()[0].Quantity)
}

func TestManagerEvictsExpiredSessions(t *testing.T) {
	t.Parallel()
	gw := gatewaytest.New()
	gw.SeedUser("Amira", "amira@example.com", "secret123")
	manager := state.NewManager(gw)
	ctx := context.Background()

	app, err := manager.Login(ctx, "amira@example.com", "secret123")
	require.NoError(t, err)
	token := app.Session().Token

	got, err := manager.Get(ctx, token)
	require.NoError(t, err)
	assert.Same(t, app, got)

	// The session expires server-side; the token stops resolving and the
	// aggregator is dropped rather than kept alive forever.
	require.NoError(t, gw.SignOut(ctx, token))

	_, err = manager.Get(ctx, token)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrSessionExpired)

	_, err = manager.Get(ctx, token)
	assert.Error(t, err)
}

func TestSignUpLogsInAndRejectsDuplicates(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	ctx := context.Background()

	require.NoError(t, app.SignUp(ctx, "Karim", "karim@example.com", "hunter22"))
	assert.True(t, app.IsAuthenticated())
	assert.Equal(t, "Karim", app.User().Name)

	err := app.SignUp(ctx, "Karim", "karim@example.com", "hunter22")
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
}

func TestUpdateProfileReloadsUser(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)
	login(t, app)
	ctx := context.Background()

	require.NoError(t, app.UpdateProfile(ctx, "Amira Ben Ali", "+216 20 123 456", "", ""))
	user := app.User()
	assert.Equal(t, "Amira Ben Ali", user.Name)
	assert.Equal(t, "+216 20 123 456", user.Phone)

	assert.True(t, apperr.IsValidation(app.UpdateProfile(ctx, "", "", "", "")))
}

func TestCatalogFilterRunsOverCachedProducts(t *testing.T) {
	t.Parallel()
	app, _ := newApp(t)

	products, err := app.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	tunisian := app.FilterProducts(search.Filter{Category: "Tunisian"})
	require.Len(t, tunisian, 1)
	assert.Equal(t, "Couscous", tunisian[0].Name)
}
