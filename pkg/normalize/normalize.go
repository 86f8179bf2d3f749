// Package normalize maps gateway row shapes onto the application's domain
// types. All functions are pure and defensive: null columns default, decimal
// columns arriving as strings are coerced, and joined sub-rows that are
// missing or malformed are skipped rather than surfaced as errors.
package normalize

import (
	"strconv"

	"github.com/example/fooddash/pkg/gateway"
	"github.com/example/fooddash/pkg/models"
)

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// decimal coerces a DECIMAL column surfaced as a string. Unparseable values
// normalize to zero, matching how the client treats a null price.
func decimal(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func User(row *gateway.UserRow) models.User {
	if row == nil {
		return models.User{}
	}
	return models.User{
		ID:     row.ID,
		Name:   row.Name,
		Email:  row.Email,
		Phone:  str(row.Phone),
		Bio:    str(row.Bio),
		Avatar: str(row.AvatarURL),
	}
}

func Address(row gateway.AddressRow) models.Address {
	return models.Address{
		ID:          row.ID,
		Label:       models.AddressLabel(row.Label),
		FullAddress: row.FullAddress,
		Street:      row.Street,
		PostCode:    row.PostCode,
		Apartment:   str(row.Apartment),
	}
}

func Addresses(rows []gateway.AddressRow) []models.Address {
	out := make([]models.Address, 0, len(rows))
	for _, row := range rows {
		out = append(out, Address(row))
	}
	return out
}

func Product(row gateway.ProductRow) models.Product {
	p := models.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: str(row.Description),
		Price:       decimal(row.Price),
		Image:       row.ImageURL,
		Rating:      decimal(row.Rating),
		CookTime:    row.CookTime,
		Servings:    row.Servings,
		Category:    row.Category,
		Calories:    num(row.Calories),
		Protein:     num(row.Protein),
		Fiber:       num(row.Fiber),
		Water:       num(row.Water),
		Fat:         num(row.Fat),
	}
	if len(row.Ingredients) > 0 {
		p.Ingredients = make([]models.Ingredient, 0, len(row.Ingredients))
		for _, ing := range row.Ingredients {
			p.Ingredients = append(p.Ingredients, models.Ingredient{
				Name:     ing.Name,
				Cooked:   ing.Cooked,
				Calories: ing.Calories,
				Protein:  ing.Protein,
				Fiber:    ing.Fiber,
				Water:    ing.Water,
				Fat:      ing.Fat,
			})
		}
	}
	return p
}

func Products(rows []gateway.ProductRow) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, Product(row))
	}
	return out
}

// CartItems drops rows whose joined product is missing; a dish removed from
// the catalog must not crash the cart view.
func CartItems(rows []gateway.CartRow) []models.CartItem {
	out := make([]models.CartItem, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil || row.Product.ID == "" {
			continue
		}
		out = append(out, models.CartItem{
			ID:       row.ID,
			Product:  Product(*row.Product),
			Quantity: row.Quantity,
			Size:     models.Size(str(row.Size)),
			Cooked:   row.Cooked,
		})
	}
	return out
}

func PaymentMethod(row gateway.PaymentMethodRow) models.PaymentMethod {
	return models.PaymentMethod{
		ID:         row.ID,
		Type:       models.PaymentType(row.Type),
		CardNumber: str(row.CardNumber),
		CardHolder: str(row.CardHolder),
		ExpiryDate: str(row.ExpiryDate),
	}
}

func PaymentMethods(rows []gateway.PaymentMethodRow) []models.PaymentMethod {
	out := make([]models.PaymentMethod, 0, len(rows))
	for _, row := range rows {
		out = append(out, PaymentMethod(row))
	}
	return out
}

func Order(row gateway.OrderRow) models.Order {
	o := models.Order{
		ID:          row.OrderNumber,
		Total:       decimal(row.Total),
		DeliveryFee: decimal(row.DeliveryFee),
		Status:      models.OrderStatus(row.Status),
		Date:        row.CreatedAt,
		Address:     row.Address,
		Items:       make([]models.OrderItem, 0, len(row.Items)),
	}
	if row.CourierName != nil {
		o.Courier = &models.Courier{
			Name:   *row.CourierName,
			Avatar: str(row.CourierAvatar),
		}
	}
	for _, it := range row.Items {
		o.Items = append(o.Items, models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Image:       it.ImageURL,
			UnitPrice:   decimal(it.UnitPrice),
			Quantity:    it.Quantity,
			Size:        models.Size(str(it.Size)),
			Cooked:      it.Cooked,
		})
	}
	return o
}

func Orders(rows []gateway.OrderRow) []models.Order {
	out := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, Order(row))
	}
	return out
}

// FavoriteSet collapses favorites rows into the membership set the client
// toggles against.
func FavoriteSet(rows []gateway.FavoriteRow) map[string]struct{} {
	out := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		out[row.ProductID] = struct{}{}
	}
	return out
}
