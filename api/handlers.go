package api

import (
	"net/http"
	"strconv"

	"github.com/example/fooddash/pkg/models"
	"github.com/example/fooddash/pkg/search"
	"github.com/gin-gonic/gin"
)

// Auth.

type signUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := s.manager.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token": app.Session().Token,
		"user":  app.User(),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app, err := s.manager.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": app.Session().Token,
		"user":  app.User(),
	})
}

func (s *Server) logout(c *gin.Context) {
	token := c.MustGet(ctxToken).(string)
	if err := s.manager.Logout(c.Request.Context(), token); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Catalog.

func (s *Server) listProducts(c *gin.Context) {
	catalog := s.manager.Catalog()
	if category := c.Query("category"); category != "" {
		products, err := catalog.ProductsByCategory(c.Request.Context(), category)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
		return
	}
	products, err := catalog.Products(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.manager.Catalog().Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (s *Server) searchProducts(c *gin.Context) {
	f := search.Filter{
		Query:       c.Query("q"),
		Category:    c.Query("category"),
		DeliverTime: search.DeliveryBucket(c.Query("deliver_time")),
	}
	if v := c.Query("price_min"); v != "" {
		f.PriceMin, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("price_max"); v != "" {
		f.PriceMax, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("min_rating"); v != "" {
		f.MinRating, _ = strconv.ParseFloat(v, 64)
	}

	catalog := s.manager.Catalog()
	if _, err := catalog.Products(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	products := catalog.FilterProducts(f)
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

// Profile.

func (s *Server) getProfile(c *gin.Context) {
	app := s.app(c)
	c.JSON(http.StatusOK, gin.H{
		"user":      app.User(),
		"onboarded": app.HasCompletedOnboarding(),
		"favorites": app.Favorites(),
	})
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

func (s *Server) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app := s.app(c)
	if err := app.UpdateProfile(c.Request.Context(), req.Name, req.Phone, req.Bio, req.Avatar); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.User())
}

func (s *Server) completeOnboarding(c *gin.Context) {
	if err := s.app(c).CompleteOnboarding(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) activity(c *gin.Context) {
	if s.audit == nil {
		c.JSON(http.StatusOK, gin.H{"activity": []interface{}{}})
		return
	}
	app := s.app(c)
	logs, err := s.audit.UserActivity(c.Request.Context(), app.User().ID, 50)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": logs})
}

// Cart.

func (s *Server) getCart(c *gin.Context) {
	app := s.app(c)
	c.JSON(http.StatusOK, gin.H{
		"items": app.Cart(),
		"total": app.CartTotal(),
	})
}

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
	Cooked    bool   `json:"cooked"`
}

func (s *Server) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app := s.app(c)
	err := app.AddToCart(c.Request.Context(), req.ProductID, req.Quantity, models.Size(req.Size), req.Cooked)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": app.Cart(), "total": app.CartTotal()})
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app := s.app(c)
	if err := app.UpdateCartItem(c.Request.Context(), c.Param("id"), req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": app.Cart(), "total": app.CartTotal()})
}

func (s *Server) removeFromCart(c *gin.Context) {
	app := s.app(c)
	if err := app.RemoveFromCart(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": app.Cart(), "total": app.CartTotal()})
}

func (s *Server) clearCart(c *gin.Context) {
	app := s.app(c)
	if err := app.ClearCart(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": app.Cart(), "total": app.CartTotal()})
}

// Addresses.

func (s *Server) listAddresses(c *gin.Context) {
	app := s.app(c)
	resp := gin.H{"addresses": app.Addresses()}
	if selected := app.SelectedAddress(); selected != nil {
		resp["selected"] = selected.ID
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) addAddress(c *gin.Context) {
	var addr models.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app := s.app(c)
	if err := app.AddAddress(c.Request.Context(), addr); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"addresses": app.Addresses()})
}

func (s *Server) updateAddress(c *gin.Context) {
	var addr models.Address
	if err := c.ShouldBindJSON(&addr); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	addr.ID = c.Param("id")
	app := s.app(c)
	if err := app.UpdateAddress(c.Request.Context(), addr); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": app.Addresses()})
}

func (s *Server) deleteAddress(c *gin.Context) {
	app := s.app(c)
	if err := app.DeleteAddress(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	resp := gin.H{"addresses": app.Addresses()}
	if selected := app.SelectedAddress(); selected != nil {
		resp["selected"] = selected.ID
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) selectAddress(c *gin.Context) {
	if err := s.app(c).SelectAddress(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Payment methods.

func (s *Server) listPaymentMethods(c *gin.Context) {
	app := s.app(c)
	resp := gin.H{"methods": app.PaymentMethods()}
	if selected := app.SelectedPaymentMethod(); selected != nil {
		resp["selected"] = selected.ID
	}
	c.JSON(http.StatusOK, resp)
}

type addPaymentMethodRequest struct {
	Type       string `json:"type" binding:"required"`
	CardNumber string `json:"card_number"`
	CardHolder string `json:"card_holder"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

func (s *Server) addPaymentMethod(c *gin.Context) {
	var req addPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	app := s.app(c)
	err := app.AddPaymentMethod(c.Request.Context(), models.PaymentType(req.Type), req.CardNumber, req.CardHolder, req.ExpiryDate, req.CVV)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"methods": app.PaymentMethods()})
}

func (s *Server) deletePaymentMethod(c *gin.Context) {
	app := s.app(c)
	if err := app.DeletePaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"methods": app.PaymentMethods()})
}

func (s *Server) selectPaymentMethod(c *gin.Context) {
	if err := s.app(c).SelectPaymentMethod(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Favorites.

func (s *Server) listFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"favorites": s.app(c).Favorites()})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	app := s.app(c)
	productID := c.Param("productId")
	if err := app.ToggleFavorite(c.Request.Context(), productID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": app.IsFavorite(productID)})
}

// Orders.

func (s *Server) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": s.app(c).Orders()})
}

func (s *Server) createOrder(c *gin.Context) {
	app := s.app(c)
	number, err := app.CreateOrder(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_number": number, "orders": app.Orders()})
}

func (s *Server) cancelOrder(c *gin.Context) {
	app := s.app(c)
	if err := app.CancelOrder(c.Request.Context(), c.Param("number")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": app.Orders()})
}
