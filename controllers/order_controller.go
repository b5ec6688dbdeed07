package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/middleware"
	"github.com/kgn-corner/restaurant-api/services"
)

// CreateOrder handles POST /api/orders - places an order for a guest or the signed-in user.
// Prices always come from the menu, never from the request.
func CreateOrder(c *gin.Context) {
	var req services.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := services.CreateOrder(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusCreated, "Order placed successfully", order)
}

// ListOrders handles GET /api/orders?status=&startDate=&endDate= (admin)
func ListOrders(c *gin.Context) {
	filter := services.OrderFilter{
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	orders, err := services.ListOrders(c.Request.Context(), config.GetDB(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, orders)
}

// ListMyOrders handles GET /api/orders/user/my
func ListMyOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	orders, err := services.ListUserOrders(c.Request.Context(), config.GetDB(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, orders)
}

// GetOrder handles GET /api/orders/:id - admins see any order, customers their own
func GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	order, err := services.GetOrder(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// UpdateOrder handles PUT /api/orders/:id (admin) - status, payment status, ETA and notes
func UpdateOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := services.UpdateOrder(c.Request.Context(), config.GetDB(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder handles DELETE /api/orders/:id (admin)
func DeleteOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteOrder(c.Request.Context(), config.GetDB(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Order deleted", nil)
}

// CreatePaymentIntent handles POST /api/orders/:id/payment/intent
func CreatePaymentIntent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	intent, err := services.CreatePaymentIntent(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, intent)
}

// ProcessPayment handles POST /api/orders/:id/payment
func ProcessPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req services.PaymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	order, err := services.ProcessPayment(c.Request.Context(), config.GetDB(), middleware.CurrentUserOrNil(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Payment successful", order)
}
