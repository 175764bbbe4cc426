package httpserver

import (
	"net/http"

	"aurora-commerce/internal/domain"
	catalogsvc "aurora-commerce/internal/service/catalog"
	cartsvc "aurora-commerce/internal/service/cart"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Qty       int    `json:"qty"`
	Preorder  bool   `json:"preorder"`
}

type lineKeyRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Preorder  bool   `json:"preorder"`
}

func (r lineKeyRequest) key() domain.LineKey {
	return domain.LineKey{ProductID: r.ProductID, Size: r.Size, Preorder: r.Preorder}
}

type changeItemRequest struct {
	lineKeyRequest
	Delta int `json:"delta"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type stockRequest struct {
	Delta int `json:"delta"`
}

func (h *handlers) listProducts(c *gin.Context) {
	order, err := catalogsvc.ParseSort(c.Query("sort"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	products, err := h.deps.CatalogSvc.List(c.Request.Context(), order)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": products, "count": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.CatalogSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) getCart(c *gin.Context) {
	h.respondCart(c, http.StatusOK)
}

func (h *handlers) respondCart(c *gin.Context, status int) {
	view, err := h.deps.CartSvc.View(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(status, view)
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	_, err := h.deps.CartSvc.AddItem(c.Request.Context(), cartsvc.AddInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Qty:       req.Qty,
		Preorder:  req.Preorder,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCart(c, http.StatusOK)
}

func (h *handlers) changeCartItem(c *gin.Context) {
	var req changeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if _, err := h.deps.CartSvc.ChangeQuantity(c.Request.Context(), req.key(), req.Delta); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCart(c, http.StatusOK)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	var req lineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if _, err := h.deps.CartSvc.RemoveItem(c.Request.Context(), req.key()); err != nil {
		h.writeError(c, err)
		return
	}
	h.respondCart(c, http.StatusOK)
}

func (h *handlers) clearCart(c *gin.Context) {
	if err := h.deps.CartSvc.Clear(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) checkout(c *gin.Context) {
	var customer domain.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		h.badRequest(c, err)
		return
	}
	order, err := h.deps.CheckoutSvc.Checkout(c.Request.Context(), customer)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) getOrder(c *gin.Context) {
	order, err := h.deps.OrderSvc.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.deps.OrderSvc.Recent(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"results": orders, "count": len(orders)})
}

func (h *handlers) setOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	order, err := h.deps.OrderSvc.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) adjustStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	p, err := h.deps.CatalogSvc.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) upsertProduct(c *gin.Context) {
	var p domain.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		h.badRequest(c, err)
		return
	}
	if p.ID == "" {
		p.ID = c.Param("id")
	}
	if p.ID != c.Param("id") {
		abortWithError(c, http.StatusUnprocessableEntity, "product id in body does not match path")
		return
	}
	saved, err := h.deps.CatalogSvc.Upsert(c.Request.Context(), p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
