package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"storefront-service/internal/checkout"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))

const noticeSaturated = "saturated"

func (h *Handler) setupPages(pages *gin.RouterGroup) {
	pages.GET("/", h.homePage)
	pages.GET("/products", h.productsPage)
	pages.GET("/products/:id", h.productPage)
	pages.GET("/cart", h.cartPage)
	pages.GET("/checkout", h.checkoutPage)

	pages.POST("/cart/add", h.addToCartForm)
	pages.POST("/cart/update", h.updateCartForm)
	pages.POST("/cart/remove", h.removeFromCartForm)
	pages.POST("/cart/clear", h.clearCartForm)
	pages.POST("/checkout/place", h.placeOrderForm)
}

// render executes a page template with the cart badge count filled in. The
// page is buffered so a template failure turns into an error page.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	data["CartCount"] = 0
	if view, err := h.storefront.Cart(c.Request.Context(), sessionID(c)); err == nil {
		data["CartCount"] = view.ItemCount
	} else {
		h.logger.Warn("Failed to load cart for page", zap.String("page", name), zap.Error(err))
	}

	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.errorPage(c, "Failed to render page", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) errorPage(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": msg,
	})
}

func (h *Handler) homePage(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", gin.H{
		"Title":    "Home",
		"Featured": h.storefront.Featured(),
	})
}

func (h *Handler) productsPage(c *gin.Context) {
	status := http.StatusOK
	notice := ""

	criteria, err := h.parseCriteria(c)
	if err != nil {
		status = http.StatusBadRequest
		notice = "The price limit was not understood, so all prices are shown."
		criteria = h.storefront.DefaultCriteria()
		criteria.Query = c.Query("q")
	}

	h.render(c, status, "products.html", gin.H{
		"Title":  "Products",
		"Notice": notice,
		"Result": h.storefront.Browse(c.Request.Context(), criteria),
	})
}

func (h *Handler) productPage(c *gin.Context) {
	id := c.Param("id")

	product, ok := h.storefront.Product(c.Request.Context(), id)
	if !ok {
		h.render(c, http.StatusNotFound, "not_found.html", gin.H{
			"Title": "Product not found",
			"ID":    id,
		})
		return
	}

	h.render(c, http.StatusOK, "product.html", gin.H{
		"Title":   product.Name,
		"Product": product,
	})
}

func (h *Handler) cartPage(c *gin.Context) {
	view, err := h.storefront.Cart(c.Request.Context(), sessionID(c))
	if err != nil {
		h.errorPage(c, "Failed to load cart", err)
		return
	}

	h.render(c, http.StatusOK, "cart.html", gin.H{
		"Title":     "Cart",
		"Cart":      view,
		"Saturated": c.Query("notice") == noticeSaturated,
	})
}

func (h *Handler) checkoutPage(c *gin.Context) {
	view, err := h.storefront.Checkout(c.Request.Context(), sessionID(c))
	if err != nil {
		h.errorPage(c, "Failed to load checkout", err)
		return
	}

	h.render(c, http.StatusOK, "checkout.html", gin.H{
		"Title":     "Checkout",
		"Checkout":  view,
		"Empty":     view.State == checkout.StateEmpty,
		"Reviewing": view.State == checkout.StateReviewing,
		"Placed":    view.State == checkout.StatePlaced,
	})
}

func (h *Handler) addToCartForm(c *gin.Context) {
	productID := c.PostForm("product_id")
	quantity := formQuantity(c, 1)

	view, err := h.storefront.AddItem(c.Request.Context(), sessionID(c), productID, quantity)
	if errors.Is(err, service.ErrProductNotFound) {
		h.render(c, http.StatusNotFound, "not_found.html", gin.H{
			"Title": "Product not found",
			"ID":    productID,
		})
		return
	}
	if err != nil {
		h.errorPage(c, "Failed to add item", err)
		return
	}

	if view.Saturated {
		c.Redirect(http.StatusSeeOther, "/cart?notice="+noticeSaturated)
		return
	}
	c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("next"), "/cart"))
}

func (h *Handler) updateCartForm(c *gin.Context) {
	productID := c.PostForm("product_id")
	quantity := formQuantity(c, 1)

	if _, err := h.storefront.UpdateQuantity(c.Request.Context(), sessionID(c), productID, quantity); err != nil {
		h.errorPage(c, "Failed to update item", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *Handler) removeFromCartForm(c *gin.Context) {
	if _, err := h.storefront.RemoveItem(c.Request.Context(), sessionID(c), c.PostForm("product_id")); err != nil {
		h.errorPage(c, "Failed to remove item", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *Handler) clearCartForm(c *gin.Context) {
	if _, err := h.storefront.ClearCart(c.Request.Context(), sessionID(c)); err != nil {
		h.errorPage(c, "Failed to clear cart", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/cart")
}

func (h *Handler) placeOrderForm(c *gin.Context) {
	_, err := h.storefront.PlaceOrder(c.Request.Context(), sessionID(c))
	if err != nil && !errors.Is(err, checkout.ErrCartEmpty) {
		h.errorPage(c, "Failed to place order", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/checkout")
}

// formQuantity parses the quantity field. Unparseable input falls back to
// def; range clamping is left to the cart.
func formQuantity(c *gin.Context, def int) int {
	q, err := strconv.Atoi(strings.TrimSpace(c.PostForm("quantity")))
	if err != nil {
		return def
	}
	return q
}

// safeRedirect only allows local absolute paths
func safeRedirect(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}
