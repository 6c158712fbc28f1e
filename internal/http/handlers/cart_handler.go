package handlers

import (
	"noithat/internal/services"
	"noithat/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	return render(c, "cart", fiber.Map{"Cart": h.Cart.View(sid)})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))
	if err := h.Cart.Add(sid, productID, qty); err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Sản phẩm này không còn nữa"})
	}
	return c.Redirect("/cart")
}

// Update sets an item's quantity; zero or less removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	qty := 0
	if raw := c.FormValue("qty"); raw != "" && raw != "0" {
		qty = validate.Qty(raw)
	}
	h.Cart.SetQuantity(sid, productID, qty)
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		return c.Status(400).SendString("missing productId")
	}
	h.Cart.Remove(sid, productID)
	return c.Redirect("/cart")
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	h.Cart.Clear(ensureSID(c))
	return c.Redirect("/cart")
}

// Summary feeds the cart badge in the page header.
func (h *CartHandler) Summary(c *fiber.Ctx) error {
	cv := h.Cart.View(ensureSID(c))
	return c.JSON(fiber.Map{"count": cv.Count, "total": cv.Total})
}
