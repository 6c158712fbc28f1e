package handlers

import (
	"strconv"
	"strings"

	"noithat/internal/domain"
	applog "noithat/internal/log"
	"noithat/internal/repos"
	"noithat/internal/services"
	"noithat/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Orders *repos.OrderRepo
	Cats   *repos.CategoryRepo
	Prods  *repos.ProductRepo
	Attrs  *repos.AttributeRepo
	Promos *repos.PromotionRepo
	Users  *repos.UserRepo
	Stats  *services.StatsService
	Order  *services.OrderService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	ov, err := h.Stats.Overview(30, 10)
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load statistics"})
	}
	return render(c, "admin_dashboard", fiber.Map{"Stats": ov})
}

// ---------- Orders ----------

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status, ok := validate.OrderStatus(c.FormValue("status"))
	if id == "" || !ok {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.Orders.UpdateStatus(id, status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	// Moving to SHIPPING registers the delivery with the carrier. Fee and
	// tracking failures don't roll the status back; the code can be retried.
	if status == "SHIPPING" {
		districtID, _ := strconv.Atoi(c.FormValue("districtId"))
		wardCode := strings.TrimSpace(c.FormValue("wardCode"))
		code, err := h.Order.CreateShipment(c.Context(), id, services.DeliveryAddress{
			DistrictID: districtID, WardCode: wardCode,
		})
		if err != nil {
			applog.Error(c, "admin.orders.ship.fail", err, map[string]any{"order_id": id})
		} else {
			applog.Audit(c, "admin.orders.ship", map[string]any{"order_id": id, "shipping_code": code})
		}
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders")
}

// ---------- Products ----------

// GET /admin/products
func (h *AdminHandler) ProductsPage(c *fiber.Ctx) error {
	prods, err := h.Prods.ListAll(200, 0)
	if err != nil {
		applog.Error(c, "admin.products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	cats, _ := h.Cats.List()
	colors, _ := h.Attrs.ListColors()
	sizes, _ := h.Attrs.ListSizes()
	return render(c, "admin_products", fiber.Map{
		"Products": prods, "Categories": cats, "Colors": colors, "Sizes": sizes,
	})
}

// POST /admin/products saves a product; an id field means update.
func (h *AdminHandler) SaveProduct(c *fiber.Ctx) error {
	catID, okCat := validate.ID(c.FormValue("categoryId"))
	name, okName := validate.Name(c.FormValue("name"))
	price, okPrice := validate.Price(c.FormValue("price"))
	if !okCat || !okName || !okPrice {
		return c.Status(400).SendString("invalid input")
	}

	atoi := func(field string) int {
		n, _ := strconv.Atoi(c.FormValue(field))
		if n < 0 {
			n = 0
		}
		return n
	}
	p := domain.Product{
		CategoryID:  catID,
		Name:        name,
		Description: c.FormValue("description"),
		Price:       price,
		Image:       c.FormValue("image"),
		Available:   c.FormValue("available") != "0",
		Color:       c.FormValue("color"),
		Size:        c.FormValue("size"),
		Weight:      atoi("weight"),
		Length:      atoi("length"),
		Width:       atoi("width"),
		Height:      atoi("height"),
	}

	if idRaw := c.FormValue("id"); idRaw != "" {
		id, ok := validate.ID(idRaw)
		if !ok {
			return c.Status(400).SendString("invalid id")
		}
		p.ID = id
		if err := h.Prods.Update(p); err != nil {
			applog.Error(c, "admin.products.update.fail", err, map[string]any{"product_id": id})
			return c.Status(400).SendString("could not save product")
		}
		applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	} else {
		id, err := h.Prods.Create(p)
		if err != nil {
			applog.Error(c, "admin.products.create.fail", err, nil)
			return c.Status(400).SendString("could not save product")
		}
		applog.Audit(c, "admin.products.create", map[string]any{"product_id": id})
	}
	return c.Redirect("/admin/products")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	if err := h.Prods.Delete(id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product_id": id})
		return c.Status(400).SendString("could not delete product")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.Redirect("/admin/products")
}

// ---------- Categories ----------

// GET /admin/categories
func (h *AdminHandler) CategoriesPage(c *fiber.Ctx) error {
	cats, err := h.Cats.List()
	if err != nil {
		applog.Error(c, "admin.categories.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load categories"})
	}
	return render(c, "admin_categories", fiber.Map{"Categories": cats})
}

// POST /admin/categories creates or renames.
func (h *AdminHandler) SaveCategory(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("invalid name")
	}
	if idRaw := c.FormValue("id"); idRaw != "" {
		id, okID := validate.ID(idRaw)
		if !okID {
			return c.Status(400).SendString("invalid id")
		}
		if err := h.Cats.Rename(id, name); err != nil {
			applog.Error(c, "admin.categories.rename.fail", err, map[string]any{"category_id": id})
			return c.Status(400).SendString("could not save category")
		}
	} else if _, err := h.Cats.Create(name); err != nil {
		applog.Error(c, "admin.categories.create.fail", err, nil)
		return c.Status(400).SendString("could not save category")
	}
	applog.Audit(c, "admin.categories.save", map[string]any{"name": name})
	return c.Redirect("/admin/categories")
}

// POST /admin/categories/:id/delete — fails while products still reference it.
func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	if err := h.Cats.Delete(id); err != nil {
		applog.Error(c, "admin.categories.delete.fail", err, map[string]any{"category_id": id})
		return c.Status(400).SendString("category still has products")
	}
	applog.Audit(c, "admin.categories.delete", map[string]any{"category_id": id})
	return c.Redirect("/admin/categories")
}

// ---------- Colors & sizes ----------

// GET /admin/attributes
func (h *AdminHandler) AttributesPage(c *fiber.Ctx) error {
	colors, err := h.Attrs.ListColors()
	if err != nil {
		applog.Error(c, "admin.attributes.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load attributes"})
	}
	sizes, _ := h.Attrs.ListSizes()
	return render(c, "admin_attributes", fiber.Map{"Colors": colors, "Sizes": sizes})
}

// POST /admin/colors
func (h *AdminHandler) SaveColor(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("invalid name")
	}
	if err := h.Attrs.UpsertColor(name, strings.TrimSpace(c.FormValue("code"))); err != nil {
		applog.Error(c, "admin.colors.save.fail", err, map[string]any{"name": name})
		return c.Status(400).SendString("could not save color")
	}
	applog.Audit(c, "admin.colors.save", map[string]any{"name": name})
	return c.Redirect("/admin/attributes")
}

// POST /admin/colors/:id/delete
func (h *AdminHandler) DeleteColor(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	if err := h.Attrs.DeleteColor(id); err != nil {
		return c.Status(400).SendString("could not delete color")
	}
	applog.Audit(c, "admin.colors.delete", map[string]any{"color_id": id})
	return c.Redirect("/admin/attributes")
}

// POST /admin/sizes
func (h *AdminHandler) SaveSize(c *fiber.Ctx) error {
	label, ok := validate.Name(c.FormValue("label"))
	if !ok {
		return c.Status(400).SendString("invalid label")
	}
	if err := h.Attrs.UpsertSize(label); err != nil {
		applog.Error(c, "admin.sizes.save.fail", err, map[string]any{"label": label})
		return c.Status(400).SendString("could not save size")
	}
	applog.Audit(c, "admin.sizes.save", map[string]any{"label": label})
	return c.Redirect("/admin/attributes")
}

// POST /admin/sizes/:id/delete
func (h *AdminHandler) DeleteSize(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	if err := h.Attrs.DeleteSize(id); err != nil {
		return c.Status(400).SendString("could not delete size")
	}
	applog.Audit(c, "admin.sizes.delete", map[string]any{"size_id": id})
	return c.Redirect("/admin/attributes")
}

// ---------- Promotions ----------

// GET /admin/promotions
func (h *AdminHandler) PromotionsPage(c *fiber.Ctx) error {
	promos, err := h.Promos.List()
	if err != nil {
		applog.Error(c, "admin.promotions.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load promotions"})
	}
	return render(c, "admin_promotions", fiber.Map{"Promotions": promos})
}

// POST /admin/promotions creates or updates a code.
func (h *AdminHandler) SavePromotion(c *fiber.Ctx) error {
	code, ok := validate.PromoCode(c.FormValue("code"))
	if !ok {
		return c.Status(400).SendString("invalid code")
	}
	percent, _ := strconv.Atoi(c.FormValue("percent"))
	amount, okAmt := validate.Price(c.FormValue("amount"))
	if percent < 0 || percent > 100 || !okAmt {
		return c.Status(400).SendString("invalid discount")
	}
	p := domain.Promotion{
		Code:     code,
		Percent:  percent,
		Amount:   amount,
		StartsAt: strings.TrimSpace(c.FormValue("startsAt")),
		EndsAt:   strings.TrimSpace(c.FormValue("endsAt")),
		Active:   c.FormValue("active") != "0",
	}

	if idRaw := c.FormValue("id"); idRaw != "" {
		id, okID := validate.ID(idRaw)
		if !okID {
			return c.Status(400).SendString("invalid id")
		}
		p.ID = id
		if err := h.Promos.Update(p); err != nil {
			applog.Error(c, "admin.promotions.update.fail", err, map[string]any{"promo_id": id})
			return c.Status(400).SendString("could not save promotion")
		}
	} else if _, err := h.Promos.Create(p); err != nil {
		applog.Error(c, "admin.promotions.create.fail", err, map[string]any{"code": code})
		return c.Status(400).SendString("could not save promotion")
	}
	applog.Audit(c, "admin.promotions.save", map[string]any{"code": code})
	return c.Redirect("/admin/promotions")
}

// POST /admin/promotions/:id/delete
func (h *AdminHandler) DeletePromotion(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("invalid id")
	}
	if err := h.Promos.Delete(id); err != nil {
		return c.Status(400).SendString("could not delete promotion")
	}
	applog.Audit(c, "admin.promotions.delete", map[string]any{"promo_id": id})
	return c.Redirect("/admin/promotions")
}

// ---------- Users ----------

// UsersPage lists users (excluding admin).
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// DeleteUser deletes a user and related data, cancels their orders.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
