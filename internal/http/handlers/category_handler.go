package handlers

import (
	"strconv"

	"noithat/internal/services"
	"noithat/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	featured, err := h.Catalog.Featured(8)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "home", fiber.Map{"Categories": cats, "Featured": featured})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	products, err := h.Catalog.ListProductsByCategory(catID, page, 12)
	if err != nil {
		return c.Status(500).SendString(err.Error())
	}
	return render(c, "category", fiber.Map{"CategoryID": catID, "Products": products, "Page": page})
}
