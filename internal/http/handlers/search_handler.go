package handlers

import (
	"strings"

	"noithat/internal/log"
	"noithat/internal/services"
	"noithat/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" && c.Query("category") == "" {
		// Initial page load: show empty search without errors
		return render(c, "search", fiber.Map{"Q": "", "Products": []any{}, "Count": 0})
	}
	q := ""
	if strings.TrimSpace(rawQ) != "" {
		var ok bool
		q, ok = validate.Q(rawQ)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": rawQ})
			return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
				"Q": "", "Products": []any{}, "Count": 0, "Err": "Từ khóa chỉ gồm chữ và số",
			})
		}
		q = strings.ToLower(q)
	}

	var catID int64
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		var ok bool
		catID, ok = validate.ID(raw)
		if !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("search", fiber.Map{
				"Q": q, "Products": []any{}, "Count": 0, "Err": "Danh mục không hợp lệ",
			})
		}
	}

	var minPrice, maxPrice int64
	if raw := strings.TrimSpace(c.Query("min_price")); raw != "" {
		minPrice, _ = validate.Price(raw)
	}
	if raw := strings.TrimSpace(c.Query("max_price")); raw != "" {
		maxPrice, _ = validate.Price(raw)
	}

	products, err := h.Catalog.Search(q, catID, minPrice, maxPrice, 1, 20)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Không tải được kết quả, vui lòng thử lại"})
	}

	return render(c, "search", fiber.Map{
		"Q": q, "CategoryID": catID, "MinPrice": minPrice, "MaxPrice": maxPrice,
		"Products": products, "Count": len(products),
	})
}
