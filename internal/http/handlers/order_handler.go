package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"noithat/internal/domain"
	applog "noithat/internal/log"
	"noithat/internal/repos"
	"noithat/internal/services"
	"noithat/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
	Auth  *services.AuthService
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv := h.Cart.View(ensureSID(c))
	if len(cv.Items) == 0 {
		return c.Redirect("/cart")
	}
	return render(c, "checkout", fiber.Map{"Cart": cv})
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid name")
	}
	email, ok := validate.Email(c.FormValue("email"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid email")
	}
	phone, ok := validate.Phone(c.FormValue("phone"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "phone"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid phone")
	}
	street, ok := validate.Address(c.FormValue("address"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "address"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid address")
	}

	promo := ""
	if raw := c.FormValue("promo"); strings.TrimSpace(raw) != "" {
		code, ok := validate.PromoCode(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "promo"})
			return c.Status(fiber.StatusBadRequest).SendString("invalid promotion code")
		}
		promo = code
	}

	// GHN address codes come from the district/ward pickers; optional.
	districtID, _ := strconv.Atoi(c.FormValue("districtId"))
	wardCode := strings.TrimSpace(c.FormValue("wardCode"))

	method := strings.ToLower(strings.TrimSpace(c.FormValue("payment")))
	if method == "" {
		method = "cod"
	}

	res, err := h.Order.Place(c.Context(), services.PlaceInput{
		SessionID:     sid,
		Contact:       services.Contact{Name: name, Email: email, Phone: phone},
		Address:       services.DeliveryAddress{Street: street, WardCode: wardCode, DistrictID: districtID},
		PromoCode:     promo,
		PaymentMethod: method,
	})
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString("Không thể đặt hàng, vui lòng kiểm tra lại giỏ hàng")
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.OrderID,
		"total":    res.Total,
		"payment":  method,
		"promo":    res.PromoApplied,
	})

	// Gateway payments hand the customer off to the pay page.
	if res.PayURL != "" {
		return c.Redirect(res.PayURL)
	}
	return c.Redirect("/order/" + res.OrderID)
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid := c.Params("id")
	if oid == "" {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	// Ownership check: session owner or same user via sessions.user_id; admins allowed
	sid := c.Cookies("sid")
	var uID string
	var uRole string
	if h.Auth != nil && sid != "" {
		if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
			uID = u.ID
			uRole = u.Role
		}
	}
	if !(sid != "" && sid == o.SessionID) && !(uID != "" && uID == o.UserID) {
		if uRole == "ADMIN" {
			return render(c, "order", fiber.Map{"Order": o, "Items": items})
		}
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o, "Items": items})
}

// History lists orders for the current logged-in user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Repo.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	// Fallback: show session orders if none linked to user (e.g., pre-login)
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

// PaymentReturn is where gateways send the customer after paying. The page
// only reflects the redirect parameters; PAID is set by the server-to-server
// notification, never here.
func (h *OrderHandler) PaymentReturn(c *fiber.Ctx) error {
	orderID := c.Query("orderId")
	if orderID == "" {
		// ZaloPay embeds the order id in apptransid as yymmdd_<id>.
		if atid := c.Query("apptransid"); atid != "" {
			if _, rest, found := strings.Cut(atid, "_"); found {
				orderID = rest
			}
		}
	}
	ok := c.Query("resultCode") == "0" || c.Query("status") == "1"
	return render(c, "payment_return", fiber.Map{"OrderID": orderID, "OK": ok})
}

// momoIPN is the body Momo posts on payment completion.
type momoIPN struct {
	PartnerCode  string `json:"partnerCode"`
	OrderID      string `json:"orderId"`
	RequestID    string `json:"requestId"`
	Amount       int64  `json:"amount"`
	OrderInfo    string `json:"orderInfo"`
	OrderType    string `json:"orderType"`
	TransID      int64  `json:"transId"`
	ResultCode   int    `json:"resultCode"`
	Message      string `json:"message"`
	PayType      string `json:"payType"`
	ResponseTime int64  `json:"responseTime"`
	ExtraData    string `json:"extraData"`
	Signature    string `json:"signature"`
}

// MomoIPN marks an order paid on a verified gateway notification.
func (h *OrderHandler) MomoIPN(c *fiber.Ctx) error {
	var in momoIPN
	if err := c.BodyParser(&in); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if !h.Order.VerifyMomoIPN(in.Signature, momoIPNSignPayload(h.Order.MomoAccessKey(), in)) {
		applog.Security(c, "payment.ipn.bad_signature", map[string]any{"order_id": in.OrderID})
		return c.SendStatus(fiber.StatusForbidden)
	}
	if in.ResultCode == 0 {
		if err := h.Order.MarkPaid(in.OrderID); err != nil {
			applog.Error(c, "payment.ipn.mark_paid", err, map[string]any{"order_id": in.OrderID})
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		applog.Audit(c, "payment.paid", map[string]any{"order_id": in.OrderID, "trans_id": in.TransID})
	}
	// Momo expects 204 to stop retrying.
	return c.SendStatus(fiber.StatusNoContent)
}

func momoIPNSignPayload(accessKey string, in momoIPN) string {
	return "accessKey=" + accessKey +
		"&amount=" + strconv.FormatInt(in.Amount, 10) +
		"&extraData=" + in.ExtraData +
		"&message=" + in.Message +
		"&orderId=" + in.OrderID +
		"&orderInfo=" + in.OrderInfo +
		"&orderType=" + in.OrderType +
		"&partnerCode=" + in.PartnerCode +
		"&payType=" + in.PayType +
		"&requestId=" + in.RequestID +
		"&responseTime=" + strconv.FormatInt(in.ResponseTime, 10) +
		"&resultCode=" + strconv.Itoa(in.ResultCode) +
		"&transId=" + strconv.FormatInt(in.TransID, 10)
}
