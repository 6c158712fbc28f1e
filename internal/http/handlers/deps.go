package handlers

import (
	"noithat/internal/config"
	"noithat/internal/payment"
	"noithat/internal/repos"
	"noithat/internal/services"
	"noithat/internal/shipping"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	CategoryHandler *CategoryHandler
	ProductHandler  *ProductHandler
	SearchHandler   *SearchHandler
	CartHandler     *CartHandler
	OrderHandler    *OrderHandler
	AdminHandler    *AdminHandler

	CartSlots *repos.CartSlotRepo
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	slotRepo := repos.NewCartSlotRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	promoRepo := repos.NewPromotionRepo(db)
	attrRepo := repos.NewAttributeRepo(db)
	statsRepo := repos.NewStatsRepo(db)
	userRepo := repos.NewUserRepo(db)

	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	cartSvc := services.NewCartService(slotRepo, prodRepo)
	promoSvc := services.NewPromotionService(promoRepo)
	statsSvc := services.NewStatsService(statsRepo)

	orderSvc := services.NewOrderService(cartSvc, orderRepo, prodRepo, promoSvc)
	orderSvc.Ship = shipping.NewGHNClient(shipping.GHNConfig{
		Token:          cfg.GHNToken,
		ShopID:         cfg.GHNShopID,
		FromDistrictID: cfg.GHNFromDistrictID,
	})
	orderSvc.Momo = payment.NewMomoClient(payment.MomoConfig{
		PartnerCode: cfg.MomoPartnerCode,
		AccessKey:   cfg.MomoAccessKey,
		SecretKey:   cfg.MomoSecretKey,
		RedirectURL: cfg.PaymentReturnURL,
		IPNURL:      cfg.MomoIPNURL,
	})
	orderSvc.Zalo = payment.NewZaloPayClient(payment.ZaloPayConfig{
		AppID:       cfg.ZaloPayAppID,
		Key1:        cfg.ZaloPayKey1,
		CallbackURL: cfg.ZaloPayCallbackURL,
		RedirectURL: cfg.PaymentReturnURL,
	})

	return &Deps{
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc},
		SearchHandler:   &SearchHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		OrderHandler:    &OrderHandler{Cart: cartSvc, Order: orderSvc, Repo: orderRepo, Auth: auth},
		AdminHandler: &AdminHandler{
			Orders: orderRepo,
			Cats:   catRepo,
			Prods:  prodRepo,
			Attrs:  attrRepo,
			Promos: promoRepo,
			Users:  userRepo,
			Stats:  statsSvc,
			Order:  orderSvc,
		},
		CartSlots: slotRepo,
	}
}
