package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/seatserve/seatserve-backend/config"
	"github.com/seatserve/seatserve-backend/controllers"
	"github.com/seatserve/seatserve-backend/middlewares"
	"github.com/seatserve/seatserve-backend/models"
	"github.com/seatserve/seatserve-backend/services"
)

// SetupRouter wires every endpoint. The public group serves diners and the
// gateway; everything under /api requires a JWT and resolves the caller's
// restaurant up front.
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.FrontendURL))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(20, 40).RateLimit())

	planService := services.NewPlanService(db)
	orderService := services.NewOrderService(db)
	stripeService := services.NewStripeService(services.StripeConfig{
		SecretKey:      cfg.StripeSecretKey,
		PublishableKey: cfg.StripePublishableKey,
		WebhookSecret:  cfg.StripeWebhookSecret,
		BaseURL:        cfg.StripeAPIBase,
		FrontendURL:    cfg.FrontendURL,
		Currency:       cfg.Currency,
	})
	paymentService := services.NewPaymentService(db, stripeService)

	authController := controllers.NewAuthController(db)
	restaurantController := controllers.NewRestaurantController(db)
	planController := controllers.NewPlanController(db)
	tableController := controllers.NewTableController(db, planService, cfg.FrontendURL)
	categoryController := controllers.NewCategoryController(db)
	menuController := controllers.NewMenuController(db, planService)
	orderController := controllers.NewOrderController(db, orderService)
	publicController := controllers.NewPublicController(db, orderService, planService)
	paymentController := controllers.NewPaymentController(db, paymentService)
	staffController := controllers.NewStaffController(db)
	liveController := controllers.NewLiveController(planService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	strict := middlewares.NewStrictRateLimiter()
	r.POST("/register", strict, authController.Register)
	r.POST("/login", strict, authController.Login)
	r.GET("/plans", planController.ListPlans)
	r.POST("/staff/invitations/:invite_token/accept", strict, staffController.AcceptInvitation)

	// Customer flow: URLs carried by the table QR codes.
	public := r.Group("/public")
	{
		public.GET("/restaurants/:public_id/tables/:token/menu", publicController.Menu)
		public.POST("/restaurants/:public_id/tables/:token/orders", publicController.CreateOrder)
		public.GET("/orders/:order_token", publicController.OrderStatus)
	}

	// Gateway webhook: signature-verified, no JWT.
	r.POST("/payments/webhook", paymentController.Webhook)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	// Reachable before the caller has a restaurant.
	api.GET("/profile", authController.GetProfile)
	api.POST("/restaurant", restaurantController.CreateRestaurant)

	tenant := api.Group("")
	tenant.Use(middlewares.RestaurantResolver(db))
	{
		tenant.GET("/restaurant", restaurantController.GetMyRestaurant)
		tenant.PATCH("/restaurant", restaurantController.UpdateMyRestaurant)

		tenant.POST("/subscriptions", planController.SelectPlan)
		tenant.GET("/subscriptions/current", planController.CurrentSubscription)
		tenant.GET("/subscriptions/history", planController.SubscriptionHistory)
		tenant.GET("/subscriptions/usage", planController.PlanUsage)

		tables := tenant.Group("/tables")
		{
			tables.GET("", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewTables }), tableController.GetAllTables)
			tables.GET("/stats", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewAnalytics }), tableController.Stats)
			tables.GET("/:table_id/qr", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewTables }), tableController.QRCode)

			edit := middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanEditTables })
			tables.POST("", edit, tableController.CreateTable)
			tables.PATCH("/:table_id", edit, tableController.UpdateTable)
			tables.DELETE("/:table_id", edit, tableController.DeleteTable)
		}

		menu := tenant.Group("/menu")
		{
			view := middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewMenu })
			menu.GET("/categories", view, categoryController.GetAllCategories)
			menu.GET("/items", view, menuController.GetAllItems)
			menu.GET("/stats", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewAnalytics }), menuController.Stats)

			edit := middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanEditMenu })
			menu.POST("/categories", edit, categoryController.CreateCategory)
			menu.PATCH("/categories/:category_id", edit, categoryController.UpdateCategory)
			menu.DELETE("/categories/:category_id", edit, categoryController.DeleteCategory)
			menu.POST("/items", edit, menuController.CreateItem)
			menu.PATCH("/items/:item_id", edit, menuController.UpdateItem)
			menu.DELETE("/items/:item_id", edit, menuController.DeleteItem)
		}

		orders := tenant.Group("/orders")
		{
			view := middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewOrders })
			orders.GET("", view, orderController.GetAllOrders)
			orders.GET("/today", view, orderController.GetTodayOrders)
			orders.GET("/pending", view, orderController.GetPendingOrders)
			orders.GET("/stats", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewAnalytics }), orderController.Stats)
			orders.GET("/:order_id", view, orderController.GetOrderByID)
			orders.PATCH("/:order_id/status", middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanUpdateOrders }), orderController.UpdateStatus)
		}

		payments := tenant.Group("/payments")
		{
			view := middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanViewAnalytics })
			payments.GET("", view, paymentController.GetPayments)
			payments.GET("/today", view, paymentController.GetTodayPayments)
			payments.POST("/checkout", paymentController.CreateCheckout)
			payments.POST("/confirm", paymentController.ConfirmPayment)
			payments.POST("/:payment_id/refund", view, paymentController.Refund)
		}

		staff := tenant.Group("/staff")
		staff.Use(middlewares.StaffCan(func(s *models.StaffMember) bool { return s.CanManageStaff }))
		{
			staff.GET("", staffController.GetAllStaff)
			staff.POST("", staffController.Invite)
			staff.PATCH("/:staff_id", staffController.UpdateStaff)
			staff.POST("/:staff_id/resend-invitation", staffController.ResendInvitation)
			staff.POST("/:staff_id/suspend", staffController.Suspend)
			staff.POST("/:staff_id/activate", staffController.Activate)
			staff.DELETE("/:staff_id", staffController.RemoveStaff)
		}

		tenant.GET("/live/dashboard", liveController.Dashboard)
	}

	return r
}
