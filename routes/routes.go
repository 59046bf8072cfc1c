package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"storefront/controllers"
	"storefront/middleware"
	"storefront/services"
)

// Services are the handlers' dependencies.
type Services struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Carts    *services.CartService
	Orders   *services.OrderService
	Reviews  *services.ReviewService
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authCtrl := controllers.NewAuthController(svc.Auth)
	productCtrl := controllers.NewProductController(svc.Products)
	cartCtrl := controllers.NewCartController(svc.Carts)
	orderCtrl := controllers.NewOrderController(svc.Orders)
	reviewCtrl := controllers.NewReviewController(svc.Reviews)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/login", authCtrl.Login)
	api.GET("/categories", productCtrl.GetAllCategories)
	api.GET("/products", productCtrl.GetAllProducts)
	api.GET("/products/:id", productCtrl.GetProductByID)
	api.GET("/products/:id/stock/:size", productCtrl.CheckStock)
	api.GET("/reviews", reviewCtrl.GetReviews)

	auth := api.Group("/")
	auth.Use(middleware.AuthMiddleware(svc.Auth))
	{
		auth.POST("/auth/logout", authCtrl.Logout)
		auth.GET("/auth/profile", authCtrl.GetProfile)

		auth.GET("/cart", cartCtrl.GetCart)
		auth.POST("/cart/items", cartCtrl.AddItem)
		auth.DELETE("/cart/items/:productId", cartCtrl.RemoveItem)
		auth.DELETE("/cart", cartCtrl.ClearCart)

		auth.POST("/orders", orderCtrl.CreateOrder)
		auth.GET("/orders", orderCtrl.GetMyOrders)

		auth.POST("/reviews", reviewCtrl.CreateReview)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(svc.Auth), middleware.AdminMiddleware())
	{
		admin.POST("/products", productCtrl.CreateProduct)
		admin.PATCH("/reviews/:id/status", reviewCtrl.UpdateStatus)
	}
}
