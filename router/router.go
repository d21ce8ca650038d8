package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hazirlageldim/pickup-app/controllers"
	"github.com/hazirlageldim/pickup-app/middlewares"
)

// SetupRouter merakit seluruh endpoint dev gateway.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	authController := controllers.NewAuthController(db)
	businessController := controllers.NewBusinessController(db)
	productController := controllers.NewProductController(db)
	orderController := controllers.NewOrderController(db)
	messageController := controllers.NewMessageController(db)
	rpcController := controllers.NewRPCController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/reset-password", authController.ResetPassword)
		auth.GET("/profile", middlewares.AuthMiddleware(), authController.GetProfile)
	}

	// Data surface: tabel + RPC, semuanya di belakang JWT.
	data := r.Group("/", middlewares.AuthMiddleware())
	{
		data.GET("/businesses", businessController.ListBusinesses)
		data.POST("/businesses", businessController.CreateBusiness)
		data.GET("/businesses/:id", businessController.GetBusiness)
		data.PATCH("/businesses/:id", businessController.UpdateBusiness)

		data.GET("/products", productController.ListProducts)
		data.POST("/products", productController.CreateProduct)
		data.PATCH("/products/:id", productController.UpdateProduct)
		data.DELETE("/products/:id", productController.DeleteProduct)

		data.GET("/orders", orderController.ListOrders)
		data.POST("/orders", orderController.CreateOrder)
		data.GET("/orders/:id", orderController.GetOrder)
		data.PATCH("/orders/:id", orderController.UpdateOrder)

		data.GET("/order_items", orderController.ListOrderItems)
		data.POST("/order_items", orderController.CreateOrderItems)

		data.GET("/messages", messageController.ListMessages)
		data.POST("/messages", messageController.CreateMessage)

		data.POST("/rpc/:name", rpcController.Call)
	}

	ws := r.Group("/ws", middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/changes", controllers.HandleChangesWS)
	}

	return r
}
