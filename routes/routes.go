package routes

import (
	"net/http"

	"farmermall/admin"
	"farmermall/auth"
	"farmermall/banners"
	"farmermall/cart"
	"farmermall/chat"
	"farmermall/farm"
	"farmermall/middleware"
	"farmermall/orders"
	"farmermall/products"
	"farmermall/ratelim"
	"farmermall/realtime"
	"farmermall/subscriptions"
	"farmermall/uploads"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/auth/register", rl.Limit(auth.Register))
	router.POST("/auth/login", rl.Limit(auth.Login))
	router.POST("/auth/logout", middleware.Authenticate(auth.Logout))
	router.PUT("/auth/address/:id", middleware.Authenticate(auth.UpdateAddress))
}

func AddFarmerRoutes(router *httprouter.Router) {
	router.POST("/farmer/addProduct", middleware.RequireRole("farmer", products.AddProduct))
	router.GET("/farmer/allProducts", products.AllProducts)
	router.GET("/farmer/myProducts/:farmer_id", middleware.Authenticate(products.MyProducts))
	router.PUT("/farmer/updateProduct/:id", middleware.RequireRole("farmer", products.UpdateProduct))
	router.DELETE("/farmer/deleteProduct/:id", middleware.RequireRole("farmer", products.DeleteProduct))
}

func AddBuyerRoutes(router *httprouter.Router) {
	router.GET("/buyer/products", products.AllProducts)
}

func AddOrderRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.POST("/order/place", middleware.Authenticate(orders.PlaceOrder(hub)))
	router.POST("/order/placeFromCart", middleware.Authenticate(orders.PlaceOrderFromCart(hub)))
	router.GET("/order/buyer/:buyer_id", middleware.Authenticate(orders.BuyerOrders))
	router.GET("/order/farmer/:farmer_id", middleware.Authenticate(orders.FarmerOrders))
	router.PUT("/order/updateStatus/:order_id", middleware.Authenticate(orders.UpdateStatus(hub)))
	router.PUT("/order/cancel/:order_id", middleware.Authenticate(orders.CancelOrder(hub)))
	router.PUT("/order/updatePayment/:order_id", middleware.Authenticate(orders.UpdatePayment))
	router.GET("/order/invoice/:order_id", middleware.Authenticate(orders.Invoice))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/cart/:buyer_id", middleware.Authenticate(cart.GetCart))
	router.POST("/cart/add", middleware.Authenticate(cart.AddToCart))
	router.PUT("/cart/update", middleware.Authenticate(cart.UpdateCart))
	router.DELETE("/cart/remove/:cart_id", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/cart/clear/:buyer_id", middleware.Authenticate(cart.ClearCart))
}

func AddChatRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/chat/history/:userId/:otherUserId", middleware.Authenticate(chat.History))
	router.GET("/chat/conversations/:userId", middleware.Authenticate(chat.Conversations))
	router.POST("/chat/save", middleware.Authenticate(chat.Save))
	router.GET("/ws", middleware.Authenticate(realtime.WebSocketHandler(hub)))
}

func AddSubscriptionRoutes(router *httprouter.Router) {
	router.GET("/subscription/buyer/:buyer_id", middleware.Authenticate(subscriptions.BuyerSubscriptions))
	router.GET("/subscription/farmer/:farmer_id", middleware.Authenticate(subscriptions.FarmerSubscriptions))
	router.POST("/subscription/create", middleware.Authenticate(subscriptions.Create))
	router.PUT("/subscription/update/:id", middleware.Authenticate(subscriptions.Update))
	router.DELETE("/subscription/:id", middleware.Authenticate(subscriptions.Delete))
}

func AddFarmRoutes(router *httprouter.Router) {
	router.GET("/farm/:farmer_id", farm.Get)
	router.POST("/farm", middleware.RequireRole("farmer", farm.Save))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/admin/users", admin.Users)
	router.GET("/admin/farmers", admin.Farmers)
	router.GET("/admin/products", admin.Products)
	router.GET("/admin/stats", admin.Stats)
	router.DELETE("/admin/users/:id", admin.DeleteUser)
	router.DELETE("/admin/products/:id", admin.DeleteProduct)
	router.GET("/admin/banners", admin.Banners)
	router.POST("/admin/banners", admin.CreateBanner)
	router.PUT("/admin/banners/:id", admin.UpdateBanner)
	router.DELETE("/admin/banners/:id", admin.DeleteBanner)
}

func AddBannerRoutes(router *httprouter.Router) {
	router.GET("/banner/active", banners.Active)
}

func AddUploadRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/upload/product", rl.Limit(middleware.Authenticate(uploads.ProductImage)))
	router.POST("/upload/banner", rl.Limit(middleware.Authenticate(uploads.BannerImage)))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/*filepath", http.Dir("uploads"))
	router.ServeFiles("/images/*filepath", http.Dir("images"))
	router.ServeFiles("/banner-files/*filepath", http.Dir("banner"))
}
