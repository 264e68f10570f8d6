// Package router assembles the HTTP surface: the /api route groups, the
// role gated HTML pages and the static assets.
package router

import (
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/restaurant-ms/config"
	"github.com/kendall-kelly/restaurant-ms/controllers"
	"github.com/kendall-kelly/restaurant-ms/middleware"
	"github.com/kendall-kelly/restaurant-ms/utils"
)

// Setup builds the gin engine for cfg. Sessions are kept in process memory
// when sessionBackend is nil.
func Setup(cfg *config.Config, sessionBackend middleware.SessionBackend) *gin.Engine {
	utils.RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery(cfg))
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.Sessions(cfg, sessionBackend))
	r.Use(middleware.ErrorHandler(cfg))

	api := r.Group("/api")
	{
		api.GET("/health", controllers.HealthCheck)
		api.GET("/database/status", controllers.DatabaseStatus)

		auth := api.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/logout", controllers.Logout)
			auth.GET("/session", controllers.Session)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/menus", middleware.RequireAuth(), controllers.ListAllMenus)

			managed := admin.Group("", middleware.RequireAdmin())
			managed.GET("/users", controllers.ListUsers)
			managed.POST("/staff", controllers.CreateStaff)
			managed.DELETE("/users/:id", controllers.DeleteUser)

			managed.POST("/menus", controllers.CreateMenu)
			managed.PUT("/menus/:id", controllers.UpdateMenu)
			managed.DELETE("/menus/:id", controllers.DeleteMenu)

			managed.GET("/orders", controllers.ListOrders)
			managed.PUT("/orders/:id", controllers.UpdateOrderStatus)

			managed.GET("/feedbacks", controllers.ListFeedbacks)
			managed.DELETE("/feedbacks/:id", controllers.DeleteFeedback)

			managed.GET("/bills", controllers.ListBills)
		}

		staff := api.Group("/staff", middleware.RequireStaff())
		{
			staff.GET("/orders", controllers.ListStaffOrders)
			staff.PUT("/orders/:id", controllers.UpdateStaffOrderStatus)
			staff.GET("/bills", controllers.ListStaffBills)
			staff.PUT("/bills/:id", controllers.UpdateBillStatus)
			staff.GET("/menus", controllers.ListAvailableMenus)
		}

		customer := api.Group("/customer")
		{
			customer.GET("/menus", controllers.BrowseMenus)

			own := customer.Group("", middleware.RequireCustomer())
			own.POST("/orders", controllers.PlaceOrder)
			own.GET("/orders", controllers.ListMyOrders)
			own.POST("/bills", controllers.CreateBill)
			own.GET("/bills", controllers.ListMyBills)
			own.PUT("/bills/:id/pay", controllers.PayBill)
			own.GET("/bills/:id/qrcode", controllers.GetBillQRCode)
			own.POST("/feedbacks", controllers.SubmitFeedback)
			own.GET("/feedbacks", controllers.ListMyFeedbacks)
		}
	}

	setupPages(r, cfg.ViewsDir)

	r.Static("/js", filepath.Join(cfg.PublicDir, "js"))
	r.Static("/css", filepath.Join(cfg.PublicDir, "css"))
	r.GET("/images/:filename", controllers.GetUploadedImage)

	r.NoRoute(middleware.NotFound())
	return r
}

var (
	publicPages = map[string]string{
		"/":               "home.html",
		"/home":           "home.html",
		"/menu":           "menu.html",
		"/order":          "order.html",
		"/admin/login":    "admin/login.html",
		"/staff/login":    "staff/login.html",
		"/staff/register": "staff/register.html",
	}

	adminPages = map[string]string{
		"/dashboard":       "admin/dashboard.html",
		"/users":           "admin/users.html",
		"/users/staff":     "admin/staff-table.html",
		"/users/customers": "admin/customer-table.html",
		"/users/add":       "admin/add-staff.html",
		"/menus":           "admin/menus.html",
		"/menus/view":      "admin/view-menu.html",
		"/menus/add":       "admin/add-menu.html",
		"/orders":          "admin/orders.html",
		"/feedbacks":       "admin/feedbacks.html",
	}

	staffPages = map[string]string{
		"/dashboard": "staff/dashboard.html",
		"/orders":    "staff/orders.html",
		"/bills":     "staff/bills.html",
	}

	customerPages = map[string]string{
		"/dashboard": "customer/dashboard.html",
		"/menus":     "customer/menus.html",
		"/orders":    "customer/orders.html",
		"/bills":     "customer/bills.html",
		"/feedbacks": "customer/feedbacks.html",
	}
)

// setupPages registers the HTML pages. Role pages redirect home when the
// session does not satisfy their guard.
func setupPages(r *gin.Engine, viewsDir string) {
	register := func(group gin.IRoutes, pages map[string]string) {
		for path, file := range pages {
			group.GET(path, controllers.Page(viewsDir, file))
		}
	}

	register(r, publicPages)
	r.GET("/logout", controllers.LogoutPage)

	register(r.Group("/admin", middleware.PageRequireAdmin()), adminPages)
	register(r.Group("/staff", middleware.PageRequireStaff()), staffPages)
	register(r.Group("/customer", middleware.PageRequireCustomer()), customerPages)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, middleware.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if cfg.AllowedOrigin != "" {
		corsCfg.AllowOrigins = []string{cfg.AllowedOrigin}
	} else {
		// Reflect the caller's origin, a wildcard is not allowed with credentials
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	}
	return corsCfg
}
