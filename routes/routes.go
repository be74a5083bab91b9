package routes

import (
	"startech-backend/config"
	"startech-backend/controllers"
	"startech-backend/services"
	"startech-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, sync *services.WooSyncService, notifier *services.Notifier) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	sequencer := services.NewSequencer(db)
	activity := services.NewActivityLogger(db)

	users := &controllers.UserController{DB: db, Activity: activity}
	customers := &controllers.CustomerController{DB: db, Activity: activity}
	products := &controllers.ProductController{DB: db, Sync: sync, Activity: activity}
	orders := &controllers.OrderController{DB: db, Sequencer: sequencer, Notifier: notifier, Activity: activity}
	servicesCtl := &controllers.ServiceController{DB: db, Sequencer: sequencer, Activity: activity}
	tasks := &controllers.TaskController{DB: db, Sequencer: sequencer, Activity: activity}
	tickets := &controllers.TicketController{DB: db, Sequencer: sequencer, Activity: activity}
	reports := &controllers.ReportController{DB: db}
	dashboard := &controllers.DashboardController{DB: db}
	activityCtl := &controllers.ActivityController{DB: db}

	api := r.Group("/api")
	api.Use(utils.IdentityMiddleware(db))
	{
		userRoutes := api.Group("/users")
		{
			userRoutes.POST("", users.Create)
			userRoutes.GET("", users.List)
			userRoutes.GET("/:id", users.Get)
			userRoutes.PUT("/:id", users.Update)
			userRoutes.DELETE("/:id", users.Delete)
		}

		customerRoutes := api.Group("/customers")
		{
			customerRoutes.POST("", customers.Create)
			customerRoutes.GET("", customers.List)
			customerRoutes.GET("/:id", customers.Get)
			customerRoutes.PUT("/:id", customers.Update)
			customerRoutes.DELETE("/:id", customers.Delete)
		}

		productRoutes := api.Group("/products")
		{
			productRoutes.POST("", products.Create)
			productRoutes.POST("/sync", products.SyncFromWooCommerce)
			productRoutes.POST("/:id/refresh", products.RefreshFromWooCommerce)
			productRoutes.GET("", products.List)
			productRoutes.GET("/:id", products.Get)
			productRoutes.PUT("/:id", products.Update)
			productRoutes.DELETE("/:id", products.Delete)
		}

		orderRoutes := api.Group("/orders")
		{
			orderRoutes.POST("", orders.Create)
			orderRoutes.GET("", orders.List)
			orderRoutes.GET("/:id", orders.Get)
			orderRoutes.PUT("/:id", orders.Update)
			orderRoutes.PATCH("/:id", orders.Update)
			orderRoutes.DELETE("/:id", orders.Delete)
		}

		serviceRoutes := api.Group("/services")
		{
			serviceRoutes.POST("", servicesCtl.Create)
			serviceRoutes.POST("/:id/comments", servicesCtl.AddComment)
			serviceRoutes.GET("", servicesCtl.List)
			serviceRoutes.GET("/:id", servicesCtl.Get)
			serviceRoutes.PUT("/:id", servicesCtl.Update)
			serviceRoutes.PATCH("/:id", servicesCtl.Update)
			serviceRoutes.DELETE("/:id", servicesCtl.Delete)
		}

		taskRoutes := api.Group("/tasks")
		{
			taskRoutes.POST("", tasks.Create)
			taskRoutes.POST("/:id/comments", tasks.AddComment)
			taskRoutes.GET("", tasks.List)
			taskRoutes.GET("/:id", tasks.Get)
			taskRoutes.PUT("/:id", tasks.Update)
			taskRoutes.PATCH("/:id", tasks.Update)
			taskRoutes.DELETE("/:id", tasks.Delete)
		}

		ticketRoutes := api.Group("/tickets")
		{
			ticketRoutes.POST("", tickets.Create)
			ticketRoutes.POST("/:id/comments", tickets.AddComment)
			ticketRoutes.GET("", tickets.List)
			ticketRoutes.GET("/:id", tickets.Get)
			ticketRoutes.PUT("/:id", tickets.Update)
			ticketRoutes.PATCH("/:id", tickets.Update)
			ticketRoutes.DELETE("/:id", tickets.Delete)
		}

		api.GET("/reports", reports.GetReportAnalytics)
		api.GET("/dashboard", dashboard.GetOverview)
		api.GET("/activity", activityCtl.List)
	}

	return r
}
