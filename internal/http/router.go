package api

import (
	stdhttp "net/http"

	intconfig "travelbooking/internal/config"
	"travelbooking/internal/domain"
	h "travelbooking/internal/http/handlers"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/repositories"
	"travelbooking/internal/services"
	"travelbooking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Deps are the handlers and the user lookup behind the Access Policy.
type Deps struct {
	System   h.SystemHandler
	Bookings h.BookingHandler
	Reviews  h.ReviewHandler
	Travel   h.TravelHandler
	Admin    h.AdminHandler
	Users    middleware.UserLookup
}

// Wire builds Deps on top of the MySQL repositories.
func Wire(db *sqlx.DB) Deps {
	catalog := repositories.CatalogRepository{DB: db}
	bookings := repositories.BookingRepository{DB: db}
	reviews := repositories.ReviewRepository{DB: db}
	users := repositories.UserRepository{DB: db}
	stats := repositories.StatsRepository{DB: db}

	return Deps{
		System: h.SystemHandler{DB: db},
		Bookings: h.BookingHandler{
			Bookings: services.BookingService{Bookings: bookings, Catalog: catalog},
			Tickets:  services.TicketService{Bookings: bookings},
		},
		Reviews: h.ReviewHandler{
			Reviews: services.ReviewService{Reviews: reviews, Bookings: bookings, Catalog: catalog},
		},
		Travel: h.TravelHandler{Catalog: services.CatalogService{Catalog: catalog}},
		Admin: h.AdminHandler{Admin: services.AdminService{
			Stats: stats, Bookings: bookings, Catalog: catalog, Users: users,
		}},
		Users: users,
	}
}

func NewRouter(env intconfig.Env, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	auth := middleware.Auth([]byte(env.JWTSecret), d.Users)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	api := r.Group("/api")
	{
		api.GET("/health", d.System.Health)
		api.GET("/db-check", d.System.DBCheck)
		api.GET("/routes", d.System.Routes)

		travel := api.Group("/travel")
		travel.GET("/:id", d.Travel.Get)
		travel.POST("", auth, adminOnly, d.Travel.Create)
		travel.PUT("/:id", auth, adminOnly, d.Travel.Update)
		travel.DELETE("/:id", auth, adminOnly, d.Travel.Delete)

		bookings := api.Group("/bookings", auth)
		bookings.POST("", d.Bookings.Create)
		bookings.GET("", d.Bookings.ListMine)
		bookings.GET("/admin/all", adminOnly, d.Bookings.ListAll)
		bookings.PUT("/admin/:id", adminOnly, d.Bookings.UpdateStatus)
		bookings.GET("/:id", d.Bookings.Get)
		bookings.PUT("/:id/cancel", d.Bookings.Cancel)
		bookings.GET("/:id/ticket", d.Bookings.Ticket)

		reviews := api.Group("/reviews")
		reviews.GET("/service/:serviceId", d.Reviews.ListForService)
		reviews.POST("", auth, d.Reviews.Create)
		reviews.GET("/my", auth, d.Reviews.ListMine)
		reviews.PUT("/:id", auth, d.Reviews.Update)
		reviews.DELETE("/:id", auth, d.Reviews.Delete)

		admin := api.Group("/admin", auth, adminOnly)
		admin.GET("/dashboard", d.Admin.Dashboard)
		admin.GET("/users", d.Admin.Users)
		admin.PUT("/users/:id/role", d.Admin.UpdateRole)
		admin.DELETE("/users/:id", d.Admin.DeleteUser)
	}

	h.SetRouter(r)
	return r
}
