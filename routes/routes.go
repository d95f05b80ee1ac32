package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotel-frontdesk/config"
	"hotel-frontdesk/controllers"
	"hotel-frontdesk/middleware"
	"hotel-frontdesk/models"
	"hotel-frontdesk/services"
)

// Handlers bundles the controller instances SetupRouter wires.
type Handlers struct {
	Auth        *controllers.AuthController
	Allocations *controllers.AllocationController
	Rooms       *controllers.RoomController
	Customers   *controllers.CustomerController
	Employees   *controllers.EmployeeController
	Settings    *controllers.SettingsController
	Roles       *controllers.RoleController
	Staff       *controllers.StaffController
	FrontDesk   *controllers.FrontDeskController
	Stream      *controllers.StreamController
}

// SetupRouter builds the engine. auth verifies bearer tokens for everything under /api except sign-in/up.
func SetupRouter(h Handlers, auth *services.AuthService, limiter *middleware.LoginLimiter, cors config.CORSConfig, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS(cors))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// public
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signin", limiter.Limit(), h.Auth.SignIn)
		// first account bootstraps the owner; later sign-ups are checked against the caller's token
		authRoutes.POST("/signup", limiter.Limit(), middleware.OptionalAuthenticate(auth), h.Auth.SignUp)
	}

	secured := api.Group("")
	secured.Use(middleware.Authenticate(auth))
	{
		secured.POST("/auth/signout", h.Auth.SignOut)
		secured.GET("/auth/me", h.Auth.Me)
		secured.GET("/stream", h.Stream.Stream)

		perm := middleware.RequirePermission

		secured.GET("/dashboard", perm(models.PermBookingView), h.FrontDesk.Summary)
		secured.POST("/pricing/preview", perm(models.PermBookingCreate), h.FrontDesk.PreviewPrice)

		alerts := secured.Group("/alerts")
		{
			alerts.GET("", perm(models.PermBookingView), h.FrontDesk.ListAlerts)
			alerts.POST("/:id/dismiss", perm(models.PermBookingView), h.FrontDesk.DismissAlert)
		}
		secured.POST("/scheduler/run", perm(models.PermBookingCheckout), h.FrontDesk.RunScheduler)

		allocations := secured.Group("/allocations")
		{
			allocations.GET("", perm(models.PermBookingView), h.Allocations.List)
			allocations.POST("", perm(models.PermBookingCreate), h.Allocations.Create)
			allocations.GET("/:id", perm(models.PermBookingView), h.Allocations.Get)
			allocations.PUT("/:id", perm(models.PermBookingEdit), h.Allocations.Update)
			allocations.POST("/:id/checkout", perm(models.PermBookingCheckout), h.Allocations.CheckOut)
			allocations.DELETE("/:id", perm(models.PermBookingDelete), h.Allocations.Delete)
			allocations.GET("/:id/invoice", perm(models.PermBookingView), h.Allocations.Invoice)
		}

		rooms := secured.Group("/rooms")
		{
			rooms.GET("", perm(models.PermRoomView), h.Rooms.List)
			// must stay ahead of /:id
			rooms.GET("/available", perm(models.PermBookingView), h.Rooms.Available)
			rooms.GET("/:id", perm(models.PermRoomView), h.Rooms.Get)
			rooms.POST("", perm(models.PermRoomCreate), h.Rooms.Create)
			rooms.PUT("/:id", perm(models.PermRoomEdit), h.Rooms.Update)
			rooms.DELETE("/:id", perm(models.PermRoomDelete), h.Rooms.Delete)
		}

		customers := secured.Group("/customers")
		{
			customers.GET("", perm(models.PermCustomerView), h.Customers.List)
			customers.GET("/match", perm(models.PermBookingCreate), h.Customers.Match)
			customers.GET("/export.csv", perm(models.PermCustomerExport), h.Customers.Export)
			customers.GET("/:id", perm(models.PermCustomerView), h.Customers.Get)
			customers.PUT("/:id", perm(models.PermCustomerEdit), h.Customers.Update)
			customers.DELETE("/:id", perm(models.PermCustomerDelete), h.Customers.Delete)
		}

		employees := secured.Group("/employees")
		{
			employees.GET("", perm(models.PermEmployeeView), h.Employees.List)
			employees.GET("/:id", perm(models.PermEmployeeView), h.Employees.Get)
			employees.POST("", perm(models.PermEmployeeEdit), h.Employees.Create)
			employees.PUT("/:id", perm(models.PermEmployeeEdit), h.Employees.Update)
			employees.DELETE("/:id", perm(models.PermEmployeeDelete), h.Employees.Delete)
		}

		settings := secured.Group("/settings")
		{
			settings.GET("/hotel", h.Settings.GetHotel)
			settings.PUT("/hotel", perm(models.PermSettingsEdit), h.Settings.SaveHotel)
		}

		roles := secured.Group("/roles")
		{
			roles.GET("", perm(models.PermSettingsEdit), h.Roles.List)
			roles.PUT("/:id/permissions", perm(models.PermSettingsEdit), h.Roles.UpdatePermissions)
		}

		staff := secured.Group("/staff")
		{
			staff.GET("", perm(models.PermSettingsEdit), h.Staff.List)
			staff.POST("", perm(models.PermSettingsEdit), h.Auth.SignUp)
			staff.DELETE("/:id", perm(models.PermSettingsEdit), h.Staff.Delete)
		}

		sources := secured.Group("/booking-sources")
		{
			sources.GET("", h.Settings.ListSources)
			sources.POST("", perm(models.PermBookingSourceEdit), h.Settings.AddSource)
		}
	}

	return r
}
