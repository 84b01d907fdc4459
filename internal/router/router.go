package router

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/golang-jwt/jwt/v4"

	"dealhub/internal/auth"
	"dealhub/internal/cache"
	"dealhub/internal/config"
	"dealhub/internal/handler"
	"dealhub/internal/middleware"
)

// decimalPattern matches amounts with up to two decimal places.
var decimalPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	cacheClient *cache.Client,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	logger *zap.Logger,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	listingHandler *handler.ListingHandler,
	dealHandler *handler.DealHandler,
) {
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.Identity(jwtService, tokenStore))
	e.Use(middleware.RateLimit(cacheClient, cfg, logger))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/sign-up", authHandler.SignUp)
	api.POST("/auth/sign-in", authHandler.SignIn)
	api.POST("/auth/sign-out", authHandler.SignOut)

	// Secured routes: the JWT gate validates the cookie token, RequireAuth
	// additionally rejects revoked tokens (Identity skips those).
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "cookie:" + auth.CookieName,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "authentication required",
			})
		},
	}), middleware.RequireAuth)

	// User routes
	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/:id", userHandler.GetUser)
	secured.PUT("/users/:id", userHandler.UpdateUser)
	secured.DELETE("/users/:id", userHandler.DeleteUser)

	// Listing routes
	deals := secured.Group("/deals")
	deals.POST("/listings", listingHandler.CreateListing)
	deals.GET("/listings", listingHandler.GetAllListings)
	deals.GET("/listings/my", listingHandler.GetUserListings)
	deals.GET("/listings/:id", listingHandler.GetListing)
	deals.PUT("/listings/:id", listingHandler.UpdateListing)
	deals.DELETE("/listings/:id", listingHandler.DeleteListing)

	// Deal routes
	deals.POST("/deals", dealHandler.CreateDeal)
	deals.GET("/deals", dealHandler.GetUserDeals)
	deals.GET("/deals/:id", dealHandler.GetDeal)
	deals.PUT("/deals/:id", dealHandler.UpdateDeal)
	deals.PATCH("/deals/:id/accept", dealHandler.AcceptDeal)
	deals.PATCH("/deals/:id/complete", dealHandler.CompleteDeal)

	// Deal message routes
	deals.POST("/deals/:id/messages", dealHandler.AddMessage)
	deals.GET("/deals/:id/messages", dealHandler.GetDealMessages)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator builds the request validator with the domain rules registered.
func NewValidator() *CustomValidator {
	v := validator.New()
	// decimal amounts arrive as strings with at most two decimal places
	_ = v.RegisterValidation("decimal2", func(fl validator.FieldLevel) bool {
		return decimalPattern.MatchString(fl.Field().String())
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
