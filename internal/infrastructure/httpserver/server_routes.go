package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/healthz", s.healthz)
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsHandler())
	s.echo.GET("/docs", s.docs)
	s.echo.GET("/redoc", s.docs)

	api := s.echo.Group(s.config.APIPrefix)
	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/login/json", s.loginJSON)
	auth.POST("/reset-password", s.requestPasswordReset)
	auth.POST("/reset-password/confirm", s.confirmPasswordReset)

	requireOwner := s.middleware.JWT.RequireOwner()

	protected := api.Group("")
	protected.Use(s.middleware.JWT.RequireJWT())

	protected.POST("/auth/logout", s.logout)

	users := protected.Group("/users")
	users.GET("", s.listUsers, requireOwner)
	users.GET("/me", s.getOwnProfile)
	users.GET("/:id", s.getUser)
	users.PUT("/:id", s.updateUser)
	users.DELETE("/:id", s.deleteUser, requireOwner)

	customers := protected.Group("/customers")
	customers.GET("", s.listCustomers)
	customers.POST("", s.createCustomer)
	customers.GET("/export", s.exportCustomers)
	customers.GET("/:id", s.getCustomer)
	customers.PUT("/:id", s.updateCustomer)
	customers.DELETE("/:id", s.deleteCustomer)
	customers.GET("/:id/activities", s.listActivities)
	customers.POST("/:id/activities", s.createActivity)

	billing := protected.Group("/billing")
	billing.GET("", s.listBilling)
	billing.POST("", s.createBilling, requireOwner)
	billing.PUT("/:id/status", s.updateBillingStatus, requireOwner)

	analytics := protected.Group("/analytics")
	analytics.GET("/dashboard", s.dashboard)
	analytics.GET("/status", s.statusAnalytics)
	analytics.GET("/sales", s.salesPerformance, requireOwner)

	external := protected.Group("/external")
	external.GET("/postal-code/:postal_code", s.lookupPostalCode)
	external.GET("/phone-number/:phone_number", s.lookupPhoneNumber)
	external.POST("/registry-library/login", s.registryLogin)
	external.POST("/registry-library/search", s.registrySearch)
	external.GET("/registry-library/details/:registry_id", s.registryDetails)
	external.GET("/registry-library/records", s.registryRecords)
}
