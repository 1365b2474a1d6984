package router

import (
	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/interfaces/http/handler"
)

// Handlers gathers the HTTP handlers served by the platform
type Handlers struct {
	System          *handler.SystemHandler
	Auth            *handler.AuthHandler
	EmployeeRecords *handler.EmployeeRecordHandler
	Search          *handler.SearchHandler
	// Docs serves the API documentation, nil leaves it unmounted
	Docs gin.HandlerFunc
}

// Guards are the middleware chains put in front of route families
type Guards struct {
	// Authenticate resolves the caller of API routes
	Authenticate gin.HandlerFunc
	// RequireAuth rejects anonymous API callers
	RequireAuth gin.HandlerFunc
	// Credentials protects the endpoints receiving a password
	Credentials []gin.HandlerFunc
	// Docs protects the API documentation
	Docs []gin.HandlerFunc
}

// Mount registers every platform route on r
func Mount(r *Router, h Handlers, g Guards) {
	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/system/info", h.System.GetSystemInfo)
	r.RegisterRoot(system)

	accounts := NewDomainGroup("accounts", "/accounts")
	accounts.POST("/login/", chain(g.Credentials, h.Auth.Login)...)
	accounts.GET("/logout/", h.Auth.LogoutPage)
	accounts.POST("/logout/", h.Auth.Logout)
	r.RegisterRoot(accounts)

	search := NewDomainGroup("search", "/search")
	search.GET("/siaes/results", h.Search.SearchSiaes)
	search.GET("/cities", h.Search.AutocompleteCities)
	r.RegisterRoot(search)

	if h.Docs != nil {
		docs := NewDomainGroup("docs", "/swagger")
		docs.GET("/*any", chain(g.Docs, h.Docs)...)
		r.RegisterRoot(docs)
	}

	if g.Authenticate != nil {
		r.Use(g.Authenticate)
	}

	tokens := NewDomainGroup("token-auth", "/token-auth")
	tokens.POST("/", chain(g.Credentials, h.Auth.ObtainToken)...)
	r.Register(tokens)

	records := NewDomainGroup("employee-records", "")
	if g.RequireAuth != nil {
		records.Use(g.RequireAuth)
	}
	records.GET("/employee-records/", h.EmployeeRecords.List)
	records.GET("/dummy-employee-records/", h.EmployeeRecords.ListDummy)
	r.Register(records)
}

func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
