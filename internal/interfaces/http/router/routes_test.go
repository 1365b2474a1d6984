package router

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/infrastructure/config"
	"github.com/itou/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountedEngine(g Guards) *gin.Engine {
	engine := gin.New()
	r := NewRouter(engine)
	Mount(r, Handlers{
		System:          handler.NewSystemHandler("itou", "test", nil),
		Auth:            handler.NewAuthHandler(nil, config.AuthConfig{CookieName: "sessionid", LoginURL: "/accounts/login/"}),
		EmployeeRecords: handler.NewEmployeeRecordHandler(nil, "http://testserver", "/accounts/logout/"),
		Search:          handler.NewSearchHandler(nil, nil),
		Docs:            SwaggerHandler(),
	}, g)
	r.Setup()
	return engine
}

func TestMount(t *testing.T) {
	t.Run("serves the public routes", func(t *testing.T) {
		engine := mountedEngine(Guards{})

		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/health").Code)
		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/accounts/logout/").Code)

		w := serve(engine, "POST", "/accounts/logout/")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/accounts/login/", w.Header().Get("Location"))
	})

	t.Run("guards the record listings", func(t *testing.T) {
		var authenticated bool
		engine := mountedEngine(Guards{
			Authenticate: func(c *gin.Context) {
				authenticated = true
				c.Next()
			},
			RequireAuth: func(c *gin.Context) {
				c.AbortWithStatus(http.StatusUnauthorized)
			},
		})

		assert.Equal(t, http.StatusUnauthorized, serve(engine, "GET", "/api/v1/employee-records/").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(engine, "GET", "/api/v1/dummy-employee-records/").Code)
		assert.True(t, authenticated)

		authenticated = false
		serve(engine, "GET", "/health")
		assert.False(t, authenticated)
	})

	t.Run("runs the credential guards before the handler", func(t *testing.T) {
		engine := mountedEngine(Guards{
			Credentials: []gin.HandlerFunc{func(c *gin.Context) {
				c.AbortWithStatus(http.StatusTooManyRequests)
			}},
		})

		assert.Equal(t, http.StatusTooManyRequests, serve(engine, "POST", "/api/v1/token-auth/").Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(engine, "POST", "/accounts/login/").Code)
	})

	t.Run("serves the api documentation", func(t *testing.T) {
		engine := mountedEngine(Guards{})

		w := serve(engine, "GET", "/swagger/doc.json")
		require.Equal(t, http.StatusOK, w.Code)

		var doc struct {
			Paths map[string]json.RawMessage `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Contains(t, doc.Paths, "/api/v1/employee-records/")
		assert.Contains(t, doc.Paths, "/api/v1/token-auth/")
		assert.Contains(t, doc.Paths, "/search/siaes/results")

		assert.Equal(t, http.StatusOK, serve(engine, "GET", "/swagger/index.html").Code)
	})

	t.Run("guards the api documentation", func(t *testing.T) {
		engine := mountedEngine(Guards{
			Docs: []gin.HandlerFunc{func(c *gin.Context) {
				c.AbortWithStatus(http.StatusNotFound)
			}},
		})

		assert.Equal(t, http.StatusNotFound, serve(engine, "GET", "/swagger/doc.json").Code)
	})
}
