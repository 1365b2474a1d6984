package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/application/identity"
	"github.com/itou/backend/internal/infrastructure/config"
	"github.com/itou/backend/internal/interfaces/http/dto"
	"github.com/itou/backend/internal/interfaces/http/middleware"
)

// logoutPage is served by GET /accounts/logout/
const logoutPage = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Déconnexion</title></head>
<body>
<main>
<h1>Déconnexion</h1>
<p>Êtes-vous sûr de vouloir vous déconnecter ?</p>
<form method="post" action="/accounts/logout/"><button type="submit">Se déconnecter</button></form>
</main>
</body>
</html>
`

// AuthHandler handles API token and browser session requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cfg         config.AuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// ObtainToken godoc
// @Summary      Obtain an API token
// @Description  Returns the API token of the user, creating it on first use
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body CredentialsRequest true "Credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/v1/token-auth/ [post]
func (h *AuthHandler) ObtainToken(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.ObtainToken(c.Request.Context(), identity.CredentialsInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.handleCredentialsError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: result.Token})
}

// Login godoc
// @Summary      Open a browser session
// @Description  Sets the session cookie. Form posts are redirected to the next page, JSON clients get the user.
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        request body CredentialsRequest true "Credentials"
// @Param        next query string false "Page to open after login"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Success      302
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /accounts/login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.CredentialsInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.handleCredentialsError(c, err)
		return
	}

	h.setSessionCookie(c, result.SessionToken, int(time.Until(result.ExpiresAt).Seconds()))

	if c.ContentType() == gin.MIMEJSON {
		h.Success(c, LoginResponse(result.User))
		return
	}
	c.Redirect(http.StatusFound, h.nextURL(c))
}

// LogoutPage asks the user to confirm the logout
func (h *AuthHandler) LogoutPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(logoutPage))
}

// Logout godoc
// @Summary      Close the browser session
// @Description  Revokes the session, clears its cookie and redirects to the login page
// @Tags         auth
// @Success      302
// @Router       /accounts/logout/ [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.cfg.CookieName)

	if err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{SessionToken: token}); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, h.cfg.LoginURL)
}

// handleCredentialsError reports bad credentials as a non field error
func (h *AuthHandler) handleCredentialsError(c *gin.Context, err error) {
	if errors.Is(err, identity.ErrInvalidCredentials) {
		c.JSON(http.StatusBadRequest, dto.Response{
			Error: &dto.ErrorInfo{
				Code:      dto.ErrCodeInvalidCredentials,
				Message:   identity.ErrInvalidCredentials.Message,
				RequestID: getRequestID(c),
				Details: []dto.ValidationDetail{{
					Field:   dto.NonFieldErrors,
					Message: identity.ErrInvalidCredentials.Message,
				}},
			},
		})
		return
	}
	h.HandleDomainError(c, err)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSite(h.cfg.CookieSameSite))
	c.SetCookie(h.cfg.CookieName, value, maxAge, "/", h.cfg.CookieDomain, h.cfg.CookieSecure, true)
}

// nextURL only follows local redirects
func (h *AuthHandler) nextURL(c *gin.Context) string {
	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, `\`) {
		return next
	}
	return h.cfg.LoginRedirectTo
}

func sameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
