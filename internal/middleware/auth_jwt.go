package middleware

import (
	"net/http"
	"strings"

	"app/internal/auth"
	"app/internal/config"

	"github.com/labstack/echo/v4"
)

// 検証済みIdentityを入れるcontextキー
const CtxIdentityKey = "identity"

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// bearerAuth用のJWT検証ミドルウェア。
// 壊れた・期限切れ・署名不一致のトークンはすべて401で止める（fail closed）。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get("Authorization")
			if authz == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("authentication required"))
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("authentication required"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("authentication required"))
			}

			ident, ok := auth.VerifyToken(cfg.JWTSecret, rawToken)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("authentication required"))
			}

			//contextへ保存。usecaseへはhandlerが明示的に渡す
			c.Set(CtxIdentityKey, ident)

			return next(c)
		}
	}
}

// handlerがcontextからIdentityを取り出すためのヘルパ
func IdentityFromContext(c echo.Context) (auth.Identity, bool) {
	v := c.Get(CtxIdentityKey)
	if v == nil {
		return auth.Identity{}, false
	}

	ident, ok := v.(auth.Identity)
	if !ok || !ident.Authenticated() {
		return auth.Identity{}, false
	}
	return ident, true
}
