package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextに入っているIdentityがADMINかどうかを確認します。

func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := IdentityFromContext(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("authentication required"))
			}

			//CUSTOMERは拒否、ADMINだけ許可
			if !ident.IsAdmin() {
				return c.JSON(http.StatusForbidden, errorJSON("admin access required"))
			}

			return next(c)
		}
	}
}
