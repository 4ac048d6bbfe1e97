package auth

import (
	"errors"
	"time"

	"app/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

// トークンの有効期限は7日
const TokenTTL = 7 * 24 * time.Hour

// jwt発行（HS256）
func IssueToken(secret string, user *model.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyToken はトークンを検証してIdentityを返す。
// 壊れている・期限切れ・署名不一致はすべてfalse。呼び出し元にpanicやerrorは漏らさない。
func VerifyToken(secret string, rawToken string) (Identity, bool) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, false
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return Identity{}, false
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Identity{}, false
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Identity{}, false
	}
	if role != string(model.RoleCustomer) && role != string(model.RoleAdmin) {
		return Identity{}, false
	}

	return Identity{
		UserID: sub,
		Email:  email,
		Role:   model.Role(role),
	}, true
}
