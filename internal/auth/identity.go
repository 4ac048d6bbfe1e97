package auth

import "app/internal/domain/model"

// Identity は検証済みトークンから取り出した「誰が・どのロールで」。
// usecaseへは必ずこの値を明示的に渡す。contextやグローバルから読まない。
type Identity struct {
	UserID string
	Email  string
	Role   model.Role
}

// 認証済みかどうか
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}
