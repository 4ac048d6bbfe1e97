package policy

import (
	"app/internal/auth"
	"app/internal/domain/model"
)

type Operation string

const (
	OpProductCreate  Operation = "product.create"
	OpProductUpdate  Operation = "product.update"
	OpProductDelete  Operation = "product.delete"
	OpCategoryCreate Operation = "category.create"
	OpCategoryDelete Operation = "category.delete"
	OpRestock        Operation = "stock.restock"
	OpPurchase       Operation = "stock.purchase"
	OpCheckout       Operation = "stock.checkout"
	OpOrderList      Operation = "order.list"
)

// 操作ごとの最低ロール。表にない操作は認証不要の読み取り。
var minRole = map[Operation]model.Role{
	OpProductCreate:  model.RoleAdmin,
	OpProductUpdate:  model.RoleAdmin,
	OpProductDelete:  model.RoleAdmin,
	OpCategoryCreate: model.RoleAdmin,
	OpCategoryDelete: model.RoleAdmin,
	OpRestock:        model.RoleAdmin,
	OpPurchase:       model.RoleCustomer,
	OpCheckout:       model.RoleCustomer,
	OpOrderList:      model.RoleCustomer,
}

// Allowed は(identity, 操作)を許可するかどうか。
// mutationを行うusecaseは、storeに触る前に必ずこれを通す。
func Allowed(ident auth.Identity, op Operation) bool {
	min, ok := minRole[op]
	if !ok {
		return true
	}
	if !ident.Authenticated() {
		return false
	}
	if min == model.RoleAdmin {
		return ident.Role == model.RoleAdmin
	}
	// CUSTOMER以上＝認証済みなら誰でも
	return ident.Role == model.RoleCustomer || ident.Role == model.RoleAdmin
}
