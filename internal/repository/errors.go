package repository

import "errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")
	// 一意制約違反（email・カテゴリ名の重複）
	ErrDuplicate = errors.New("duplicate")
	// 競合。トランザクションのリトライ上限到達や、参照中カテゴリの削除
	ErrConflict = errors.New("conflict")
)
