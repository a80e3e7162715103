package domain

import "errors"

// ErrEmptyInput は、利用可能なシーンが1つも存在しない場合に返されるエラーです。
// このエラーはリモート呼び出しを行う前に返されるのだ。
var ErrEmptyInput = errors.New("有効なシーン情報が見つかりませんでした")
