package generation

import "fmt"

// ErrorKind は生成失敗の種別です。
type ErrorKind int

const (
	// KindCall は通信・タイムアウト等、リモート呼び出し自体の失敗です。
	KindCall ErrorKind = iota
	// KindParse は応答が構造化プロンプトに変換できなかった失敗です。
	KindParse
	// KindUnavailable はクライアントが構成されていない（APIキー未設定等）状態です。
	KindUnavailable
)

// String は種別の表示名を返すのだ。
func (k ErrorKind) String() string {
	switch k {
	case KindCall:
		return "call"
	case KindParse:
		return "parse"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error は生成境界で発生したシーン局所の失敗を表す型付きエラーです。
// ワークフローはこのエラーを検知してフォールバック構築に切り替えます。
type Error struct {
	Kind  ErrorKind
	Model string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("生成に失敗しました (kind=%s, model=%s)", e.Kind, e.Model)
	}
	return fmt.Sprintf("生成に失敗しました (kind=%s, model=%s): %v", e.Kind, e.Model, e.Err)
}

// Unwrap は元のエラーを返します。
func (e *Error) Unwrap() error {
	return e.Err
}
