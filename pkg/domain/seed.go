package domain

import (
	"crypto/sha256"
	"encoding/binary"
)

// GetSeedFromName は名前から決定論的なシード値を生成します。
// 明示的なシード指定がなくても、名前が同じなら参照画像の生成に
// 常に同じシードが使われるのだ。
func GetSeedFromName(name string) int32 {
	hash := sha256.Sum256([]byte(name))
	// ハッシュの最初の4バイトを int32 に変換
	seed := int32(binary.BigEndian.Uint32(hash[:4]))
	// Geminiのシード値は正の数が望ましいため、最上位ビットを落とすのが安全なのだ
	return seed & 0x7FFFFFFF
}
