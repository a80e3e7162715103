package domain

import "testing"

func TestGetSeedFromName(t *testing.T) {
	t.Run("決定論的であること", func(t *testing.T) {
		if GetSeedFromName("Bigfoot") != GetSeedFromName("Bigfoot") {
			t.Error("同じ名前から異なるシードが生成されました")
		}
	})

	t.Run("常に非負であること", func(t *testing.T) {
		for _, name := range []string{"Bigfoot", "Yeti", "雪男", ""} {
			if seed := GetSeedFromName(name); seed < 0 {
				t.Errorf("名前 %q から負のシード %d が生成されました", name, seed)
			}
		}
	})

	t.Run("異なる名前は異なるシードになること", func(t *testing.T) {
		if GetSeedFromName("Bigfoot") == GetSeedFromName("Yeti") {
			t.Error("異なる名前から同じシードが生成されました")
		}
	})
}
