package config

import "testing"

func TestDefaultMainnet(t *testing.T) {
	cfg := DefaultMainnet()
	if cfg.Network != Mainnet {
		t.Errorf("network = %s, want %s", cfg.Network, Mainnet)
	}
	if cfg.Mining.Enabled {
		t.Error("mining should be disabled by default")
	}
	if !cfg.Mining.StrictDifficulty {
		t.Error("strict difficulty should default to true")
	}
}

func TestDefaultTestnet(t *testing.T) {
	cfg := DefaultTestnet()
	if cfg.Network != Testnet {
		t.Errorf("network = %s, want %s", cfg.Network, Testnet)
	}
}

func TestProtocolRulesFor(t *testing.T) {
	main := ProtocolRulesFor(Mainnet)
	if main.TargetBlockTime != 600 || main.RetargetPeriod != 2016 {
		t.Errorf("mainnet rules = %+v, want 600s/2016 blocks", main)
	}

	test := ProtocolRulesFor(Testnet)
	if test.TargetBlockTime != 30 || test.RetargetPeriod != 144 {
		t.Errorf("testnet rules = %+v, want 30s/144 blocks", test)
	}
}
