package discovery

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"poolScope/internal/model"
	"poolScope/internal/pool"
)

func TestParseFactory(t *testing.T) {
	f, err := ParseFactory("uniswap-v3",
		"0x1F98431c8aD98523631AE4a59f267346ea31F984",
		"e34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54",
		"univ3",
		[]uint64{10000},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Type != model.UniV3 || len(f.Fees) != 1 || f.Fees[0] != pool.FeeHigh {
		t.Fatalf("unexpected factory: %+v", f)
	}

	tokenWETH := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	got := BuildCandidates(1, []Factory{f}, []common.Address{tokenC, tokenWETH})
	if len(got) != 1 || got[0].Address != common.HexToAddress("0x72b236b8EB61B15833e514750b65b94a73D74A01") {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestParseFactoryInvalid(t *testing.T) {
	const hash = "0x99e82d1f1ab2914f983fb7f2b987a3e30a55ad1fa8c38239d1f7c1a24fb93e3d"
	const address = "0x28b70f6Ed97429E40FE9a9CD3EB8E86BCBA11dd4"

	cases := map[string]func() error{
		"address": func() error { _, err := ParseFactory("x", "0x12", hash, "univ2", nil); return err },
		"hash":    func() error { _, err := ParseFactory("x", address, "0x12", "univ2", nil); return err },
		"type":    func() error { _, err := ParseFactory("x", address, hash, "curve", nil); return err },
		"v2 fees": func() error { _, err := ParseFactory("x", address, hash, "univ2", []uint64{500}); return err },
		"tier":    func() error { _, err := ParseFactory("x", address, hash, "univ3", []uint64{2500}); return err },
	}
	for name, fn := range cases {
		if err := fn(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
