package types

import "testing"

func TestValidateAddressEVM(t *testing.T) {
	cases := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"valid 40 hex", "0x" + repeat("a", 40), false},
		{"39 hex rejected", "0x" + repeat("a", 39), true},
		{"41 hex rejected", "0x" + repeat("a", 41), true},
		{"missing prefix", repeat("a", 40), true},
		{"non-hex char", "0x" + repeat("g", 40), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAddress(ETH, tc.addr)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.addr)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.addr, err)
			}
		})
	}
}

func TestValidateAddressSolana(t *testing.T) {
	cases := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"32 chars valid", repeat("1", 32), false},
		{"44 chars valid", repeat("1", 44), false},
		{"31 chars rejected", repeat("1", 31), true},
		{"45 chars rejected", repeat("1", 45), true},
		{"invalid base58 char (0)", repeat("0", 32), true},
		{"invalid base58 char (O)", repeat("O", 32), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAddress(SOL, tc.addr)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.addr)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error for %q: %v", tc.addr, err)
			}
		})
	}
}

func TestValidateSlippageBounds(t *testing.T) {
	if err := ValidateSlippage(0.1); err != nil {
		t.Fatalf("0.1 should be accepted: %v", err)
	}
	if err := ValidateSlippage(50); err != nil {
		t.Fatalf("50 should be accepted: %v", err)
	}
	if err := ValidateSlippage(0); err == nil {
		t.Fatal("0 should be rejected")
	}
	if err := ValidateSlippage(50.0001); err == nil {
		t.Fatal("50.0001 should be rejected")
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
