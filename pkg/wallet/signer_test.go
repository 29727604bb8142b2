package wallet

import "testing"

// Well-known throwaway dev key; never funded on a real network.
const (
	devKeyHex  = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	devKeyAddr = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestGenerateKey(t *testing.T) {
	s1, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	s2, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	if s1.Address() == (s2.Address()) {
		t.Error("two generated keys share an address")
	}
	if s1.PrivateKey() == nil {
		t.Error("generated signer has no private key")
	}
}

func TestFromPrivateKeyHex(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"bare hex", devKeyHex},
		{"0x prefix", "0x" + devKeyHex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromPrivateKeyHex(tt.key)
			if err != nil {
				t.Fatalf("FromPrivateKeyHex: %v", err)
			}
			if got := s.Address().Hex(); got != devKeyAddr {
				t.Errorf("Address = %s, want %s", got, devKeyAddr)
			}
		})
	}
}

func TestFromPrivateKeyHexInvalid(t *testing.T) {
	for _, key := range []string{"", "0x", "nothex", "1234"} {
		if _, err := FromPrivateKeyHex(key); err == nil {
			t.Errorf("FromPrivateKeyHex(%q) succeeded, want error", key)
		}
	}
}
