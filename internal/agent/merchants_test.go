package agent

import "testing"

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"do I get cashback on Amazon?", "amazon"},
		{"FLIPKART pe kitna milega", "flipkart"},
		{"booking via makemytrip", "makemytrip"},
		{"what about the fees", ""},
	}

	for _, tt := range tests {
		if got := ExtractMerchant(tt.text); got != tt.want {
			t.Errorf("ExtractMerchant(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestCategorizeMerchant(t *testing.T) {
	tests := []struct {
		merchant string
		want     MerchantCategory
	}{
		{"amazon", MerchantShopping},
		{"tata cliq", MerchantShopping},
		{"yatra", MerchantTravel},
		{"localshop", MerchantOther},
	}

	for _, tt := range tests {
		if got := CategorizeMerchant(tt.merchant); got != tt.want {
			t.Errorf("CategorizeMerchant(%q) = %d, want %d", tt.merchant, got, tt.want)
		}
	}
}
