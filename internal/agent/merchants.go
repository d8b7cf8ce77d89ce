package agent

import "strings"

// Merchant category lists drive merchant-specific cashback answers.
var (
	knownMerchants = []string{
		"amazon", "flipkart", "myntra", "ajio", "zara", "nykaa", "croma",
		"reliance trends", "tata cliq", "reliance digital", "makemytrip",
		"easemytrip", "yatra", "cleartrip",
	}

	shoppingMerchants = []string{"amazon", "flipkart", "myntra", "ajio", "zara", "nykaa", "croma", "reliance", "tata"}
	travelMerchants   = []string{"makemytrip", "easemytrip", "yatra", "cleartrip"}
)

// ExtractMerchant returns the first known merchant mentioned in the message,
// or "" when none is present.
func ExtractMerchant(message string) string {
	msg := strings.ToLower(message)
	for _, m := range knownMerchants {
		if strings.Contains(msg, m) {
			return m
		}
	}
	return ""
}

// MerchantCategory buckets a merchant into its cashback tier.
type MerchantCategory int

const (
	MerchantOther MerchantCategory = iota
	MerchantShopping
	MerchantTravel
)

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// CategorizeMerchant maps a merchant name to its cashback category.
func CategorizeMerchant(merchant string) MerchantCategory {
	for _, m := range shoppingMerchants {
		if strings.Contains(merchant, m) {
			return MerchantShopping
		}
	}
	for _, m := range travelMerchants {
		if strings.Contains(merchant, m) {
			return MerchantTravel
		}
	}
	return MerchantOther
}
