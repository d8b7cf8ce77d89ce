package agent

import "strings"

// devanagariChars covers the consonant/vowel set used to spot Hindi script.
const devanagariChars = "अआइईउऊऋएऐओऔकखगघङचछजझञटठडढणतथदधनपफबभमयरलवशषसह"

// hinglishWords is the romanized-Hindi vocabulary used to spot Hinglish.
// A single stray word in an otherwise English sentence still classifies as
// Hinglish; that over-trigger is deliberate so replies stay in the user's
// comfortable register.
var hinglishWords = map[string]struct{}{
	"namaste": {}, "namaskar": {}, "namaskara": {}, "ji": {}, "jai": {}, "ram": {}, "radhe": {},
	"kya": {}, "hai": {}, "hain": {}, "mujhe": {}, "chahiye": {}, "acha": {}, "theek": {}, "nahi": {}, "haan": {},
	"kaise": {}, "kab": {}, "kahan": {}, "kyun": {}, "koi": {}, "bhi": {}, "kar": {}, "le": {}, "de": {}, "ho": {},
	"aap": {}, "aapka": {}, "mera": {}, "mere": {}, "tumhara": {}, "uska": {}, "yeh": {}, "woh": {}, "iska": {},
	"batao": {}, "bataiye": {}, "samjhao": {}, "samjhiye": {}, "dikha": {}, "dikhao": {}, "milega": {},
	"chahta": {}, "chahti": {}, "samajh": {}, "pata": {}, "malum": {}, "thik": {}, "sahi": {}, "galat": {},
	"achha": {}, "zaroor": {}, "bilkul": {}, "bahut": {}, "kaafi": {}, "mein": {}, "ki": {}, "aur": {},
}

// DetectLanguage classifies an utterance. Checks short-circuit in order:
// Devanagari characters, romanized Hindi vocabulary, any other non-ASCII
// script, then English by default.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if strings.ContainsRune(devanagariChars, r) {
			return LanguageHindi
		}
	}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, ok := hinglishWords[word]; ok {
			return LanguageHinglish
		}
	}

	for _, r := range text {
		if r > 127 && !strings.ContainsRune(devanagariChars, r) {
			return LanguageOther
		}
	}

	return LanguageEnglish
}
