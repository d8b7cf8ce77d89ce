package agent

import "strings"

// Pattern tables for the intent cascade. Stage order is the sole tie-break:
// the first rule whose predicate matches wins, so overlapping phrases resolve
// deterministically (e.g. "maybe, what's the cashback" is HESITATING, not a
// cashback query).

var readyPatterns = []string{
	"continue", "proceed", "resume", "complete", "finish",
	"yes", "yeah", "yep", "sure", "okay", "ok", "fine",
	"i would like to", "i'd like to", "let's do it", "let's go",
	"sounds good", "i'm interested", "interested", "go ahead",
	"i want to", "want to continue", "ready", "let's start",
	"take me to", "show me the app", "app link",
}

var negationTokens = []string{"don't", "not", "no", "cancel", "stop"}

var hesitationPatterns = []string{
	"maybe", "not sure", "i don't know", "thinking about it",
	"let me think", "need to think", "not decided", "unsure",
	"comparing", "checking other", "looking at other",
	"expensive", "too much", "not convinced", "doubt",
	"later", "some other time", "will see", "let's see",
	"next week", "next month", "tomorrow", "another day",
	"in a few days", "not today", "not right now",
	"postpone", "wait", "hold on",
}

var greetingPhrases = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening", "helo", "hy",
	"namaste", "namaskar", "pranam", "kya hal hai", "kaise ho", "kaise hain",
	"hello ji", "hi ji", "haan", "haan ji",
	"नमस्ते", "नमस्कार", "प्रणाम", "हैलो", "हाय",
}

var acknowledgmentPhrases = []string{"thanks", "thank you", "ok", "okay", "got it", "understood", "noted"}

var stopPatterns = []string{"stop", "cancel", "not interested", "don't want", "no thanks", "not now"}

// topicBuckets map keyword groups to their query intents. First matching
// bucket wins; the keyword lists keep the buckets mutually exclusive.
var topicBuckets = []struct {
	keywords []string
	intent   Intent
}{
	{[]string{"cashback", "reward", "jewel", "point"}, IntentCashbackRewards},
	{[]string{"fee", "charge", "cost", "price"}, IntentFees},
	{[]string{"eligibility", "qualify", "eligible", "criteria"}, IntentEligibility},
	{[]string{"upi", "payment", "qr", "scan"}, IntentUPI},
	{[]string{"emi", "convert", "installment", "interest"}, IntentEMI},
	{[]string{"process", "application", "apply", "step"}, IntentProcess},
	{[]string{"document", "kyc", "verification", "proof"}, IntentDocumentation},
	{[]string{"pan", "pan card", "pancard"}, IntentPAN},
	{[]string{"aadhaar", "aadhar", "adhaar", "adhar", "aadhaar card", "aadhar card"}, IntentAadhaar},
	{[]string{"limit", "credit limit", "spending"}, IntentLimits},
}

var offTopicKeywords = []string{
	"weather", "news", "politics", "sports", "recipe", "movie", "restaurant",
	"hotel", "train", "bus", "stock", "crypto", "bitcoin", "election",
	"prime minister", "president", "minister", "government", "parliament",
	"modi", "rahul", "kejriwal", "yogi", "shah", "gandhi",

	"who is", "who was", "tell me about", "what is the capital",
	"what is the meaning", "what does", "how to cook", "how to make",

	"loan", "personal loan", "home loan", "car loan", "education loan",
	"insurance", "life insurance", "health insurance", "term insurance",
	"savings account", "current account", "fixed deposit", "fd", "rd",
	"debit card", "forex", "mutual fund", "stock market", "trading",

	"other cards", "other credit cards", "best credit card",
	"hdfc", "icici", "axis", "sbi", "kotak", "citi", "american express",
	"amex", "yes bank", "indusind", "standard chartered",

	"iphone", "android", "samsung", "laptop", "computer", "software",
	"download", "install", "update", "virus", "hack", "password reset",

	"game", "video game", "youtube", "facebook", "instagram", "twitter",
	"whatsapp", "telegram", "match score", "cricket", "football", "ipl",
}

var cardDomainKeywords = []string{
	"card", "credit", "cashback", "reward", "fee", "limit", "apply",
	"application", "eligibility", "document", "pan", "aadhaar", "kyc",
	"jupiter", "edge", "csb", "rupay", "upi", "emi", "jewel",
	"merchant", "shopping", "travel", "payment", "billing", "statement",
}

var interrogativeWords = []string{"who", "what", "where", "when", "why", "how", "which", "whose"}

// intentRule pairs a predicate with the intent it resolves to.
type intentRule struct {
	name    string
	matches func(msg string) bool
	intent  Intent
}

// intentCascade is evaluated top to bottom; the first match wins.
var intentCascade = []intentRule{
	{
		name: "unsupported language",
		matches: func(msg string) bool {
			return DetectLanguage(msg) == LanguageOther
		},
		intent: IntentUnsupportedLanguage,
	},
	{
		name: "ready to continue",
		matches: func(msg string) bool {
			return containsAny(msg, readyPatterns) && !containsAny(msg, negationTokens)
		},
		intent: IntentReadyToContinue,
	},
	{
		name: "hesitating",
		matches: func(msg string) bool {
			return containsAny(msg, hesitationPatterns)
		},
		intent: IntentHesitating,
	},
	{
		name: "greeting",
		matches: func(msg string) bool {
			return equalsAny(msg, greetingPhrases)
		},
		intent: IntentGreeting,
	},
	{
		name: "acknowledging",
		matches: func(msg string) bool {
			return equalsAny(msg, acknowledgmentPhrases)
		},
		intent: IntentAcknowledging,
	},
	{
		name: "wanting to stop",
		matches: func(msg string) bool {
			return containsAny(msg, stopPatterns)
		},
		intent: IntentWantingToStop,
	},
}

// ClassifyIntent resolves an utterance to exactly one intent. Pure and
// deterministic: case/whitespace normalization, then the ordered cascade,
// topic buckets, off-topic and domain keyword checks, defaulting to
// GENERAL_INQUIRY so the agent attempts an answer rather than refusing.
func ClassifyIntent(text string) Intent {
	msg := strings.ToLower(strings.TrimSpace(text))

	for _, rule := range intentCascade {
		if rule.matches(msg) {
			return rule.intent
		}
	}

	for _, bucket := range topicBuckets {
		if containsAny(msg, bucket.keywords) {
			return bucket.intent
		}
	}

	if containsAny(msg, offTopicKeywords) {
		return IntentOffTopic
	}

	if containsAny(msg, cardDomainKeywords) {
		return IntentGeneralInquiry
	}

	for _, q := range interrogativeWords {
		if strings.HasPrefix(msg, q) {
			return IntentOffTopic
		}
	}

	return IntentGeneralInquiry
}

func containsAny(msg string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func equalsAny(msg string, phrases []string) bool {
	for _, p := range phrases {
		if msg == p {
			return true
		}
	}
	return false
}
