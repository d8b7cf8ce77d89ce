package agent

import (
	"fmt"
	"strings"
)

// DefaultApplicationLink is the funnel continuation URL used when no
// override is configured.
const DefaultApplicationLink = "https://jupiter.money/edge-plus-upi-rupay-credit-card/"

// FallbackResponse picks a canned reply for an intent when generation fails,
// localized to the detected language. Every intent resolves to some on-topic
// text; the user never sees an error.
func FallbackResponse(intent Intent, message, userName string, language Language, applicationLink string) string {
	isHindi := language == LanguageHindi || language == LanguageHinglish
	if applicationLink == "" {
		applicationLink = DefaultApplicationLink
	}

	switch intent {
	case IntentUnsupportedLanguage:
		return "I'm sorry, but I can only communicate in English, Hindi, or Hinglish (mix of Hindi-English). Could you please ask your question in one of these languages?\n\n---\n\nमुझे खेद है, मैं केवल English, Hindi, या Hinglish में बात कर सकता हूँ। कृपया अपना प्रश्न इनमें से किसी एक भाषा में पूछें।"

	case IntentGreeting:
		if isHindi {
			return fmt.Sprintf("Namaste %s! 👋 Main aapki Jupiter Edge+ Credit Card application mein madad karne ke liye hoon. Aapne application start ki thi. Kya aap card ke baare mein kuch jaanna chahenge, ya wahin se continue karna chahenge jahan aapne chhoda tha?", userName)
		}
		return fmt.Sprintf("Hi %s! 👋 I'm here to help you with your Jupiter Edge+ Credit Card application. I noticed you had started the application process. Is there anything specific you'd like to know about the card, or would you like to continue where you left off?", userName)

	case IntentOffTopic:
		if isHindi {
			return fmt.Sprintf("%s, main sirf Jupiter Edge+ CSB Bank RuPay Credit Card ke baare mein help kar sakta hoon. Main card ke features, cashback benefits, eligibility, application process ke baare mein bata sakta hoon. Card ke baare mein kya jaanna chahenge?", userName)
		}
		return fmt.Sprintf("I appreciate your question, %s, but I'm specifically designed to help with the Jupiter Edge+ CSB Bank RuPay Credit Card application. I can answer questions about card features, benefits, the application process, or eligibility. What would you like to know about the card?", userName)

	case IntentCashbackRewards:
		if isHindi {
			return "Jupiter Edge+ card par bahut achha cashback milta hai: Shopping par 10% cashback (Amazon, Flipkart jaise merchants par, maximum ₹1,500 per billing cycle), travel bookings par 5% (maximum ₹1,000), Jupiter Flights par 7%, aur baaki sab spends par 1% bina kisi limit ke. Kya aap apni application continue karna chahenge?"
		}
		return "The Jupiter Edge+ card offers excellent cashback benefits: 10% on shopping from select merchants like Amazon and Flipkart (up to ₹1,500 per billing cycle with a ₹500 per-merchant limit), 5% on travel bookings (up to ₹1,000 per billing cycle), 7% on Jupiter Flights with no cap, and 1% on all other eligible spends with no limit. Would you like to continue your application?"

	case IntentFees:
		if isHindi {
			return "Jupiter Edge+ card lifetime free hai, ₹0 joining fee hai. Koi annual charges ya hidden fees nahi hai. Kya aap is free card ke liye application continue karna chahenge?"
		}
		return "The Jupiter Edge+ card is lifetime free with ₹0 joining fee. There are no annual charges or hidden fees. Would you like to continue your application for this no-fee card?"

	case IntentEligibility:
		if isHindi {
			return "Jupiter Edge+ card ke liye eligible hone ke liye: aapki age 21-60 saal honi chahiye, minimum ₹25,000 monthly income honi chahiye, aur preferably 700+ credit score hona chahiye. Application mein instant eligibility check hota hai. Kya aap continue karna chahenge?"
		}
		return "To be eligible for the Jupiter Edge+ card, you should be between 21-60 years of age, have a minimum monthly income of ₹25,000, and preferably a credit score of 700+. The application includes an instant eligibility check. Would you like to continue?"

	case IntentUPI:
		return "Yes, the Jupiter Edge+ card allows you to make UPI payments directly from your credit card by scanning any merchant QR code. This is a unique feature that most other credit cards don't offer. Remember, rewards apply only when UPI transactions are made via the Jupiter App. Would you like to continue your application?"

	case IntentEMI:
		return "With the Jupiter Edge+ card, you can convert both credit card and UPI spends to EMI starting at just 1.33% interest per month. Available tenures include 3, 6, 9, and 12 months. Would you like to continue your application?"

	case IntentProcess:
		return "Applying for the Jupiter Edge+ card is a simple 100% digital process with no paperwork. It takes about 10 minutes and includes steps like PAN verification, eligibility check, personal details, and eKYC. Would you like to continue where you left off?"

	case IntentPAN:
		return panFallback(message, isHindi)

	case IntentAadhaar:
		if isHindi {
			return "Bahut badhiya sawal! Aadhaar Card credit card ke liye kyun zaroori hai:\n\n1. **eKYC Verification**: Aadhaar se instant digital verification hota hai - sirf kuch seconds mein\n2. **Sirf Number Chahiye**: Physical card ki zaroorat nahi, sirf Aadhaar number\n3. **RBI Approved**: Yeh UIDAI regulated aur RBI approved process hai\n4. **100% Paperless**: Koi documents upload karne ki zaroorat nahi\n\nKya aap apni application continue karna chahenge?"
		}
		return "Excellent question! Here's why Aadhaar is required for the Jupiter Edge+ card:\n\n1. **Instant eKYC**: Aadhaar enables instant digital verification - takes just seconds\n2. **Number Only**: You only need your Aadhaar number, not the physical card\n3. **RBI Approved**: The process is UIDAI regulated and RBI approved\n4. **100% Paperless**: No document uploads needed\n\nWould you like to continue your application?"

	case IntentDocumentation:
		return "For the Jupiter Edge+ card, you'll need your PAN Card and Aadhaar Card. Sometimes, income proof may be required. The entire process is digital, so you won't need to submit physical documents to apply. Would you like to continue your application?"

	case IntentLimits:
		return "The Jupiter Edge+ card offers credit limits ranging from ₹25,000 to ₹7,00,000. Typical initial limits for first-time users range from ₹50,000 to ₹1,00,000. Your limit is assigned based on your credit profile and income. Would you like to continue your application?"

	case IntentReadyToContinue:
		if isHindi {
			return fmt.Sprintf("Bahut badhiya! 🎉 Aap yahan se application continue kar sakte hain:\n\n👉 %s\n\nAapka progress save hai, toh aap wahin se shuru karenge jahan chhoda tha. Pura process sirf 10 minute ka hai!\n\nKoi help chahiye toh main yahan hoon.", applicationLink)
		}
		return fmt.Sprintf("Excellent! 🎉 You can continue your application right here:\n\n👉 %s\n\nYour progress is saved, so you'll pick up exactly where you left off. The whole process takes just 10 minutes!\n\nNeed any help? I'm here if you have questions.", applicationLink)

	case IntentAcknowledging:
		if isHindi {
			return fmt.Sprintf("Aapka swagat hai, %s! 😊 Yaad rakhiye, limited-time offer sirf thode time ke liye hai. Aapki application save hai aur jab chahein continue kar sakte hain. Have a great day!", userName)
		}
		return fmt.Sprintf("You're welcome, %s! 😊 Remember, the limited-time offer is available for a short period only. Your application is saved and ready whenever you'd like to continue. Have a great day!", userName)

	case IntentHesitating:
		// Normally the offer message covers hesitation; this is the backstop
		// when the throttle has already fired.
		return fmt.Sprintf("I understand you'd like some time to think about it, %s. The Jupiter Edge+ card offers great value with 10%% cashback on shopping, lifetime free status, and UPI payments from your credit card. Your application progress is saved whenever you're ready. Is there anything specific holding you back that I can help clarify?", userName)

	case IntentWantingToStop:
		return fmt.Sprintf("I understand, %s. Thank you for considering the Jupiter Edge+ card. Your application progress is saved, so you can always come back and complete it later when you're ready. Have a great day!", userName)
	}

	if merchant := ExtractMerchant(message); merchant != "" {
		return merchantFallback(merchant, isHindi)
	}

	if isHindi {
		return fmt.Sprintf("Main aapki madad kar sakta hoon, %s! Jupiter Edge+ card ke kuch amazing features hain:\n\n• Shopping par 10%% cashback (Amazon, Flipkart, Myntra, etc.)\n• Travel par 5%% cashback\n• UPI payments credit card se\n• Lifetime free - koi fees nahi\n\nKya aap card ke baare mein kuch aur jaanna chahenge, ya application continue karna chahenge?", userName)
	}
	return fmt.Sprintf("I'd be happy to help you with that, %s! The Jupiter Edge+ card has several great features:\n\n• 10%% cashback on shopping (Amazon, Flipkart, Myntra, etc.)\n• 5%% cashback on travel bookings\n• UPI payments from your credit card\n• Lifetime free - no joining or annual fees\n\nIs there anything specific about the card you'd like to know, or would you like to continue your application?", userName)
}

// panFallback distinguishes physical-card questions from why-is-PAN-needed
// questions.
func panFallback(message string, isHindi bool) string {
	msg := strings.ToLower(message)
	if strings.Contains(msg, "physical") || strings.Contains(msg, "nahi hai") {
		if isHindi {
			return "Bahut badhiya sawal! 😊\n\n**Physical PAN Card ki zaroorat NAHI hai abhi ke liye!**\n\n✅ **Step 2 ke liye** (PAN Verification): Sirf aapka 10-digit PAN NUMBER chahiye - koi physical card nahi\n📹 **Baad mein** (vKYC ke liye): Video call par physical PAN card dikhana hoga\n\nToh aap ABHI application start kar sakte hain bina physical card ke. Kya aap continue karna chahenge?"
		}
		return "Great question! 😊\n\n**You DON'T need the physical PAN card right now!**\n\n✅ **For Step 2** (PAN Verification): You only need your 10-digit PAN NUMBER - no physical card\n📹 **Later** (for vKYC): You'll show your physical PAN card on a short video call\n\nSo you can START THE APPLICATION NOW without the physical card. Would you like to continue?"
	}

	if isHindi {
		return "Bahut accha sawal! PAN Card credit card ke liye zaroori hai kyunki yeh RBI ka rule hai. Kyun?\n\n1. **Identity Check**: PAN aapka unique tax ID hai jo Income Tax Department verify karta hai\n2. **Credit Bureau Reporting**: Aapki credit history PAN se judti hai\n3. **Tax Compliance**: RBI ke rules ke hisaab se zaroori hai\n\nSirf PAN number chahiye, physical card nahi. Kya aap application continue karna chahenge?"
	}
	return "Great question! PAN Card is mandatory for credit card applications in India as per RBI regulations. Here's why:\n\n1. **Identity Verification**: PAN is your unique tax ID verified with the Income Tax Department\n2. **Credit Bureau Reporting**: Your credit history is linked to your PAN\n3. **Tax Compliance**: Required under RBI's regulations\n\nOnly the PAN number is needed, not the physical card. Would you like to continue your application?"
}

// merchantFallback answers merchant-specific cashback questions from the
// category tables.
func merchantFallback(merchant string, isHindi bool) string {
	title := titleCase(merchant)

	switch CategorizeMerchant(merchant) {
	case MerchantShopping:
		if isHindi {
			return fmt.Sprintf("Haan bilkul! Aapko %s par shopping karne par 10%% cashback milega Jupiter Edge+ card se. Yeh hamare shopping category mein aata hai jo 10%% cashback deta hai (maximum ₹1,500 per billing cycle). Kya aap apni application continue karna chahenge?", title)
		}
		return fmt.Sprintf("Yes! You'll get 10%% cashback when you shop at %s with your Jupiter Edge+ card. This is part of our shopping category which offers 10%% cashback up to ₹1,500 per billing cycle. Would you like to continue your application?", title)
	case MerchantTravel:
		if isHindi {
			return fmt.Sprintf("Haan! Aapko %s par booking karne par 5%% cashback milega Jupiter Edge+ card se. Yeh hamare travel category mein aata hai jo 5%% cashback deta hai (maximum ₹1,000 per billing cycle). Kya aap apni application continue karna chahenge?", title)
		}
		return fmt.Sprintf("Yes! You'll get 5%% cashback when you book through %s with your Jupiter Edge+ card. This is part of our travel category which offers 5%% cashback up to ₹1,000 per billing cycle. Would you like to continue your application?", title)
	default:
		if isHindi {
			return fmt.Sprintf("Aapko %s par 1%% cashback milega Jupiter Edge+ card se. General spends par 1%% cashback ki koi limit nahi hai. Kya aap apni application continue karna chahenge?", title)
		}
		return fmt.Sprintf("You'll get 1%% cashback on all spends at %s with your Jupiter Edge+ card. There's no limit on the 1%% cashback for general spends. Would you like to continue your application?", title)
	}
}
