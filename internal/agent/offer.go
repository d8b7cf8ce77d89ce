package agent

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Offer is a promotional template shown to hesitant or declining users.
type Offer struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	UrgencyText string `json:"urgency_text"`
	CTA         string `json:"cta"`
}

// OfferConfig is an immutable snapshot of offer selection and trigger rules.
// Admin updates swap the whole snapshot; conversation traffic only reads it.
type OfferConfig struct {
	ActiveOffer      string           `json:"active_offer"`
	ShowOnHesitation bool             `json:"show_on_hesitation"`
	ShowOnDecline    bool             `json:"show_on_decline"`
	MaxAttempts      int              `json:"max_attempts"`
	Offers           map[string]Offer `json:"offers"`
}

// DefaultOffers is the built-in promotional catalog.
func DefaultOffers() map[string]Offer {
	return map[string]Offer{
		"default": {
			Name:        "default",
			Enabled:     true,
			Title:       "🎁 Limited Time Offer",
			Message:     "Since you're one of our early applicants, we're offering an EXCLUSIVE bonus: Get ₹500 worth of Jewels (₹100 cashback) credited instantly on your first transaction! This offer is valid only for applications completed in the next 48 hours.",
			UrgencyText: "⏰ This exclusive bonus expires in 48 hours!",
			CTA:         "Don't miss out on this limited-time bonus. Would you like to complete your application now?",
		},
		"high_value": {
			Name:        "high_value",
			Enabled:     true,
			Title:       "🎁 Limited Time Offer",
			Message:     "1 year JioHotStar Subscription",
			UrgencyText: "⏰ This exclusive bonus expires in 48 hours!",
			CTA:         "Don't miss out on this limited-time bonus. Would you like to complete your application now?",
		},
		"zero_fee_highlight": {
			Name:        "zero_fee_highlight",
			Enabled:     true,
			Title:       "🆓 Lifetime Free Card - Limited Slots",
			Message:     "Quick heads up: We have limited slots left for our Lifetime Free Card offer. After this month, new applicants will have to pay ₹500 joining fee. You can secure your ZERO joining fee slot by completing your application today!",
			UrgencyText: "⏳ Limited slots remaining - secure yours before it's too late!",
			CTA:         "Would you like to reserve your lifetime free card slot now?",
		},
		"instant_approval": {
			Name:        "instant_approval",
			Enabled:     true,
			Title:       "⚡ Instant Approval - Available Now",
			Message:     "Good news! Your pre-qualification shows you're likely to get instant approval with a credit limit of up to ₹1,00,000. Complete your application in the next 2 hours to get instant approval and start using your card immediately!",
			UrgencyText: "🚀 Instant approval window closes in 2 hours!",
			CTA:         "Ready to get your card approved instantly?",
		},
	}
}

// OfferStore holds the current OfferConfig snapshot behind an atomic pointer.
type OfferStore struct {
	current atomic.Pointer[OfferConfig]
}

// NewOfferStore seeds the store with an initial snapshot.
func NewOfferStore(cfg OfferConfig) *OfferStore {
	if cfg.Offers == nil {
		cfg.Offers = DefaultOffers()
	}
	if cfg.ActiveOffer == "" {
		cfg.ActiveOffer = "high_value"
	}
	s := &OfferStore{}
	s.current.Store(&cfg)
	return s
}

// Config returns the current snapshot.
func (s *OfferStore) Config() OfferConfig {
	return *s.current.Load()
}

// Update atomically replaces the snapshot. The named active offer must exist.
func (s *OfferStore) Update(cfg OfferConfig) error {
	if cfg.Offers == nil {
		cfg.Offers = s.current.Load().Offers
	}
	if _, ok := cfg.Offers[cfg.ActiveOffer]; !ok {
		return fmt.Errorf("agent: unknown active offer %q", cfg.ActiveOffer)
	}
	s.current.Store(&cfg)
	return nil
}

// Active resolves the currently selected offer, falling back to the
// default template when the selector points at a missing entry.
func (c OfferConfig) Active() Offer {
	if offer, ok := c.Offers[c.ActiveOffer]; ok {
		return offer
	}
	return c.Offers["default"]
}

// ShouldShowOffer is the throttle guard: false once the conversation's offer
// counter has reached max attempts, otherwise true only for the configured
// trigger intents. Pure; the counter increment happens where the offer
// message is built.
func ShouldShowOffer(conv *Conversation, intent Intent, cfg OfferConfig) bool {
	if conv == nil {
		return false
	}
	if conv.FomoOfferCount >= cfg.MaxAttempts {
		return false
	}
	switch intent {
	case IntentHesitating:
		return cfg.ShowOnHesitation
	case IntentWantingToStop:
		return cfg.ShowOnDecline
	}
	return false
}

// OfferMessage renders the active offer for the user, incrementing the
// conversation's offer counter. Hindi/Hinglish speakers get a language note.
func OfferMessage(conv *Conversation, language Language, cfg OfferConfig, applicationLink string) string {
	offer := cfg.Active()
	if !offer.Enabled {
		return ""
	}

	conv.FomoOfferCount++

	languageNote := ""
	if language == LanguageHindi || language == LanguageHinglish {
		languageNote = "(Aap Hindi mein bhi baat kar sakte hain)\n\n"
	}

	return strings.TrimSpace(fmt.Sprintf("%s%s\n\n%s\n\n%s\n\n%s\n\n💳 Continue here: %s",
		languageNote, offer.Title, offer.Message, offer.UrgencyText, offer.CTA, applicationLink))
}
