package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// KnowledgeDocument is one grounding passage with a stable section tag.
type KnowledgeDocument struct {
	Content string
	Section string
}

// CardData is the structured product-fact source the corpus is built from.
type CardData struct {
	CardName  string `json:"card_name"`
	Issuer    string `json:"issuer"`
	Network   string `json:"network"`
	AnnualFee struct {
		FirstYear       string `json:"first_year"`
		SubsequentYears string `json:"subsequent_years"`
		Note            string `json:"note"`
	} `json:"annual_fee"`
	Cashback struct {
		Shopping       CashbackTier  `json:"shopping"`
		Travel         CashbackTier  `json:"travel"`
		JupiterFlights *CashbackTier `json:"jupiter_flights"`
		Others         CashbackTier  `json:"others"`
	} `json:"cashback"`
	Rewards struct {
		Type             string   `json:"type"`
		ConversionRate   string   `json:"conversion_rate"`
		EarningFrequency string   `json:"earning_frequency"`
		Expiry           string   `json:"expiry"`
		RedemptionOptions []string `json:"redemption_options"`
	} `json:"rewards"`
	UPIFeatures *struct {
		UPIEnabled         string   `json:"upi_enabled"`
		Description        string   `json:"description"`
		PaymentApps        string   `json:"payment_apps"`
		RewardEligibility  string   `json:"reward_eligibility"`
		EMIOnUPI           string   `json:"emi_on_upi"`
		UnsupportedQRTypes []string `json:"unsupported_qr_types"`
	} `json:"upi_features"`
	EMIFeatures *struct {
		InterestRateStarting string   `json:"interest_rate_starting"`
		Tenures              []string `json:"tenures"`
		EligibleTransactions []string `json:"eligible_transactions"`
		NonEligible          []string `json:"non_eligible"`
	} `json:"emi_features"`
	Features           map[string]json.RawMessage `json:"features"`
	ApplicationProcess struct {
		FullyDigital bool              `json:"fully_digital"`
		AverageTime  string            `json:"average_time"`
		Steps        []ApplicationStep `json:"steps"`
	} `json:"application_process"`
	Eligibility struct {
		Age            string   `json:"age"`
		Income         string   `json:"income"`
		CreditScore    string   `json:"credit_score"`
		EmploymentType []string `json:"employment_type"`
		Documentation  []string `json:"documentation"`
	} `json:"eligibility"`
	FeesAndCharges struct {
		JoiningFee            string `json:"joining_fee"`
		AnnualFee             string `json:"annual_fee"`
		CardIssuanceFee       string `json:"card_issuance_fee"`
		CardReplacementFee    string `json:"card_replacement_fee"`
		InterestRate          string `json:"interest_rate"`
		CashAdvanceFee        string `json:"cash_advance_fee"`
		LatePaymentFee        string `json:"late_payment_fee"`
		ForeignTransactionFee string `json:"foreign_transaction_fee"`
	} `json:"fees_and_charges"`
	CardLimits struct {
		Minimum          string `json:"minimum"`
		Maximum          string `json:"maximum"`
		Description      string `json:"description"`
		TypicalFirstTime string `json:"typical_first_time"`
		LimitIncrease    string `json:"limit_increase"`
		Note             string `json:"note"`
	} `json:"card_limits"`
	BillingAndRepayment *struct {
		StatementCycle      string `json:"statement_cycle"`
		DueDate             string `json:"due_date"`
		MinimumDue          string `json:"minimum_due"`
		AutoDebit           string `json:"auto_debit"`
		InterestCalculation string `json:"interest_calculation"`
	} `json:"billing_and_repayment"`
	ComplianceAndReporting *struct {
		CreditBureauReporting []string `json:"credit_bureau_reporting"`
		Regulator             string   `json:"regulator"`
		IssuerResponsibility  string   `json:"issuer_responsibility"`
	} `json:"compliance_and_reporting"`
	BestFor     []string `json:"best_for"`
	NotIdealFor []string `json:"not_ideal_for"`
	FAQs        []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"faqs"`
}

// CashbackTier describes one cashback category.
type CashbackTier struct {
	Rate               string   `json:"rate"`
	EligibleMerchants  []string `json:"eligible_merchants"`
	MaxPerBillingCycle string   `json:"max_per_billing_cycle"`
	MerchantLimit      string   `json:"merchant_limit"`
	Description        string   `json:"description"`
	Exclusions         []string `json:"exclusions"`
}

// ApplicationStep is one stage of the digital application flow.
type ApplicationStep struct {
	Step        int      `json:"step"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Reason      string   `json:"reason"`
	Required    bool     `json:"required"`
	Fields      []string `json:"fields"`
}

// LoadCardData reads and parses the card fact file.
func LoadCardData(path string) (*CardData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("agent: read card data: %w", err)
	}
	var card CardData
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("agent: parse card data: %w", err)
	}
	if card.CardName == "" {
		return nil, fmt.Errorf("agent: card data missing card_name")
	}
	return &card, nil
}

// BuildCorpus flattens card data into section-tagged grounding passages.
// The corpus is built once at startup and immutable during serving.
func BuildCorpus(card *CardData) []KnowledgeDocument {
	var docs []KnowledgeDocument
	add := func(section, content string) {
		docs = append(docs, KnowledgeDocument{Content: content, Section: section})
	}

	add("general_info", fmt.Sprintf(
		"Card Name: %s. Issuer: %s. Network: %s. Annual Fee: First year: %s, Subsequent years: %s. Note: %s.",
		card.CardName, card.Issuer, card.Network,
		card.AnnualFee.FirstYear, card.AnnualFee.SubsequentYears, card.AnnualFee.Note))

	shopping := card.Cashback.Shopping
	add("shopping_cashback", fmt.Sprintf(
		"Shopping Cashback: %s on purchases from %s. Maximum cashback per billing cycle: ₹%s. Merchant limit: ₹%s per merchant.",
		shopping.Rate, strings.Join(shopping.EligibleMerchants, ", "),
		shopping.MaxPerBillingCycle, shopping.MerchantLimit))
	if len(shopping.Exclusions) > 0 {
		add("shopping_cashback_exclusions", fmt.Sprintf(
			"Shopping Cashback Exclusions: %s.", strings.Join(shopping.Exclusions, ", ")))
	}

	travel := card.Cashback.Travel
	add("travel_cashback", fmt.Sprintf(
		"Travel Cashback: %s on bookings from %s. Maximum cashback per billing cycle: ₹%s.",
		travel.Rate, strings.Join(travel.EligibleMerchants, ", "), travel.MaxPerBillingCycle))

	if jf := card.Cashback.JupiterFlights; jf != nil {
		add("jupiter_flights_cashback", strings.TrimSpace(fmt.Sprintf(
			"Jupiter Flights Cashback: %s on flight bookings through Jupiter Flights. Maximum cashback per billing cycle: %s. %s",
			jf.Rate, jf.MaxPerBillingCycle, jf.Description)))
	}

	others := card.Cashback.Others
	add("other_cashback", strings.TrimSpace(fmt.Sprintf(
		"Other Cashback: %s on all other eligible spends. Maximum cashback per billing cycle: %s. %s",
		others.Rate, others.MaxPerBillingCycle, others.Description)))
	if len(others.Exclusions) > 0 {
		add("other_cashback_exclusions", fmt.Sprintf(
			"Other Cashback Exclusions: %s.", strings.Join(others.Exclusions, ", ")))
	}

	rewards := card.Rewards
	var rewardsDoc strings.Builder
	fmt.Fprintf(&rewardsDoc, "Rewards: Cashback is credited as %s. Conversion rate: %s. ", rewards.Type, rewards.ConversionRate)
	if rewards.EarningFrequency != "" {
		fmt.Fprintf(&rewardsDoc, "Earning frequency: %s. ", rewards.EarningFrequency)
	}
	if rewards.Expiry != "" {
		fmt.Fprintf(&rewardsDoc, "Expiry: %s. ", rewards.Expiry)
	}
	fmt.Fprintf(&rewardsDoc, "Redemption options: %s.", strings.Join(rewards.RedemptionOptions, ", "))
	add("rewards", rewardsDoc.String())

	if upi := card.UPIFeatures; upi != nil {
		var b strings.Builder
		b.WriteString("UPI Features: ")
		if upi.UPIEnabled != "" {
			fmt.Fprintf(&b, "%s. ", upi.UPIEnabled)
		}
		fmt.Fprintf(&b, "%s. ", upi.Description)
		if upi.PaymentApps != "" {
			fmt.Fprintf(&b, "Payment apps: %s. ", upi.PaymentApps)
		}
		if upi.RewardEligibility != "" {
			fmt.Fprintf(&b, "IMPORTANT - Reward eligibility: %s. ", upi.RewardEligibility)
		}
		if upi.EMIOnUPI != "" {
			fmt.Fprintf(&b, "EMI on UPI: %s. ", upi.EMIOnUPI)
		}
		if len(upi.UnsupportedQRTypes) > 0 {
			fmt.Fprintf(&b, "Unsupported QR types: %s.", strings.Join(upi.UnsupportedQRTypes, ", "))
		}
		add("upi_features", strings.TrimSpace(b.String()))
	}

	if emi := card.EMIFeatures; emi != nil {
		add("emi_features", fmt.Sprintf(
			"EMI Features: Interest rate starting at %s. Available tenures: %s months. Eligible transactions: %s. Non-eligible transactions: %s.",
			emi.InterestRateStarting, strings.Join(emi.Tenures, ", "),
			strings.Join(emi.EligibleTransactions, ", "), strings.Join(emi.NonEligible, ", ")))
	}

	// Features is a free-form map; iterate in sorted order so the corpus
	// layout is deterministic across restarts.
	featureNames := make([]string, 0, len(card.Features))
	for name := range card.Features {
		featureNames = append(featureNames, name)
	}
	sort.Strings(featureNames)
	for _, name := range featureNames {
		value := featureValue(card.Features[name])
		if value == "" {
			continue
		}
		add("feature_"+name, fmt.Sprintf("Feature - %s: %s", featureTitle(name), value))
	}

	steps := card.ApplicationProcess.Steps
	var appDoc strings.Builder
	appDoc.WriteString("Application Process: The ")
	appDoc.WriteString(card.CardName)
	appDoc.WriteString(" application is ")
	if card.ApplicationProcess.FullyDigital {
		appDoc.WriteString("fully digital and ")
	}
	avgTime := card.ApplicationProcess.AverageTime
	if avgTime == "" {
		avgTime = "10-15 minutes"
	}
	fmt.Fprintf(&appDoc, "takes approximately %s to complete. ", avgTime)
	stepNames := make([]string, 0, len(steps))
	for _, step := range steps {
		if step.Name != "" {
			stepNames = append(stepNames, step.Name)
		}
	}
	if len(stepNames) > 0 {
		fmt.Fprintf(&appDoc, "Steps include: %s.", strings.Join(stepNames, ", "))
	}
	add("application_process", strings.TrimSpace(appDoc.String()))

	for _, step := range steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("Step %d", step.Step)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "Application Step - %s: %s", name, step.Description)
		if step.Reason != "" {
			fmt.Fprintf(&b, " Reason: %s", step.Reason)
		}
		if step.Required {
			b.WriteString(" (Required)")
		}
		if len(step.Fields) > 0 {
			fmt.Fprintf(&b, " Fields: %s", strings.Join(step.Fields, ", "))
		}
		add("application_step_"+sectionSlug(name), b.String())
	}

	elig := card.Eligibility
	var eligDoc strings.Builder
	fmt.Fprintf(&eligDoc, "Eligibility: Age: %s. Income: %s. Credit Score: %s. ", elig.Age, elig.Income, elig.CreditScore)
	if len(elig.EmploymentType) > 0 {
		fmt.Fprintf(&eligDoc, "Employment Type: %s. ", strings.Join(elig.EmploymentType, ", "))
	}
	fmt.Fprintf(&eligDoc, "Required Documents: %s.", strings.Join(elig.Documentation, ", "))
	add("eligibility", eligDoc.String())

	fees := card.FeesAndCharges
	var feesDoc strings.Builder
	fmt.Fprintf(&feesDoc, "Fees and Charges: Joining Fee: ₹%s. Annual Fee: ₹%s. ", fees.JoiningFee, fees.AnnualFee)
	if fees.CardIssuanceFee != "" {
		fmt.Fprintf(&feesDoc, "Card Issuance Fee: ₹%s. ", fees.CardIssuanceFee)
	}
	if fees.CardReplacementFee != "" {
		fmt.Fprintf(&feesDoc, "Card Replacement Fee: ₹%s. ", fees.CardReplacementFee)
	}
	fmt.Fprintf(&feesDoc, "Interest Rate: %s. Cash Advance Fee: %s. Late Payment Fee: %s. Foreign Transaction Fee: %s.",
		fees.InterestRate, fees.CashAdvanceFee, fees.LatePaymentFee, fees.ForeignTransactionFee)
	add("fees_and_charges", feesDoc.String())

	limits := card.CardLimits
	var limitsDoc strings.Builder
	fmt.Fprintf(&limitsDoc, "Card Limits: Minimum: %s. Maximum: %s. ", limits.Minimum, limits.Maximum)
	if limits.Description != "" {
		fmt.Fprintf(&limitsDoc, "%s. ", limits.Description)
	}
	if limits.TypicalFirstTime != "" {
		fmt.Fprintf(&limitsDoc, "Typical first-time limit: %s. ", limits.TypicalFirstTime)
	}
	if limits.LimitIncrease != "" {
		fmt.Fprintf(&limitsDoc, "Limit increase: %s. ", limits.LimitIncrease)
	}
	if limits.Note != "" {
		fmt.Fprintf(&limitsDoc, "Note: %s", limits.Note)
	}
	add("card_limits", strings.TrimSpace(limitsDoc.String()))

	if billing := card.BillingAndRepayment; billing != nil {
		add("billing_and_repayment", fmt.Sprintf(
			"Billing and Repayment: Statement cycle: %s. Due date: %s. Minimum due: %s. Auto-debit: %s. Interest calculation: %s.",
			billing.StatementCycle, billing.DueDate, billing.MinimumDue, billing.AutoDebit, billing.InterestCalculation))
	}

	if compliance := card.ComplianceAndReporting; compliance != nil {
		add("compliance_and_reporting", fmt.Sprintf(
			"Compliance and Reporting: Credit bureau reporting: %s. Regulator: %s. Issuer responsibility: %s.",
			strings.Join(compliance.CreditBureauReporting, ", "), compliance.Regulator, compliance.IssuerResponsibility))
	}

	if len(card.BestFor) > 0 {
		add("best_for", fmt.Sprintf("This card is best for: %s.", strings.Join(card.BestFor, ", ")))
	}
	if len(card.NotIdealFor) > 0 {
		add("not_ideal_for", fmt.Sprintf("This card is not ideal for: %s.", strings.Join(card.NotIdealFor, ", ")))
	}

	for idx, faq := range card.FAQs {
		add(fmt.Sprintf("faq_%d", idx), fmt.Sprintf("FAQ: %s %s", faq.Question, faq.Answer))
	}

	return docs
}

// featureValue renders a feature entry that may be a string or a string list.
func featureValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

func featureTitle(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func sectionSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, "(", "")
	slug = strings.ReplaceAll(slug, ")", "")
	slug = strings.ReplaceAll(slug, " ", "_")
	return slug
}
