package catalog

import "sync"

// Question ids of the embedded catalog that other packages and tests refer to.
const (
	IDPersistence        = "rf_persistence"
	IDInterest           = "rf_interest"
	IDAbilityToLearn     = "rf_feedback"
	IDRealWorldAlignment = "rf_real_world"
	IDCognitive          = "rf_cognitive"
)

var (
	agreeScale = &ScaleBounds{Low: "Strongly Disagree", High: "Strongly Agree"}

	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded smart city infrastructure catalog. It is
// built and validated on first use and then shared by every caller.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = New(seedQuestions(), Sources{
			Persistence:        IDPersistence,
			Interest:           IDInterest,
			Cognitive:          IDCognitive,
			AbilityToLearn:     IDAbilityToLearn,
			RealWorldAlignment: IDRealWorldAlignment,
		})
	})
	return defaultCatalog, defaultErr
}

func seedQuestions() []Question {
	return []Question{
		// ── Disposition ──────────────────────────────────────────────────────
		{
			ID: "disp_cities", Type: TypeScaled, Category: CategoryDisposition,
			Section: "Interest Scale",
			Prompt:  "I enjoy thinking about how cities and infrastructure work.",
			Scale:   agreeScale,
		},
		{
			ID: "disp_public_data", Type: TypeScaled, Category: CategoryDisposition,
			Section: "Interest Scale",
			Prompt:  "I'm interested in how data can improve public services.",
			Scale:   agreeScale,
		},
		{
			ID: "disp_sustainable", Type: TypeScaled, Category: CategoryDisposition,
			Section: "Interest Scale",
			Prompt:  "Sustainable design and future cities fascinate me.",
			Scale:   agreeScale,
		},
		{
			ID: "disp_long_term", Type: TypeScaled, Category: CategoryDisposition,
			Section: "Personality Fit",
			Prompt:  "I prefer working on long-term projects that require sustained effort.",
			Scale:   agreeScale,
		},
		{
			ID: "disp_collaboration", Type: TypeScaled, Category: CategoryDisposition,
			Section: "Personality Fit",
			Prompt:  "I enjoy collaborating with diverse teams on complex problems.",
			Scale:   agreeScale,
		},
		{
			ID: "disp_open_ended", Type: TypeScaled, Category: CategoryDisposition,
			Section: "Work Style",
			Prompt:  "I thrive when working on open-ended, exploratory projects.",
			Scale:   agreeScale,
		},

		// ── Domain knowledge ─────────────────────────────────────────────────
		{
			ID: "dk_digital_twin", Type: TypeSingleChoice, Category: CategoryDomainKnowledge,
			Section: "IoT Knowledge",
			Prompt:  "What is a digital twin in urban planning?",
			Options: []Option{
				{Text: "A virtual replica of physical city infrastructure for simulation and monitoring", Tier: TierBest},
				{Text: "A backup system for city databases", Tier: TierNeutral},
				{Text: "A secondary data center for redundancy", Tier: TierNeutral},
				{Text: "I'm not familiar with this concept", Tier: TierUnfamiliar},
			},
		},
		{
			ID: "dk_smart_utility", Type: TypeSingleChoice, Category: CategoryDomainKnowledge,
			Section: "Smart Systems",
			Prompt:  "Which of the following is a smart utility system?",
			Options: []Option{
				{Text: "Traditional water meter reading", Tier: TierNeutral},
				{Text: "Smart grid with real-time energy monitoring", Tier: TierBest},
				{Text: "Manual traffic light operation", Tier: TierNeutral},
				{Text: "Paper-based waste collection scheduling", Tier: TierNeutral},
			},
		},
		{
			ID: "dk_iot_protocol", Type: TypeSingleChoice, Category: CategoryDomainKnowledge,
			Section: "IoT Protocols",
			Prompt:  "Which protocol is commonly used in IoT communications?",
			Options: []Option{
				{Text: "MQTT", Tier: TierBest},
				{Text: "HTML", Tier: TierNeutral},
				{Text: "CSS", Tier: TierNeutral},
				{Text: "I'm not sure", Tier: TierUnfamiliar},
			},
		},
		{
			ID: "dk_traffic_flow", Type: TypeSingleChoice, Category: CategoryDomainKnowledge,
			Section: "Urban Systems",
			Prompt:  "How can traffic flow be optimized in smart cities?",
			Options: []Option{
				{Text: "Using AI to analyze traffic patterns and adjust signals in real-time", Tier: TierBest},
				{Text: "Installing more traffic lights", Tier: TierNeutral},
				{Text: "Reducing the number of roads", Tier: TierNeutral},
				{Text: "I don't know", Tier: TierUnfamiliar},
			},
		},

		// ── Readiness framework ──────────────────────────────────────────────
		{
			ID: IDPersistence, Type: TypeScaled, Category: CategoryReadinessFramework,
			Section: "Will (Persistence)",
			Prompt:  "I stick to long-term goals despite obstacles.",
			Scale:   &ScaleBounds{Low: "Never", High: "Always"},
		},
		{
			ID: IDInterest, Type: TypeScaled, Category: CategoryReadinessFramework,
			Section: "Interest",
			Prompt:  "I find the concept of future cities fascinating.",
			Scale:   &ScaleBounds{Low: "Not at all", High: "Extremely"},
		},
		{
			ID: IDAbilityToLearn, Type: TypeScaled, Category: CategoryReadinessFramework,
			Section: "Ability to Learn",
			Prompt:  "I see feedback as an opportunity to improve.",
			Scale:   &ScaleBounds{Low: "Rarely", High: "Always"},
		},
		{
			ID: IDRealWorldAlignment, Type: TypeBinary, Category: CategoryReadinessFramework,
			Section: "Real-World Alignment",
			Prompt:  "Would you enjoy coordinating a smart energy system deployment across multiple city departments?",
			Options: []Option{
				{Text: "Yes, that sounds exciting", Tier: TierAffirmative},
				{Text: "No, that seems overwhelming", Tier: TierNegative},
			},
		},
		{
			ID: IDCognitive, Type: TypeScaled, Category: CategoryReadinessFramework,
			Section: "Cognitive Readiness",
			Prompt:  "I enjoy solving complex problems that require considering multiple interconnected systems.",
			Scale:   agreeScale,
		},
	}
}
