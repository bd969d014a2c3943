package config

import "github.com/futig/onboarding-backend/internal/entity"

// DefaultSteps is the compiled-in onboarding sequence, used when no
// onboarding_steps.json is provided.
func DefaultSteps() entity.StepCatalog {
	return entity.StepCatalog{
		{
			Position:         0,
			Field:            entity.FieldFirstName,
			Prompt:           "Hi there! I'd love to get to know you better. What's your first name?",
			SystemContext:    "You are a friendly onboarding assistant. You need to collect the user's first name.",
			ValidationPrompt: "Validate if this is a proper first name. If not, ask again politely.",
		},
		{
			Position:         1,
			Field:            entity.FieldLastName,
			Prompt:           "Thanks! And what's your last name?",
			SystemContext:    "You are a friendly onboarding assistant. You are collecting the user's last name. Be friendly but professional.",
			ValidationPrompt: "Validate if this is a proper last name. If not, ask again politely.",
		},
		{
			Position:         2,
			Field:            entity.FieldCompany,
			Prompt:           "Which company do you work for?",
			SystemContext:    "You are a friendly onboarding assistant. You are collecting the user's company name. If they don't provide one, ask if they're self-employed or a freelancer.",
			ValidationPrompt: "Validate if this looks like a company name. If not, ask for clarification.",
		},
		{
			Position:         3,
			Field:            entity.FieldJobFunction,
			Prompt:           "What's your primary job function? (e.g., Engineering, Marketing, Sales, Product)",
			SystemContext:    "You are a friendly onboarding assistant. You are collecting the user's job function. Help categorize their role into a standard department.",
			ValidationPrompt: "Check if this is a standard job function. If unclear, ask for clarification.",
		},
		{
			Position:         4,
			Field:            entity.FieldJobTitle,
			Prompt:           "What's your specific job title?",
			SystemContext:    "You are a friendly onboarding assistant. You are collecting the user's specific job title. This should align with their previously mentioned job function.",
			ValidationPrompt: "Validate if this job title aligns with their job function. If not, ask for clarification.",
		},
		{
			Position:         5,
			Field:            entity.FieldHeardAboutUs,
			Prompt:           "Last question - how did you hear about us?",
			SystemContext:    "You are a friendly onboarding assistant. You are collecting information about how the user discovered the product. Be casual and friendly.",
			ValidationPrompt: "Accept any reasonable response about how they heard about the product.",
		},
	}
}
