package usecase

import "strings"

type Category string

const (
	CategoryMedicines Category = "medicines"
	CategoryDiseases  Category = "diseases"
	CategorySchemes   Category = "schemes"
	CategoryGeneral   Category = "general"
)

const (
	FallbackMedicines = "I'd be happy to provide information about medicines including usage, side effects, and interactions. " +
		"However, I'm currently experiencing connectivity issues with my knowledge base. " +
		"Please try again later or consult a healthcare professional for immediate medication information."
	FallbackDiseases = "I'd like to help with your question about medical conditions. " +
		"Unfortunately, I'm currently experiencing connectivity issues with my knowledge base. " +
		"For accurate information about symptoms, treatments, or prevention, please consult a healthcare professional or a reliable medical website."
	FallbackSchemes = "Information about Indian government medical schemes is important. " +
		"While I'm currently experiencing connectivity issues with my database, you can find details about schemes like " +
		"Ayushman Bharat, PM-JAY, and others on official government websites or by calling their helplines."
	FallbackGeneral = "I'm sorry, I'm currently experiencing technical difficulties connecting to my knowledge base. " +
		"This may be due to API quota limitations. For medical information, please consult a qualified healthcare professional " +
		"or visit reliable medical websites. Thank you for your understanding."

	// TechnicalDifficulty is returned by the transports when something outside
	// the resolver goes wrong.
	TechnicalDifficulty = "I'm sorry, I'm experiencing technical difficulties connecting to my knowledge base. " +
		"Please try again later or consult a healthcare professional for medical information."
)

type fallbackRule struct {
	category Category
	keywords []string
	reply    string
}

// fallbackRules is checked in order; the first rule with a matching keyword wins.
var fallbackRules = []fallbackRule{
	{
		category: CategoryMedicines,
		keywords: []string{
			"medicine", "drug", "pill", "tablet", "prescription", "capsule", "syrup", "dosage", "side effect",
			"paracetamol", "ibuprofen", "aspirin", "antibiotic", "insulin", "metformin",
		},
		reply: FallbackMedicines,
	},
	{
		category: CategoryDiseases,
		keywords: []string{"disease", "condition", "symptom", "syndrome", "disorder"},
		reply:    FallbackDiseases,
	},
	{
		category: CategorySchemes,
		keywords: []string{"scheme", "government", "program", "ayushman", "pm-jay", "insurance"},
		reply:    FallbackSchemes,
	},
}

func (r fallbackRule) matches(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func matchRule(message string) (fallbackRule, bool) {
	lower := strings.ToLower(message)
	for _, r := range fallbackRules {
		if r.matches(lower) {
			return r, true
		}
	}
	return fallbackRule{}, false
}

// Classify returns the fallback category of message.
func Classify(message string) Category {
	if r, ok := matchRule(message); ok {
		return r.category
	}
	return CategoryGeneral
}

// Fallback returns the canned reply for message. It never returns an empty string.
func Fallback(message string) string {
	if r, ok := matchRule(message); ok {
		return r.reply
	}
	return FallbackGeneral
}
