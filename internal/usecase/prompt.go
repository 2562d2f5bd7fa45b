package usecase

import (
	"strings"

	"medibot/internal/domain"
)

const (
	seedInstructionPrefix = "Please act as a medical assistant according to these instructions: "
	seedAcknowledgement   = "I'll serve as MediBot, a specialized medical assistant focusing on medicines, diseases, " +
		"and Indian government medical schemes. I'll provide accurate, concise information while following your " +
		"guidelines for format and content. I'll mention when professional medical consultation is needed and " +
		"acknowledge my limitations when appropriate. I understand I should not provide personal medical advice " +
		"or diagnoses. I'm ready to assist with medical information queries now."
)

// SystemPrompt is the instruction both providers receive.
func SystemPrompt() string {
	return strings.Join([]string{
		"You are MediBot, a medical assistant specializing in:",
		"1. Information about medicines (usage, side effects, interactions)",
		"2. General knowledge about diseases and medical conditions",
		"3. Detailed information about Indian government medical schemes",
		"",
		"Important guidelines:",
		guidelines(),
		"",
		"Remember you are a medical information resource, not a replacement for professional medical advice.",
	}, "\n")
}

func guidelines() string {
	return strings.Join([]string{
		"- Provide accurate, concise information based on medical facts",
		"- For medicine questions, mention common dosages, uses, and side effects",
		"- For disease questions, cover symptoms, treatments, and prevention",
		"- For Indian government schemes, provide eligibility criteria and benefits",
		"- Always mention if someone should consult a healthcare professional for medical advice",
		"- If you're unsure about something, acknowledge your limitations rather than making up information",
		"- When discussing medicines, mention the scientific name and common brand names",
		"- Format your answers clearly with appropriate paragraph breaks for readability",
		"- For complex topics, use numbered or bulleted lists",
		"- DO NOT provide personal medical advice or diagnose conditions",
		"- Include a disclaimer when discussing medical topics",
	}, "\n")
}

// PrimaryMessages builds the system + user exchange sent to the primary provider.
func PrimaryMessages(message string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: SystemPrompt()},
		{Role: domain.RoleUser, Content: message},
	}
}

// SeededMessages builds the secondary provider conversation: an instruction
// turn, a model acknowledgement, then the real user message.
func SeededMessages(message string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleUser, Content: seedInstructionPrefix + SystemPrompt()},
		{Role: domain.RoleModel, Content: seedAcknowledgement},
		{Role: domain.RoleUser, Content: message},
	}
}
