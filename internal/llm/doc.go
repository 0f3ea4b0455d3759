// Package llm provides inference backend clients for subscription extraction.
// It supports OpenAI and Gemini providers, with retry logic and rate limiting
// applied by the consumers that wrap these clients.
package llm
