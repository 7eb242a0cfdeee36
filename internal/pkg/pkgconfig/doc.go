// Package pkgconfig provides a small abstraction for reading configuration values.
//
// Business code depends on the Config interface and never on the concrete
// backend. The Viper implementation reads a YAML file and lets environment
// variables override any key (dots become underscores, so "llm.api_key" is
// also read from LLM_API_KEY). Extra env names can be bound to a key with
// WithEnvAlias, which is how legacy variables such as GROQ_API_KEY are kept.
package pkgconfig
