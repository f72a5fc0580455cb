// Package extract turns free-form LLM answers into structured records.
//
// Two modes exist. Ideas parses an idea-generation answer into ordered IdeaRecord values,
// preferring an embedded JSON list and falling back to a line tokenizer that feeds a
// two-state machine. Sections maps a validation result of any shape onto the three
// named analyses, substituting placeholders for anything it cannot find.
//
// All functions are pure and safe for concurrent use; none of them return errors.
package extract
