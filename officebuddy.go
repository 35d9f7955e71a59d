// Package officebuddy extracts structured information from unstructured
// text by chaining large-language-model calls, and crawls knowledge-base
// sites into question/answer corpora.
//
// This package contains domain types, interfaces and pure domain logic
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., gemini/,
// goquery/, openai/).
package officebuddy
