// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ItemStore: Item and purchase persistence (JSON files or SQLite)
//   - LedgerStore: Import ledger persistence
//   - ExportReader: Parses order exports into purchases
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TitleNormaliserFactory: Without it, new items keep their raw titles.
//   - LLMService: Language model used by the title normaliser.
//   - PromptStore: User-customisable prompts. Without it, built-in prompts are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
