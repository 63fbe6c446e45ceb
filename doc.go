// Package dues computes maintenance-dues balances for the units of a residential
// society. It is designed to be local-first and auditable: the system of record
// is an append-only list of payments, and every balance is recomputed from it.
//
// The core functionalities include:
//   - Identifier normalization: unit labels such as "A-101", " a101 " and "A 101"
//     all reconcile to the same key.
//   - Tolerant amount parsing: spreadsheet cells like "₹1,200.50", "" or "n/a"
//     degrade to a number instead of failing a report.
//   - Accounting: a stateless engine that turns an owner roster, a billing policy
//     and a set of payments into one ledger entry per unit.
//   - Recording: appending a validated payment or expense to a store.
//   - Data persistence: a human-readable JSONL journal, with adapters for CSV
//     exports, a spreadsheet web app and Postgres living in sub packages.
//
// This package serves as the foundational logic for the `duesctl` command-line
// tool and its HTTP server.
package dues
