// Package types mirrors the on-chain binary layouts of the Switchboard
// program's accounts and instruction parameters, generated from the program
// IDL. Struct field order is wire order, do not reorder fields.
//
// Accounts are fixed-size zero-copy layouts with reserved ebuf padding at the
// tail; instruction parameters are plain borsh records and may contain
// dynamic fields.
package types
