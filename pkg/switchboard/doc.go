// Package switchboard wraps the Switchboard V2 oracle program accounts with
// typed loaders, change subscriptions and instruction builders.
//
// Account wrappers pair a Program handle with an account public key. LoadData
// fetches and decodes the on-chain state, OnChange streams decoded updates
// over a websocket subscription, and the instruction builders produce
// anchor-encoded instructions ready for packing into transactions.
package switchboard
