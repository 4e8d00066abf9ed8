// Package turn orchestrates a single request/response exchange: persist the
// user message, obtain a completion over the accumulated history, and persist
// the assistant reply.
package turn
