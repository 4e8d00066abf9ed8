// Package api exposes the HTTP surface of the chat service: submitting a
// turn, listing chats, fetching a transcript, and a health probe.
package api
