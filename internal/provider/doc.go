// Package provider implements chat completion backends and the ordered
// fallback chain that tries them in sequence. Each backend adapts a remote
// completion API to a single Complete call over the accumulated conversation.
package provider
