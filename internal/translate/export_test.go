package translate

// Test hooks for injecting mocks from the black-box test package.

// WithChatCompleter exposes withChatCompleter for tests.
func WithChatCompleter(cc chatCompleter) ClientOption {
	return withChatCompleter(cc)
}

// ChatCompleter re-exports the internal interface so test mocks can
// declare compliance.
type ChatCompleter = chatCompleter
