package webhook

//go:generate mockgen -destination=mocks/mock_secret_source.go -package=mocks github.com/mattjoyce/linehook/internal/webhook SecretSource

// SecretSource yields the channel secret used as the HMAC key.
// Implementations are consulted on every request.
type SecretSource interface {
	LookupSecret() (string, bool)
}
