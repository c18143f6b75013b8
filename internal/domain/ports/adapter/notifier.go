package adapter

import "context"

// Notifier delivers activation codes out of band, typically by email.
// Delivery is fire and forget: a false result is logged by the caller and
// never rolls back an issued code.
type Notifier interface {
	SendActivationCode(ctx context.Context, email, code string) bool
}
