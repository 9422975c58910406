package ports

import "context"

// OTPSender entrega códigos de un solo uso al teléfono del usuario.
type OTPSender interface {
	Send(ctx context.Context, phone, code string) error
}
