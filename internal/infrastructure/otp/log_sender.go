// Package otp envío de códigos de un solo uso.
package otp

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/pkg/phone"
)

var _ ports.OTPSender = (*LogSender)(nil)

// LogSender escribe el código en el log en lugar de enviar un SMS (desarrollo).
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender construye el sender.
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send implementa ports.OTPSender.
func (s *LogSender) Send(_ context.Context, to, code string) error {
	s.log.Info().Str("phone", phone.Display(to)).Str("otp", code).Msg("código OTP generado")
	return nil
}
