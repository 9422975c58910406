package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrPhoneAlreadyExists = errors.New("el teléfono ya está registrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidOTP         = errors.New("código OTP inválido o expirado")

	// Pedidos
	ErrInvalidStatus  = errors.New("estado de pedido inválido")
	ErrTerminalStatus = errors.New("el pedido ya está en un estado final")
	ErrSameStatus     = errors.New("el pedido ya tiene ese estado")

	// Imágenes
	ErrFileTooLarge        = errors.New("el archivo supera el tamaño máximo")
	ErrUnsupportedFileType = errors.New("tipo de archivo no permitido")
	ErrInvalidBucket       = errors.New("bucket inválido")
)
