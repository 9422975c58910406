package ports

import (
	"context"
	"time"
)

// Cache almacenamiento clave/valor con expiración. Lo usan la caché de consultas,
// los códigos OTP y la lista de tokens revocados.
type Cache interface {
	// Get devuelve found=false si la clave no existe o expiró.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix borra todas las claves que empiezan por prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// CompareAndDelete borra key solo si su valor es value, de forma atómica. deleted=false si no
	// existe, expiró o tiene otro valor.
	CompareAndDelete(ctx context.Context, key string, value []byte) (deleted bool, err error)
}
