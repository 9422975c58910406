// migrate aplica o revierte las migraciones embebidas.
//
// Uso: go run ./cmd/migrate [up|down|version]
//   - up: aplica todas las pendientes (por defecto)
//   - down: revierte un paso
//   - version: muestra la versión actual
package main

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kirana-admin-api/pkg/config"
	"github.com/jhoicas/kirana-admin-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	m, err := postgres.NewMigrator(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			log.Info().Msg("sin migraciones aplicadas")
			return
		}
		if verr != nil {
			log.Fatal().Err(verr).Msg("leer versión")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual")
		return
	default:
		log.Fatal().Str("cmd", cmd).Msg("comando desconocido: use up, down o version")
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Str("cmd", cmd).Msg("sin cambios")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", cmd).Msg("migración fallida")
	}
	v, dirty, _ := m.Version()
	log.Info().Str("cmd", cmd).Uint("version", v).Bool("dirty", dirty).Msg("migración aplicada")
}
