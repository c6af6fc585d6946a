package main

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/local/slidecast/internal/config"
	"github.com/local/slidecast/internal/db"
	"github.com/local/slidecast/internal/handlers"
	"github.com/local/slidecast/internal/pipeline"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP conversion API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			database, err := db.Init(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			log.Info().Str("db_path", cfg.DBPath).Msg("Database initialized")

			runner, err := pipeline.New(cfg)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			router := gin.Default()

			router.Use(cors.New(cors.Config{
				AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
				AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
				ExposeHeaders:    []string{"Content-Length"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			}))

			h := handlers.New(database, cfg, runner)
			h.Routes(router)
			h.Start(cmd.Context())

			if addr == "" {
				addr = fmt.Sprintf(":%s", cfg.Port)
			}
			log.Info().Str("addr", addr).Str("model", cfg.GeminiModel).Msg("Starting slidecast API server")

			return router.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":PORT\" from the environment)")
	return cmd
}
