package main

import (
	"context"
	"net/http"

	_ "prefslots/docs"
	"prefslots/internal/config"
	"prefslots/internal/handler"
	"prefslots/internal/logging"
	"prefslots/internal/repository"
	"prefslots/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Prefecture slots API
//	@version		1.0
//	@description	Serves published prefecture slot layouts and projects coordinates onto them.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	if err := logging.Setup(config.LogLevel, config.LogPretty); err != nil {
		log.Fatal().Err(err).Msg("cannot configure logger")
	}

	// Database connection
	conn, err := pgxpool.New(context.Background(), config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("cannot prepare schema")
	}

	slotService := service.NewSlotService(repo)
	projectionService := service.NewProjectionService(repo)

	slotHandler := handler.NewSlotHandler(slotService)
	projectHandler := handler.NewProjectHandler(projectionService)

	r := newRouter(slotHandler, projectHandler)

	log.Info().Str("address", config.ServerAddress).Msg("starting server")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newRouter(slotHandler *handler.SlotHandler, projectHandler *handler.ProjectHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	r.GET("/slots", slotHandler.Table)
	r.GET("/slots/:prefecture", slotHandler.Slots)
	r.GET("/project", projectHandler.Project)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
