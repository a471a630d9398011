package main

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/app"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunSeed(); err != nil {
		logger.Fatal("run seed failed", zap.Error(err))
	}
	logger.Info("seed completed")
}
