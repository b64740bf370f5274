package logger

import (
	"go-studio-crm/internal/config"
	"go-studio-crm/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the zap logger and attaches the async DB sink
func NewLogger(cfg *config.Config, db *database.MongodbDB) (*zap.Logger, error) {

	// 1. Setup Base Config (Console/JSON)
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Important: Enable Caller to get Function Name
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	// 2. Create our Async DB Writer
	dbWriter := NewDBLogWriter(db, cfg)

	// 3. Wrap the Core so entries go to both console and the logs collection
	finalCore := NewDBCore(baseLogger.Core(), dbWriter)

	return zap.New(finalCore, zap.AddCaller()), nil
}
