package usecase_test

import (
	"context"

	"github.com/bnema/webdock/internal/logging"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}
