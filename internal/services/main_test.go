package services

import (
	"os"
	"testing"

	"github.com/Amirhan2201/ChatLink/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}
