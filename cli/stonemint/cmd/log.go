package cmd

import "github.com/cryptograss/stonemint/internal/logger"

var log = logger.CreateForPackage()
