package main

import (
	"ytbulkedit/cmd"
	"ytbulkedit/infrastructure/logger"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
		panic(err)
	}
}

func main() {
	defer recoverPanic()
	cmd.Execute()
}
