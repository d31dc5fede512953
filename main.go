package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/Okami6997/ChessGamesAnalyzer/internal/analyzer/cmd"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	logrus.SetLevel(logrus.InfoLevel)

	if err := analyzer(); err != nil {
		logrus.Fatal(err)
	}
}

func analyzer() error {
	root := cmd.Root()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}
