package main

import (
	"os"

	"lifesaver-qr/cmd/bootstrap"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("lifesaver-qr", pflag.ExitOnError)
	envFile := flags.String("env-file", ".env", "path to an optional env file")
	flags.String("port", "", "HTTP port, overrides APP_PORT")
	_ = flags.Parse(os.Args[1:])

	// Initialize application with all dependencies
	app, err := bootstrap.New(bootstrap.Options{EnvFile: *envFile, Flags: flags})
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	// Run the application
	app.Run()
}
