// Command wallbot runs the Telegram wallpaper bot.
package main

import (
	"log"

	"github.com/m3rciful/wallbot/bot/app"
	"github.com/m3rciful/wallbot/bot/config"
	corecmd "github.com/m3rciful/wallbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatal(err)
	}
}
