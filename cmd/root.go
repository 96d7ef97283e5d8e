/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumach/internal/config"
)

var version = "0.1.0"

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tlumach",
	Short: "Text translation relay and client",
	Long: `tlumach forwards text to a generative-language API (Google Gemini by default)
and returns the translation.

  tlumach serve        run the HTTP relay
  tlumach translate    translate text through a running relay
  tlumach languages    list the languages the client offers

The provider API key is read from GEMINI_API_KEY or TLUMACH_PROVIDER_API_KEY.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./tlumach.yaml or ~/.config/tlumach/tlumach.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-dev", false, "Human-readable console logs")

	v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	v.BindPFlag("log.development", rootCmd.PersistentFlags().Lookup("log-dev"))
}
