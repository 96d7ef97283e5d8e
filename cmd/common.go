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
	"go.uber.org/zap"

	"github.com/valpere/tlumach/internal/config"
	"github.com/valpere/tlumach/internal/observability"
	"github.com/valpere/tlumach/internal/provider"
	"github.com/valpere/tlumach/internal/relay"
)

func buildLogger(c *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(observability.LogConfig{
		Level:       c.Log.Level,
		Development: c.Log.Development,
	})
}

// buildRelay constructs the single provider named in the config and the
// relay around it. The credential is injected here, once.
func buildRelay(c *config.Config, logger *zap.Logger) (*relay.Relay, error) {
	p, err := provider.New(c.Provider.Name, provider.Settings{
		Model:   c.Provider.Model,
		BaseURL: c.Provider.BaseURL,
		Timeout: c.Provider.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return relay.New(relay.Config{
		APIKey:          c.Provider.APIKey,
		Temperature:     c.Provider.Temperature,
		MaxOutputTokens: c.Provider.MaxOutputTokens,
		Timeout:         c.Provider.Timeout,
	}, p, logger), nil
}
