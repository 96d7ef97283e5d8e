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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumach/internal/catalog"
	"github.com/valpere/tlumach/internal/client"
	"github.com/valpere/tlumach/internal/detector"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string
	swapLangs  bool
	copyResult bool
	speakAloud bool
	checkLang  bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text through a running relay",
	Long: `Translate text through the relay started with "tlumach serve".

Text is taken from the arguments, from --input (a file, or - for stdin),
or from stdin when neither is given. Languages are catalog codes; see
"tlumach languages". Use --source auto to detect the source language.

  tlumach translate -s en -t fr "Good morning"
  tlumach translate -s auto -t en -i letter.txt -o letter.en.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputFile != "" && inputFile != "-" && inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		relayClient := client.New(cfg.Client.RelayURL, client.WithTimeout(cfg.Client.Timeout))
		session := client.NewSession(relayClient,
			client.WithCatalog(catalog.Default),
			client.WithDetector(detector.New(catalog.Default.Codes())),
			client.WithClipboard(client.SystemClipboard{}),
			client.WithSpeaker(client.NewCommandSpeaker()),
		)
		session.Source = sourceLang
		session.Target = targetLang
		if swapLangs {
			session.Swap()
		}
		session.SourceText = text

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		translated, err := session.Translate(ctx)
		if err != nil {
			return reportFailure(cmd.ErrOrStderr(), err)
		}

		if strings.EqualFold(sourceLang, client.AutoDetect) && !swapLangs {
			fmt.Fprintf(cmd.ErrOrStderr(), "Detected source language: %s\n", session.Source)
		}
		if checkLang {
			det := detector.New(catalog.Default.Codes())
			if ok, err := det.Matches(translated, session.Target); !ok && err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
		}

		if err := writeOutput(cmd.OutOrStdout(), translated); err != nil {
			return err
		}

		if copyResult {
			if err := session.Copy(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Copy failed: %v\n", err)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "Translation copied to clipboard")
			}
		}
		if speakAloud {
			if err := session.Speak(ctx); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Speech failed: %v\n", err)
			}
		}
		return nil
	},
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && inputFile != "" {
		return "", fmt.Errorf("give text either as arguments or with --input, not both")
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	var (
		data []byte
		err  error
	)
	switch inputFile {
	case "", "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		data, err = os.ReadFile(inputFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func writeOutput(stdout io.Writer, text string) error {
	if outputFile == "" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// reportFailure prints the short notice the form would show and returns the
// detail as the command error. Local input problems are returned as is.
func reportFailure(stderr io.Writer, err error) error {
	if errors.Is(err, client.ErrNoText) || errors.Is(err, client.ErrSameLanguage) {
		return err
	}
	var relayErr *client.RelayError
	if errors.As(err, &relayErr) && relayErr.Retryable() {
		fmt.Fprintln(stderr, "Translation failed. Please try again.")
	} else {
		fmt.Fprintln(stderr, "Translation failed.")
	}
	return err
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate, - for stdin")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "en", "Source language code, or auto")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "ur", "Target language code")
	translateCmd.Flags().BoolVar(&swapLangs, "swap", false, "Swap source and target languages")
	translateCmd.Flags().BoolVar(&copyResult, "copy", false, "Copy the translation to the clipboard")
	translateCmd.Flags().BoolVar(&speakAloud, "speak", false, "Read the translation aloud")
	translateCmd.Flags().BoolVar(&checkLang, "check", false, "Warn when the output does not look like the target language")
	translateCmd.Flags().String("relay", "", "Relay base URL (default http://localhost:8080)")

	v.BindPFlag("client.relay_url", translateCmd.Flags().Lookup("relay"))
}
