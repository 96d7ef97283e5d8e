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
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/tlumach/internal/catalog"
)

var languagesJSON bool

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages offered for translation",
	RunE: func(cmd *cobra.Command, args []string) error {
		langs := catalog.Default.All()

		if languagesJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(langs)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME")
		for _, l := range langs {
			fmt.Fprintf(w, "%s\t%s\n", l.Code, l.Name)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(languagesCmd)
	languagesCmd.Flags().BoolVar(&languagesJSON, "json", false, "Print as JSON")
}
