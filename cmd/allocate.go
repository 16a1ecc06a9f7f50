/*
Copyright 2024 giv2giv Authors.

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

package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// allocateCommands creates the command for running one donation allocation
// from the terminal. Operationally this re-drives a donation event whose
// upstream trigger was missed.
func allocateCommands(g *giv2givInstance) *cobra.Command {
	var amount string
	var endowmentID string
	var donorID string

	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "allocate one donation across an endowment's charities",
		Run: func(cmd *cobra.Command, args []string) {
			donation, err := decimal.NewFromString(amount)
			if err != nil {
				log.Fatalf("invalid amount %q: %v", amount, err)
			}

			result, err := g.service.AllocatePassthruGrant(cmd.Context(), donation, endowmentID, donorID)
			if err != nil {
				log.Fatalf("allocation failed: %v", err)
			}

			data, err := json.MarshalIndent(result, "", "    ")
			if err != nil {
				log.Fatalf("Error printing result: %v\n", err)
			}
			fmt.Println(string(data))
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "donation amount, e.g. 100.00")
	cmd.Flags().StringVar(&endowmentID, "endowment", "", "endowment id receiving the donation")
	cmd.Flags().StringVar(&donorID, "donor", "", "donor id the donation came from")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("endowment")
	_ = cmd.MarkFlagRequired("donor")

	return cmd
}
