// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "baseobject",
	Short: "Dynamic attribute container toolkit",
	Long: `baseobject demonstrates the record container library: mutable records,
lockable frozen instances, structural operations, and ordered projections.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
