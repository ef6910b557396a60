// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/louisgoodnews/baseobject/pkg/record"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	convertFrom string // Input format: json or yaml
	convertTo   string // Output format: json or yaml
	convertSort string // Optional key sort: asc or desc
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// convertCmd round-trips a flat document through a record, preserving key
// order unless a sort is requested.
var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a flat JSON or YAML document between formats",
	Long: `Reads a flat document (top-level object or mapping), loads it into a
record, and writes it back out in the requested format. Key order is
preserved unless --sort is given.

Reads from stdin when no file is named.

Examples:
  baseobject convert --from json --to yaml person.json
  cat person.yaml | baseobject convert --from yaml --to json
  baseobject convert --from json --to json --sort asc person.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvertCommand,
}

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", "json", "Input format: json or yaml")
	convertCmd.Flags().StringVar(&convertTo, "to", "yaml", "Output format: json or yaml")
	convertCmd.Flags().StringVar(&convertSort, "sort", "", "Sort keys: asc or desc")
	rootCmd.AddCommand(convertCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runConvertCommand(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	var rec *record.Record
	switch convertFrom {
	case "json":
		rec, err = record.FromJSON(nil, data)
	case "yaml":
		rec, err = record.FromYAML(nil, data)
	default:
		return fmt.Errorf("unknown input format %q", convertFrom)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", convertFrom, err)
	}

	var opts []record.ProjectOption
	switch convertSort {
	case "":
	case "asc":
		opts = append(opts, record.SortAscending())
	case "desc":
		opts = append(opts, record.SortDescending())
	default:
		return fmt.Errorf("unknown sort order %q", convertSort)
	}

	var out []byte
	switch convertTo {
	case "json":
		out, err = rec.ToJSON(opts...)
	case "yaml":
		out, err = rec.ToYAML(opts...)
	default:
		return fmt.Errorf("unknown output format %q", convertTo)
	}
	if err != nil {
		return fmt.Errorf("serialize %s: %w", convertTo, err)
	}

	fmt.Println(string(out))
	return nil
}
