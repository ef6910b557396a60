// Copyright (C) 2025 Louis Goodnews
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/louisgoodnews/baseobject/pkg/logging"
	"github.com/louisgoodnews/baseobject/pkg/record"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	demoJSONLogs bool // Emit log lines as JSON
	demoNoColor  bool // Disable ANSI colors
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// demoCmd walks through the container library end to end: the log level
// tour, mutable record mutation, frozen rejection, the lock table, and the
// builder.
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through records, frozen instances, locks, and the builder",
	Long: `Runs a guided tour of the container library:

  - all six log levels
  - mutable record construction and mutation
  - frozen instance write rejection
  - explicit lock and unlock
  - deep cloning
  - the builder`,
	RunE: runDemoCommand,
}

func init() {
	demoCmd.Flags().BoolVar(&demoJSONLogs, "json-logs", false,
		"Emit log lines as JSON")
	demoCmd.Flags().BoolVar(&demoNoColor, "no-color", false,
		"Disable ANSI colors in log output")
	rootCmd.AddCommand(demoCmd)
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runDemoCommand(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:   logging.LevelSilent,
		Name:    "demo",
		JSON:    demoJSONLogs,
		NoColor: demoNoColor,
		Output:  os.Stdout,
	})

	// Level tour.
	logger.Critical("this is a critical message")
	logger.Debug("this is a debug message")
	logger.Error("this is an error message")
	logger.Info("this is an info message")
	logger.Silent("this is a silent message")
	logger.Warning("this is a warning message")

	// Mutable record: construct against a schema, then mutate freely.
	personSchema := record.NewSchema("Person").
		Field("id", record.String).
		Field("name", record.String).
		Field("age", record.Int)

	person, err := record.New(personSchema,
		record.F("id", uuid.NewString()),
		record.F("name", "John Doe"),
		record.F("age", 30),
	)
	if err != nil {
		return fmt.Errorf("construct person: %w", err)
	}
	logger.Info("mutable record constructed", "record", person.String())

	person.Set("age", 31)
	logger.Info("mutable record after birthday", "age", person.Get("age"))

	// Frozen instance: ad-hoc construction, every supplied field locked.
	frozen, err := record.NewFrozen(nil,
		record.F("id", uuid.NewString()),
		record.F("name", "Jane Doe"),
		record.F("age", 25),
	)
	if err != nil {
		return fmt.Errorf("construct frozen person: %w", err)
	}
	logger.Info("frozen record constructed", "record", frozen.String())

	if err := frozen.Set("age", 26); err != nil {
		logger.Warning("write to locked field rejected", "error", err)
	}

	// Unlock, mutate, relock.
	if err := frozen.Unlock("age"); err != nil {
		return fmt.Errorf("unlock age: %w", err)
	}
	if err := frozen.Set("age", 26); err != nil {
		return fmt.Errorf("set unlocked age: %w", err)
	}
	if err := frozen.Lock("age"); err != nil {
		return fmt.Errorf("relock age: %w", err)
	}
	logger.Info("age updated through unlock/lock", "age", frozen.Get("age"))

	// Lock a brand-new field with a value in one step.
	if err := frozen.Lock("nickname", record.AllowNew(), record.WithValue("JD")); err != nil {
		return fmt.Errorf("lock new field: %w", err)
	}
	logger.Info("new locked field added", "nickname", frozen.Get("nickname"))

	// Deep clone: the thawed clone mutates independently.
	thawed, err := frozen.Thaw()
	if err != nil {
		return fmt.Errorf("thaw: %w", err)
	}
	thawed.Set("age", 99)
	logger.Info("thawed clone mutated independently",
		"clone_age", thawed.Get("age"), "original_age", frozen.Get("age"))

	// Builder: accumulate configuration, then materialize.
	built, err := record.NewBuilder().
		Set("id", uuid.NewString()).
		Set("name", "Built Person").
		Set("age", 40).
		Build(personSchema)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	logger.Info("record built from configuration", "record", built.String())

	// Ordered JSON projection.
	data, err := person.ToJSON()
	if err != nil {
		return fmt.Errorf("serialize person: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
