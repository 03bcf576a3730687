// Package main - report format registrations.
//
// Blank-import each format package to trigger its init() function,
// which registers the report type with the format registry.
//
// To add a new format, add a blank import here:
//
//	_ "github.com/PiotrMackowski/itemreport/internal/report/markdown"
package main

import (
	// Register all supported report formats.
	_ "github.com/PiotrMackowski/itemreport/internal/report/csv"
	_ "github.com/PiotrMackowski/itemreport/internal/report/html"
)
