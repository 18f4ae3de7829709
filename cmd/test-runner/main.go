// Package main - test-runner
// Executable to run the headless shadow-mode scenarios.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MViana87/LaCasaOscura/server/test"
)

func main() {
	fmt.Println("LA CASA OSCURA - SHADOW MODE TEST SUITE")
	fmt.Println("=======================================")

	harness := test.NewShadowModeTest()
	harness.RunAll(context.Background())

	results := harness.GetResults()
	passed := 0
	failed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   Passed: %d\n", passed)
	fmt.Printf("   Failed: %d\n", failed)

	if failed > 0 {
		fmt.Println("\nThe house is not ready.")
		os.Exit(1)
	}
	fmt.Println("\nThe house is ready for visitors.")
}
