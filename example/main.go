package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vsinha/factorysim/pkg/application/services/generator"
	"github.com/vsinha/factorysim/pkg/application/services/optimizer"
	"github.com/vsinha/factorysim/pkg/application/services/planning"
	"github.com/vsinha/factorysim/pkg/infrastructure/events"
)

func main() {
	ctx := context.Background()

	// Generate a small bicycle-sized plant
	config := generator.DefaultConfig()
	config.Name = "example-plant"
	config.Products = 6
	config.Orders = 5
	config.Seed = 7

	g, err := generator.New(config)
	if err != nil {
		fmt.Printf("generator config rejected: %v\n", err)
		os.Exit(1)
	}
	inst, err := g.Generate()
	if err != nil {
		fmt.Printf("generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scheduling %d orders on %s\n", len(inst.Orders()), inst.Factory().Name())
	for _, o := range inst.Orders() {
		fmt.Printf("  %s: %s for %s\n", o.OrderNr(), o.Position(), o.Income().StringFixed(2))
	}
	fmt.Println()

	// Completed steps of the winning schedule go to stdout
	console, err := events.NewConsoleSink(os.Stdout, events.FormatText)
	if err != nil {
		fmt.Printf("console sink: %v\n", err)
		os.Exit(1)
	}

	comparison, err := optimizer.Compare(ctx, inst, optimizer.Options{
		Seed:     42,
		Planning: planning.Options{CondenseSupplies: true},
		Sink:     console,
	}, 200)
	if err != nil {
		fmt.Printf("comparison failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Greedy:     income %s, done at %d\n", comparison.Greedy.Income.StringFixed(2), comparison.Greedy.CompletionTime)
	fmt.Printf("Exhaustive: income %s, done at %d (trial %d of %d)\n",
		comparison.Exhaustive.Income.StringFixed(2), comparison.Exhaustive.CompletionTime,
		comparison.Exhaustive.TrialIndex, comparison.Exhaustive.Trials)
	fmt.Printf("Gap:        %s\n", comparison.IncomeGap().StringFixed(2))
}
