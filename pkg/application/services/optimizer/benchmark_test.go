package optimizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/vsinha/factorysim/pkg/application/services/generator"
	"github.com/vsinha/factorysim/pkg/domain/simulation"
	testhelpers "github.com/vsinha/factorysim/pkg/infrastructure/testing"
)

// generatedInstance builds a plant with products nested depth levels deep
func generatedInstance(b *testing.B, depth, orders int) *simulation.Instance {
	b.Helper()
	config := generator.DefaultConfig()
	config.MaxDepth = depth
	config.Products = depth * 2
	config.Orders = orders
	g, err := generator.New(config)
	if err != nil {
		b.Fatalf("generator config rejected: %v", err)
	}
	inst, err := g.Generate()
	if err != nil {
		b.Fatalf("Generate failed: %v", err)
	}
	return inst
}

func benchmarkStrategy(b *testing.B, kind string, inst *simulation.Instance, trials int) {
	ctx := context.Background()
	opt, err := New(kind, inst, Options{Seed: 1, Workers: 1})
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := opt.Optimize(ctx, trials); err != nil {
			b.Fatalf("Optimize failed: %v", err)
		}
	}
}

func BenchmarkGreedy_Assembly(b *testing.B) {
	benchmarkStrategy(b, Greedy, testhelpers.BuildAssemblyInstance(), 1)
}

func BenchmarkExhaustive_Assembly(b *testing.B) {
	benchmarkStrategy(b, Exhaustive, testhelpers.BuildAssemblyInstance(), 20)
}

func BenchmarkExhaustive_DeepPlant(b *testing.B) {
	for _, depth := range []int{2, 4, 6} {
		b.Run(fmt.Sprintf("depth_%d", depth), func(b *testing.B) {
			benchmarkStrategy(b, Exhaustive, generatedInstance(b, depth, 6), 10)
		})
	}
}
