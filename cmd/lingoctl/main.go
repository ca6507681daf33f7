// Command lingoctl evaluates a condition-lingo document against a
// context file from the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/nucypher/condition-lingo-go/internal/config"
	"github.com/nucypher/condition-lingo-go/pkg/lingo"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/condition"
	lctx "github.com/nucypher/condition-lingo-go/pkg/lingo/context"
	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
)

func main() {
	lingoPath := flag.String("lingo", "", "path to a condition-lingo JSON document")
	ctxPath := flag.String("context", "", "path to a JSON object of context-variable bindings")
	flag.Parse()

	if *lingoPath == "" {
		fmt.Fprintln(os.Stderr, "usage: lingoctl -lingo <file> [-context <file>]")
		os.Exit(2)
	}

	result, err := run(*lingoPath, *ctxPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

type output struct {
	Satisfied bool          `json:"satisfied"`
	Values    []interface{} `json:"values,omitempty"`
}

func run(lingoPath, ctxPath string) (output, error) {
	lingoBytes, err := os.ReadFile(lingoPath)
	if err != nil {
		return output{}, fmt.Errorf("reading lingo file: %w", err)
	}

	evalCtx := lctx.Context{}
	if ctxPath != "" {
		ctxBytes, err := os.ReadFile(ctxPath)
		if err != nil {
			return output{}, fmt.Errorf("reading context file: %w", err)
		}
		if err := json.Unmarshal(ctxBytes, &evalCtx); err != nil {
			return output{}, fmt.Errorf("decoding context file: %w", err)
		}
	}

	doc, err := lingo.Decode(lingoBytes)
	if err != nil {
		return output{}, fmt.Errorf("decoding lingo document: %w", err)
	}

	cfg := config.Load()
	chains := make(map[int64][]string, len(cfg.Blockchain.Chains))
	for _, c := range cfg.Blockchain.Chains {
		chains[c.ChainID] = c.Endpoints
	}
	mgr := providers.NewManager(chains)
	defer mgr.Close()

	result, err := doc.Evaluate(context.Background(), mgr, evalCtx, condition.EvalOptions{})
	if err != nil {
		return output{}, err
	}

	values := make([]interface{}, len(result.Values))
	for i, v := range result.Values {
		values[i] = v.ToGo()
	}
	return output{Satisfied: result.Satisfied, Values: values}, nil
}
