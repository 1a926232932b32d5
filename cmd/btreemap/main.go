package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/go-faker/faker/v4"
	"go.uber.org/zap"

	"github.com/tdhoang91/go-btreemap/pkg/btree"
	"github.com/tdhoang91/go-btreemap/pkg/btree/cli"
)

var shouldSeed *bool
var seedNumRecords *int

func seedTreeWithTestRecords(t *btree.Tree) {
	for i := 0; i < *seedNumRecords; i++ {
		k := []byte(faker.Word() + faker.Word())
		v := []byte(faker.Word())
		_ = t.Insert(k, v)
	}
}

func main() {
	setupFlags()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	tree := btree.New(btree.CompareBytes, btree.WithLogger(logger))

	if *shouldSeed {
		seedTreeWithTestRecords(tree)
	}

	scanner := bufio.NewScanner(os.Stdin)
	demo := cli.New(scanner, tree)
	demo.Start()
}

func setupFlags() {
	shouldSeed = flag.Bool("seed", false, "Seed the tree using records created with go-faker.")
	seedNumRecords = flag.Int("records", 1000, "Amount of records to seed the tree with upon startup.")
	flag.Usage = func() {
		fmt.Println("\nB+tree CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
