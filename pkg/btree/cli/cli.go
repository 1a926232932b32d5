// Package cli implements the interactive shell behind cmd/btreemap.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/tdhoang91/go-btreemap/pkg/btree"
)

type Cli struct {
	scanner *bufio.Scanner
	tree    *btree.Tree
}

func New(s *bufio.Scanner, t *btree.Tree) *Cli {
	return &Cli{scanner: s, tree: t}
}

func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		c.processInput(c.scanner.Text())
		c.printPrompt()
	}
}

func (c *Cli) printHelp() {
	fmt.Println(`
B+tree CLI

Available Commands:
  SET <key> <val>  Insert a key-value pair into the tree
  DEL <key>        Remove a key-value pair from the tree
  GET <key>        Retrieve the value for key from the tree
  SCAN [key]       List records in order, optionally from key
  TREE             Dump the page structure
  STATS            Show record count and emptiness
  CHECK            Run the structural validator
  CLEAR            Remove all records
  EXIT             Terminate this session
`)
}

func (c *Cli) printPrompt() {
	fmt.Print("> ")
}

func (c *Cli) processInput(line string) {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		fmt.Printf("Unknown command %q\n", command)
	case "set":
		c.processSetCommand(fields[1:])
	case "del":
		c.processDeleteCommand(fields[1:])
	case "get":
		c.processGetCommand(fields[1:])
	case "scan":
		c.processScanCommand(fields[1:])
	case "tree":
		c.dumpTree()
	case "stats":
		c.printStats()
	case "check":
		c.runValidator()
	case "clear":
		c.tree.Clear()
	case "exit":
		os.Exit(0)
	}
}

func (c *Cli) processSetCommand(args []string) {
	if len(args) != 2 {
		fmt.Println("Usage: SET <key> <value>")
		return
	}
	if err := c.tree.Insert([]byte(args[0]), []byte(args[1])); err != nil {
		color.Red("%v", err)
		return
	}
	c.dumpTree()
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: DEL <key>")
		return
	}
	if !c.tree.Erase([]byte(args[0])) {
		fmt.Println("Key not found.")
		return
	}
	c.dumpTree()
}

func (c *Cli) processGetCommand(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: GET <key>")
		return
	}
	it := c.tree.LowerBound([]byte(args[0]))
	if it.IsEnd() || string(it.Key()) != args[0] {
		fmt.Println("Key not found.")
		return
	}
	fmt.Println(string(it.Value()))
}

func (c *Cli) processScanCommand(args []string) {
	var it btree.ItemIterator
	if len(args) == 1 {
		it = c.tree.LowerBound([]byte(args[0]))
	} else {
		it = c.tree.BeginItem()
	}
	for ; !it.IsEnd(); it.Next() {
		fmt.Printf("%s = %s\n", it.Key(), it.Value())
	}
}

var levelColors = []*color.Color{
	color.New(color.FgCyan),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgMagenta),
	color.New(color.FgRed),
}

func (c *Cli) dumpTree() {
	c.tree.Walk(func(p *btree.Page, depth int) {
		col := levelColors[depth%len(levelColors)]
		indent := strings.Repeat("  ", depth)
		if p.IsLeaf() {
			col.Printf("%s%s records=%d\n", indent, p, p.NumRecords())
			return
		}
		col.Printf("%s%s children=%d\n", indent, p, p.NumRecords())
	})
}

func (c *Cli) printStats() {
	fmt.Printf("records=%d empty=%v\n", c.tree.Size(), c.tree.Empty())
}

func (c *Cli) runValidator() {
	if c.tree.IsValid() {
		color.Green("tree is valid")
	} else {
		color.Red("tree is INVALID")
	}
}
