// btshell is a small interactive shell around a btreemap.Map[string,string],
// for poking at the tree and watching its structure evolve.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/btreemap"
	"github.com/peterh/liner"
)

const help = `commands:
  set <key> <value>   insert or replace a pair
  get <key>           look a key up
  del <key>           delete a pair
  has <key>           test for a key
  list                all pairs in ascending key order
  rlist               all pairs in descending key order
  dump                print the node structure of the tree
  len                 number of pairs
  clear               remove all pairs
  exit                leave the shell`

func main() {
	degree := btreemap.Degree(6)
	if len(os.Args) > 1 {
		b, err := strconv.Atoi(os.Args[1])
		if err != nil || b < 2 {
			fmt.Fprintln(os.Stderr, "usage: btshell [degree >= 2]")
			os.Exit(1)
		}
		degree = btreemap.Degree(b)
	}
	m := btreemap.New[string, string](degree)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(os.TempDir(), ".btshell_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println("btshell — type 'help' for commands")
	for {
		input, err := line.Prompt("btshell> ")
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == "exit" || input == "quit" {
			return
		}
		eval(m, input)
	}
}

func eval(m *btreemap.Map[string, string], input string) {
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		fmt.Println(help)
	case "set":
		if len(args) < 2 {
			fmt.Println("set needs a key and a value")
			return
		}
		if prev, replaced := m.Insert(args[0], strings.Join(args[1:], " ")); replaced {
			fmt.Printf("replaced %q\n", prev)
		} else {
			fmt.Println("ok")
		}
	case "get":
		if len(args) != 1 {
			fmt.Println("get needs a key")
			return
		}
		if value, found := m.Find(args[0]); found {
			fmt.Printf("%q\n", value)
		} else {
			fmt.Println("(absent)")
		}
	case "del":
		if len(args) != 1 {
			fmt.Println("del needs a key")
			return
		}
		if value, removed := m.Delete(args[0]); removed {
			fmt.Printf("removed %q\n", value)
		} else {
			fmt.Println("(absent)")
		}
	case "has":
		if len(args) != 1 {
			fmt.Println("has needs a key")
			return
		}
		fmt.Println(m.Contains(args[0]))
	case "list":
		it := m.Iter()
		for key, value, ok := it.Next(); ok; key, value, ok = it.Next() {
			fmt.Printf("%s = %q\n", key, value)
		}
	case "rlist":
		it := m.Iter()
		for key, value, ok := it.NextBack(); ok; key, value, ok = it.NextBack() {
			fmt.Printf("%s = %q\n", key, value)
		}
	case "dump":
		fmt.Println(m.Dump())
	case "len":
		fmt.Println(m.Len())
	case "clear":
		m.Clear()
		fmt.Println("ok")
	default:
		fmt.Printf("unknown command %q — type 'help'\n", cmd)
	}
}
